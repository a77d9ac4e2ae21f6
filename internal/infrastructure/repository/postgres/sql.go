package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

const pgUniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// storeError tags err with the store sentinel it corresponds to, keeping the
// original error in the chain.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, prediction.ErrConstraintViolation, err)
	case isConnectionError(err):
		return fmt.Errorf("%s: %w: %w", op, prediction.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 is connection exception, 57P0x is operator intervention.
		code := string(pqErr.Code)
		return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P0")
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
