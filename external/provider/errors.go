package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

// Error kinds shared by every provider client. Match with errors.Is.
var (
	ErrTimeout     = errors.New("provider timeout")
	ErrNotFound    = errors.New("provider resource not found")
	ErrMalformed   = errors.New("provider response malformed")
	ErrUnavailable = errors.New("provider unavailable")
)

// FetchError is returned by provider clients for every failed call.
type FetchError struct {
	Provider string
	Op       string
	Kind     error
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewFetchError(providerName, op string, kind, err error) *FetchError {
	if kind == nil {
		kind = Classify(err)
	}
	return &FetchError{Provider: providerName, Op: op, Kind: kind, Err: err}
}

// Classify picks the error kind for a transport-level failure.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformed), errors.Is(err, ErrUnavailable):
		return KindOf(err)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, resilience.ErrCircuitOpen):
		return ErrUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}

// KindForStatus maps a non-2xx HTTP status to an error kind.
func KindForStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrUnavailable
	}
}

// KindOf returns the kind carried by err, or nil when err is not a provider failure.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrTimeout, ErrMalformed, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is a short label for logs and metrics.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "not_found"
	case ErrTimeout:
		return "timeout"
	case ErrMalformed:
		return "malformed"
	case ErrUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
