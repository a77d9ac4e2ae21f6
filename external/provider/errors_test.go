package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

func TestFetchError_MatchesKindAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("fetch match: %w", NewFetchError("soccer_api", "match_info", ErrUnavailable, cause))

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Op != "match_info" {
		t.Fatalf("expected FetchError with op, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "deadline", err: fmt.Errorf("send: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "breaker", err: resilience.ErrCircuitOpen, want: ErrUnavailable},
		{name: "already kinded", err: fmt.Errorf("x: %w", ErrMalformed), want: ErrMalformed},
		{name: "other", err: errors.New("boom"), want: ErrUnavailable},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
	if Classify(nil) != nil {
		t.Fatalf("expected nil kind for nil error")
	}
}

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	if KindForStatus(http.StatusNotFound) != ErrNotFound {
		t.Fatalf("expected 404 to map to ErrNotFound")
	}
	if KindForStatus(http.StatusGatewayTimeout) != ErrTimeout {
		t.Fatalf("expected 504 to map to ErrTimeout")
	}
	if KindForStatus(http.StatusBadGateway) != ErrUnavailable {
		t.Fatalf("expected 502 to map to ErrUnavailable")
	}
	if KindName(NewFetchError("weather", "location", ErrTimeout, nil)) != "timeout" {
		t.Fatalf("expected timeout kind name")
	}
}
