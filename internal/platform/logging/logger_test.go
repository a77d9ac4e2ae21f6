package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewJSON_WritesStaticAndPairFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSON(LevelInfo, Options{Output: &buf, ServiceName: "match-predictor-api", Environment: "dev"})

	logger.With("match_id", "12345").InfoContext(context.Background(), "prediction stored", "error", errors.New("boom"))
	logger.Debug("filtered out")

	out := buf.String()
	for _, want := range []string{`"service":"match-predictor-api"`, `"env":"dev"`, `"match_id":"12345"`, `"error":"boom"`, `"msg":"prediction stored"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
	if strings.Contains(out, "filtered out") {
		t.Fatalf("expected debug line to be dropped at info level")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q): expected %s, got %s", raw, want, got)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil logger from nil receiver")
	}
}
