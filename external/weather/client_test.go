package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/external/provider"
)

func TestFetchByLocation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("q") != "London" || query.Get("appid") != "key" || query.Get("units") != "metric" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"main":{"temp":11.5,"humidity":80},"weather":[{"description":"light rain"}],"wind":{"speed":4.1}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "key", Timeout: time.Second})
	got, err := client.FetchByLocation(context.Background(), " London ")
	if err != nil {
		t.Fatalf("fetch weather: %v", err)
	}
	if !got.Available || got.TemperatureC != 11.5 || got.Description != "light rain" || got.WindSpeedMS != 4.1 || got.HumidityPct != 80 {
		t.Fatalf("unexpected weather: %+v", got)
	}
}

func TestFetchByLocation_ErrorKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "city not found", status: http.StatusNotFound, body: `{"cod":"404","message":"city not found"}`, want: provider.ErrNotFound},
		{name: "missing main", status: http.StatusOK, body: `{"weather":[{"description":"clear"}]}`, want: provider.ErrMalformed},
		{name: "missing description", status: http.StatusOK, body: `{"main":{"temp":1},"weather":[]}`, want: provider.ErrMalformed},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"cod":401}`, want: provider.ErrUnavailable},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "key"})
			if _, err := client.FetchByLocation(context.Background(), "Nowhere"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFetchByLocation_EmptyLocation(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{APIKey: "key"})
	if _, err := client.FetchByLocation(context.Background(), "  "); !errors.Is(err, provider.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchByLocation_CancelledCallerDoesNotFailSharedCall(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		once.Do(func() { close(arrived) })
		<-release
		_, _ = w.Write([]byte(`{"main":{"temp":11.5,"humidity":80},"weather":[{"description":"light rain"}],"wind":{"speed":4.1}}`))
	}))
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "key", Timeout: 2 * time.Second})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.FetchByLocation(firstCtx, "London")
		firstErr <- err
	}()
	<-arrived

	secondDone := make(chan struct{})
	var secondErr error
	var secondTemp float64
	go func() {
		defer close(secondDone)
		got, err := client.FetchByLocation(context.Background(), "london")
		secondErr = err
		secondTemp = got.TemperatureC
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	err := <-firstErr
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to see context.Canceled, got %v", err)
	}
	var fetchErr *provider.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *provider.FetchError, got %T", err)
	}
	close(release)
	<-secondDone

	if secondErr != nil || secondTemp != 11.5 {
		t.Fatalf("expected second caller to get the shared result, got temp=%v err=%v", secondTemp, secondErr)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one upstream request, got %d", got)
	}
}
