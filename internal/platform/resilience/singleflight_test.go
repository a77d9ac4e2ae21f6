package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[[]byte]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			raw, err, _ := g.Do(context.Background(), "/competition/1?token=x", func(context.Context) ([]byte, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte("ok"), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if string(raw) != "ok" {
				t.Errorf("expected ok, got %q", raw)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight[int]

	_, err, _ := g.Do(context.Background(), "k", func(context.Context) (int, error) {
		panic("boom")
	})

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %v", err)
	}

	v, err, _ := g.Do(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("expected key to be reusable after panic, got v=%d err=%v", v, err)
	}
}

func TestSingleFlight_CancelledLeaderDoesNotFailWaiters(t *testing.T) {
	var g SingleFlight[string]
	started := make(chan struct{})
	release := make(chan struct{})

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do(leaderCtx, "k", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "value", ctx.Err()
		})
		leaderErr <- err
	}()
	<-started

	waiterDone := make(chan struct{})
	var waiterVal string
	var waiterErr error
	go func() {
		defer close(waiterDone)
		waiterVal, waiterErr, _ = g.Do(context.Background(), "k", func(context.Context) (string, error) {
			return "", errors.New("waiter must join the in-flight call")
		})
	}()

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled leader to get context.Canceled, got %v", err)
	}

	waitForJoin(t, &g, "k")
	close(release)
	<-waiterDone
	if waiterErr != nil || waiterVal != "value" {
		t.Fatalf("expected waiter to get value, got v=%q err=%v", waiterVal, waiterErr)
	}
}

func waitForJoin[T any](t *testing.T, g *SingleFlight[T], key string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		c, ok := g.calls[key]
		joined := ok && c.dups > 0
		g.mu.Unlock()
		if joined {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no caller joined %q in time", key)
}
