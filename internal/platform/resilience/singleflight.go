package resilience

import (
	"context"
	"sync"
)

// SingleFlight collapses concurrent calls that share a key into one execution.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done chan struct{}
	val  T
	err  error
	dups int
}

// Do runs fn once per in-flight key. fn runs on its own goroutine under a
// context that keeps ctx values but not its cancellation, so a caller that
// gives up returns ctx.Err() alone while the others still get the result.
// fn must bound itself, usually through the HTTP client timeout. shared
// reports whether the call was joined by more than one caller.
func (g *SingleFlight[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}

	c, joined := g.calls[key]
	if joined {
		c.dups++
	} else {
		c = &flightCall[T]{done: make(chan struct{})}
		g.calls[key] = c
		go g.run(context.WithoutCancel(ctx), key, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
		g.mu.Lock()
		shared = c.dups > 0
		g.mu.Unlock()
		return c.val, c.err, shared
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err(), joined
	}
}

func (g *SingleFlight[T]) run(ctx context.Context, key string, c *flightCall[T], fn func(context.Context) (T, error)) {
	defer func() {
		if rec := recover(); rec != nil {
			c.err = &PanicError{Value: rec}
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = fn(ctx)
}

// PanicError carries a recovered panic from a collapsed call to every waiter.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "singleflight: call panicked"
}
