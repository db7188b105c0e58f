// Package loading provides a reference-counted busy indicator for scoped
// operations.
package loading

import (
	"context"
	"sync"
	"time"

	"github.com/colonyops/consolestate/pkg/listeners"
)

// DefaultErrorMessage is reported by RunReporting when neither a fallback
// message nor the error itself provide any text.
const DefaultErrorMessage = "An error occurred"

// Reporter surfaces a failure to the user. notify.Queue satisfies it.
type Reporter interface {
	Error(msg string, ttl ...time.Duration) string
}

// Gate counts active scoped operations. Loading is true while at least
// one is running. The count never goes below zero.
type Gate struct {
	mu        sync.Mutex
	active    int
	listeners listeners.Set[bool]
}

// NewGate returns an idle gate.
func NewGate() *Gate {
	return &Gate{}
}

// Acquire increments the active count and returns a release function that
// decrements it exactly once, no matter how many times it is called.
func (g *Gate) Acquire() func() {
	g.Set(true)
	var once sync.Once
	return func() {
		once.Do(func() { g.Set(false) })
	}
}

// Set increments the active count when on is true and decrements it,
// clamped at zero, when on is false.
func (g *Gate) Set(on bool) {
	g.mu.Lock()
	was := g.active > 0
	if on {
		g.active++
	} else if g.active > 0 {
		g.active--
	}
	now := g.active > 0
	g.mu.Unlock()

	if was != now {
		g.publish(now)
	}
}

// Reset forces the gate idle. Releases from operations still running are
// absorbed by the zero clamp.
func (g *Gate) Reset() {
	g.mu.Lock()
	was := g.active > 0
	g.active = 0
	g.mu.Unlock()

	if was {
		g.publish(false)
	}
}

// Loading reports whether any operation is active.
func (g *Gate) Loading() bool {
	return g.Active() > 0
}

// Active returns the number of active operations.
func (g *Gate) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Subscribe registers fn to be called when Loading flips. The returned
// function removes the subscription.
func (g *Gate) Subscribe(fn func(bool)) func() {
	return g.listeners.Add(fn)
}

func (g *Gate) publish(loading bool) {
	g.listeners.Notify(loading)
}

// Run holds the gate for the duration of op and returns op's result
// unchanged. The gate is released even if op panics.
func Run[T any](ctx context.Context, g *Gate, op func(context.Context) (T, error)) (T, error) {
	release := g.Acquire()
	defer release()
	return op(ctx)
}

// RunReporting holds the gate for the duration of op. On failure it reports
// an error through r and returns false instead of the error. The reported
// text is fallback when set, otherwise the error's own message, otherwise
// DefaultErrorMessage.
func RunReporting[T any](ctx context.Context, g *Gate, r Reporter, op func(context.Context) (T, error), fallback string) (T, bool) {
	release := g.Acquire()
	defer release()

	v, err := op(ctx)
	if err != nil {
		msg := fallback
		if msg == "" {
			msg = err.Error()
		}
		if msg == "" {
			msg = DefaultErrorMessage
		}
		if r != nil {
			r.Error(msg)
		}
		var zero T
		return zero, false
	}
	return v, true
}
