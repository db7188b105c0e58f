// Package cache provides single-value cache slots that de-duplicate
// concurrent fetches and serve the last loaded value until forced or
// invalidated.
package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/consolestate/pkg/listeners"
)

// Fetcher loads a fresh value. force is passed through from Read so
// backends that have their own caching can bypass it.
type Fetcher[T any] func(ctx context.Context, force bool) (T, error)

// State is the lifecycle state of a slot.
type State int

const (
	StateEmpty State = iota
	StateFetching
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// Outcome describes how a Read was served.
type Outcome string

const (
	// OutcomeHit means the cached value was returned without a fetch.
	OutcomeHit Outcome = "hit"
	// OutcomeDedup means a fetch was already in flight and nothing was returned.
	OutcomeDedup Outcome = "dedup"
	// OutcomeFetched means a fetch ran and its value was stored.
	OutcomeFetched Outcome = "fetched"
	// OutcomeFailed means a fetch ran and failed.
	OutcomeFailed Outcome = "failed"
)

// Observer is notified of every Read outcome.
type Observer interface {
	ObserveRead(slot string, outcome Outcome)
}

// Option configures a Slot.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	observer Observer
}

// WithLogger sets the logger used to report fetch failures.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver sets the observer notified of Read outcomes.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Slot holds one externally fetched value.
//
// Reads of a loaded slot return the cached value. While a fetch is in
// flight every other Read returns immediately with ok=false rather than
// waiting or issuing a second fetch. A failed fetch keeps the previously
// stored value and loaded flag.
type Slot[T any] struct {
	name  string
	fetch Fetcher[T]
	opts  options

	mu       sync.Mutex
	value    T
	loaded   bool
	inFlight bool

	listeners listeners.Set[Entry[T]]
}

// Entry is a point-in-time copy of a slot.
type Entry[T any] struct {
	Value    T
	Loaded   bool
	InFlight bool
}

// State derives the lifecycle state of the entry.
func (e Entry[T]) State() State {
	switch {
	case e.InFlight:
		return StateFetching
	case e.Loaded:
		return StateLoaded
	default:
		return StateEmpty
	}
}

// NewSlot creates an empty slot whose Value is initial until the first
// successful fetch.
func NewSlot[T any](name string, initial T, fetch Fetcher[T], opts ...Option) *Slot[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Slot[T]{
		name:  name,
		fetch: fetch,
		opts:  o,
		value: initial,
	}
}

// Name returns the slot name used in logs and metrics.
func (s *Slot[T]) Name() string {
	return s.name
}

// Read returns the cached value when loaded and force is false. Otherwise
// it fetches, unless a fetch is already running. ok is false when nothing
// could be returned: a fetch was in flight or the fetch failed.
func (s *Slot[T]) Read(ctx context.Context, force bool) (T, bool) {
	v, outcome := s.ReadOutcome(ctx, force)
	return v, outcome == OutcomeHit || outcome == OutcomeFetched
}

// ReadOutcome is Read but reports how the call was served.
func (s *Slot[T]) ReadOutcome(ctx context.Context, force bool) (T, Outcome) {
	var zero T

	s.mu.Lock()
	if s.loaded && !force {
		v := s.value
		s.mu.Unlock()
		s.observe(OutcomeHit)
		return v, OutcomeHit
	}
	if s.inFlight {
		s.mu.Unlock()
		s.observe(OutcomeDedup)
		return zero, OutcomeDedup
	}
	s.inFlight = true
	s.publishLocked()

	settled := false
	defer func() {
		if settled {
			return
		}
		s.mu.Lock()
		s.inFlight = false
		s.publishLocked()
	}()

	v, err := s.fetch(ctx, force)
	if err != nil {
		s.opts.logger.Error().Ctx(ctx).Err(err).Str("slot", s.name).Bool("force", force).Msg("failed to fetch")
		s.observe(OutcomeFailed)
		return zero, OutcomeFailed
	}

	s.mu.Lock()
	s.value = v
	s.loaded = true
	s.inFlight = false
	settled = true
	s.publishLocked()

	s.observe(OutcomeFetched)
	return v, OutcomeFetched
}

// Invalidate clears the loaded flag so the next Read fetches. The last
// value stays visible through Value until overwritten.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.publishLocked()
}

// Amend replaces the stored value with fn(value) without touching the
// loaded flag.
func (s *Slot[T]) Amend(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.publishLocked()
}

// Value returns the last stored value, loaded or not.
func (s *Slot[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Loaded reports whether the next non-forced Read is served from cache.
func (s *Slot[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// InFlight reports whether a fetch is running.
func (s *Slot[T]) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Entry returns a consistent copy of the slot fields.
func (s *Slot[T]) Entry() Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryLocked()
}

// State returns the current lifecycle state. A forced refresh of a loaded
// slot reports StateFetching.
func (s *Slot[T]) State() State {
	return s.Entry().State()
}

// Subscribe registers fn to be called after every change to the slot:
// fetch start, store, failure, invalidation and amendment. The returned
// function removes the subscription.
func (s *Slot[T]) Subscribe(fn func(Entry[T])) func() {
	return s.listeners.Add(fn)
}

func (s *Slot[T]) entryLocked() Entry[T] {
	return Entry[T]{Value: s.value, Loaded: s.loaded, InFlight: s.inFlight}
}

// publishLocked releases s.mu and then calls subscribers with the entry
// captured under the lock.
func (s *Slot[T]) publishLocked() {
	e := s.entryLocked()
	s.mu.Unlock()

	s.listeners.Notify(e)
}

func (s *Slot[T]) observe(o Outcome) {
	if s.opts.observer != nil {
		s.opts.observer.ObserveRead(s.name, o)
	}
}
