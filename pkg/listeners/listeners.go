// Package listeners provides a concurrency-safe set of callbacks.
package listeners

import "sync"

// Set holds callbacks receiving values of type T. The zero value is ready
// to use. Callbacks are invoked outside the set's lock, so they may add or
// remove listeners.
type Set[T any] struct {
	mu   sync.RWMutex
	next int
	fns  map[int]func(T)
}

// Add registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *Set[T]) Add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// Len returns the number of registered callbacks.
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fns)
}

// Notify calls every registered callback with v. Callbacks run on the
// caller's goroutine in no particular order.
func (s *Set[T]) Notify(v T) {
	s.mu.RLock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}
