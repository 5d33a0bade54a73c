// Package locked provides a mutex-guarded value behind a cheaply
// copyable handle.
package locked

import (
	"sync"
)

// state is the shared storage: one lock, one slot.
type state[T any] struct {
	mu    sync.Mutex
	value T
}

// Value wraps a single value of type T with a non-recursive mutex. The
// wrapper is a handle: copies share the same lock and storage, so it can
// be captured by closures and passed across goroutines without
// re-synchronizing ownership. The zero Value is not usable; construct
// with New.
//
// The lock must not be held across anything that blocks. Use it only
// for short, synchronous critical sections: read, increment, swap.
type Value[T any] struct {
	inner *state[T]
}

// New creates a Value holding initial.
func New[T any](initial T) Value[T] {
	return Value[T]{inner: &state[T]{value: initial}}
}

// WithLock acquires the lock, runs fn with exclusive mutable access to
// the stored value, and releases the lock on every exit path, panics
// included. There is no other access path to the protected value.
func (v Value[T]) WithLock(fn func(value *T)) {
	v.inner.mu.Lock()
	defer v.inner.mu.Unlock()
	fn(&v.inner.value)
}

// Get returns a copy of the stored value.
func (v Value[T]) Get() T {
	var out T
	v.WithLock(func(value *T) {
		out = *value
	})
	return out
}

// Set replaces the stored value.
func (v Value[T]) Set(newValue T) {
	v.WithLock(func(value *T) {
		*value = newValue
	})
}

// Swap replaces the stored value and returns the previous one.
func (v Value[T]) Swap(newValue T) T {
	var old T
	v.WithLock(func(value *T) {
		old = *value
		*value = newValue
	})
	return old
}
