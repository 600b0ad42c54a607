package app

import "sync/atomic"

// Latest is a single-slot mailbox. Store overwrites whatever is pending and
// Take empties the slot, so a slow reader only ever sees the newest value.
type Latest[T any] struct {
	p atomic.Pointer[T]
}

// Store publishes v, replacing any value not yet taken.
func (l *Latest[T]) Store(v T) {
	l.p.Store(&v)
}

// Take returns the pending value and clears the slot. ok is false when
// nothing arrived since the last Take.
func (l *Latest[T]) Take() (v T, ok bool) {
	p := l.p.Swap(nil)
	if p == nil {
		return v, false
	}
	return *p, true
}
