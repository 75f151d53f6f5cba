package service

import "sync"

// TripLocks serializes check-then-act sequences per trip. The document
// store offers no multi-document transactions, so reservation creation,
// accept-with-merge and the archive cascade each hold the trip's lock
// for the whole load-check-write sequence.
type TripLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTripLocks returns an empty lock registry. One registry must be
// shared by every service that mutates reservations or trips.
func NewTripLocks() *TripLocks {
	return &TripLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for tripID and returns its unlock function.
func (l *TripLocks) Lock(tripID string) func() {
	l.mu.Lock()
	m, ok := l.locks[tripID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tripID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
