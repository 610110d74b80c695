package sync

import (
	base "sync"
)

const (
	ringReplicasPerStripe = 200
)

// StripedLock maps an unbounded key space, such as mint addresses, onto a
// fixed number of mutexes. Two keys may share a mutex, but a key always maps
// to the same one.
type StripedLock struct {
	locks []base.Mutex
	ring  *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		locks: make([]base.Mutex, stripes),
		ring:  newRing(stripes, ringReplicasPerStripe),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.Mutex {
	return &l.locks[l.ring.stripe(key)]
}

// Lock acquires the lock for key and returns its release func
func (l *StripedLock) Lock(key []byte) func() {
	mu := l.Get(key)
	mu.Lock()
	return mu.Unlock
}
