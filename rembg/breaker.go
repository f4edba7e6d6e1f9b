package rembg

import "sync"

// Breaker is the session-scoped availability flag for the removal service.
// Exactly two states: closed (available) and open (unavailable). It trips on
// connection-level failures and resets only on an explicit successful health
// probe, never on a timer.
type Breaker struct {
	mu   sync.Mutex
	open bool
}

func NewBreaker() *Breaker {
	return &Breaker{}
}

// Available reports whether calls should be attempted.
func (b *Breaker) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.open
}

// Trip marks the service unavailable for the rest of the session.
func (b *Breaker) Trip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
}

// Reset marks the service available again after a successful probe.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
}
