// Package inflight enforces at-most-one in-flight mutation per record
// identity. Two submissions racing on the same record key are never silently
// interleaved: the second is rejected with ErrMutationInFlight and the caller
// surfaces a "request in progress" signal.
package inflight

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrMutationInFlight is returned when a mutation is already running for the
// requested record key.
var ErrMutationInFlight = errors.New("a request for this record is already in progress")

// Guard tracks live mutations by record key.
type Guard struct {
	mu   sync.Mutex
	live map[string]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{live: make(map[string]struct{})}
}

// Acquire claims the key for the duration of a mutation. The returned release
// function must be called exactly once, typically via defer. A second Acquire
// for a live key fails with ErrMutationInFlight.
func (g *Guard) Acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.live[key]; busy {
		return nil, ErrMutationInFlight
	}
	g.live[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.live, key)
			g.mu.Unlock()
		})
	}
	return release, nil
}

// Busy reports whether a mutation is live for the key.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.live[key]
	return busy
}
