// Package transfer implements the cross-screen parent-record handoff: a list
// or detail screen writes the selected job's snapshot under a named key
// immediately before navigating to a child-creation screen, and the child
// form reads it once on mount.
//
// Semantics are snapshot-not-live: a write fully replaces the stored value
// and a read returns an independent copy, never a reference that later
// parent edits could flow through. Writers must re-write the slot right
// before handing off, otherwise a stale snapshot from an earlier session can
// seed the next child form.
package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/cache"
)

// slotTTL bounds how long a Redis-backed snapshot lingers. The in-memory
// store has no expiry, matching the original single-process behavior.
const slotTTL = 12 * time.Hour

// Store holds transfer slots in Redis when available, in process memory
// otherwise.
type Store struct {
	cache *cache.RedisCache

	mu    sync.RWMutex
	local map[string]map[string]string
}

// NewStore creates a slot store. A nil or disabled cache selects the
// in-memory backend.
func NewStore(c *cache.RedisCache) *Store {
	return &Store{
		cache: c,
		local: make(map[string]map[string]string),
	}
}

// Put fully replaces the snapshot stored under key.
func (s *Store) Put(ctx context.Context, key string, snapshot map[string]string) error {
	if s.cache.Enabled() {
		return s.cache.Set(ctx, cache.TransferSlotKey(key), snapshot, slotTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[key] = copySnapshot(snapshot)
	return nil
}

// Get returns a snapshot copy of the value under key and whether one was
// found. A malformed stored value reads as not-found rather than an error;
// the caller surfaces a "select a job first" warning instead of failing.
func (s *Store) Get(ctx context.Context, key string) (map[string]string, bool) {
	if s.cache.Enabled() {
		var snapshot map[string]string
		err := s.cache.Get(ctx, cache.TransferSlotKey(key), &snapshot)
		if err != nil {
			if err != cache.ErrCacheMiss {
				log.Warn().Err(err).Str("slot", key).Msg("Discarding unreadable transfer snapshot")
			}
			return nil, false
		}
		return snapshot, snapshot != nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.local[key]
	if !ok {
		return nil, false
	}
	return copySnapshot(snapshot), true
}

// Clear removes the slot. Used after a child form has consumed the handoff.
func (s *Store) Clear(ctx context.Context, key string) {
	if s.cache.Enabled() {
		if err := s.cache.Del(ctx, cache.TransferSlotKey(key)); err != nil {
			log.Warn().Err(err).Str("slot", key).Msg("Failed to clear transfer slot")
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, key)
}

func copySnapshot(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
