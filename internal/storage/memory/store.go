// Package memory provides the in-memory expiring key-value store for EmberKV.
package memory

import (
	"bytes"
	"time"

	"github.com/yndnr/emberkv/internal/infra/clock"
	"github.com/yndnr/emberkv/pkg/cmap"
)

// ExpiryReason identifies which path removed an expired entry.
type ExpiryReason string

const (
	// ExpiryLazy is a removal triggered by a read.
	ExpiryLazy ExpiryReason = "lazy"
	// ExpiryActive is a removal performed by the sweeper.
	ExpiryActive ExpiryReason = "active"
)

// Store is a concurrent map from key to Entry.
type Store struct {
	entries   *cmap.Map[string, *Entry]
	deadlines []*deadlineIndex
	clock     clock.Clock

	onExpire func(reason ExpiryReason)
}

// Option configures the Store.
type Option func(*Store)

// WithShardCount sets the number of shards (power of two).
func WithShardCount(n int) Option {
	return func(s *Store) {
		s.entries = cmap.NewWithShards[string, *Entry](n)
	}
}

// WithClock sets the time source used for deadlines.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithExpireHook registers a callback invoked once per physically removed
// expired entry. It runs under a shard lock and must not call the store.
func WithExpireHook(fn func(reason ExpiryReason)) Option {
	return func(s *Store) {
		s.onExpire = fn
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: cmap.New[string, *Entry](),
		clock:   clock.Real{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.deadlines = make([]*deadlineIndex, s.entries.ShardCount())
	for i := range s.deadlines {
		s.deadlines[i] = &deadlineIndex{}
	}

	return s
}

// Set stores value under key without a deadline, replacing any previous entry.
func (s *Store) Set(key string, value []byte) {
	s.entries.Set(key, &Entry{Value: bytes.Clone(nonNil(value))})
}

// SetWithTTL stores value under key with a deadline ttl from now.
// A zero ttl produces an entry that is already expired.
func (s *Store) SetWithTTL(key string, value []byte, ttl time.Duration) {
	at := s.clock.Now().Add(ttl)
	s.entries.Set(key, &Entry{
		Value:     bytes.Clone(nonNil(value)),
		ExpiresAt: at,
	})
	s.deadlines[s.entries.ShardIndex(key)].add(key, at)
}

// Get returns a copy of the value stored under key.
// Expired entries are reported absent and removed.
func (s *Store) Get(key string) ([]byte, bool) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(e.Value), true
}

// Exists reports whether key holds a live entry.
func (s *Store) Exists(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	now := s.clock.Now()
	n := 0
	s.entries.Range(func(_ string, e *Entry) bool {
		if !e.ExpiredAt(now) {
			n++
		}
		return true
	})
	return n
}

// Size returns the number of physically held entries, including expired
// ones not yet swept.
func (s *Store) Size() int {
	return s.entries.Count()
}

// ShardSizes returns the number of entries physically held by each shard.
func (s *Store) ShardSizes() []int {
	stats := s.entries.Stats()
	sizes := make([]int, len(stats))
	for _, st := range stats {
		sizes[st.Index] = st.Count
	}
	return sizes
}

// lookup returns the live entry for key, removing it if it has expired.
func (s *Store) lookup(key string) (*Entry, bool) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, false
	}
	now := s.clock.Now()
	if e.ExpiredAt(now) {
		s.removeIfExpired(key, now, ExpiryLazy)
		return nil, false
	}
	return e, true
}

// removeIfExpired deletes key if the entry currently stored is expired at now.
// The check is repeated under the shard write lock, so an entry replaced
// after the caller looked at it is left alone.
func (s *Store) removeIfExpired(key string, now time.Time, reason ExpiryReason) bool {
	return s.entries.DeleteIf(key, func(e *Entry) bool {
		if !e.ExpiredAt(now) {
			return false
		}
		if s.onExpire != nil {
			s.onExpire(reason)
		}
		return true
	})
}

// SweepShard takes up to limit due deadlines from one shard's deadline
// index and removes the entries that are still expired. It returns how many
// entries were removed and how many deadlines were examined.
//
// Only due deadlines are visited, so the cost of a call is bounded by limit
// regardless of how many live keys the shard holds. Each removal takes the
// shard write lock for that key alone.
func (s *Store) SweepShard(index, limit int) (removed, examined int) {
	if limit <= 0 || index < 0 || index >= len(s.deadlines) {
		return 0, 0
	}
	now := s.clock.Now()

	keys := s.deadlines[index].popDue(now, limit)
	for _, key := range keys {
		if s.removeIfExpired(key, now, ExpiryActive) {
			removed++
		}
	}
	return removed, len(keys)
}

// ShardCount returns the number of shards backing the store.
func (s *Store) ShardCount() int {
	return s.entries.ShardCount()
}

// nonNil maps a nil value to an empty one so that a stored empty string is
// distinguishable from a missing key.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
