// Package cmap provides a concurrent-safe sharded map.
package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration.
// Note: This acquires locks shard by shard, so the view may not be consistent.
// The callback must not call back into the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for i := range m.shards {
		if !m.RangeShard(i, fn) {
			return
		}
	}
}

// RangeShard iterates over the items of a single shard while holding its
// read lock. It returns false if the callback stopped the iteration.
func (m *Map[K, V]) RangeShard(index int, fn func(key K, value V) bool) bool {
	if index < 0 || index >= len(m.shards) {
		return true
	}
	shard := m.shards[index]
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	for k, v := range shard.items {
		if !fn(k, v) {
			return false
		}
	}
	return true
}

// ShardStats holds the item count of one shard.
type ShardStats struct {
	Index int
	Count int
}

// Stats returns statistics about all shards.
func (m *Map[K, V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, shard := range m.shards {
		shard.mu.RLock()
		stats[i] = ShardStats{
			Index: i,
			Count: len(shard.items),
		}
		shard.mu.RUnlock()
	}
	return stats
}
