// Package cmap provides a concurrent map implementation for EmberKV.
//
// This package implements a sharded concurrent map used as the backing
// table of the in-memory store:
//
//   - Sharding: Configurable power-of-two shard count for parallelism
//   - Hashing: MurmurHash3 over the key bytes selects the shard
//   - Fine-grained Locking: Per-shard RWMutex for minimal contention
//   - Conditional Deletes: Predicate is evaluated under the shard write lock
//   - Iteration: Shard-at-a-time iteration while holding read locks
//
// Usage:
//
//	m := cmap.NewWithShards[string, *Entry](32)
//	m.Set("key", entry)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Range) use RLock,
// write operations (Set, DeleteIf) use Lock.
package cmap
