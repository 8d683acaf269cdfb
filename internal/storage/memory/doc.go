// Package memory provides the in-memory expiring key-value store for EmberKV.
//
// It keeps string values with an optional absolute expiry in a sharded
// concurrent map:
//
//   - Sharded Storage: Keys distributed across shards for parallelism
//   - Atomic Replace: SET installs value and expiry together
//   - Lazy Expiration: Reads drop entries that are past their deadline
//   - Active Expiration: A Sweeper removes expired entries in batches,
//     found through a per-shard index of deadlines ordered by time
//
// Both expiration paths go through the same conditional delete, which
// re-checks the deadline under the shard write lock. A key re-set while a
// sweep is in flight therefore survives.
//
// Thread Safety:
//
// All operations are thread-safe through per-shard locking.
// Nothing is persisted; all data is lost when the process exits.
package memory
