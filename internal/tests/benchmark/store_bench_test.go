package benchmark

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/emberkv/internal/infra/clock"
	"github.com/yndnr/emberkv/internal/storage/memory"
)

// BenchmarkStoreSet benchmarks writes into stores of various sizes.
func BenchmarkStoreSet(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			store.Set(benchKey(i%count), benchValue)
		}

		b.StopTimer()
		reportMemory(b, "mem")
	})
}

// BenchmarkStoreSetWithTTL benchmarks writes carrying an expiry.
func BenchmarkStoreSetWithTTL(b *testing.B) {
	store := memory.New()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		store.SetWithTTL(benchKey(i%100000), benchValue, time.Minute)
	}
}

// BenchmarkStoreGet benchmarks reads at various scales.
func BenchmarkStoreGet(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		keys := prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, ok := store.Get(keys[i%len(keys)]); !ok {
				b.Fatal("key missing")
			}
		}
	})
}

// BenchmarkStoreGetParallel benchmarks concurrent reads with shard counts
// from a single lock up to the default.
func BenchmarkStoreGetParallel(b *testing.B) {
	for _, shards := range []int{1, 4, 16, 64} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			store := memory.New(memory.WithShardCount(shards))
			keys := prefillStore(store, 100000)

			var seq atomic.Int64
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := int(seq.Add(1)) * 7919
				for pb.Next() {
					store.Get(keys[i%len(keys)])
					i++
				}
			})
		})
	}
}

// BenchmarkStoreMixedParallel benchmarks a 90/10 read/write mix.
func BenchmarkStoreMixedParallel(b *testing.B) {
	store := memory.New()
	keys := prefillStore(store, 100000)

	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := int(seq.Add(1)) * 7919
		for pb.Next() {
			key := keys[i%len(keys)]
			if i%10 == 0 {
				store.Set(key, benchValue)
			} else {
				store.Get(key)
			}
			i++
		}
	})
}

// BenchmarkSweepShard benchmarks active expiry of a full batch.
func BenchmarkSweepShard(b *testing.B) {
	fc := clock.NewFake(time.Now())
	store := memory.New(memory.WithClock(fc), memory.WithShardCount(1))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		prefillExpired(store, fc, 256)
		b.StartTimer()

		if n, _ := store.SweepShard(0, 256); n != 256 {
			b.Fatalf("SweepShard removed %d, want 256", n)
		}
	}
}

// BenchmarkSweepShard_LiveKeys measures a sweep step on a shard dominated
// by keys that are not due. The cost should not grow with the key count.
func BenchmarkSweepShard_LiveKeys(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, keyCount int) {
		fc := clock.NewFake(time.Now())
		store := memory.New(memory.WithClock(fc), memory.WithShardCount(1))
		prefillStore(store, keyCount)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			store.SetWithTTL("due", benchValue, time.Millisecond)
			fc.Advance(time.Millisecond)
			b.StartTimer()

			if n, _ := store.SweepShard(0, 256); n != 1 {
				b.Fatalf("SweepShard removed %d, want 1", n)
			}
		}
	})
}
