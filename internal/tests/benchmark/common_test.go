package benchmark

import (
	"fmt"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/yndnr/emberkv/internal/infra/clock"
	"github.com/yndnr/emberkv/internal/storage/memory"
)

// KeyCounts defines the store sizes for benchmarking.
var KeyCounts = []int{10000, 100000, 500000, 1000000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 10000, 100000}

// benchValue is a typical small payload.
var benchValue = []byte("0123456789abcdef0123456789abcdef")

func benchKey(i int) string {
	return "key:" + strconv.Itoa(i)
}

// prefillStore writes count keys without expiry and returns their names.
func prefillStore(store *memory.Store, count int) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = benchKey(i)
		store.Set(keys[i], benchValue)
	}
	return keys
}

// prefillExpired writes count keys and advances fc past their expiry.
func prefillExpired(store *memory.Store, fc *clock.Fake, count int) {
	for i := 0; i < count; i++ {
		store.SetWithTTL("exp:"+strconv.Itoa(i), benchValue, time.Millisecond)
	}
	fc.Advance(time.Second)
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various store sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
