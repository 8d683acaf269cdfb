package benchmark

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yndnr/emberkv/internal/server/redisserver"
	"github.com/yndnr/emberkv/internal/storage/memory"
	"github.com/yndnr/emberkv/internal/telemetry/logger"
	"github.com/yndnr/emberkv/internal/telemetry/metric"
)

func newStore() *memory.Store {
	return memory.New()
}

// startServer runs a server on loopback and returns a client for it.
func startServer(b *testing.B, poolSize int) *redis.Client {
	b.Helper()
	srv := redisserver.New(&redisserver.Config{Address: "127.0.0.1:0"},
		newStore(), metric.NewRegistry(), logger.Discard())
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start() error = %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:       srv.Addr().String(),
		PoolSize:   poolSize,
		MaxRetries: -1,
	})
	b.Cleanup(func() {
		_ = client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return client
}

// BenchmarkServerSetGet benchmarks SET then GET round trips over TCP.
func BenchmarkServerSetGet(b *testing.B) {
	client := startServer(b, 1)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := benchKey(i % 1000)
		if err := client.Set(ctx, key, benchValue, 0).Err(); err != nil {
			b.Fatal(err)
		}
		if err := client.Get(ctx, key).Err(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkServerParallel benchmarks concurrent clients issuing GETs
// with one SET in ten.
func BenchmarkServerParallel(b *testing.B) {
	client := startServer(b, 64)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		client.Set(ctx, benchKey(i), benchValue, 0)
	}

	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := int(seq.Add(1)) * 131
		for pb.Next() {
			key := benchKey(i % 1000)
			var err error
			if i%10 == 0 {
				err = client.Set(ctx, key, benchValue, 0).Err()
			} else {
				err = client.Get(ctx, key).Err()
			}
			if err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}

// BenchmarkServerPipeline benchmarks pipelined SETs in batches of 100.
func BenchmarkServerPipeline(b *testing.B) {
	client := startServer(b, 1)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pipe := client.Pipeline()
		for j := 0; j < 100; j++ {
			pipe.Do(ctx, "set", "p:"+strconv.Itoa(j), benchValue, "px", "60000")
		}
		if _, err := pipe.Exec(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
