package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr     = "127.0.0.1:6379"
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultIdleTimeout   = 5 * time.Minute
	DefaultMaxArrayLen   = 1024
	DefaultMaxBulkLen    = 512 * 1024
	DefaultMetricsAddr   = "127.0.0.1:9180"
	DefaultShutdownGrace = 10 * time.Second

	DefaultShardCount    = 16
	DefaultSweepInterval = 100 * time.Millisecond
	DefaultSweepBatch    = 256

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxArrayLen:  DefaultMaxArrayLen,
				MaxBulkLen:   DefaultMaxBulkLen,
			},
			Metrics: MetricsConfig{
				Enabled: false,
				Addr:    DefaultMetricsAddr,
			},
			ShutdownTimeout: DefaultShutdownGrace,
		},
		Storage: StorageSection{
			ShardCount:    DefaultShardCount,
			SweepInterval: DefaultSweepInterval,
			SweepBatch:    DefaultSweepBatch,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
