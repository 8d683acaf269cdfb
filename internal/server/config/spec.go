package config

import "time"

// ServerConfig is the root configuration for emberkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Metrics MetricsConfig `koanf:"metrics"`

	// ShutdownTimeout bounds how long open connections may take to drain.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RateLimit is the number of commands per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	MaxArrayLen int `koanf:"max_array_len"`
	MaxBulkLen  int `koanf:"max_bulk_len"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig enables TLS on the RESP listener. The certificate and key are
// reloaded when either file changes on disk.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// MetricsConfig configures the HTTP endpoint serving /metrics and /healthz.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// ShardCount must be a power of two.
	ShardCount    int           `koanf:"shard_count"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	SweepBatch    int           `koanf:"sweep_batch"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
