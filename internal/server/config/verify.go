package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/emberkv/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	r := &cfg.Redis
	if err := verifyAddr("server.redis.addr", r.Addr); err != nil {
		return err
	}
	if r.ReadTimeout <= 0 {
		return errors.New("server.redis.read_timeout must be positive")
	}
	if r.WriteTimeout <= 0 {
		return errors.New("server.redis.write_timeout must be positive")
	}
	if r.IdleTimeout <= 0 {
		return errors.New("server.redis.idle_timeout must be positive")
	}
	if r.RateLimit < 0 {
		return errors.New("server.redis.rate_limit must not be negative")
	}
	if r.MaxArrayLen < 1 {
		return errors.New("server.redis.max_array_len must be at least 1")
	}
	if r.MaxBulkLen < 1 {
		return errors.New("server.redis.max_bulk_len must be at least 1")
	}
	if r.TLS.Enabled {
		if r.TLS.CertFile == "" {
			return errors.New("server.redis.tls.cert_file is required when tls is enabled")
		}
		if r.TLS.KeyFile == "" {
			return errors.New("server.redis.tls.key_file is required when tls is enabled")
		}
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == r.Addr {
			return fmt.Errorf("server.metrics.addr conflicts with server.redis.addr (%s)", r.Addr)
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: invalid address %q: %w", key, addr, err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if n := cfg.ShardCount; n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("storage.shard_count must be a positive power of two, got %d", n)
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("storage.sweep_interval must be positive")
	}
	if cfg.SweepBatch < 1 {
		return errors.New("storage.sweep_batch must be at least 1")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q (want json or text)", cfg.Format)
	}
}
