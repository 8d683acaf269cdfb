package config

// Summary returns the effective configuration as alternating key/value
// pairs, suitable for a single structured log line at startup.
func Summary(cfg *ServerConfig) []any {
	return []any{
		"redis_addr", cfg.Server.Redis.Addr,
		"read_timeout", cfg.Server.Redis.ReadTimeout,
		"write_timeout", cfg.Server.Redis.WriteTimeout,
		"idle_timeout", cfg.Server.Redis.IdleTimeout,
		"rate_limit", cfg.Server.Redis.RateLimit,
		"max_array_len", cfg.Server.Redis.MaxArrayLen,
		"max_bulk_len", cfg.Server.Redis.MaxBulkLen,
		"tls_enabled", cfg.Server.Redis.TLS.Enabled,
		"metrics_enabled", cfg.Server.Metrics.Enabled,
		"metrics_addr", cfg.Server.Metrics.Addr,
		"shard_count", cfg.Storage.ShardCount,
		"sweep_interval", cfg.Storage.SweepInterval,
		"sweep_batch", cfg.Storage.SweepBatch,
		"log_level", cfg.Log.Level,
	}
}
