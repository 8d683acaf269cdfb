package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/emberkv/internal/infra/buildinfo"
	"github.com/yndnr/emberkv/internal/infra/confloader"
	"github.com/yndnr/emberkv/internal/infra/shutdown"
	"github.com/yndnr/emberkv/internal/infra/tlsroots"
	"github.com/yndnr/emberkv/internal/server/config"
	"github.com/yndnr/emberkv/internal/server/httpserver"
	"github.com/yndnr/emberkv/internal/server/redisserver"
	"github.com/yndnr/emberkv/internal/storage/memory"
	"github.com/yndnr/emberkv/internal/telemetry/logger"
	"github.com/yndnr/emberkv/internal/telemetry/metric"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "emberkv-server %s\n", buildinfo.String())
	}
	return &cli.App{
		Name:    "emberkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.Get().Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML configuration file",
				EnvVars: []string{"EMBERKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address (server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "metrics listen address; implies server.metrics.enabled",
			},
			&cli.StringFlag{
				Name:  "tls-cert",
				Usage: "certificate file for the RESP listener; implies server.redis.tls.enabled",
			},
			&cli.StringFlag{
				Name:  "tls-key",
				Usage: "private key file for the RESP listener",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format: json, text",
			},
		},
		Action: run,
	}
}

// flagOverrides maps explicitly set flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	if c.IsSet("addr") {
		out["server.redis.addr"] = c.String("addr")
	}
	if c.IsSet("metrics-addr") {
		out["server.metrics.addr"] = c.String("metrics-addr")
		out["server.metrics.enabled"] = true
	}
	if c.IsSet("tls-cert") {
		out["server.redis.tls.cert_file"] = c.String("tls-cert")
		out["server.redis.tls.enabled"] = true
	}
	if c.IsSet("tls-key") {
		out["server.redis.tls.key_file"] = c.String("tls-key")
	}
	if c.IsSet("log-level") {
		out["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		out["log.format"] = c.String("log-format")
	}
	return out
}

func run(c *cli.Context) error {
	configFile := c.String("config")
	flags := flagOverrides(c)

	cfg, err := loadConfig(configFile, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting emberkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)
	log.Info("effective configuration", config.Summary(cfg)...)

	reg := metric.Global()
	reg.SetBuildInfo(info.Version, info.Commit, info.GoVersion)

	store := memory.New(
		memory.WithShardCount(cfg.Storage.ShardCount),
		memory.WithExpireHook(func(reason memory.ExpiryReason) {
			reg.RecordExpired(string(reason))
		}),
	)
	if err := reg.Register(metric.NewCollector(store)); err != nil {
		return fmt.Errorf("register keyspace collector: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	sweeper := memory.NewSweeper(store, memory.SweeperConfig{
		Interval: cfg.Storage.SweepInterval,
		Batch:    cfg.Storage.SweepBatch,
	}, log)
	sweepCtx, stopSweeper := context.WithCancel(gctx)
	g.Go(func() error { return sweeper.Run(sweepCtx) })

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	redisCfg := cfg.Server.Redis
	serverTLS, err := serverTLSConfig(redisCfg.TLS, shutdownHandler, log)
	if err != nil {
		cancel()
		_ = g.Wait()
		return err
	}
	redisSrv := redisserver.New(&redisserver.Config{
		Address:      redisCfg.Addr,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
		IdleTimeout:  redisCfg.IdleTimeout,
		RateLimit:    redisCfg.RateLimit,
		Limits: redisserver.Limits{
			MaxArrayLen: redisCfg.MaxArrayLen,
			MaxBulkLen:  redisCfg.MaxBulkLen,
		},
		TLS: serverTLS,
	}, store, reg, log)

	// Hooks run in reverse order: stop client traffic first, then the
	// metrics endpoint, then background work.
	shutdownHandler.OnShutdown("sweeper", func(context.Context) error {
		stopSweeper()
		return nil
	})

	var ready atomic.Bool
	if cfg.Server.Metrics.Enabled {
		httpSrv := httpserver.New(cfg.Server.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: reg.Handler(),
			Ready:   ready.Load,
			Version: info.Version,
			Logger:  log.With("component", "http"),
		}))
		g.Go(func() error {
			log.Info("metrics server listening", "addr", cfg.Server.Metrics.Addr)
			if err := httpSrv.Serve(); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		shutdownHandler.OnShutdown("metrics", httpSrv.Shutdown)
	}

	if configFile != "" {
		w, err := watchConfig(configFile, flags, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	if err := redisSrv.Start(gctx); err != nil {
		cancel()
		_ = shutdownHandler.Shutdown()
		return errors.Join(err, g.Wait())
	}
	ready.Store(true)
	shutdownHandler.OnShutdown("redis", func(ctx context.Context) error {
		ready.Store(false)
		return redisSrv.Shutdown(ctx)
	})

	log.Info("server started, press Ctrl+C to stop")
	shutdownErr := shutdownHandler.Wait(gctx)
	cancel()

	if err := errors.Join(g.Wait(), shutdownErr); err != nil {
		log.Error("server stopped with errors", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, file, environment and flags, then validates.
func loadConfig(configFile string, flags map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithFlags(flags)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// serverTLSConfig loads the listener certificate and keeps it fresh while
// the server runs. It returns nil when TLS is disabled.
func serverTLSConfig(cfg config.TLSConfig, h *shutdown.Handler, log logger.Logger) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	w, err := tlsroots.NewWatcher(cfg.CertFile, cfg.KeyFile,
		tlsroots.WithLogger(log.With("component", "tls")))
	if err != nil {
		return nil, fmt.Errorf("load tls key pair: %w", err)
	}
	w.StartAsync()
	h.OnShutdown("tls-watcher", func(context.Context) error {
		w.Stop()
		return nil
	})
	return w.ServerConfig(), nil
}

// watchConfig reloads the configuration file on change and applies the
// settings that can change at runtime. Currently that is log.level only.
func watchConfig(path string, flags map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, flags)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}
