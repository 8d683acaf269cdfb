package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/emberkv/internal/telemetry/logger"
	"github.com/yndnr/emberkv/internal/telemetry/metric"
)

// Config holds the Redis server configuration.
type Config struct {
	// Address is the TCP address to listen on.
	Address string
	// ReadTimeout bounds the time to receive the rest of a frame once its
	// first byte has arrived (default: 30s). Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout is how long a connection may wait between commands (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// Limits bounds the size of request frames.
	Limits Limits
	// TLS, when non-nil, makes the listener accept only TLS connections.
	TLS *tls.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    0,
		Limits:       DefaultLimits(),
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Address == "" {
		out.Address = def.Address
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = def.IdleTimeout
	}
	out.Limits = out.Limits.orDefault()
	return &out
}

// Server represents the Redis protocol server.
type Server struct {
	cfg     *Config
	store   Store
	metrics *metric.Registry
	logger  logger.Logger
	limiter *rateLimiter

	mu    sync.Mutex
	ln    net.Listener
	conns map[*conn]struct{}

	running  atomic.Bool
	draining atomic.Bool
	wg       sync.WaitGroup
}

// New creates a new Redis protocol server backed by store.
// A nil registry or logger falls back to the global one.
func New(cfg *Config, store Store, metrics *metric.Registry, log logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if metrics == nil {
		metrics = metric.Global()
	}
	if log == nil {
		log = logger.Default()
	}
	cfg = cfg.withDefaults()

	return &Server{
		cfg:     cfg,
		store:   store,
		metrics: metrics,
		logger:  log.With("component", "redis"),
		limiter: newRateLimiter(cfg.RateLimit),
		conns:   make(map[*conn]struct{}),
	}
}

// Start binds the listener and begins accepting connections in the
// background. It returns once the listener is ready.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("redis listen %s: %w", s.cfg.Address, err)
	}
	if s.cfg.TLS != nil {
		ln = tls.NewListener(ln, s.cfg.TLS)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String(), "tls", s.cfg.TLS != nil)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis accept loop failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting connections and waits for open connections to
// finish their current command. Connections still open when ctx expires
// are closed forcibly.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	s.draining.Store(true)

	var firstErr error

	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	// Wake connections blocked waiting for their next command.
	for c := range s.conns {
		_ = c.netConn.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}

	s.logger.Info("redis server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := newConn(nc, s.cfg.Limits)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}
}

// track registers c unless the server is shutting down.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}
