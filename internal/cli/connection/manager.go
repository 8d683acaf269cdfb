package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Default connection settings.
const (
	DefaultAddr        = "127.0.0.1:6379"
	DefaultDialTimeout = 5 * time.Second
	DefaultTimeout     = 5 * time.Second
)

// Options configures a Manager.
type Options struct {
	Addr        string
	DialTimeout time.Duration
	// Timeout bounds each read and write on the connection.
	Timeout  time.Duration
	PoolSize int
	// TLS, when non-nil, is used to dial the server over TLS.
	TLS *tls.Config
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// ServerError is an error reply sent by the server, such as
// "ERR unknown command 'foo'". The connection stays usable.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// Manager manages the connection to an EmberKV server.
type Manager struct {
	opts Options

	mu     sync.Mutex
	client *redis.Client
}

// NewManager creates a new connection manager. No connection is made
// until the first command.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts.withDefaults()}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	return m.opts.Addr
}

// Client returns the underlying client, creating it on first use.
func (m *Manager) Client() *redis.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		m.client = redis.NewClient(&redis.Options{
			Addr:         m.opts.Addr,
			DialTimeout:  m.opts.DialTimeout,
			ReadTimeout:  m.opts.Timeout,
			WriteTimeout: m.opts.Timeout,
			PoolSize:     m.opts.PoolSize,
			TLSConfig:    m.opts.TLS,
			MaxRetries:   -1,
		})
	}
	return m.client
}

// Close closes the client if one was created.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}

// Ping sends PING and returns the reply, normally "PONG".
func (m *Manager) Ping(ctx context.Context) (string, error) {
	s, err := m.Client().Ping(ctx).Result()
	return s, wrap(err)
}

// Echo sends ECHO message.
func (m *Manager) Echo(ctx context.Context, message string) (string, error) {
	s, err := m.Client().Echo(ctx, message).Result()
	return s, wrap(err)
}

// Get returns the value of key. found is false when the key is missing
// or expired.
func (m *Manager) Get(ctx context.Context, key string) (value string, found bool, err error) {
	value, err = m.Client().Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap(err)
	}
	return value, true, nil
}

// Set stores value under key. A positive px sets a TTL with millisecond
// precision; zero or negative means no TTL.
func (m *Manager) Set(ctx context.Context, key, value string, px time.Duration) error {
	// The server only understands the PX option, so build the command by
	// hand rather than letting the client choose EX for whole seconds.
	args := []any{"set", key, value}
	if px > 0 {
		args = append(args, "px", strconv.FormatInt(px.Milliseconds(), 10))
	}
	return wrap(m.Client().Do(ctx, args...).Err())
}

// Do sends an arbitrary command. A nil reply is returned as (nil, nil).
func (m *Manager) Do(ctx context.Context, args ...string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmdArgs := make([]any, len(args))
	for i, a := range args {
		cmdArgs[i] = a
	}
	v, err := m.Client().Do(ctx, cmdArgs...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrap(err)
}

// wrap converts server error replies into *ServerError and leaves
// transport errors untouched.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return &ServerError{Message: rerr.Error()}
	}
	return err
}
