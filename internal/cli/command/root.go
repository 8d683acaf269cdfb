package command

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/emberkv/internal/cli/config"
	"github.com/yndnr/emberkv/internal/cli/connection"
	"github.com/yndnr/emberkv/internal/cli/output"
	"github.com/yndnr/emberkv/internal/infra/buildinfo"
	"github.com/yndnr/emberkv/internal/infra/tlsroots"
)

const (
	metaConnMgr = "connMgr"
	metaConfig  = "cliConfig"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "emberkv-cli",
		Usage:   "command-line client for EmberKV",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			ReplCommand(),
			BenchCommand(),
			ConfigCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("load cli config: %w", err)
			}
			c.App.Metadata[metaConfig] = cfg

			flags := ParseGlobalFlags(c)
			if _, err := output.ParseFormat(flags.Output); err != nil {
				return err
			}
			tlsCfg, err := clientTLSConfig(c, flags.Addr)
			if err != nil {
				return err
			}
			c.App.Metadata[metaConnMgr] = connection.NewManager(connection.Options{
				Addr:        flags.Addr,
				DialTimeout: cfg.DialTimeout,
				Timeout:     flags.Timeout,
				TLS:         tlsCfg,
			})
			return nil
		},
		After: func(c *cli.Context) error {
			if mgr, ok := c.App.Metadata[metaConnMgr].(*connection.Manager); ok {
				return mgr.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "server address (default from config, else 127.0.0.1:6379)",
			EnvVars: []string{"EMBERKV_ADDR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: raw, json, yaml",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-command read/write timeout",
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "connect over TLS",
		},
		&cli.StringFlag{
			Name:  "tls-ca",
			Usage: "PEM file with extra CA certificates to trust; implies --tls",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"EMBERKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// GlobalFlags holds the effective global settings: flags where given,
// otherwise the CLI config file.
type GlobalFlags struct {
	Addr       string
	Output     string
	Timeout    time.Duration
	ConfigPath string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	cfg := cliConfig(c)
	flags := &GlobalFlags{
		Addr:       cfg.Addr,
		Output:     cfg.Output,
		Timeout:    cfg.Timeout,
		ConfigPath: c.String("config"),
	}
	if c.IsSet("addr") {
		flags.Addr = c.String("addr")
	}
	if c.IsSet("output") {
		flags.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		flags.Timeout = c.Duration("timeout")
	}
	return flags
}

// clientTLSConfig returns the TLS settings selected by --tls and --tls-ca,
// or nil for a plaintext connection.
func clientTLSConfig(c *cli.Context, addr string) (*tls.Config, error) {
	if !c.Bool("tls") && c.String("tls-ca") == "" {
		return nil, nil
	}
	pool := tlsroots.NewPool()
	if ca := c.String("tls-ca"); ca != "" {
		if err := pool.AddCertFile(ca); err != nil {
			return nil, fmt.Errorf("load --tls-ca: %w", err)
		}
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return pool.ClientConfig(host), nil
}

func cliConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// GetConnectionManager retrieves the connection manager from context,
// creating one from the global flags if Before did not run.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata[metaConnMgr].(*connection.Manager); ok {
		return mgr
	}
	flags := ParseGlobalFlags(c)
	mgr := connection.NewManager(connection.Options{Addr: flags.Addr, Timeout: flags.Timeout})
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaConnMgr] = mgr
	return mgr
}

// formatter returns the formatter selected by --output.
func formatter(c *cli.Context) (output.Formatter, error) {
	format, err := output.ParseFormat(ParseGlobalFlags(c).Output)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}

// writer returns the application's output stream.
func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
