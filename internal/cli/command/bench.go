package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/emberkv/internal/cli/connection"
	"github.com/yndnr/emberkv/internal/cli/output"
)

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:   "bench",
		Usage:  "Measure SET/GET throughput and latency",
		Flags:  benchFlags(),
		Action: benchAction,
	}
}

func benchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "requests",
			Aliases: []string{"n"},
			Usage:   "requests per test",
			Value:   10000,
		},
		&cli.IntFlag{
			Name:    "clients",
			Aliases: []string{"c"},
			Usage:   "concurrent clients",
			Value:   50,
		},
		&cli.IntFlag{
			Name:    "data-size",
			Aliases: []string{"d"},
			Usage:   "SET value size in bytes",
			Value:   3,
		},
		&cli.IntFlag{
			Name:    "keyspace",
			Aliases: []string{"r"},
			Usage:   "number of distinct keys",
			Value:   1000,
		},
		&cli.StringFlag{
			Name:    "tests",
			Aliases: []string{"t"},
			Usage:   "comma-separated tests to run: ping, set, get",
			Value:   "ping,set,get",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not show progress",
		},
	}
}

// benchConfig describes one bench run.
type benchConfig struct {
	Requests int
	Clients  int
	DataSize int
	Keyspace int
	Tests    []string
}

func (b benchConfig) validate() error {
	if b.Requests <= 0 || b.Clients <= 0 || b.Keyspace <= 0 || b.DataSize < 0 {
		return fmt.Errorf("requests, clients and keyspace must be positive")
	}
	for _, t := range b.Tests {
		if _, ok := benchOps[t]; !ok {
			return fmt.Errorf("unknown test %q", t)
		}
	}
	return nil
}

// benchResult is the outcome of one test.
type benchResult struct {
	Test      string
	Requests  int
	Errors    int64
	Duration  time.Duration
	latencies []time.Duration
}

func (r *benchResult) opsPerSec() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Duration.Seconds()
}

// percentile returns the p-th percentile latency; latencies must be sorted.
func (r *benchResult) percentile(p float64) time.Duration {
	if len(r.latencies) == 0 {
		return 0
	}
	idx := int(float64(len(r.latencies)-1) * p)
	return r.latencies[idx]
}

type benchOp func(ctx context.Context, mgr *connection.Manager, key, value string) error

var benchOps = map[string]benchOp{
	"ping": func(ctx context.Context, mgr *connection.Manager, _, _ string) error {
		_, err := mgr.Ping(ctx)
		return err
	},
	"set": func(ctx context.Context, mgr *connection.Manager, key, value string) error {
		return mgr.Set(ctx, key, value, 0)
	},
	"get": func(ctx context.Context, mgr *connection.Manager, key, _ string) error {
		_, _, err := mgr.Get(ctx, key)
		return err
	},
}

func benchAction(c *cli.Context) error {
	cfg := benchConfig{
		Requests: c.Int("requests"),
		Clients:  c.Int("clients"),
		DataSize: c.Int("data-size"),
		Keyspace: c.Int("keyspace"),
	}
	for _, t := range strings.Split(c.String("tests"), ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			cfg.Tests = append(cfg.Tests, t)
		}
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	f, err := formatter(c)
	if err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	mgr := connection.NewManager(connection.Options{
		Addr:     flags.Addr,
		Timeout:  flags.Timeout,
		PoolSize: cfg.Clients,
	})
	defer mgr.Close()

	var progressOut io.Writer
	if !c.Bool("quiet") {
		progressOut = c.App.ErrWriter
		if progressOut == nil {
			progressOut = io.Discard
		}
	}

	results, err := runBench(c.Context, mgr, cfg, progressOut)
	if err != nil {
		return err
	}
	return f.Format(writer(c), benchTable(results))
}

// runBench runs each test in order. Progress is drawn on progressOut when
// it is non-nil.
func runBench(ctx context.Context, mgr *connection.Manager, cfg benchConfig, progressOut io.Writer) ([]*benchResult, error) {
	value := strings.Repeat("x", cfg.DataSize)
	results := make([]*benchResult, 0, len(cfg.Tests))

	for _, test := range cfg.Tests {
		var bar *output.ProgressBar
		if progressOut != nil {
			bar = output.NewProgressBar(progressOut, strings.ToUpper(test), int64(cfg.Requests))
		}

		res, err := runBenchTest(ctx, mgr, benchOps[test], cfg, value, bar)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", test, err)
		}
		res.Test = strings.ToUpper(test)
		results = append(results, res)
	}
	return results, nil
}

func runBenchTest(ctx context.Context, mgr *connection.Manager, op benchOp, cfg benchConfig, value string, bar *output.ProgressBar) (*benchResult, error) {
	var (
		next   atomic.Int64
		errCnt atomic.Int64
	)
	perClient := make([][]time.Duration, cfg.Clients)

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < cfg.Clients; w++ {
		g.Go(func() error {
			lat := make([]time.Duration, 0, cfg.Requests/cfg.Clients+1)
			for {
				i := next.Add(1) - 1
				if i >= int64(cfg.Requests) {
					break
				}
				if err := gctx.Err(); err != nil {
					return err
				}

				key := "bench:" + strconv.FormatInt(i%int64(cfg.Keyspace), 10)
				t0 := time.Now()
				err := op(gctx, mgr, key, value)
				lat = append(lat, time.Since(t0))
				if err != nil {
					// Transport failures abort the run; server errors are counted.
					var se *connection.ServerError
					if !errors.As(err, &se) {
						return err
					}
					errCnt.Add(1)
				}
				if bar != nil {
					bar.Increment(1)
				}
			}
			perClient[w] = lat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &benchResult{
		Requests: cfg.Requests,
		Errors:   errCnt.Load(),
		Duration: time.Since(start),
	}
	for _, lat := range perClient {
		res.latencies = append(res.latencies, lat...)
	}
	sort.Slice(res.latencies, func(i, j int) bool { return res.latencies[i] < res.latencies[j] })
	return res, nil
}

func benchTable(results []*benchResult) *output.Table {
	t := output.NewTable("TEST", "REQUESTS", "ERRORS", "DURATION", "OPS_PER_SEC", "P50", "P99", "MAX")
	for _, r := range results {
		t.AddRow(
			r.Test,
			strconv.Itoa(r.Requests),
			strconv.FormatInt(r.Errors, 10),
			r.Duration.Round(time.Millisecond).String(),
			strconv.FormatFloat(r.opsPerSec(), 'f', 2, 64),
			r.percentile(0.50).String(),
			r.percentile(0.99).String(),
			r.percentile(1).String(),
		)
	}
	return t
}
