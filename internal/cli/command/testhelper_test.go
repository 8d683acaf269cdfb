package command

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/emberkv/internal/cli/config"
	"github.com/yndnr/emberkv/internal/server/redisserver"
	"github.com/yndnr/emberkv/internal/storage/memory"
	"github.com/yndnr/emberkv/internal/telemetry/logger"
	"github.com/yndnr/emberkv/internal/telemetry/metric"
)

// startServer runs an in-process server and returns its address.
func startServer(t *testing.T) (string, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv := redisserver.New(&redisserver.Config{Address: "127.0.0.1:0"},
		store, metric.NewRegistry(), logger.Discard())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String(), store
}

// testEnv holds a CLI context and its captured output.
type testEnv struct {
	ctx *cli.Context
	out *bytes.Buffer
}

func (e *testEnv) output() string { return e.out.String() }

// testContext creates a CLI context for testing. cmdFlags are the flags of
// the command under test; args holds flags first, then positionals.
func testContext(t *testing.T, addr string, cmdFlags []cli.Flag, args ...string) *testEnv {
	t.Helper()

	out := &bytes.Buffer{}
	cfg := config.Default()
	cfg.HistoryFile = ""

	app := &cli.App{
		Name:      "test",
		Flags:     globalFlags(),
		Writer:    out,
		ErrWriter: &bytes.Buffer{},
		Reader:    strings.NewReader(""),
		Metadata: map[string]any{
			metaConfig: cfg,
		},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range append(globalFlags(), cmdFlags...) {
		if err := f.Apply(set); err != nil {
			t.Fatalf("apply flag: %v", err)
		}
	}

	fullArgs := []string{"--config", t.TempDir() + "/cli.yaml"}
	if addr != "" {
		fullArgs = append(fullArgs, "--addr", addr, "--timeout", "2s")
	}
	if err := set.Parse(append(fullArgs, args...)); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	c := cli.NewContext(app, set, nil)
	t.Cleanup(func() {
		if mgr, ok := app.Metadata[metaConnMgr]; ok {
			_ = mgr.(interface{ Close() error }).Close()
		}
	})
	return &testEnv{ctx: c, out: out}
}
