package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/emberkv/internal/cli/connection"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "emberkv-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "emberkv-cli")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"ping", "echo", "get", "set", "repl", "bench", "config"} {
		if !commandNames[name] {
			t.Errorf("missing command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range globalFlags() {
		flagNames[f.Names()[0]] = true
	}
	for _, name := range []string{"addr", "output", "timeout", "config"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestApp_Before(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cli.yaml")
	if err := os.WriteFile(cfgPath, []byte("addr: 10.1.2.3:7000\noutput: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	app := App()
	app.Metadata = make(map[string]any)
	env := testContext(t, "", nil, "--config", cfgPath)
	env.ctx.App = app

	if err := app.Before(env.ctx); err != nil {
		t.Fatalf("Before hook failed: %v", err)
	}

	mgr, ok := app.Metadata[metaConnMgr].(*connection.Manager)
	if !ok {
		t.Fatal("connection manager should be created by Before hook")
	}
	if mgr.Addr() != "10.1.2.3:7000" {
		t.Errorf("Addr() = %q, want address from config file", mgr.Addr())
	}
	if got := ParseGlobalFlags(env.ctx).Output; got != "json" {
		t.Errorf("Output = %q, want json from config file", got)
	}
	if err := app.After(env.ctx); err != nil {
		t.Errorf("After hook failed: %v", err)
	}
}

func TestApp_BeforeRejectsBadOutput(t *testing.T) {
	app := App()
	app.Metadata = make(map[string]any)
	env := testContext(t, "", nil, "--output", "table")
	env.ctx.App = app

	if err := app.Before(env.ctx); err == nil {
		t.Error("Before should reject an unknown output format")
	}
}

func TestParseGlobalFlags_FlagsOverrideConfig(t *testing.T) {
	env := testContext(t, "127.0.0.1:6000", nil, "--output", "yaml")

	flags := ParseGlobalFlags(env.ctx)
	if flags.Addr != "127.0.0.1:6000" {
		t.Errorf("Addr = %q", flags.Addr)
	}
	if flags.Output != "yaml" {
		t.Errorf("Output = %q", flags.Output)
	}
	if flags.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", flags.Timeout)
	}
}

func TestGetConnectionManager_Lazy(t *testing.T) {
	env := testContext(t, "127.0.0.1:6001", nil)

	mgr := GetConnectionManager(env.ctx)
	if mgr == nil || mgr.Addr() != "127.0.0.1:6001" {
		t.Fatalf("GetConnectionManager() = %v", mgr)
	}
	if again := GetConnectionManager(env.ctx); again != mgr {
		t.Error("GetConnectionManager should reuse the manager")
	}
}

func TestApp_Run(t *testing.T) {
	addr, _ := startServer(t)

	app := App()
	out := &bytes.Buffer{}
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}

	args := []string{"emberkv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml"), "--addr", addr}
	if err := app.Run(append(args, "set", "greeting", "hello")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := app.Run(append(args, "get", "greeting")); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, want := out.String(), "OK\nhello\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
