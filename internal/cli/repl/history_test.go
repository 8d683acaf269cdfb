package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("", 0)
	if h.maxSize != 1000 {
		t.Errorf("maxSize = %d, want 1000", h.maxSize)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory("", 10)

	h.Add("ping")
	h.Add("get foo")
	h.Add("get foo") // repeat skipped
	h.Add("set foo bar")

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if got := h.Get(0); got != "set foo bar" {
		t.Errorf("Get(0) = %q", got)
	}
	if got := h.Get(2); got != "ping" {
		t.Errorf("Get(2) = %q", got)
	}
	if got := h.Get(3); got != "" {
		t.Errorf("Get(3) = %q, want empty", got)
	}
	if got := h.Get(-1); got != "" {
		t.Errorf("Get(-1) = %q, want empty", got)
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("", 3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Add(cmd)
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if h.Get(2) != "c" || h.Get(0) != "e" {
		t.Errorf("entries = %v", h.entries)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(file, 100)
	h.Add("ping")
	h.Add("set k v")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	loaded := NewHistory(file, 100)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 || loaded.Get(0) != "set k v" {
		t.Errorf("loaded entries = %v", loaded.entries)
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none"), 10)
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("", 10)
	h.Add("ping")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
