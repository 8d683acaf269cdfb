package tlsroots

import (
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/emberkv/internal/infra/tlsroots/tlstest"
)

func TestNewPool(t *testing.T) {
	if NewPool().Pool() == nil {
		t.Fatal("Pool() returned nil")
	}
	if NewEmptyPool().Pool() == nil {
		t.Fatal("Pool() returned nil")
	}
}

func TestAddCertFile(t *testing.T) {
	certFile, keyFile := tlstest.WriteKeyPair(t, t.TempDir(), "roots")

	pool := NewEmptyPool()
	if err := pool.AddCertFile(certFile); err != nil {
		t.Fatalf("AddCertFile() error = %v", err)
	}

	// A key file holds no certificates.
	if err := pool.AddCertFile(keyFile); !errors.Is(err, ErrNoCertsFound) {
		t.Errorf("AddCertFile(key) error = %v, want ErrNoCertsFound", err)
	}
}

func TestAddCertFile_NotFound(t *testing.T) {
	if err := NewEmptyPool().AddCertFile(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("AddCertFile() expected error for missing file")
	}
}

func TestAddCertPEM_NoCerts(t *testing.T) {
	pool := NewEmptyPool()
	for _, data := range [][]byte{nil, []byte("not a certificate")} {
		if err := pool.AddCertPEM(data); !errors.Is(err, ErrNoCertsFound) {
			t.Errorf("AddCertPEM(%q) error = %v, want ErrNoCertsFound", data, err)
		}
	}
}

func TestAddCertPEM_InvalidCert(t *testing.T) {
	invalid := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("garbage")})
	if err := NewEmptyPool().AddCertPEM(invalid); err == nil {
		t.Error("AddCertPEM() expected error for invalid certificate")
	}
}

func TestAddCertPEM_Bundle(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	c1, _ := tlstest.WriteKeyPair(t, dir1, "one")
	c2, _ := tlstest.WriteKeyPair(t, dir2, "two")

	b1, _ := os.ReadFile(c1)
	b2, _ := os.ReadFile(c2)
	if err := NewEmptyPool().AddCertPEM(append(b1, b2...)); err != nil {
		t.Errorf("AddCertPEM(bundle) error = %v", err)
	}
}

func TestClientConfig(t *testing.T) {
	pool := NewEmptyPool()
	cfg := pool.ClientConfig("db.internal")

	if cfg.RootCAs != pool.Pool() {
		t.Error("RootCAs should be the pool")
	}
	if cfg.ServerName != "db.internal" {
		t.Errorf("ServerName = %q", cfg.ServerName)
	}
	if cfg.MinVersion == 0 {
		t.Error("MinVersion should be set")
	}
}
