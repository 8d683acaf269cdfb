package config

import (
	"os"
	"path/filepath"
	"time"
)

// CLIConfig is the configuration for emberkv-cli.
type CLIConfig struct {
	Addr        string        `json:"addr" yaml:"addr"`
	Output      string        `json:"output" yaml:"output"` // raw, json, yaml
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`

	// HistoryFile stores REPL history. Empty disables persistence.
	HistoryFile string `json:"history_file" yaml:"history_file"`
	HistorySize int    `json:"history_size" yaml:"history_size"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Addr:        "127.0.0.1:6379",
		Output:      "raw",
		DialTimeout: 5 * time.Second,
		Timeout:     5 * time.Second,
		HistoryFile: filepath.Join(configDir(), "history"),
		HistorySize: 1000,
	}
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".emberkv"
	}
	return filepath.Join(homeDir, ".emberkv")
}
