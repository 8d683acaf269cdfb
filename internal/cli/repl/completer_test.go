package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"echo", "exit", "get", "help", "ping", "quit", "set"}},
		{"e", []string{"echo", "exit"}},
		{"G", []string{"get"}},
		{"set", []string{"set"}},
		{"x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Usage(t *testing.T) {
	c := NewCompleter()
	if got := c.Usage("SET"); got != "SET key value [PX milliseconds]" {
		t.Errorf("Usage(SET) = %q", got)
	}
	if got := c.Usage("del"); got != "" {
		t.Errorf("Usage(del) = %q, want empty", got)
	}
}
