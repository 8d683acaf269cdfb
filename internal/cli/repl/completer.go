package repl

import (
	"sort"
	"strings"
)

// Completer matches command names and usage for the REPL help.
type Completer struct {
	usage map[string]string
}

// NewCompleter creates a Completer for the server's commands.
func NewCompleter() *Completer {
	return &Completer{
		usage: map[string]string{
			"ping": "PING",
			"echo": "ECHO message",
			"get":  "GET key",
			"set":  "SET key value [PX milliseconds]",
			"help": "help [prefix]",
			"exit": "exit",
			"quit": "quit",
		},
	}
}

// Complete returns the command names starting with prefix, sorted.
// Matching ignores case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for name := range c.usage {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Usage returns the usage line for a command, or "" if unknown.
func (c *Completer) Usage(name string) string {
	return c.usage[strings.ToLower(name)]
}
