package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects raw.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
	}
}

// Formatter formats data for output.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Reply is the outcome of one command sent to the server.
type Reply struct {
	Command string `json:"command" yaml:"command"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Nil     bool   `json:"nil,omitempty" yaml:"nil,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// String renders the reply the way redis-cli does.
func (r Reply) String() string {
	switch {
	case r.Error != "":
		return "(error) " + r.Error
	case r.Nil:
		return "(nil)"
	default:
		return r.Value
	}
}

// RawFormatter prints replies in redis-cli style and anything else as a
// table.
type RawFormatter struct {
	NoHeaders bool
}

// Format writes data in human-readable form.
func (f *RawFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case Reply:
		_, err := fmt.Fprintln(w, v.String())
		return err
	case *Reply:
		_, err := fmt.Fprintln(w, v.String())
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	}
	return (&TableFormatter{NoHeaders: f.NoHeaders}).Format(w, data)
}
