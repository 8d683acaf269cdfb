package redisserver

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Store is the key-value store commands execute against.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	SetWithTTL(key string, value []byte, ttl time.Duration)
}

// Command is a parsed, validated request.
type Command interface {
	// Name returns the upper-case command name.
	Name() string
	// Execute runs the command and returns its reply.
	Execute(store Store) Reply
}

// ErrorKind classifies command errors.
type ErrorKind int

const (
	EmptyCommand ErrorKind = iota + 1
	UnknownCommand
	WrongArity
	Syntax
	InvalidInteger
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyCommand:
		return "empty_command"
	case UnknownCommand:
		return "unknown_command"
	case WrongArity:
		return "wrong_arity"
	case Syntax:
		return "syntax"
	case InvalidInteger:
		return "invalid_integer"
	default:
		return "unknown"
	}
}

// CommandError is a request that decoded correctly but cannot be executed.
// It is reported to the client and the connection stays open.
type CommandError struct {
	Kind ErrorKind
	// Command is the command name as sent by the client.
	Command string
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case EmptyCommand:
		return "ERR empty command"
	case UnknownCommand:
		return "ERR unknown command '" + e.Command + "'"
	case WrongArity:
		return "ERR wrong number of arguments for '" + strings.ToLower(e.Command) + "' command"
	case Syntax:
		return "ERR syntax error"
	case InvalidInteger:
		return "ERR value is not an integer or out of range"
	default:
		return "ERR " + e.Kind.String()
	}
}

// ParseCommand maps a decoded frame to a Command. The command name is
// matched case-insensitively; arguments are taken verbatim.
func ParseCommand(args [][]byte) (Command, error) {
	if len(args) == 0 {
		return nil, &CommandError{Kind: EmptyCommand}
	}

	name := normalizeCommandName(args[0])
	argv := args[1:]

	switch name {
	case "PING":
		if len(argv) != 0 {
			return nil, &CommandError{Kind: WrongArity, Command: name}
		}
		return PingCommand{}, nil

	case "ECHO":
		if len(argv) != 1 {
			return nil, &CommandError{Kind: WrongArity, Command: name}
		}
		return EchoCommand{Message: argv[0]}, nil

	case "GET":
		if len(argv) != 1 {
			return nil, &CommandError{Kind: WrongArity, Command: name}
		}
		return GetCommand{Key: string(argv[0])}, nil

	case "SET":
		return parseSet(argv)

	default:
		return nil, &CommandError{Kind: UnknownCommand, Command: string(args[0])}
	}
}

func parseSet(argv [][]byte) (Command, error) {
	switch len(argv) {
	case 2:
		return SetCommand{Key: string(argv[0]), Value: argv[1]}, nil
	case 4:
		if normalizeCommandName(argv[2]) != "PX" {
			return nil, &CommandError{Kind: Syntax, Command: "SET"}
		}
		ms, ok := parseMillis(argv[3])
		if !ok {
			return nil, &CommandError{Kind: InvalidInteger, Command: "SET"}
		}
		return SetCommand{
			Key:    string(argv[0]),
			Value:  argv[1],
			TTL:    time.Duration(ms) * time.Millisecond,
			HasTTL: true,
		}, nil
	default:
		return nil, &CommandError{Kind: WrongArity, Command: "SET"}
	}
}

// parseMillis accepts a non-negative decimal integer that fits in a
// time.Duration once scaled to milliseconds.
func parseMillis(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, false
	}
	return ms, true
}

// PingCommand replies PONG.
type PingCommand struct{}

func (PingCommand) Name() string { return "PING" }

func (PingCommand) Execute(Store) Reply { return SimpleString("PONG") }

// EchoCommand replies with its message.
type EchoCommand struct {
	Message []byte
}

func (EchoCommand) Name() string { return "ECHO" }

func (c EchoCommand) Execute(Store) Reply { return BulkReply(c.Message) }

// SetCommand stores Value under Key, optionally expiring after TTL.
type SetCommand struct {
	Key    string
	Value  []byte
	TTL    time.Duration
	HasTTL bool
}

func (SetCommand) Name() string { return "SET" }

func (c SetCommand) Execute(store Store) Reply {
	if c.HasTTL {
		store.SetWithTTL(c.Key, c.Value, c.TTL)
	} else {
		store.Set(c.Key, c.Value)
	}
	return SimpleString("OK")
}

// GetCommand returns the value stored under Key, or nil.
type GetCommand struct {
	Key string
}

func (GetCommand) Name() string { return "GET" }

func (c GetCommand) Execute(store Store) Reply {
	v, ok := store.Get(c.Key)
	if !ok {
		return NilReply()
	}
	return BulkReply(v)
}
