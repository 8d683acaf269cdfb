package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/emberkv/internal/cli/connection"
	"github.com/yndnr/emberkv/internal/cli/output"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that the server is reachable",
		Action: pingAction,
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to echo a message",
		ArgsUsage: "MESSAGE",
		Action:    echoAction,
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "KEY",
		Action:    getAction,
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key to a value",
		ArgsUsage: "KEY VALUE",
		Flags:     setFlags(),
		Action:    setAction,
	}
}

func setFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:  "px",
			Usage: "expire the key after this many milliseconds",
		},
	}
}

func pingAction(c *cli.Context) error {
	if c.NArg() != 0 {
		return fmt.Errorf("ping takes no arguments")
	}
	mgr := GetConnectionManager(c)
	v, err := mgr.Ping(c.Context)
	return printResult(c, "ping", v, true, err)
}

func echoAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: echo MESSAGE")
	}
	mgr := GetConnectionManager(c)
	v, err := mgr.Echo(c.Context, c.Args().First())
	return printResult(c, "echo", v, true, err)
}

func getAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: get KEY")
	}
	mgr := GetConnectionManager(c)
	v, found, err := mgr.Get(c.Context, c.Args().First())
	return printResult(c, "get", v, found, err)
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: set [--px MS] KEY VALUE")
	}
	var ttl time.Duration
	if c.IsSet("px") {
		px := c.Int64("px")
		if px <= 0 {
			return fmt.Errorf("--px must be positive, got %d", px)
		}
		ttl = time.Duration(px) * time.Millisecond
	}

	mgr := GetConnectionManager(c)
	err := mgr.Set(c.Context, c.Args().Get(0), c.Args().Get(1), ttl)
	return printResult(c, "set", "OK", true, err)
}

// printResult prints a command outcome. Server error replies are printed
// as replies; transport errors are returned.
func printResult(c *cli.Context, command, value string, found bool, err error) error {
	f, ferr := formatter(c)
	if ferr != nil {
		return ferr
	}

	reply, err := toReply(command, value, found, err)
	if err != nil {
		return err
	}
	return f.Format(writer(c), reply)
}

func toReply(command, value string, found bool, err error) (output.Reply, error) {
	reply := output.Reply{Command: command}
	var se *connection.ServerError
	switch {
	case errors.As(err, &se):
		reply.Error = se.Message
	case err != nil:
		return reply, err
	case !found:
		reply.Nil = true
	default:
		reply.Value = value
	}
	return reply, nil
}

// execRaw sends args as-is and converts the reply. It backs the REPL.
func execRaw(ctx context.Context, mgr *connection.Manager, args []string) (output.Reply, error) {
	if len(args) == 0 {
		return output.Reply{}, fmt.Errorf("empty command")
	}
	v, err := mgr.Do(ctx, args...)
	command := strings.ToLower(args[0])
	if err != nil {
		return toReply(command, "", false, err)
	}
	if v == nil {
		return output.Reply{Command: command, Nil: true}, nil
	}
	return output.Reply{Command: command, Value: fmt.Sprint(v)}, nil
}
