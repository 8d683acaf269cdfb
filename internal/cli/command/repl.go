package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/emberkv/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start an interactive session",
		Action:  replAction,
	}
}

func replAction(c *cli.Context) error {
	f, err := formatter(c)
	if err != nil {
		return err
	}
	mgr := GetConnectionManager(c)
	cfg := cliConfig(c)

	exec := func(ctx context.Context, w io.Writer, args []string) error {
		reply, err := execRaw(ctx, mgr, args)
		if err != nil {
			return err
		}
		return f.Format(w, reply)
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	out := writer(c)

	fmt.Fprintf(out, "server %s, type help for commands\n", mgr.Addr())
	r := repl.New(exec,
		repl.WithIO(in, out),
		repl.WithPrompt(mgr.Addr()+"> "),
		repl.WithHistory(repl.NewHistory(cfg.HistoryFile, cfg.HistorySize)),
	)
	return r.Run(c.Context)
}
