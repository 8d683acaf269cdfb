package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/emberkv/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the CLI configuration file",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective CLI configuration",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Set a configuration value (keys: " + strings.Join(config.Keys(), ", ") + ")",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	f, err := formatter(c)
	if err != nil {
		return err
	}
	return f.Format(writer(c), cliConfig(c))
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE")
	}
	path := ParseGlobalFlags(c).ConfigPath

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Set(cfg, c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintln(writer(c), "OK")
	return nil
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(writer(c), ParseGlobalFlags(c).ConfigPath)
	return nil
}
