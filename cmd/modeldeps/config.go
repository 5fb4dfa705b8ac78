package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/service/analysis"
	"github.com/panbanda/modeldeps/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a modeldeps configuration file for syntax errors and invalid values.

Examples:
  modeldeps config validate                   # validates the file found in the project root
  modeldeps -c modeldeps.yaml config validate`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the configuration from the config file merged over the defaults.

Examples:
  modeldeps config show
  modeldeps -c modeldeps.toml config show`,
				Action: runConfigShow,
			},
		},
	}
}

func loadConfigForCmd(c *cli.Context) (*config.LoadResult, error) {
	if path := c.String("config"); path != "" {
		return config.LoadConfig(config.WithPath(path))
	}
	root, err := analysis.ResolveRoot(c.String("root"))
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(config.WithSearchRoot(root))
}

func runConfigValidate(c *cli.Context) error {
	result, err := loadConfigForCmd(c)
	if err != nil {
		color.New(color.FgRed).Fprintln(c.App.Writer, "Configuration validation failed:")
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		color.New(color.FgGreen).Fprintf(c.App.Writer, "Configuration valid: %s\n", result.Source)
	} else {
		color.New(color.FgYellow).Fprintln(c.App.Writer, "No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	result, err := loadConfigForCmd(c)
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Fprintf(c.App.Writer, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(c.App.Writer, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprint(c.App.Writer, string(content))
	return err
}
