package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/service/analysis"
	"github.com/panbanda/modeldeps/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a modeldeps.toml with the default settings",
		Description: `Creates modeldeps.toml in the project root with the default corpus layout.

Examples:
  modeldeps init                            # <root>/modeldeps.toml
  modeldeps init --path .modeldeps/modeldeps.toml
  modeldeps init --force                    # overwrite an existing file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Config file to write (default: modeldeps.toml in the project root)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := c.String("path")
	if outputPath == "" {
		root, err := analysis.ResolveRoot(c.String("root"))
		if err != nil {
			return err
		}
		outputPath = filepath.Join(root, "modeldeps.toml")
	}

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.New(color.FgGreen).Fprintf(c.App.Writer, "Created %s\n", outputPath)
	fmt.Fprintln(c.App.Writer, "Edit this file to change the model directory or the designated files.")
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# modeldeps configuration\n")
	buf.WriteString("# corpus.primary is checked for unreferenced structs; corpus.auxiliary files are exempt.\n\n")
	buf.Write(content)

	return buf.String(), nil
}
