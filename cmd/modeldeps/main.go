package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/pkg/corpus"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps its outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.RunContext(ctx, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		color.New(color.FgYellow).Fprintln(stderr, "\nAnalysis interrupted by user")
	case errors.Is(err, corpus.ErrNoFiles):
		color.New(color.FgRed).Fprintf(stderr, "Error: No model files found (%v)\n", err)
	default:
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	// -v is --verbose here.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	return &cli.App{
		Name:    "modeldeps",
		Usage:   "Find unreferenced struct types in a Go model package",
		Version: version,
		Description: `modeldeps parses a primary model file and its auxiliary files, builds the
field-level dependency graph between their struct and alias types, and reports
primary-file structs that no struct in any loaded file refers to.

Structs from auxiliary files are treated as external API models and are never
reported as unreferenced.`,
		Writer:               stdout,
		ErrWriter:            stderr,
		Metadata:             make(map[string]any),
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Before:               loadAppConfig,
		Action:               runAnalyze,
		Commands: []*cli.Command{
			analyzeCmd(),
			graphCmd(),
			refsCmd(),
			watchCmd(),
			mcpCmd(),
			initCmd(),
			configCmd(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Show per-file type lists, per-type dependencies and references, cycles, and the analysis method",
		},
		&cli.BoolFlag{
			Name:    "unused-only",
			Aliases: []string{"u"},
			Usage:   "Only report unreferenced structs",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"MODELDEPS_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Project root (default: nearest directory containing go.mod)",
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Model directory relative to the project root",
		},
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Read the model files from this git revision instead of the working tree",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "text",
			Usage:   "Output format: text, json, markdown, toon",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Disable the progress bar",
		},
	}
}

// loadAppConfig resolves the project root and loads the configuration once
// for every command. The config commands load it themselves so that they can
// report errors.
func loadAppConfig(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}
	if cmd := c.Args().First(); cmd == "config" || cmd == "init" {
		return nil
	}
	_, err := appSettings(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}
