package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Re-run the analysis whenever a designated model file changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before re-running (default: watch.debounce from config)",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	s, err := appSettings(c)
	if err != nil {
		return err
	}
	if s.ref != "" {
		return fmt.Errorf("watch reads the working tree and cannot be combined with --ref")
	}

	debounce, err := s.config.DebounceDuration()
	if err != nil {
		return err
	}
	if c.IsSet("debounce") {
		debounce = c.Duration("debounce")
	}

	layout := s.config.Layout()
	if s.dir != "" {
		layout.Dir = s.dir
	}
	names := make([]string, 0, len(layout.Files))
	for _, f := range layout.Files {
		names = append(names, f.Name)
	}

	watcher, err := watch.NewWatcher(filepath.Join(s.root, layout.Dir), names, debounce)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.SetOutput(c.App.Writer)

	analyze := func() {
		if err := runAnalyze(c); err != nil && !errors.Is(err, context.Canceled) {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
		}
	}
	watcher.SetCallback(func([]string) { analyze() })

	analyze()
	fmt.Fprintln(c.App.Writer)

	err = watcher.Start(c.Context)
	if errors.Is(err, context.Canceled) {
		color.New(color.FgCyan).Fprintln(c.App.Writer, "\nStopped watching")
		return nil
	}
	return err
}
