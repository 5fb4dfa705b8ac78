package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/report"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Report referenced and unreferenced structs (default command)",
		Description: `Loads the designated model files, resolves every struct's field
dependencies, and classifies the primary file's structs.

Examples:
  modeldeps                          # analyze infra/cloud-model in the project root
  modeldeps -u                       # only the unreferenced structs
  modeldeps -v -f markdown -o deps.md
  modeldeps --ref main -f json       # analyze the files as committed on main`,
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	s, err := appSettings(c)
	if err != nil {
		return err
	}

	res, err := runAnalysis(c, s)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, s)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.Build(res.Analysis, report.Options{
		Verbose:    s.verbose,
		UnusedOnly: s.unusedOnly,
	}))
}
