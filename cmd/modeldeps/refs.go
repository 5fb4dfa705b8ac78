package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/locator"
	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/internal/report"
)

func refsCmd() *cli.Command {
	return &cli.Command{
		Name:      "refs",
		Usage:     "Show the dependencies and referencing structs of one type",
		ArgsUsage: "<name|pattern>",
		Description: `The name may be exact, a glob pattern, or a case-insensitive match.

Examples:
  modeldeps refs TbVmInfo
  modeldeps refs 'Tb*Req'`,
		Action: runRefsCmd,
	}
}

func runRefsCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("refs takes exactly one type name")
	}
	name := c.Args().First()

	s, err := appSettings(c)
	if err != nil {
		return err
	}

	res, err := runAnalysis(c, s)
	if err != nil {
		return err
	}

	found, err := locator.Locate(name, res.Analysis.Types)
	if errors.Is(err, locator.ErrAmbiguousMatch) {
		rows := make([][]string, 0, len(found.Candidates))
		for _, cand := range found.Candidates {
			rows = append(rows, []string{cand.Name, cand.Kind, fmt.Sprintf("%s:%d", cand.File, cand.Line)})
		}
		table := output.NewTable(fmt.Sprintf("Types matching %q", name), []string{"Type", "Kind", "Location"}, rows, nil, found.Candidates)
		output.NewWriterFormatter(s.format, c.App.ErrWriter, s.colored).Output(table)
		return fmt.Errorf("%q: %w", name, err)
	}
	if err != nil {
		return fmt.Errorf("%q: %w", name, err)
	}

	detail, _ := res.Analysis.Type(found.Symbol.Name)

	formatter, err := newFormatter(c, s)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.TypeReport(res.Analysis, detail))
}
