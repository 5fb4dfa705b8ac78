package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/pkg/analyzer/typeref"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Render the struct dependency graph as a Mermaid flowchart",
		Description: `Edges point from a struct to each type its fields refer to. Primary-file
types are highlighted and unreferenced structs are styled separately.
JSON and TOON output contain the edges and cycles instead of Mermaid text.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "direction",
				Value: "LR",
				Usage: "Flowchart direction: LR, RL, TD, TB, BT",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include types without any edges",
			},
		},
		Action: runGraphCmd,
	}
}

// graphData is the serialized form of the graph command.
type graphData struct {
	Edges  []typeref.Edge `json:"edges" toon:"edges"`
	Cycles [][]string     `json:"cycles" toon:"cycles"`
}

func runGraphCmd(c *cli.Context) error {
	direction := strings.ToUpper(c.String("direction"))
	switch direction {
	case "LR", "RL", "TD", "TB", "BT":
	default:
		return fmt.Errorf("invalid direction %q (want LR, RL, TD, TB or BT)", c.String("direction"))
	}

	s, err := appSettings(c)
	if err != nil {
		return err
	}

	res, err := runAnalysis(c, s)
	if err != nil {
		return err
	}
	a := res.Analysis

	formatter, err := newFormatter(c, s)
	if err != nil {
		return err
	}
	defer formatter.Close()

	chart := a.Mermaid(direction, c.Bool("all"))
	switch formatter.Format() {
	case output.FormatJSON, output.FormatTOON:
		cycles := a.Cycles
		if cycles == nil {
			cycles = [][]string{}
		}
		return formatter.Output(graphData{Edges: a.Edges, Cycles: cycles})
	case output.FormatMarkdown:
		_, err = fmt.Fprintf(formatter.Writer(), "```mermaid\n%s```\n", chart)
	default:
		_, err = fmt.Fprint(formatter.Writer(), chart)
	}
	return err
}
