package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the analysis
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "modeldeps": {
        "command": "modeldeps",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_types     Referenced, unreferenced and exempt structs
  - type_references   Dependencies and referencing structs of one type`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	var opts []mcpserver.Option
	if c.String("config") != "" {
		s, err := appSettings(c)
		if err != nil {
			return err
		}
		opts = append(opts, mcpserver.WithConfig(s.config))
	}
	server := mcpserver.NewServer(version, opts...)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}
