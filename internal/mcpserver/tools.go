package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/modeldeps/internal/locator"
	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/internal/report"
	"github.com/panbanda/modeldeps/internal/service/analysis"
	"github.com/panbanda/modeldeps/pkg/corpus"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Root   string `json:"root,omitempty" jsonschema:"Project root. Defaults to the nearest directory containing go.mod."`
	Dir    string `json:"dir,omitempty" jsonschema:"Model directory relative to root. Defaults to the configured directory."`
	Ref    string `json:"ref,omitempty" jsonschema:"Git revision to read the model files from instead of the working tree."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// AnalyzeTypesInput adds analysis view options.
type AnalyzeTypesInput struct {
	AnalyzeInput
	UnusedOnly bool `json:"unused_only,omitempty" jsonschema:"Return only the unreferenced structs of the primary file."`
}

// TypeReferencesInput names the type to look up.
type TypeReferencesInput struct {
	AnalyzeInput
	Name string `json:"name" jsonschema:"Type name, glob pattern, or case-insensitive name."`
}

// candidateList is returned for an ambiguous type lookup.
type candidateList struct {
	Query      string           `json:"query" toon:"query"`
	Candidates []locator.Symbol `json:"candidates" toon:"candidates"`
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) run(ctx context.Context, input AnalyzeInput) (*analysis.Result, error) {
	var opts []analysis.Option
	if s.config != nil {
		opts = append(opts, analysis.WithConfig(s.config))
	}
	res, err := analysis.New(opts...).Run(ctx, analysis.Request{
		Root: input.Root,
		Dir:  input.Dir,
		Ref:  input.Ref,
	})
	if errors.Is(err, corpus.ErrNoFiles) {
		var missing []string
		if res != nil && res.Corpus != nil {
			for _, w := range res.Corpus.Warnings {
				missing = append(missing, w.String())
			}
		}
		return nil, fmt.Errorf("no model files found (%s)", strings.Join(missing, "; "))
	}
	return res, err
}

func (s *Server) handleAnalyzeTypes(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeTypesInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	res, err := s.run(ctx, input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(report.Build(res.Analysis, report.Options{
		Verbose:    true,
		UnusedOnly: input.UnusedOnly,
	}), format)
}

func (s *Server) handleTypeReferences(ctx context.Context, req *mcp.CallToolRequest, input TypeReferencesInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	if strings.TrimSpace(input.Name) == "" {
		return toolError("name is required")
	}

	res, err := s.run(ctx, input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	found, err := locator.Locate(input.Name, res.Analysis.Types)
	switch {
	case errors.Is(err, locator.ErrAmbiguousMatch):
		return toolResult(candidateList{Query: input.Name, Candidates: found.Candidates}, format)
	case err != nil:
		return toolError(fmt.Sprintf("%s: %v", input.Name, err))
	}

	detail, _ := res.Analysis.Type(found.Symbol.Name)
	return toolResult(report.TypeReport(res.Analysis, detail), format)
}
