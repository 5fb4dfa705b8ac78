package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/internal/progress"
	"github.com/panbanda/modeldeps/internal/service/analysis"
	"github.com/panbanda/modeldeps/pkg/config"
	"github.com/panbanda/modeldeps/pkg/corpus"
)

const settingsKey = "settings"

// settings is the configuration merged with the global flags.
type settings struct {
	root       string
	config     *config.Config
	configFile string
	dir        string
	ref        string
	format     output.Format
	output     string
	verbose    bool
	unusedOnly bool
	colored    bool
	progress   bool
}

// appSettings loads the configuration and applies flag overrides. The result
// is cached on the app.
func appSettings(c *cli.Context) (*settings, error) {
	if s, ok := c.App.Metadata[settingsKey].(*settings); ok {
		return s, nil
	}

	root, err := analysis.ResolveRoot(c.String("root"))
	if err != nil {
		return nil, err
	}

	opts := []config.LoadOption{config.WithSearchRoot(root)}
	if path := c.String("config"); path != "" {
		opts = []config.LoadOption{config.WithPath(path)}
	}
	res, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	s := &settings{
		root:       root,
		config:     cfg,
		configFile: res.Source,
		dir:        c.String("dir"),
		ref:        c.String("ref"),
		format:     output.ParseFormat(cfg.Output.Format),
		output:     c.String("output"),
		verbose:    cfg.Output.Verbose || c.Bool("verbose"),
		unusedOnly: c.Bool("unused-only"),
		colored:    cfg.Output.Color && !c.Bool("no-color"),
		progress:   cfg.Output.Progress && !c.Bool("no-progress"),
	}
	if c.IsSet("format") {
		s.format = output.ParseFormat(c.String("format"))
	}
	c.App.Metadata[settingsKey] = s
	return s, nil
}

// newFormatter writes to the app's writer, or to the --output file.
func newFormatter(c *cli.Context, s *settings) (*output.Formatter, error) {
	if s.output == "" {
		return output.NewWriterFormatter(s.format, c.App.Writer, s.colored), nil
	}
	return output.NewFormatter(s.format, s.output, false)
}

// runAnalysis performs one analysis with warnings and progress on the app's
// error writer.
func runAnalysis(c *cli.Context, s *settings) (*analysis.Result, error) {
	opts := []analysis.Option{
		analysis.WithConfig(s.config),
		analysis.WithWarningHandler(warningPrinter(c.App.ErrWriter, s.colored)),
	}
	var reporter *progress.Reporter
	if s.progress {
		reporter = progress.NewReporter(c.App.ErrWriter, "Resolving types")
		opts = append(opts, analysis.WithProgress(reporter.Report))
	}

	res, err := analysis.New(opts...).Run(c.Context, analysis.Request{
		Root: s.root,
		Dir:  s.dir,
		Ref:  s.ref,
	})
	if reporter != nil {
		reporter.Finish(err)
	}
	return res, err
}

func warningPrinter(w io.Writer, colored bool) func(corpus.LoadWarning) {
	f := output.NewWriterFormatter(output.FormatText, w, colored)
	return func(lw corpus.LoadWarning) {
		f.Warning("%s", lw.String())
	}
}
