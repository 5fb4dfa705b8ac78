// Package analysis runs one type reference analysis for a project, shared by
// the CLI, watch mode, and the MCP server.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/panbanda/modeldeps/internal/locator"
	"github.com/panbanda/modeldeps/pkg/analyzer/typeref"
	"github.com/panbanda/modeldeps/pkg/config"
	"github.com/panbanda/modeldeps/pkg/corpus"
	"github.com/panbanda/modeldeps/pkg/source"
)

// Service orchestrates loading and analyzing a model corpus.
type Service struct {
	config    *config.Config
	progress  typeref.ProgressFunc
	onWarning func(corpus.LoadWarning)
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration. Without it each run loads the
// configuration found in the project root.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithProgress sets the record resolution progress callback.
func WithProgress(fn typeref.ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithWarningHandler sets a callback for files that could not be loaded.
func WithWarningHandler(fn func(corpus.LoadWarning)) Option {
	return func(s *Service) {
		s.onWarning = fn
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request selects what one run analyzes.
type Request struct {
	// Root is the project root. Empty means the nearest directory with a
	// go.mod at or above the working directory.
	Root string
	// Dir overrides the configured corpus directory, relative to Root.
	Dir string
	// Ref reads the designated files from a git revision.
	Ref string
}

// Result is the outcome of one run.
type Result struct {
	Root     string
	Config   *config.Config
	Corpus   *corpus.Corpus
	Analysis *typeref.Analysis
}

// ResolveRoot returns the absolute project root for root, discovering it
// from the working directory when root is empty.
func ResolveRoot(root string) (string, error) {
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	found, _ := locator.FindProjectRoot(wd)
	return found, nil
}

// Run loads the corpus and analyzes it. When no designated file loads, the
// result still carries the corpus and its warnings alongside
// corpus.ErrNoFiles.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	root, err := ResolveRoot(req.Root)
	if err != nil {
		return nil, err
	}

	cfg := s.config
	if cfg == nil {
		cfg = config.LoadOrDefault(root)
	}
	res := &Result{Root: root, Config: cfg}

	layout := cfg.Layout()
	if req.Dir != "" {
		layout.Dir = req.Dir
	}

	src, err := source.Open(root, req.Ref)
	if err != nil {
		return res, fmt.Errorf("failed to open %s at %s: %w", root, req.Ref, err)
	}

	res.Corpus, err = corpus.Load(src, layout, corpus.WithWarningHandler(s.onWarning))
	if err != nil {
		return res, err
	}

	a := typeref.New(
		typeref.WithScalars(cfg.Aliases.Scalars),
		typeref.WithProgress(s.progress),
	)
	defer a.Close()

	res.Analysis, err = a.Analyze(ctx, res.Corpus)
	if err != nil {
		return res, err
	}
	return res, nil
}
