// Package typeref detects unreferenced record types in a corpus of Go model
// files.
//
// Each loaded file is parsed once into its top-level declarations. Records
// (struct types) and aliases (named types over a configured scalar) form the
// catalog. A record depends on every catalogued type one of its named fields
// denotes directly, as a slice, as a pointer, as a pointer to a slice or as a
// slice of pointers. The inverse relation decides classification: a record
// in the primary file that no other record refers to is unreferenced, while
// records of auxiliary files are exempt.
package typeref

import (
	"context"
	"fmt"
	"slices"

	"github.com/panbanda/modeldeps/pkg/analyzer"
	"github.com/panbanda/modeldeps/pkg/corpus"
	"github.com/panbanda/modeldeps/pkg/parser"
)

// DefaultScalars are the underlying types that make a named type an alias.
var DefaultScalars = []string{"string"}

// ProgressFunc is called after each record is resolved.
type ProgressFunc func(done, total int)

// Analyzer runs the type reference analysis.
type Analyzer struct {
	parser   *parser.Parser
	scalars  []string
	progress ProgressFunc
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithScalars sets the underlying types recognized as aliases.
func WithScalars(scalars []string) Option {
	return func(a *Analyzer) {
		if len(scalars) > 0 {
			a.scalars = slices.Clone(scalars)
		}
	}
}

// WithProgress sets a callback for record resolution progress.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// New creates a new type reference analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:  parser.New(),
		scalars: slices.Clone(DefaultScalars),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile-time check that Analyzer implements CorpusAnalyzer.
var _ analyzer.CorpusAnalyzer[*Analysis] = (*Analyzer)(nil)

// Close releases the parser.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// Decls parses every loaded file of c in corpus order.
func (a *Analyzer) Decls(ctx context.Context, c *corpus.Corpus) ([]*FileDecls, error) {
	decls := make([]*FileDecls, 0, len(c.Files))
	for _, f := range c.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fd, err := ParseDecls(ctx, a.parser, f.Name, f.Text, a.scalars)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
		}
		decls = append(decls, fd)
	}
	return decls, nil
}

// Analyze runs the full analysis over the loaded files of c. Cancellation is
// checked between phases; a cancelled run returns ctx.Err() and no result.
func (a *Analyzer) Analyze(ctx context.Context, c *corpus.Corpus) (*Analysis, error) {
	decls, err := a.Decls(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, err := NewCatalog(decls)
	if err != nil {
		return nil, err
	}

	records := len(cat.Records())
	done := 0
	idx := newIndex(cat, decls, func() {
		done++
		if a.progress != nil {
			a.progress(done, records)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	class := Classify(cat, idx, c.Primary)
	g := NewGraph(cat, idx)
	cycles := g.Cycles()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Analysis{
		Dir:            c.Dir,
		Source:         c.Source,
		PrimaryFile:    c.Primary,
		PrimaryLoaded:  c.PrimaryFile() != nil,
		Classification: class,
		Edges:          g.Edges(),
		Cycles:         cycles,
		graph:          g,
	}
	for _, w := range c.Warnings {
		result.Skipped = append(result.Skipped, w.Name)
	}

	for i, f := range c.Files {
		result.Files = append(result.Files, FileStats{
			Name:        f.Name,
			Path:        f.Path,
			Description: f.Description,
			Primary:     f.IsPrimary(),
			Lines:       f.Lines,
			Digest:      f.Digest,
			Records:     decls[i].RecordNames(),
			Aliases:     decls[i].AliasNames(),
		})
	}

	byFile := declsByFile(decls)
	for _, e := range cat.Entries() {
		detail := TypeDetail{
			Name:                 e.Name,
			Kind:                 e.Kind,
			File:                 e.File,
			Line:                 e.Line,
			Dependencies:         idx.DependenciesOf(e.Name),
			InternalDependencies: []string{},
			ReferencedBy:         idx.ReferencesTo(e.Name),
		}
		if e.Kind == KindRecord {
			detail.InternalDependencies = InternalDependencies(detail.Dependencies, e.File, cat)
			if rec := lookupRecord(byFile, e); rec != nil {
				detail.Fields = catalogFields(rec, cat)
			}
			detail.Status = statusOf(e.Name, class)
		}
		result.Types = append(result.Types, detail)
	}

	result.Summary = summarize(result, cat)
	return result, nil
}

// catalogFields keeps the fields of rec that refer to other catalogued types.
func catalogFields(rec *RecordDecl, cat *Catalog) []FieldRef {
	var out []FieldRef
	for _, f := range rec.Fields {
		if f.Type != rec.Name && cat.Contains(f.Type) {
			out = append(out, f)
		}
	}
	return out
}

func statusOf(name string, class Classification) Status {
	switch {
	case slices.Contains(class.Referenced, name):
		return StatusReferenced
	case slices.Contains(class.Unreferenced, name):
		return StatusUnreferenced
	default:
		return StatusExempt
	}
}

func summarize(a *Analysis, cat *Catalog) Summary {
	s := Summary{
		Files:               len(a.Files),
		SkippedFiles:        len(a.Skipped),
		Records:             len(cat.Records()),
		Aliases:             len(cat.Aliases()),
		UnreferencedPrimary: len(a.Classification.Unreferenced),
		Exempt:              len(a.Classification.Exempt),
		Edges:               len(a.Edges),
		Cycles:              len(a.Cycles),
	}
	for _, t := range a.Types {
		if t.Kind != KindRecord || t.File != a.PrimaryFile {
			continue
		}
		s.PrimaryRecords++
		if t.Status == StatusReferenced {
			s.ReferencedPrimary++
		}
	}
	return s
}
