// Package locator finds the project root and resolves type names given on
// the command line.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/panbanda/modeldeps/pkg/analyzer/typeref"
)

var (
	ErrNotFound       = errors.New("no type found")
	ErrAmbiguousMatch = errors.New("ambiguous match")
)

// FindProjectRoot returns the nearest directory at or above start that
// contains a go.mod file. When there is none, start itself is returned with
// found set to false.
func FindProjectRoot(start string) (root string, found bool) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start, false
	}
	for dir := abs; ; {
		if info, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, false
		}
		dir = parent
	}
}

// Symbol is a resolved catalogued type.
type Symbol struct {
	Name string `json:"name" toon:"name"`
	Kind string `json:"kind" toon:"kind"`
	File string `json:"file" toon:"file"`
	Line int    `json:"line" toon:"line"`
}

// Result contains the resolved type or the candidates of an ambiguous match.
type Result struct {
	Symbol     *Symbol
	Candidates []Symbol
}

// Locate resolves focus against the catalogued types of an analysis.
// Resolution order: exact name -> glob -> case-insensitive name.
func Locate(focus string, types []typeref.TypeDetail) (*Result, error) {
	for _, t := range types {
		if t.Name == focus {
			return &Result{Symbol: toSymbol(t)}, nil
		}
	}

	var matches []typeref.TypeDetail
	if containsGlobChars(focus) {
		g, err := glob.Compile(focus)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", focus, err)
		}
		for _, t := range types {
			if g.Match(t.Name) {
				matches = append(matches, t)
			}
		}
	} else {
		for _, t := range types {
			if strings.EqualFold(t.Name, focus) {
				matches = append(matches, t)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &Result{Symbol: toSymbol(matches[0])}, nil
	}

	candidates := make([]Symbol, len(matches))
	for i, m := range matches {
		candidates[i] = *toSymbol(m)
	}
	return &Result{Candidates: candidates}, ErrAmbiguousMatch
}

func containsGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func toSymbol(t typeref.TypeDetail) *Symbol {
	return &Symbol{
		Name: t.Name,
		Kind: string(t.Kind),
		File: t.File,
		Line: t.Line,
	}
}
