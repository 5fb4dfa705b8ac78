// Package corpus loads the designated model files of one analysis run.
//
// Every file is read exactly once. A file that is missing, unreadable, not Go
// source or not valid UTF-8 is skipped with a LoadWarning; only an empty
// result is fatal.
package corpus

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/blake3"

	"github.com/panbanda/modeldeps/internal/vcs"
	"github.com/panbanda/modeldeps/pkg/parser"
	"github.com/panbanda/modeldeps/pkg/source"
)

var (
	// ErrNoFiles is returned when none of the designated files could be loaded.
	ErrNoFiles = errors.New("no model files found")
	// ErrInvalidLayout is returned when the designated files do not name
	// exactly one primary file, or name a file twice.
	ErrInvalidLayout = errors.New("invalid corpus layout")
	// ErrNotUTF8 is recorded for files that cannot be decoded as UTF-8 text.
	ErrNotUTF8 = errors.New("file is not valid UTF-8")
)

// Role distinguishes the primary file from auxiliary files.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleAuxiliary Role = "auxiliary"
)

func (r Role) String() string { return string(r) }

// FileSpec designates one file of the corpus.
type FileSpec struct {
	Name        string
	Description string
	Role        Role
}

// Layout is the corpus directory plus its designated files, primary first
// by convention.
type Layout struct {
	Dir   string
	Files []FileSpec
}

// Validate checks that the layout names exactly one primary file and no
// file twice.
func (l Layout) Validate() error {
	primaries := 0
	seen := make(map[string]bool, len(l.Files))
	for _, f := range l.Files {
		if f.Name == "" {
			return fmt.Errorf("%w: empty file name", ErrInvalidLayout)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s designated twice", ErrInvalidLayout, f.Name)
		}
		seen[f.Name] = true
		switch f.Role {
		case RolePrimary:
			primaries++
		case RoleAuxiliary:
		default:
			return fmt.Errorf("%w: %s has unknown role %q", ErrInvalidLayout, f.Name, f.Role)
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: expected one primary file, got %d", ErrInvalidLayout, primaries)
	}
	return nil
}

// Designates reports whether name is one of the layout's files.
func (l Layout) Designates(name string) bool {
	for _, f := range l.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Primary returns the designated primary file.
func (l Layout) Primary() FileSpec {
	for _, f := range l.Files {
		if f.Role == RolePrimary {
			return f
		}
	}
	return FileSpec{}
}

// SourceFile is one loaded file. Text is never modified after loading.
type SourceFile struct {
	Name        string `json:"name" toon:"name"`
	Path        string `json:"path" toon:"path"`
	Description string `json:"description,omitempty" toon:"description,omitempty"`
	Role        Role   `json:"role" toon:"role"`
	Digest      string `json:"digest" toon:"digest"`
	Lines       int    `json:"lines" toon:"lines"`
	Text        []byte `json:"-" toon:"-"`
}

// IsPrimary reports whether f is the primary file.
func (f *SourceFile) IsPrimary() bool {
	return f.Role == RolePrimary
}

// maxNearby caps the Go files listed beside a missing file.
const maxNearby = 5

// LoadWarning records a designated file that was skipped.
type LoadWarning struct {
	Name    string
	Path    string
	Missing bool
	Err     error
	// Nearby lists the Go files present in the directory of a missing file.
	Nearby []string
}

func (w LoadWarning) String() string {
	switch {
	case w.Missing && len(w.Nearby) > 0:
		return fmt.Sprintf("File not found: %s (directory has %s)", w.Path, nearbyText(w.Nearby))
	case w.Missing:
		return fmt.Sprintf("File not found: %s", w.Path)
	case errors.Is(w.Err, parser.ErrUnsupportedLanguage):
		return fmt.Sprintf("Not a Go file: %s", w.Path)
	}
	return fmt.Sprintf("Could not read %s: %v", w.Path, w.Err)
}

func nearbyText(names []string) string {
	if len(names) <= maxNearby {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(names[:maxNearby], ", "), len(names)-maxNearby)
}

// Corpus is the set of files that loaded successfully, in layout order.
type Corpus struct {
	Dir      string
	Source   string
	Primary  string
	Files    []*SourceFile
	Warnings []LoadWarning
}

// File returns the loaded file with the given name, or nil.
func (c *Corpus) File(name string) *SourceFile {
	for _, f := range c.Files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// PrimaryFile returns the loaded primary file, or nil if it did not load.
func (c *Corpus) PrimaryFile() *SourceFile {
	return c.File(c.Primary)
}

// Names returns the names of the loaded files, sorted.
func (c *Corpus) Names() []string {
	names := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	onWarning func(LoadWarning)
}

// WithWarningHandler is called once per skipped file, in layout order.
func WithWarningHandler(fn func(LoadWarning)) Option {
	return func(l *loader) {
		l.onWarning = fn
	}
}

// Load reads every designated file of layout from src.
func Load(src source.ContentSource, layout Layout, opts ...Option) (*Corpus, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	c := &Corpus{
		Dir:     layout.Dir,
		Source:  src.Describe(),
		Primary: layout.Primary().Name,
	}

	for _, spec := range layout.Files {
		path := filepath.Join(layout.Dir, spec.Name)
		var text []byte
		err := fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, spec.Name)
		if parser.DetectLanguage(spec.Name) == parser.LangGo {
			text, err = src.Read(path)
		}
		if err == nil && !utf8.Valid(text) {
			err = ErrNotUTF8
		}
		if err != nil {
			w := LoadWarning{
				Name:    spec.Name,
				Path:    path,
				Missing: errors.Is(err, fs.ErrNotExist) || errors.Is(err, vcs.ErrFileNotInTree),
				Err:     err,
			}
			if w.Missing {
				w.Nearby = goFiles(src, layout.Dir, layout)
			}
			c.Warnings = append(c.Warnings, w)
			if l.onWarning != nil {
				l.onWarning(w)
			}
			continue
		}

		c.Files = append(c.Files, &SourceFile{
			Name:        spec.Name,
			Path:        path,
			Description: spec.Description,
			Role:        spec.Role,
			Digest:      HashBytes(text),
			Lines:       countLines(text),
			Text:        text,
		})
	}

	if len(c.Files) == 0 {
		return c, fmt.Errorf("%w in %s", ErrNoFiles, layout.Dir)
	}
	return c, nil
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// goFiles returns the Go files in dir that the layout does not designate.
// Listing errors yield nothing.
func goFiles(src source.ContentSource, dir string, layout Layout) []string {
	names, err := src.List(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, name := range names {
		if parser.DetectLanguage(name) != parser.LangGo || layout.Designates(name) {
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func countLines(text []byte) int {
	if len(text) == 0 {
		return 0
	}
	n := bytes.Count(text, []byte{'\n'})
	if text[len(text)-1] != '\n' {
		n++
	}
	return n
}
