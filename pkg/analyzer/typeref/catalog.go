package typeref

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDuplicateType is returned when a type name is declared more than once
// in the corpus.
var ErrDuplicateType = errors.New("duplicate type name")

// Kind distinguishes record types from alias types.
type Kind string

const (
	KindRecord Kind = "record"
	KindAlias  Kind = "alias"
)

func (k Kind) String() string { return string(k) }

// Entry is one catalogued type.
type Entry struct {
	Name string `json:"name" toon:"name"`
	Kind Kind   `json:"kind" toon:"kind"`
	File string `json:"file" toon:"file"`
	Line int    `json:"line" toon:"line"`
}

// Catalog is the union of the types declared across the corpus. Entries are
// ordered by name and each entry's position is its ordinal.
type Catalog struct {
	entries []Entry
	byName  map[string]uint32
}

// NewCatalog builds the catalog from the declarations of every loaded file.
// A name declared twice, in one file or across files, is an error.
func NewCatalog(files []*FileDecls) (*Catalog, error) {
	var entries []Entry
	defined := make(map[string]Entry)
	var dups []string

	add := func(e Entry) {
		if prev, ok := defined[e.Name]; ok {
			if prev.File == e.File {
				dups = append(dups, fmt.Sprintf("%s declared twice in %s (lines %d and %d)", e.Name, e.File, prev.Line, e.Line))
			} else {
				dups = append(dups, fmt.Sprintf("%s declared in %s and %s", e.Name, prev.File, e.File))
			}
			return
		}
		defined[e.Name] = e
		entries = append(entries, e)
	}

	for _, fd := range files {
		for _, r := range fd.Records {
			add(Entry{Name: r.Name, Kind: KindRecord, File: fd.File, Line: r.Line})
		}
		for _, a := range fd.Aliases {
			add(Entry{Name: a.Name, Kind: KindAlias, File: fd.File, Line: a.Line})
		}
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, strings.Join(dups, "; "))
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	c := &Catalog{
		entries: entries,
		byName:  make(map[string]uint32, len(entries)),
	}
	for i, e := range entries {
		c.byName[e.Name] = uint32(i)
	}
	return c, nil
}

// Len returns the number of catalogued types.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Contains reports whether name is catalogued.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Ordinal returns the position of name in the catalog.
func (c *Catalog) Ordinal(name string) (uint32, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// At returns the entry at ordinal i.
func (c *Catalog) At(i uint32) Entry {
	return c.entries[i]
}

// Entries returns all entries sorted by name.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Records returns the record entries sorted by name.
func (c *Catalog) Records() []Entry {
	return c.filter(func(e Entry) bool { return e.Kind == KindRecord })
}

// Aliases returns the alias entries sorted by name.
func (c *Catalog) Aliases() []Entry {
	return c.filter(func(e Entry) bool { return e.Kind == KindAlias })
}

// InFile returns the entries defined in file, sorted by name.
func (c *Catalog) InFile(file string) []Entry {
	return c.filter(func(e Entry) bool { return e.File == file })
}

// Names returns every catalogued name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

func (c *Catalog) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
