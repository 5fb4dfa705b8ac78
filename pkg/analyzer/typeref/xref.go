package typeref

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Reference is a record that refers to some target type, with the file the
// record is defined in.
type Reference struct {
	Name string `json:"name" toon:"name"`
	File string `json:"file" toon:"file"`
}

// ReferencesTo scans every catalogued record other than target and returns
// those whose fields refer to target, sorted by name. Each referencing record
// appears once however many of its fields match.
func ReferencesTo(target string, cat *Catalog, files []*FileDecls) []Reference {
	byFile := declsByFile(files)
	refs := []Reference{}
	for _, e := range cat.Records() {
		if e.Name == target {
			continue
		}
		rec := lookupRecord(byFile, e)
		if rec != nil && rec.References(target) {
			refs = append(refs, Reference{Name: e.Name, File: e.File})
		}
	}
	return refs
}

// Index holds the dependency relation and its inverse for every catalogued
// type as bitmaps of catalog ordinals. Ordinals follow name order, so
// iterating a bitmap yields names sorted.
type Index struct {
	cat  *Catalog
	deps []*roaring.Bitmap // record ordinal -> referenced ordinals
	refs []*roaring.Bitmap // target ordinal -> referencing record ordinals
}

// NewIndex resolves every record once and records both directions.
func NewIndex(cat *Catalog, files []*FileDecls) *Index {
	return newIndex(cat, files, nil)
}

func newIndex(cat *Catalog, files []*FileDecls, tick func()) *Index {
	idx := &Index{
		cat:  cat,
		deps: make([]*roaring.Bitmap, cat.Len()),
		refs: make([]*roaring.Bitmap, cat.Len()),
	}
	for i := range idx.deps {
		idx.deps[i] = roaring.New()
		idx.refs[i] = roaring.New()
	}

	byFile := declsByFile(files)
	for _, e := range cat.Records() {
		from, _ := cat.Ordinal(e.Name)
		if rec := lookupRecord(byFile, e); rec != nil {
			for _, dep := range rec.dependencies(cat) {
				to, _ := cat.Ordinal(dep)
				idx.deps[from].Add(to)
				idx.refs[to].Add(from)
			}
		}
		if tick != nil {
			tick()
		}
	}
	return idx
}

// DependenciesOf returns the sorted catalog members name refers to.
func (idx *Index) DependenciesOf(name string) []string {
	i, ok := idx.cat.Ordinal(name)
	if !ok {
		return []string{}
	}
	return idx.names(idx.deps[i])
}

// ReferencesTo returns the records referring to target, sorted by name.
func (idx *Index) ReferencesTo(target string) []Reference {
	refs := []Reference{}
	i, ok := idx.cat.Ordinal(target)
	if !ok {
		return refs
	}
	it := idx.refs[i].Iterator()
	for it.HasNext() {
		e := idx.cat.At(it.Next())
		refs = append(refs, Reference{Name: e.Name, File: e.File})
	}
	return refs
}

// ReferenceCount returns the number of records referring to target.
func (idx *Index) ReferenceCount(target string) int {
	i, ok := idx.cat.Ordinal(target)
	if !ok {
		return 0
	}
	return int(idx.refs[i].GetCardinality())
}

// IsReferenced reports whether any record refers to target.
func (idx *Index) IsReferenced(target string) bool {
	return idx.ReferenceCount(target) > 0
}

// EdgeCount returns the number of dependency edges.
func (idx *Index) EdgeCount() int {
	n := 0
	for _, b := range idx.deps {
		n += int(b.GetCardinality())
	}
	return n
}

// Edges returns every dependency edge sorted by (From, To).
func (idx *Index) Edges() []Edge {
	edges := []Edge{}
	for from, b := range idx.deps {
		it := b.Iterator()
		for it.HasNext() {
			edges = append(edges, Edge{
				From: idx.cat.At(uint32(from)).Name,
				To:   idx.cat.At(it.Next()).Name,
			})
		}
	}
	return edges
}

func (idx *Index) names(b *roaring.Bitmap) []string {
	names := make([]string, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		names = append(names, idx.cat.At(it.Next()).Name)
	}
	return names
}

func declsByFile(files []*FileDecls) map[string]*FileDecls {
	m := make(map[string]*FileDecls, len(files))
	for _, fd := range files {
		m[fd.File] = fd
	}
	return m
}

func lookupRecord(byFile map[string]*FileDecls, e Entry) *RecordDecl {
	fd, ok := byFile[e.File]
	if !ok {
		return nil
	}
	return fd.Record(e.Name)
}
