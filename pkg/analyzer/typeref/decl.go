package typeref

import (
	"context"
	"fmt"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/modeldeps/pkg/parser"
)

// Shape is the syntactic form through which a field denotes a type.
type Shape string

const (
	ShapeDirect       Shape = "direct"        // F T
	ShapeSlice        Shape = "slice"         // F []T
	ShapePointer      Shape = "pointer"       // F *T
	ShapePointerSlice Shape = "pointer-slice" // F *[]T
	ShapeSlicePointer Shape = "slice-pointer" // F []*T
)

func (s Shape) String() string { return string(s) }

// FieldRef is one named field whose type matched a reference shape.
type FieldRef struct {
	Field string `json:"field" toon:"field"`
	Type  string `json:"type" toon:"type"`
	Shape Shape  `json:"shape" toon:"shape"`
	Line  int    `json:"line" toon:"line"`
}

// RecordDecl is a struct type declaration with the shaped references of its
// named fields, in source order. Fields of inline anonymous structs count
// toward the enclosing record.
type RecordDecl struct {
	Name   string
	Line   int
	Fields []FieldRef
}

// References reports whether any field of r refers to target. A record never
// references itself.
func (r *RecordDecl) References(target string) bool {
	_, ok := r.FieldFor(target)
	return ok
}

// FieldFor returns the first field of r referring to target.
func (r *RecordDecl) FieldFor(target string) (FieldRef, bool) {
	if target == r.Name {
		return FieldRef{}, false
	}
	for _, f := range r.Fields {
		if f.Type == target {
			return f, true
		}
	}
	return FieldRef{}, false
}

// dependencies returns the sorted catalog members r refers to.
func (r *RecordDecl) dependencies(cat *Catalog) []string {
	seen := make(map[string]bool)
	deps := []string{}
	for _, f := range r.Fields {
		if f.Type == r.Name || seen[f.Type] || !cat.Contains(f.Type) {
			continue
		}
		seen[f.Type] = true
		deps = append(deps, f.Type)
	}
	slices.Sort(deps)
	return deps
}

// AliasDecl is a named type over one of the configured scalars.
type AliasDecl struct {
	Name       string
	Line       int
	Underlying string
}

// FileDecls holds the top-level type declarations of one file.
type FileDecls struct {
	File    string
	Records []RecordDecl
	Aliases []AliasDecl
}

// Record returns the record declaration with the given name, or nil.
func (fd *FileDecls) Record(name string) *RecordDecl {
	for i := range fd.Records {
		if fd.Records[i].Name == name {
			return &fd.Records[i]
		}
	}
	return nil
}

// RecordNames returns the sorted record names of the file.
func (fd *FileDecls) RecordNames() []string {
	names := make([]string, 0, len(fd.Records))
	for _, r := range fd.Records {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	return names
}

// AliasNames returns the sorted alias names of the file.
func (fd *FileDecls) AliasNames() []string {
	names := make([]string, 0, len(fd.Aliases))
	for _, a := range fd.Aliases {
		names = append(names, a.Name)
	}
	slices.Sort(names)
	return names
}

// Names returns the sorted union of record and alias names.
func (fd *FileDecls) Names() []string {
	names := append(fd.RecordNames(), fd.AliasNames()...)
	slices.Sort(names)
	return names
}

// ParseDecls extracts the top-level type declarations of a Go source file.
// Only declarations are inspected, so text in comments or string literals
// never produces a type.
func ParseDecls(ctx context.Context, p *parser.Parser, file string, text []byte, scalars []string) (*FileDecls, error) {
	result, err := p.ParseGo(ctx, text, file)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	fd := &FileDecls{File: file}
	root := result.Tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("failed to parse %s: empty tree", result.Path)
	}

	for _, decl := range parser.ChildrenOfType(root, "type_declaration") {
		for i := range int(decl.NamedChildCount()) {
			spec := decl.NamedChild(i)
			if spec.Type() != "type_spec" && spec.Type() != "type_alias" {
				continue
			}
			fd.addSpec(spec, result.Source, scalars)
		}
	}
	return fd, nil
}

func (fd *FileDecls) addSpec(spec *sitter.Node, source []byte, scalars []string) {
	nameNode := spec.ChildByFieldName("name")
	typeNode := spec.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return
	}
	name := parser.GetNodeText(nameNode, source)
	line := int(spec.StartPoint().Row) + 1

	switch typeNode.Type() {
	case "struct_type":
		rec := RecordDecl{Name: name, Line: line}
		collectFields(typeNode, source, &rec.Fields)
		fd.Records = append(fd.Records, rec)
	case "type_identifier":
		underlying := parser.GetNodeText(typeNode, source)
		if slices.Contains(scalars, underlying) {
			fd.Aliases = append(fd.Aliases, AliasDecl{Name: name, Line: line, Underlying: underlying})
		}
	}
}

// collectFields appends the shaped references of every named field of a
// struct_type node, descending into inline struct types.
func collectFields(structNode *sitter.Node, source []byte, out *[]FieldRef) {
	for _, list := range parser.ChildrenOfType(structNode, "field_declaration_list") {
		for _, field := range parser.ChildrenOfType(list, "field_declaration") {
			idents := parser.ChildrenOfType(field, "field_identifier")
			// Embedded fields have no identifier.
			if len(idents) == 0 {
				continue
			}
			typeNode := field.ChildByFieldName("type")
			if typeNode == nil {
				continue
			}

			ident, shape, ok := matchShape(typeNode, source)
			if !ok {
				if inner := innerStruct(typeNode); inner != nil {
					collectFields(inner, source, out)
				}
				continue
			}
			for _, id := range idents {
				*out = append(*out, FieldRef{
					Field: parser.GetNodeText(id, source),
					Type:  ident,
					Shape: shape,
					Line:  int(id.StartPoint().Row) + 1,
				})
			}
		}
	}
}

// matchShape recognizes the five reference shapes. Qualified, generic, map,
// array and channel types never match.
func matchShape(node *sitter.Node, source []byte) (string, Shape, bool) {
	switch node.Type() {
	case "type_identifier":
		return parser.GetNodeText(node, source), ShapeDirect, true
	case "slice_type":
		elem := node.ChildByFieldName("element")
		if elem == nil {
			return "", "", false
		}
		switch elem.Type() {
		case "type_identifier":
			return parser.GetNodeText(elem, source), ShapeSlice, true
		case "pointer_type":
			if inner := pointee(elem); inner != nil && inner.Type() == "type_identifier" {
				return parser.GetNodeText(inner, source), ShapeSlicePointer, true
			}
		}
	case "pointer_type":
		inner := pointee(node)
		if inner == nil {
			return "", "", false
		}
		switch inner.Type() {
		case "type_identifier":
			return parser.GetNodeText(inner, source), ShapePointer, true
		case "slice_type":
			if elem := inner.ChildByFieldName("element"); elem != nil && elem.Type() == "type_identifier" {
				return parser.GetNodeText(elem, source), ShapePointerSlice, true
			}
		}
	}
	return "", "", false
}

// innerStruct unwraps at most one pointer and one slice layer, in either
// order, around an inline struct type.
func innerStruct(node *sitter.Node) *sitter.Node {
	var pointer, slice bool
	for node != nil {
		switch node.Type() {
		case "struct_type":
			return node
		case "pointer_type":
			if pointer {
				return nil
			}
			pointer = true
			node = pointee(node)
		case "slice_type":
			if slice {
				return nil
			}
			slice = true
			node = node.ChildByFieldName("element")
		default:
			return nil
		}
	}
	return nil
}

// pointee returns the element of a pointer_type, which the Go grammar does
// not expose under a field name.
func pointee(node *sitter.Node) *sitter.Node {
	if node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}
