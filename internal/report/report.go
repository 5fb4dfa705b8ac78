// Package report turns a type reference analysis into renderable output.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/panbanda/modeldeps/internal/output"
	"github.com/panbanda/modeldeps/pkg/analyzer/typeref"
)

// Options selects which views a report contains.
type Options struct {
	Verbose    bool
	UnusedOnly bool
}

// UnusedData is the serialized form of the unreferenced-only view.
type UnusedData struct {
	PrimaryFile   string   `json:"primary_file" toon:"primary_file"`
	PrimaryLoaded bool     `json:"primary_loaded" toon:"primary_loaded"`
	Unreferenced  []string `json:"unreferenced" toon:"unreferenced"`
}

// Build assembles the report for a.
func Build(a *typeref.Analysis, opts Options) *output.Report {
	r := &output.Report{Title: title(a)}
	if opts.UnusedOnly {
		r.Data = UnusedData{
			PrimaryFile:   a.PrimaryFile,
			PrimaryLoaded: a.PrimaryLoaded,
			Unreferenced:  a.Classification.Unreferenced,
		}
		r.Sections = append(r.Sections, unreferencedList(a))
		if opts.Verbose {
			r.Sections = append(r.Sections, methodSection(a))
		}
		return r
	}

	r.Data = a
	r.Sections = append(r.Sections, statsTable(a))
	if len(a.Skipped) > 0 {
		r.Sections = append(r.Sections, &output.List{
			Title:  "Skipped files",
			Items:  a.Skipped,
			Status: output.StatusWarning,
		})
	}
	if opts.Verbose {
		r.Sections = append(r.Sections, filesSection(a))
	}
	r.Sections = append(r.Sections, referencedList(a), unreferencedList(a))
	if opts.Verbose {
		r.Sections = append(r.Sections,
			primaryDetailSection(a),
			otherDetailSection(a),
			cyclesList(a),
			methodSection(a),
		)
	}
	return r
}

// TypeReport renders the detail of a single type.
func TypeReport(a *typeref.Analysis, t typeref.TypeDetail) *output.Report {
	lines := []string{
		fmt.Sprintf("Kind: %s", t.Kind),
		fmt.Sprintf("Defined in: %s:%d", t.File, t.Line),
	}
	if t.Status != "" {
		lines = append(lines, fmt.Sprintf("Status: %s", t.Status))
	}
	if t.Kind == typeref.KindRecord {
		lines = append(lines, fmt.Sprintf("Dependencies: %s", joinOrNone(t.Dependencies)))
		for _, f := range t.Fields {
			lines = append(lines, fmt.Sprintf("  %s %s (%s, line %d)", f.Field, shapeText(f), f.Shape, f.Line))
		}
	}
	lines = append(lines, fmt.Sprintf("Referenced by: %s", joinOrNone(refsWithFile(t.ReferencedBy, ""))))

	return &output.Report{
		Title: title(a),
		Sections: []output.Renderable{
			&output.Section{Title: t.Name, Content: strings.Join(lines, "\n")},
		},
		Data: t,
	}
}

func title(a *typeref.Analysis) string {
	return fmt.Sprintf("Model Dependency Analysis (%s, %s)", a.Dir, a.Source)
}

func statsTable(a *typeref.Analysis) *output.Table {
	rows := make([][]string, 0, len(a.Files))
	for _, f := range a.Files {
		name := f.Name
		if f.Primary {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			f.Description,
			strconv.Itoa(len(f.Records)),
			strconv.Itoa(len(f.Aliases)),
			strconv.Itoa(f.Lines),
		})
	}
	s := a.Summary
	return output.NewTable(
		fmt.Sprintf("Statistics (%d files analyzed)", s.Files),
		[]string{"File", "Description", "Structs", "Aliases", "Lines"},
		rows,
		[]string{"Total", fmt.Sprintf("%d types, %d edges", s.Records+s.Aliases, s.Edges), strconv.Itoa(s.Records), strconv.Itoa(s.Aliases), ""},
		nil,
	)
}

func filesSection(a *typeref.Analysis) *output.Section {
	sec := &output.Section{Title: "Files analyzed"}
	for _, f := range a.Files {
		var lines []string
		if len(f.Records) > 0 {
			lines = append(lines, "Structs: "+strings.Join(f.Records, ", "))
		}
		if len(f.Aliases) > 0 {
			lines = append(lines, "Types: "+strings.Join(f.Aliases, ", "))
		}
		lines = append(lines, "Digest: "+f.Digest)
		sec.Sections = append(sec.Sections, output.Section{
			Title:   fmt.Sprintf("%s (%s)", f.Name, f.Description),
			Content: strings.Join(lines, "\n"),
		})
	}
	return sec
}

func referencedList(a *typeref.Analysis) *output.List {
	var items []string
	for _, t := range a.TypesInFile(a.PrimaryFile, typeref.KindRecord) {
		if t.Status != typeref.StatusReferenced {
			continue
		}
		refs := refsWithFile(t.ReferencedBy, a.PrimaryFile)
		items = append(items, fmt.Sprintf("%s ← %s", t.Name, strings.Join(refs, ", ")))
	}
	return &output.List{
		Title:  fmt.Sprintf("Referenced structs in %s [%d]", a.PrimaryFile, len(items)),
		Items:  items,
		Empty:  emptyMessage(a, "No referenced structs found"),
		Status: string(typeref.StatusReferenced),
	}
}

func unreferencedList(a *typeref.Analysis) *output.List {
	return &output.List{
		Title:  fmt.Sprintf("Unreferenced structs in %s [%d]", a.PrimaryFile, len(a.Classification.Unreferenced)),
		Items:  a.Classification.Unreferenced,
		Empty:  emptyMessage(a, "No unreferenced structs found"),
		Status: string(typeref.StatusUnreferenced),
	}
}

func emptyMessage(a *typeref.Analysis, msg string) string {
	if !a.PrimaryLoaded {
		return fmt.Sprintf("%s was not loaded.", a.PrimaryFile)
	}
	return fmt.Sprintf("%s in %s.", msg, a.PrimaryFile)
}

func primaryDetailSection(a *typeref.Analysis) *output.Section {
	sec := &output.Section{Title: "Internal dependencies within " + a.PrimaryFile}
	for _, t := range a.TypesInFile(a.PrimaryFile, typeref.KindRecord) {
		sec.Sections = append(sec.Sections, output.Section{
			Title: t.Name,
			Content: strings.Join([]string{
				"Internal dependencies: " + joinOrNone(t.InternalDependencies),
				"External references: " + joinOrNone(refsWithFile(t.ReferencedBy, "")),
			}, "\n"),
		})
	}
	return sec
}

func otherDetailSection(a *typeref.Analysis) *output.Section {
	sec := &output.Section{Title: "All structs"}
	for _, t := range a.Types {
		if t.Kind != typeref.KindRecord || t.File == a.PrimaryFile {
			continue
		}
		sec.Sections = append(sec.Sections, output.Section{
			Title: fmt.Sprintf("%s (defined in %s)", t.Name, t.File),
			Content: strings.Join([]string{
				"Dependencies: " + joinOrNone(t.Dependencies),
				"Referenced by: " + joinOrNone(refsWithFile(t.ReferencedBy, "")),
			}, "\n"),
		})
	}
	return sec
}

func cyclesList(a *typeref.Analysis) *output.List {
	items := make([]string, 0, len(a.Cycles))
	for _, c := range a.Cycles {
		items = append(items, strings.Join(append(slices.Clone(c), c[0]), " → "))
	}
	return &output.List{
		Title: fmt.Sprintf("Cycles [%d]", len(items)),
		Items: items,
		Empty: "None",
	}
}

func methodSection(a *typeref.Analysis) *output.Section {
	var aux []string
	for _, f := range a.Files {
		if !f.Primary {
			aux = append(aux, f.Name)
		}
	}
	lines := []string{
		fmt.Sprintf("- %s: check references across all files (%s)", a.PrimaryFile, strings.Join(loadedNames(a), ", ")),
	}
	if len(aux) > 0 {
		lines = append(lines, fmt.Sprintf("- %s: excluded from unreferenced analysis (external API models)", strings.Join(aux, " & ")))
	}
	lines = append(lines, "- Field types match as T, []T, *T, *[]T or []*T; maps, arrays, generics and qualified types are ignored")
	return &output.Section{Title: "Analysis method", Content: strings.Join(lines, "\n")}
}

func loadedNames(a *typeref.Analysis) []string {
	names := make([]string, 0, len(a.Files))
	for _, f := range a.Files {
		names = append(names, f.Name)
	}
	return names
}

// refsWithFile renders references as names, suffixing the defining file for
// references outside local. An empty local suffixes every reference.
func refsWithFile(refs []typeref.Reference, local string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if local != "" && r.File == local {
			out = append(out, r.Name)
			continue
		}
		out = append(out, fmt.Sprintf("%s (%s)", r.Name, r.File))
	}
	return out
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func shapeText(f typeref.FieldRef) string {
	switch f.Shape {
	case typeref.ShapeSlice:
		return "[]" + f.Type
	case typeref.ShapePointer:
		return "*" + f.Type
	case typeref.ShapePointerSlice:
		return "*[]" + f.Type
	case typeref.ShapeSlicePointer:
		return "[]*" + f.Type
	default:
		return f.Type
	}
}
