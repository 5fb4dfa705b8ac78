package typeref

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/panbanda/modeldeps/pkg/corpus"
	"github.com/panbanda/modeldeps/pkg/parser"
)

const primaryName = "copied-tb-model.go"

const primarySrc = `package model

// Foo exercises every reference shape.
type Foo struct {
	Bar      Bar
	Items    []Item
	Ptr      *Baz
	PtrSlice *[]Qux
	SlicePtr []*Zap
}

type Orphan struct {
	Name string
}
`

const auxSrc = `package model

type Bar struct{}
type Item struct{}
type Baz struct{}
type Qux struct{}
type Zap struct{}

type Holder struct {
	Foo Foo
}
`

const externalSrc = `package model

type External struct {
	Unused string
}
`

type testFile struct {
	name string
	text string
}

func scenarioFiles() []testFile {
	return []testFile{
		{primaryName, primarySrc},
		{"model.go", auxSrc},
		{"vm-infra-info.go", externalSrc},
	}
}

func parseFiles(t *testing.T, files ...testFile) ([]*FileDecls, *Catalog) {
	t.Helper()
	p := parser.New()
	defer p.Close()

	var decls []*FileDecls
	for _, f := range files {
		fd, err := ParseDecls(context.Background(), p, f.name, []byte(f.text), DefaultScalars)
		if err != nil {
			t.Fatalf("ParseDecls(%s) error: %v", f.name, err)
		}
		decls = append(decls, fd)
	}
	cat, err := NewCatalog(decls)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	return decls, cat
}

func textOf(files []testFile, name string) []byte {
	for _, f := range files {
		if f.name == name {
			return []byte(f.text)
		}
	}
	return nil
}

func refNames(refs []Reference) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}

func TestParseDecls(t *testing.T) {
	src := `package model

import "time"

// type Ghost struct { X Foo }
/* type Spirit struct {} */
var doc = "type Phantom struct { X Foo }"

type Status string
type Code = string
type Count int

type (
	Foo struct{}
	Inner struct {
		A, B   Foo
		Tagged  *[]Foo   ` + "`json:\"tagged,omitempty\"`" + `
		Foo
		*Status
		When    time.Time
		ByName  map[string]Foo
		Fixed   [3]Foo
		Anon    struct {
			Deep []*Foo
		}
		AnonPtr *struct {
			Code Code
		}
	}
)

func build() {
	type Local struct{ X Foo }
}
`
	decls, _ := parseFiles(t, testFile{"m.go", src})
	fd := decls[0]

	if got, want := fd.RecordNames(), []string{"Foo", "Inner"}; !slices.Equal(got, want) {
		t.Errorf("RecordNames() = %v, want %v", got, want)
	}
	if got, want := fd.AliasNames(), []string{"Code", "Status"}; !slices.Equal(got, want) {
		t.Errorf("AliasNames() = %v, want %v", got, want)
	}

	inner := fd.Record("Inner")
	if inner == nil {
		t.Fatal("Record(Inner) = nil")
	}
	want := []FieldRef{
		{Field: "A", Type: "Foo", Shape: ShapeDirect},
		{Field: "B", Type: "Foo", Shape: ShapeDirect},
		{Field: "Tagged", Type: "Foo", Shape: ShapePointerSlice},
		{Field: "Deep", Type: "Foo", Shape: ShapeSlicePointer},
		{Field: "Code", Type: "Code", Shape: ShapeDirect},
	}
	if len(inner.Fields) != len(want) {
		t.Fatalf("Inner fields = %+v, want %d entries", inner.Fields, len(want))
	}
	for i, w := range want {
		got := inner.Fields[i]
		if got.Field != w.Field || got.Type != w.Type || got.Shape != w.Shape {
			t.Errorf("field %d = %+v, want %+v", i, got, w)
		}
	}
	if inner.Fields[0].Line != 16 {
		t.Errorf("field A line = %d, want 16", inner.Fields[0].Line)
	}

	if e := fd.Record("Foo"); e == nil || e.Line != 14 {
		t.Errorf("Foo declaration = %+v, want line 14", e)
	}
	for _, name := range []string{"Ghost", "Spirit", "Phantom", "Local", "Count"} {
		if slices.Contains(fd.Names(), name) {
			t.Errorf("%s should not be declared", name)
		}
	}
}

func TestParseDecls_InlineStructWrappers(t *testing.T) {
	src := `package m

type Foo struct{}

type Host struct {
	A **struct{ X Foo }
	B [][]struct{ Y Foo }
	C *[]struct{ Z Foo }
	D []*struct{ W Foo }
	E []struct{ V Foo }
	F *[]*struct{ U Foo }
}
`
	decls, _ := parseFiles(t, testFile{"m.go", src})
	host := decls[0].Record("Host")
	if host == nil {
		t.Fatal("Record(Host) = nil")
	}

	var got []string
	for _, f := range host.Fields {
		got = append(got, f.Field)
	}
	// One pointer and one slice layer in either order; doubled layers are
	// not unwrapped.
	if want := []string{"Z", "W", "V"}; !slices.Equal(got, want) {
		t.Errorf("Host fields = %v, want %v", got, want)
	}
}

func TestParseDecls_Scalars(t *testing.T) {
	p := parser.New()
	defer p.Close()

	src := []byte("package m\n\ntype Count int\ntype Name string\n")
	fd, err := ParseDecls(context.Background(), p, "m.go", src, []string{"string", "int"})
	if err != nil {
		t.Fatalf("ParseDecls() error: %v", err)
	}
	if got, want := fd.AliasNames(), []string{"Count", "Name"}; !slices.Equal(got, want) {
		t.Errorf("AliasNames() = %v, want %v", got, want)
	}
}

func TestDependenciesOf_Shapes(t *testing.T) {
	files := scenarioFiles()
	_, cat := parseFiles(t, files...)

	got, err := DependenciesOf("Foo", textOf(files, primaryName), cat)
	if err != nil {
		t.Fatalf("DependenciesOf() error: %v", err)
	}
	if want := []string{"Bar", "Baz", "Item", "Qux", "Zap"}; !slices.Equal(got, want) {
		t.Errorf("DependenciesOf(Foo) = %v, want %v", got, want)
	}
}

func TestDependenciesOf_EdgeCases(t *testing.T) {
	src := `package m

type Foo struct{}
type FooBar struct{}
type Status string

type Node struct {
	Next     *Node
	Children []Node
	Kind     Status
	Name     string
	Other    Unknown
	Both     FooBar
	Again    Foo
	Twice    []Foo
}
`
	files := []testFile{{"m.go", src}}
	_, cat := parseFiles(t, files...)

	tests := []struct {
		record string
		want   []string
	}{
		// Self references, primitives and unknown identifiers are dropped;
		// FooBar does not imply Foo and Foo is reported once.
		{"Node", []string{"Foo", "FooBar", "Status"}},
		{"Foo", []string{}},
		{"Missing", []string{}},
		// Aliases are not records and have no body.
		{"Status", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.record, func(t *testing.T) {
			got, err := DependenciesOf(tt.record, []byte(src), cat)
			if err != nil {
				t.Fatalf("DependenciesOf() error: %v", err)
			}
			if got == nil || !slices.Equal(got, tt.want) {
				t.Errorf("DependenciesOf(%s) = %#v, want %v", tt.record, got, tt.want)
			}
		})
	}
}

func TestDependenciesOf_PrefixSafety(t *testing.T) {
	src := `package m

type Foo struct{}
type FooBar struct{}
type FooList struct{}

type User struct {
	A FooBar
	B []FooList
	C *FooBar
}
`
	_, cat := parseFiles(t, testFile{"m.go", src})

	got, err := DependenciesOf("User", []byte(src), cat)
	if err != nil {
		t.Fatalf("DependenciesOf() error: %v", err)
	}
	if slices.Contains(got, "Foo") {
		t.Errorf("DependenciesOf(User) = %v, must not contain Foo", got)
	}
}

func TestReferencesTo(t *testing.T) {
	decls, cat := parseFiles(t, scenarioFiles()...)

	refs := ReferencesTo("Bar", cat, decls)
	if len(refs) != 1 || refs[0] != (Reference{Name: "Foo", File: primaryName}) {
		t.Errorf("ReferencesTo(Bar) = %+v", refs)
	}

	refs = ReferencesTo("Foo", cat, decls)
	if len(refs) != 1 || refs[0] != (Reference{Name: "Holder", File: "model.go"}) {
		t.Errorf("ReferencesTo(Foo) = %+v", refs)
	}

	if refs := ReferencesTo("Orphan", cat, decls); len(refs) != 0 {
		t.Errorf("ReferencesTo(Orphan) = %+v, want none", refs)
	}
	if refs := ReferencesTo("Nope", cat, decls); refs == nil || len(refs) != 0 {
		t.Errorf("ReferencesTo(Nope) = %#v, want empty", refs)
	}
}

func TestReferencesTo_OncePerReferencingType(t *testing.T) {
	src := `package m

type Target struct{}

type Multi struct {
	A Target
	B *Target
	C []Target
	D *[]Target
	E []*Target
}

type Self struct {
	Next *Self
}
`
	decls, cat := parseFiles(t, testFile{"m.go", src})

	refs := ReferencesTo("Target", cat, decls)
	if got := refNames(refs); !slices.Equal(got, []string{"Multi"}) {
		t.Errorf("ReferencesTo(Target) = %v, want [Multi]", got)
	}
	if refs := ReferencesTo("Self", cat, decls); len(refs) != 0 {
		t.Errorf("ReferencesTo(Self) = %+v, want none", refs)
	}
}

func TestCatalogClosureAndDuality(t *testing.T) {
	files := append(scenarioFiles(), testFile{"extra.go", `package model

type Status string

type Cycle struct {
	Back *Holder
	S    Status
	X    []Missing
}
`})
	decls, cat := parseFiles(t, files...)
	idx := NewIndex(cat, decls)

	for _, a := range cat.Records() {
		deps, err := DependenciesOf(a.Name, textOf(files, a.File), cat)
		if err != nil {
			t.Fatalf("DependenciesOf(%s) error: %v", a.Name, err)
		}
		if slices.Contains(deps, a.Name) {
			t.Errorf("%s depends on itself", a.Name)
		}
		for _, d := range deps {
			if !cat.Contains(d) {
				t.Errorf("%s depends on uncatalogued %s", a.Name, d)
			}
		}
		if !slices.Equal(deps, idx.DependenciesOf(a.Name)) {
			t.Errorf("index deps of %s = %v, scan = %v", a.Name, idx.DependenciesOf(a.Name), deps)
		}

		for _, b := range cat.Entries() {
			forward := slices.Contains(deps, b.Name)
			backward := slices.Contains(ReferencesTo(b.Name, cat, decls), Reference{Name: a.Name, File: a.File})
			if forward != backward {
				t.Errorf("duality broken for %s -> %s: deps=%v refs=%v", a.Name, b.Name, forward, backward)
			}
		}
	}

	for _, e := range cat.Entries() {
		scan := ReferencesTo(e.Name, cat, decls)
		if got := idx.ReferencesTo(e.Name); !slices.Equal(got, scan) {
			t.Errorf("index refs of %s = %v, scan = %v", e.Name, got, scan)
		}
		for _, r := range scan {
			if r.Name == e.Name {
				t.Errorf("%s references itself", e.Name)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	decls, cat := parseFiles(t, scenarioFiles()...)
	idx := NewIndex(cat, decls)

	c := Classify(cat, idx, primaryName)

	if want := []string{"Orphan"}; !slices.Equal(c.Unreferenced, want) {
		t.Errorf("Unreferenced = %v, want %v", c.Unreferenced, want)
	}
	if want := []string{"Bar", "Baz", "Foo", "Item", "Qux", "Zap"}; !slices.Equal(c.Referenced, want) {
		t.Errorf("Referenced = %v, want %v", c.Referenced, want)
	}
	if want := []string{"External", "Holder"}; !slices.Equal(c.Exempt, want) {
		t.Errorf("Exempt = %v, want %v", c.Exempt, want)
	}
	if !c.IsUnreferenced("Orphan") || c.IsUnreferenced("External") {
		t.Error("IsUnreferenced() disagrees with Unreferenced")
	}
}

func TestClassify_FooUnreferencedWithoutHolder(t *testing.T) {
	decls, cat := parseFiles(t,
		testFile{primaryName, primarySrc},
		testFile{"model.go", strings.Replace(auxSrc, "Foo Foo", "Name string", 1)},
	)
	c := Classify(cat, NewIndex(cat, decls), primaryName)

	if want := []string{"Foo", "Orphan"}; !slices.Equal(c.Unreferenced, want) {
		t.Errorf("Unreferenced = %v, want %v", c.Unreferenced, want)
	}
}

func TestClassify_AuxiliaryExemption(t *testing.T) {
	decls, cat := parseFiles(t, scenarioFiles()...)
	idx := NewIndex(cat, decls)

	if idx.IsReferenced("External") {
		t.Fatal("External should have no references")
	}
	for _, primary := range []string{primaryName, "not-loaded.go"} {
		c := Classify(cat, idx, primary)
		if slices.Contains(c.Unreferenced, "External") {
			t.Errorf("External reported unreferenced with primary %s", primary)
		}
	}

	// Without the primary file nothing can be unreferenced.
	c := Classify(cat, idx, "not-loaded.go")
	if len(c.Unreferenced) != 0 {
		t.Errorf("Unreferenced = %v, want none", c.Unreferenced)
	}
}

func TestClassify_AliasesNeverClassified(t *testing.T) {
	src := `package m

type Status string

type Primary struct{}
`
	decls, cat := parseFiles(t, testFile{"p.go", src})
	c := Classify(cat, NewIndex(cat, decls), "p.go")

	all := append(append(append([]string{}, c.Referenced...), c.Unreferenced...), c.Exempt...)
	if slices.Contains(all, "Status") {
		t.Errorf("alias Status was classified: %+v", c)
	}
	if !slices.Equal(c.Unreferenced, []string{"Primary"}) {
		t.Errorf("Unreferenced = %v, want [Primary]", c.Unreferenced)
	}
}

func TestNewCatalog_Duplicates(t *testing.T) {
	p := parser.New()
	defer p.Close()

	parse := func(name, src string) *FileDecls {
		fd, err := ParseDecls(context.Background(), p, name, []byte(src), DefaultScalars)
		if err != nil {
			t.Fatalf("ParseDecls() error: %v", err)
		}
		return fd
	}

	tests := []struct {
		name  string
		files []*FileDecls
		want  string
	}{
		{
			name: "across files",
			files: []*FileDecls{
				parse("a.go", "package m\ntype Dup struct{}\n"),
				parse("b.go", "package m\ntype Dup string\n"),
			},
			want: "Dup declared in a.go and b.go",
		},
		{
			name: "same file",
			files: []*FileDecls{
				parse("a.go", "package m\ntype Dup struct{}\ntype Dup struct{}\n"),
			},
			want: "Dup declared twice in a.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.files)
			if !errors.Is(err, ErrDuplicateType) {
				t.Fatalf("NewCatalog() error = %v, want ErrDuplicateType", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	_, cat := parseFiles(t, scenarioFiles()...)

	if !slices.IsSorted(cat.Names()) {
		t.Errorf("Names() not sorted: %v", cat.Names())
	}
	if cat.Len() != 9 {
		t.Errorf("Len() = %d, want 9", cat.Len())
	}
	e, ok := cat.Lookup("Orphan")
	if !ok || e.Kind != KindRecord || e.File != primaryName || e.Line != 12 {
		t.Errorf("Lookup(Orphan) = %+v, %v", e, ok)
	}
	ord, ok := cat.Ordinal("Bar")
	if !ok || cat.At(ord).Name != "Bar" {
		t.Errorf("Ordinal(Bar) = %d, %v", ord, ok)
	}
	if got := len(cat.InFile(primaryName)); got != 2 {
		t.Errorf("InFile(primary) = %d entries, want 2", got)
	}
	if len(cat.Aliases()) != 0 {
		t.Errorf("Aliases() = %v, want none", cat.Aliases())
	}
}

func TestGraph_Cycles(t *testing.T) {
	src := `package m

type A struct{ B *B }
type B struct{ A []A }
type C struct{ D D }
type D struct{ E E }
type E struct{ C *C }
type Leaf struct{ A A }
`
	decls, cat := parseFiles(t, testFile{"m.go", src})
	g := NewGraph(cat, NewIndex(cat, decls))

	cycles := g.Cycles()
	want := [][]string{{"A", "B"}, {"C", "D", "E"}}
	if len(cycles) != len(want) {
		t.Fatalf("Cycles() = %v, want %v", cycles, want)
	}
	for i := range want {
		if !slices.Equal(cycles[i], want[i]) {
			t.Errorf("cycle %d = %v, want %v", i, cycles[i], want[i])
		}
	}

	edges := g.Edges()
	if len(edges) != 6 || edges[0] != (Edge{From: "A", To: "B"}) {
		t.Errorf("Edges() = %v", edges)
	}
}

func TestGraph_Mermaid(t *testing.T) {
	decls, cat := parseFiles(t, scenarioFiles()...)
	idx := NewIndex(cat, decls)
	g := NewGraph(cat, idx)

	out := g.Mermaid(MermaidOptions{
		Direction:    "td",
		PrimaryFile:  primaryName,
		Unreferenced: []string{"Orphan"},
	})

	for _, want := range []string{
		"graph TD\n",
		"    Foo[\"Foo\"]\n",
		"    Foo --> Bar\n",
		"    Holder --> Foo\n",
		"    Orphan[\"Orphan\"]\n",
		"class Foo primary",
		"class Orphan unreferenced",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "External") {
		t.Errorf("isolated External should be omitted:\n%s", out)
	}

	out = g.Mermaid(MermaidOptions{IncludeIsolated: true})
	if !strings.HasPrefix(out, "graph LR\n") || !strings.Contains(out, "External[") {
		t.Errorf("Mermaid with isolated types:\n%s", out)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	tests := map[string]string{
		"Foo":     "Foo",
		"Foo.Bar": "Foo_Bar",
		"end":     "t_end",
		"Ünicode": "_nicode",
	}
	for in, want := range tests {
		if got := sanitizeMermaidID(in); got != want {
			t.Errorf("sanitizeMermaidID(%q) = %q, want %q", in, got, want)
		}
	}
}

func loadScenario(files ...testFile) *corpus.Corpus {
	c := &corpus.Corpus{Dir: "infra/cloud-model", Source: "working tree", Primary: primaryName}
	for _, f := range files {
		role := corpus.RoleAuxiliary
		if f.name == primaryName {
			role = corpus.RolePrimary
		}
		c.Files = append(c.Files, &corpus.SourceFile{
			Name:   f.name,
			Path:   "infra/cloud-model/" + f.name,
			Role:   role,
			Text:   []byte(f.text),
			Digest: corpus.HashBytes([]byte(f.text)),
		})
	}
	return c
}

func TestAnalyze(t *testing.T) {
	var ticks, total int
	a := New(WithProgress(func(done, n int) {
		ticks = done
		total = n
	}))
	defer a.Close()

	result, err := a.Analyze(context.Background(), loadScenario(scenarioFiles()...))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if ticks != 9 || total != 9 {
		t.Errorf("progress = %d/%d, want 9/9", ticks, total)
	}
	if !result.PrimaryLoaded {
		t.Error("PrimaryLoaded = false")
	}

	s := result.Summary
	if s.Files != 3 || s.Records != 9 || s.Aliases != 0 || s.PrimaryRecords != 2 ||
		s.ReferencedPrimary != 1 || s.UnreferencedPrimary != 1 || s.Exempt != 2 || s.Edges != 6 {
		t.Errorf("Summary = %+v", s)
	}

	foo, ok := result.Type("Foo")
	if !ok {
		t.Fatal("Type(Foo) not found")
	}
	if foo.Status != StatusReferenced {
		t.Errorf("Foo status = %s", foo.Status)
	}
	if !slices.Equal(foo.Dependencies, []string{"Bar", "Baz", "Item", "Qux", "Zap"}) {
		t.Errorf("Foo deps = %v", foo.Dependencies)
	}
	if len(foo.InternalDependencies) != 0 {
		t.Errorf("Foo internal deps = %v, want none", foo.InternalDependencies)
	}
	if len(foo.Fields) != 5 || foo.Fields[3].Shape != ShapePointerSlice {
		t.Errorf("Foo fields = %+v", foo.Fields)
	}
	if got := refNames(foo.ReferencedBy); !slices.Equal(got, []string{"Holder"}) {
		t.Errorf("Foo referenced by %v", got)
	}

	orphan, _ := result.Type("Orphan")
	if orphan.Status != StatusUnreferenced {
		t.Errorf("Orphan status = %s", orphan.Status)
	}
	ext, _ := result.Type("External")
	if ext.Status != StatusExempt {
		t.Errorf("External status = %s", ext.Status)
	}

	stats, ok := result.File(primaryName)
	if !ok || !stats.Primary || !slices.Equal(stats.Records, []string{"Foo", "Orphan"}) {
		t.Errorf("primary stats = %+v", stats)
	}
	if got := len(result.TypesInFile("model.go", KindRecord)); got != 6 {
		t.Errorf("TypesInFile(model.go) = %d, want 6", got)
	}
	if !strings.Contains(result.Mermaid("LR", false), "class Orphan unreferenced") {
		t.Error("Mermaid() does not highlight Orphan")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := New()
	defer a.Close()

	first, err := a.Analyze(context.Background(), loadScenario(scenarioFiles()...))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	for range 5 {
		again, err := a.Analyze(context.Background(), loadScenario(scenarioFiles()...))
		if err != nil {
			t.Fatalf("Analyze() error: %v", err)
		}
		if !slices.Equal(first.Classification.Referenced, again.Classification.Referenced) ||
			!slices.Equal(first.Classification.Unreferenced, again.Classification.Unreferenced) {
			t.Fatalf("classification changed between runs: %+v vs %+v", first.Classification, again.Classification)
		}
		if !slices.Equal(first.Edges, again.Edges) {
			t.Fatalf("edges changed between runs")
		}
	}
}

func TestAnalyze_InternalDependencies(t *testing.T) {
	src := primarySrc + `
type Local struct {
	O  *Orphan
	F  []Foo
	B  Bar
}
`
	a := New()
	defer a.Close()

	result, err := a.Analyze(context.Background(), loadScenario(
		testFile{primaryName, src},
		testFile{"model.go", auxSrc},
	))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	local, _ := result.Type("Local")
	if !slices.Equal(local.InternalDependencies, []string{"Foo", "Orphan"}) {
		t.Errorf("InternalDependencies = %v", local.InternalDependencies)
	}
	if !slices.Equal(local.Dependencies, []string{"Bar", "Foo", "Orphan"}) {
		t.Errorf("Dependencies = %v", local.Dependencies)
	}
	if !slices.Equal(result.Classification.Unreferenced, []string{"Local"}) {
		t.Errorf("Unreferenced = %v, want [Local]", result.Classification.Unreferenced)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	a := New()
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx, loadScenario(scenarioFiles()...)); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze(cancelled) error = %v, want context.Canceled", err)
	}

	dup := loadScenario(
		testFile{primaryName, "package m\ntype Bar struct{}\n"},
		testFile{"model.go", auxSrc},
	)
	if _, err := a.Analyze(context.Background(), dup); !errors.Is(err, ErrDuplicateType) {
		t.Errorf("Analyze(duplicates) error = %v, want ErrDuplicateType", err)
	}
}

func TestNew_Options(t *testing.T) {
	a := New(WithScalars([]string{"string", "int64"}))
	defer a.Close()
	if !slices.Equal(a.scalars, []string{"string", "int64"}) {
		t.Errorf("scalars = %v", a.scalars)
	}

	b := New(WithScalars(nil))
	defer b.Close()
	if !slices.Equal(b.scalars, DefaultScalars) {
		t.Errorf("empty WithScalars should keep defaults, got %v", b.scalars)
	}
}
