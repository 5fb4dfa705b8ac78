package typeref

// Status is the classification of a record.
type Status string

const (
	StatusReferenced   Status = "referenced"
	StatusUnreferenced Status = "unreferenced"
	StatusExempt       Status = "exempt"
)

func (s Status) String() string { return string(s) }

// FileStats summarizes the declarations of one loaded file.
type FileStats struct {
	Name        string   `json:"name" toon:"name"`
	Path        string   `json:"path" toon:"path"`
	Description string   `json:"description,omitempty" toon:"description,omitempty"`
	Primary     bool     `json:"primary" toon:"primary"`
	Lines       int      `json:"lines" toon:"lines"`
	Digest      string   `json:"digest" toon:"digest"`
	Records     []string `json:"records" toon:"records"`
	Aliases     []string `json:"aliases" toon:"aliases"`
}

// TypeDetail is the per-type view of the analysis.
type TypeDetail struct {
	Name string `json:"name" toon:"name"`
	Kind Kind   `json:"kind" toon:"kind"`
	File string `json:"file" toon:"file"`
	Line int    `json:"line" toon:"line"`
	// Dependencies are the catalogued types this record's fields refer to.
	Dependencies []string `json:"dependencies" toon:"dependencies"`
	// InternalDependencies are the Dependencies declared in the same file.
	InternalDependencies []string    `json:"internal_dependencies" toon:"internal_dependencies"`
	Fields               []FieldRef  `json:"fields,omitempty" toon:"fields,omitempty"`
	ReferencedBy         []Reference `json:"referenced_by" toon:"referenced_by"`
	// Status is empty for aliases.
	Status Status `json:"status,omitempty" toon:"status,omitempty"`
}

// Summary holds the corpus-wide counts.
type Summary struct {
	Files               int `json:"files" toon:"files"`
	SkippedFiles        int `json:"skipped_files" toon:"skipped_files"`
	Records             int `json:"records" toon:"records"`
	Aliases             int `json:"aliases" toon:"aliases"`
	PrimaryRecords      int `json:"primary_records" toon:"primary_records"`
	ReferencedPrimary   int `json:"referenced_primary" toon:"referenced_primary"`
	UnreferencedPrimary int `json:"unreferenced_primary" toon:"unreferenced_primary"`
	Exempt              int `json:"exempt" toon:"exempt"`
	Edges               int `json:"edges" toon:"edges"`
	Cycles              int `json:"cycles" toon:"cycles"`
}

// Analysis is the immutable result of one run.
type Analysis struct {
	Dir            string         `json:"dir" toon:"dir"`
	Source         string         `json:"source" toon:"source"`
	PrimaryFile    string         `json:"primary_file" toon:"primary_file"`
	PrimaryLoaded  bool           `json:"primary_loaded" toon:"primary_loaded"`
	Skipped        []string       `json:"skipped,omitempty" toon:"skipped,omitempty"`
	Files          []FileStats    `json:"files" toon:"files"`
	Types          []TypeDetail   `json:"types" toon:"types"`
	Classification Classification `json:"classification" toon:"classification"`
	Edges          []Edge         `json:"edges" toon:"edges"`
	Cycles         [][]string     `json:"cycles,omitempty" toon:"cycles,omitempty"`
	Summary        Summary        `json:"summary" toon:"summary"`

	graph *Graph
}

// Type returns the detail for name.
func (a *Analysis) Type(name string) (TypeDetail, bool) {
	for _, t := range a.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeDetail{}, false
}

// File returns the stats for the named file.
func (a *Analysis) File(name string) (FileStats, bool) {
	for _, f := range a.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FileStats{}, false
}

// TypesInFile returns the details of the types declared in file, sorted by name.
func (a *Analysis) TypesInFile(file string, kind Kind) []TypeDetail {
	var out []TypeDetail
	for _, t := range a.Types {
		if t.File == file && t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Mermaid renders the dependency graph with the analysis classification applied.
func (a *Analysis) Mermaid(direction string, includeIsolated bool) string {
	if a.graph == nil {
		return "graph LR\n"
	}
	return a.graph.Mermaid(MermaidOptions{
		Direction:       direction,
		PrimaryFile:     a.PrimaryFile,
		Unreferenced:    a.Classification.Unreferenced,
		IncludeIsolated: includeIsolated,
	})
}
