package typeref

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Edge is a dependency edge: a field of From refers to To.
type Edge struct {
	From string `json:"from" toon:"from"`
	To   string `json:"to" toon:"to"`
}

// Graph is the dependency relation as a directed graph over catalog ordinals.
type Graph struct {
	cat   *Catalog
	edges []Edge
	g     *simple.DirectedGraph
}

// NewGraph builds the directed graph for the edges of idx.
func NewGraph(cat *Catalog, idx *Index) *Graph {
	g := &Graph{
		cat:   cat,
		edges: idx.Edges(),
		g:     simple.NewDirectedGraph(),
	}
	for i := range cat.Len() {
		g.g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.edges {
		from, _ := cat.Ordinal(e.From)
		to, _ := cat.Ordinal(e.To)
		// The index never holds self-edges, which simple graphs reject.
		g.g.SetEdge(simple.Edge{F: simple.Node(int64(from)), T: simple.Node(int64(to))})
	}
	return g
}

// Edges returns the edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Cycles returns the strongly connected components with more than one type.
// Members of each cycle are sorted and cycles are ordered by first member.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g.g) {
		if len(scc) < 2 {
			continue
		}
		names := make([]string, 0, len(scc))
		for _, n := range scc {
			names = append(names, g.cat.At(uint32(n.ID())).Name)
		}
		slices.Sort(names)
		cycles = append(cycles, names)
	}
	slices.SortFunc(cycles, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return cycles
}

// MermaidOptions configures Mermaid output.
type MermaidOptions struct {
	// Direction is LR (default) or TD.
	Direction string
	// PrimaryFile records are drawn with the primary style.
	PrimaryFile string
	// Unreferenced records are highlighted.
	Unreferenced []string
	// IncludeIsolated keeps types with no edges.
	IncludeIsolated bool
}

// Mermaid renders the graph as a Mermaid flowchart.
func (g *Graph) Mermaid(opts MermaidOptions) string {
	dir := strings.ToUpper(opts.Direction)
	if dir != "TD" && dir != "TB" && dir != "RL" && dir != "BT" {
		dir = "LR"
	}

	connected := make(map[string]bool)
	for _, e := range g.edges {
		connected[e.From] = true
		connected[e.To] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", dir)

	var primary, unused []string
	for _, e := range g.cat.Entries() {
		if !opts.IncludeIsolated && !connected[e.Name] && !slices.Contains(opts.Unreferenced, e.Name) {
			continue
		}
		id := sanitizeMermaidID(e.Name)
		if e.Kind == KindAlias {
			fmt.Fprintf(&b, "    %s([\"%s\"])\n", id, e.Name)
		} else {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, e.Name)
		}
		switch {
		case slices.Contains(opts.Unreferenced, e.Name):
			unused = append(unused, id)
		case opts.PrimaryFile != "" && e.File == opts.PrimaryFile:
			primary = append(primary, id)
		}
	}

	for _, e := range g.edges {
		fmt.Fprintf(&b, "    %s --> %s\n", sanitizeMermaidID(e.From), sanitizeMermaidID(e.To))
	}

	if len(primary) > 0 {
		b.WriteString("    classDef primary fill:#dbeafe,stroke:#1d4ed8\n")
		fmt.Fprintf(&b, "    class %s primary\n", strings.Join(primary, ","))
	}
	if len(unused) > 0 {
		b.WriteString("    classDef unreferenced fill:#fee2e2,stroke:#b91c1c,stroke-dasharray:4\n")
		fmt.Fprintf(&b, "    class %s unreferenced\n", strings.Join(unused, ","))
	}
	return b.String()
}

// sanitizeMermaidID makes an ID safe for Mermaid.
func sanitizeMermaidID(id string) string {
	var b strings.Builder
	for _, c := range id {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	// Mermaid reserves "end" in flowcharts.
	if strings.EqualFold(b.String(), "end") {
		return "t_" + b.String()
	}
	return b.String()
}
