package callgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"objreloc/internal/objdump"
)

// Build constructs a lattice.Graph from a loaded repository.
// Each function becomes a node; each relocation becomes an edge from the
// function it lives in to the function it targets. Targets that are not
// in the repository still get an edge so dangling references stay visible.
func Build(repo *objdump.Repository) *lattice.Graph {
	g := &lattice.Graph{}
	for _, f := range repo.Functions() {
		g.Nodes = append(g.Nodes, f.Name)
		for _, r := range f.Relocations() {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: f.Name,
				Callee: r.Target,
			})
		}
	}
	g.Dedup()
	return g
}

// DOT renders the repository's call graph in Graphviz format.
func DOT(repo *objdump.Repository, title string) string {
	return render.DOT(Build(repo), title)
}
