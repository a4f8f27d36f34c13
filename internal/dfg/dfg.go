// Package dfg provides the data-flow-graph collaborator the constraint
// graph builder queries for stable definition identities (spec.md §6).
//
// The real data-flow pre-pass (control-flow-sensitive SSA-like numbering
// of every assignment site) is an external collaborator CGB only ever
// queries — no pack example repo builds one for this domain, so
// StaticGraph below is original infrastructure: the minimal thing needed
// to drive CGB end to end in tests, not a faithful SSA construction.
package dfg

import "github.com/funvibe/funxy/internal/ast"

// DefId is a stable, opaque handle for a program point at which a name
// acquires a value.
type DefId int

// Field names the property path from a Cell to its parent Cell, used by
// the refinement algebra to lift a discriminant from `x.a.b` up to `x`.
type Field struct {
	PropName string
}

// Cell is the data a DefId resolves to: optionally a parent def and the
// field through which it was reached. A nil Field means "root def."
type Cell struct {
	Parent *DefId
	Field  *Field
}

// Graph is the external data-flow collaborator: given an AST node, it
// returns the definition that expression
// refers to, or ok == false if the graph has no def for it (e.g. a
// global, or an expression form the pre-pass does not track).
type Graph interface {
	GetDef(n ast.Node) (DefId, bool)
	GetCell(id DefId) (Cell, bool)
}

// StaticGraph is a reference Graph: every AST node assigned a def via
// Def gets a fresh DefId the first time it's seen, and
// Index/derived defs are linked to their parent via Derive. It is not
// control-flow sensitive — every occurrence of the same *ast.Identifier
// node is its own def, matching what a real pre-pass would hand CGB for
// that one occurrence.
type StaticGraph struct {
	defs  map[ast.Node]DefId
	cells map[DefId]Cell
	next  DefId
}

// NewStaticGraph returns an empty StaticGraph.
func NewStaticGraph() *StaticGraph {
	return &StaticGraph{
		defs:  make(map[ast.Node]DefId),
		cells: make(map[DefId]Cell),
	}
}

// Def assigns (if not already assigned) a fresh root DefId to n and
// returns it.
func (g *StaticGraph) Def(n ast.Node) DefId {
	if id, ok := g.defs[n]; ok {
		return id
	}
	id := g.next
	g.next++
	g.defs[n] = id
	g.cells[id] = Cell{}
	return id
}

// Derive assigns a fresh DefId to n whose Cell points back to parent
// through the given property name, used for `x.a` style derived defs.
func (g *StaticGraph) Derive(n ast.Node, parent DefId, propName string) DefId {
	if id, ok := g.defs[n]; ok {
		return id
	}
	id := g.next
	g.next++
	g.defs[n] = id
	p := parent
	g.cells[id] = Cell{Parent: &p, Field: &Field{PropName: propName}}
	return id
}

func (g *StaticGraph) GetDef(n ast.Node) (DefId, bool) {
	id, ok := g.defs[n]
	return id, ok
}

func (g *StaticGraph) GetCell(id DefId) (Cell, bool) {
	c, ok := g.cells[id]
	return c, ok
}
