package refinement

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/scope"
)

func TestComputeRefinementSimpleProposition(t *testing.T) {
	a := arena.New()
	numTy := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	def := dfg.DefId(1)

	discs, cs := ComputeRefinement(a, NewProposition(def, numTy), true)
	if len(cs) != 0 {
		t.Fatalf("expected no singleton constraints for a true-sense proposition, got %d", len(cs))
	}
	if discs[def] != numTy {
		t.Fatalf("expected discriminant %d, got %d", numTy, discs[def])
	}
}

func TestComputeRefinementNegatedPropositionEmitsConstraint(t *testing.T) {
	a := arena.New()
	numTy := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	def := dfg.DefId(1)

	discs, cs := ComputeRefinement(a, NewProposition(def, numTy), false)
	if len(cs) != 1 || !cs[0].Negated || cs[0].Source != numTy {
		t.Fatalf("expected one negated singleton constraint against %d, got %+v", numTy, cs)
	}
	if _, ok := a.GetType(discs[def]).(arena.Negation); !ok {
		t.Fatalf("expected negated discriminant to be an arena.Negation node")
	}
}

func TestComputeRefinementConjunctionIntersectsSharedKeys(t *testing.T) {
	a := arena.New()
	strTy := a.AddType(arena.Primitive{Kind: arena.PrimString})
	tblTy := a.AddType(arena.Primitive{Kind: arena.PrimTable})
	def := dfg.DefId(1)

	r := And(NewProposition(def, strTy), NewProposition(def, tblTy))
	discs, _ := ComputeRefinement(a, r, true)

	inter, ok := a.GetType(discs[def]).(arena.Intersection)
	if !ok || len(inter.Parts) != 2 {
		t.Fatalf("expected an Intersection of the two discriminants, got %#v", a.GetType(discs[def]))
	}
}

func TestComputeRefinementDisjunctionIntersectsUnderNegation(t *testing.T) {
	a := arena.New()
	numTy := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	strTy := a.AddType(arena.Primitive{Kind: arena.PrimString})
	def := dfg.DefId(1)

	r := Or(NewProposition(def, numTy), NewProposition(def, strTy))
	discs, _ := ComputeRefinement(a, r, false)

	if _, ok := a.GetType(discs[def]).(arena.Intersection); !ok {
		t.Fatalf("expected an Intersection of the two negated discriminants under the false sense of an Or, got %#v", a.GetType(discs[def]))
	}
}

func TestSmartConstructorsDropNilOperands(t *testing.T) {
	a := arena.New()
	ty := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	p := NewProposition(dfg.DefId(1), ty)

	if Not(nil) != nil {
		t.Fatalf("Not(nil) should be nil")
	}
	if And(nil, p) != p || And(p, nil) != p {
		t.Fatalf("And with one nil operand should return the other operand unchanged")
	}
	if Or(nil, p) != p || Or(p, nil) != p {
		t.Fatalf("Or with one nil operand should return the other operand unchanged")
	}
	if NewVariadic(nil) != nil {
		t.Fatalf("NewVariadic of no items should be nil")
	}
	if NewVariadic([]Refinement{p}) != p {
		t.Fatalf("NewVariadic of a single item should collapse to that item")
	}
}

func TestApplyRefinementsLiftsNestedPropertyToSealedTableOnRoot(t *testing.T) {
	a := arena.New()
	tree := scope.NewTree(0)
	graph := dfg.NewStaticGraph()

	rootNode := &ast.Identifier{Name: "x"}
	propNode := &ast.IndexExpr{}
	rootDef := graph.Def(rootNode)
	propDef := graph.Derive(propNode, rootDef, "a")

	numTy := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	r := NewProposition(propDef, numTy)

	ApplyRefinements(a, tree.Root, graph, r, true)

	rootTy, ok := tree.Root.LookupRefinement(rootDef)
	if !ok {
		t.Fatalf("expected root def to carry a synthesized refinement")
	}
	tbl, ok := a.GetType(rootTy).(arena.Table)
	if !ok {
		t.Fatalf("expected a sealed Table wrapping the nested discriminant, got %#v", a.GetType(rootTy))
	}
	if tbl.State != arena.TableSealed {
		t.Fatalf("expected the synthesized wrapper table to be sealed")
	}
	prop, ok := tbl.Props["a"]
	if !ok || prop.Type != numTy {
		t.Fatalf("expected wrapper table to carry prop %q: %d, got %+v", "a", numTy, tbl.Props)
	}
}

func TestApplyRefinementsIsIdempotent(t *testing.T) {
	a := arena.New()
	tree := scope.NewTree(0)
	graph := dfg.NewStaticGraph()

	node := &ast.Identifier{Name: "v"}
	def := graph.Def(node)
	numTy := a.AddType(arena.Primitive{Kind: arena.PrimNumber})
	r := NewProposition(def, numTy)

	ApplyRefinements(a, tree.Root, graph, r, true)
	first, _ := tree.Root.LookupRefinement(def)

	ApplyRefinements(a, tree.Root, graph, r, true)
	second, _ := tree.Root.LookupRefinement(def)

	if a.GetType(first).(arena.Primitive).Kind != a.GetType(second).(arena.Primitive).Kind {
		t.Fatalf("expected applying the same refinement twice to leave the observable type unchanged")
	}
}
