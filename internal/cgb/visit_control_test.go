package cgb

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/token"
)

func TestVisitIfNarrowsThenBranchAndLeavesOuterScopeUntouched(t *testing.T) {
	b, graph, _ := newBuilder(t)
	xId := &ast.Identifier{Name: "x"}
	def := graph.Def(xId)
	b.Tree.Root.DefineValue("x", b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber}), pos(1, 1))

	thenBlock := &ast.Block{}
	s := &ast.IfStatement{
		Cond: &ast.BinaryExpression{
			Op:   token.EQ,
			Left: &ast.CallExpression{Callee: &ast.Identifier{Name: "type"}, Args: []ast.Expression{xId}},
			Right: &ast.StringLiteral{Value: "number"},
		},
		Then: thenBlock,
	}
	b.visitIf(b.Tree.Root, s)

	if _, ok := b.Tree.Root.LookupRefinement(def); ok {
		t.Fatalf("the outer scope should not carry the then-branch's refinement")
	}
	thenScope, ok := b.Tree.ScopeFor(thenBlock)
	if !ok {
		t.Fatalf("expected a child scope to have been created for the then block")
	}
	if _, ok := thenScope.LookupRefinement(def); !ok {
		t.Fatalf("expected the then branch's scope to carry x's narrowed refinement")
	}
}

func TestVisitNumericForBindsLoopVariableAsNumber(t *testing.T) {
	b, _, _ := newBuilder(t)
	body := &ast.Block{}
	s := &ast.NumericForStatement{
		Var:  &ast.Identifier{Name: "i"},
		From: &ast.NumberLiteral{Value: 1},
		To:   &ast.NumberLiteral{Value: 10},
		Body: body,
	}
	b.visitNumericFor(b.Tree.Root, s)

	bodyScope, _ := b.Tree.ScopeFor(body)
	bind, ok := bodyScope.Lookup("i")
	if !ok {
		t.Fatalf("expected the loop variable to be bound in the body scope")
	}
	prim, ok := b.Arena.GetType(bind.TypeId).(arena.Primitive)
	if !ok || prim.Kind != arena.PrimNumber {
		t.Fatalf("expected the loop variable to be PrimNumber, got %#v", b.Arena.GetType(bind.TypeId))
	}
}

func TestVisitGenericForEmitsIterableAndBindsEachVariable(t *testing.T) {
	b, _, _ := newBuilder(t)
	body := &ast.Block{}
	s := &ast.GenericForStatement{
		Names: []*ast.Identifier{{Name: "k"}, {Name: "v"}},
		Exprs: []ast.Expression{&ast.Identifier{Name: "pairs"}},
		Body:  body,
	}
	b.Tree.Root.DefineValue("pairs", b.Arena.FreshType(b.Tree.Root.ID()), pos(1, 1))

	before := b.Constraints.Len()
	b.visitGenericFor(b.Tree.Root, s)

	if b.Constraints.Len() != before+1 {
		t.Fatalf("expected exactly one Iterable constraint, got %d new", b.Constraints.Len()-before)
	}
	payload, ok := b.Constraints.At(before).Payload.(constraints.Iterable)
	if !ok {
		t.Fatalf("expected an Iterable payload, got %#v", b.Constraints.At(before).Payload)
	}
	varPack, ok := b.Arena.GetTypePack(payload.Variables).(arena.Pack)
	if !ok || len(varPack.Head) != 2 {
		t.Fatalf("expected the Variables pack to have one head entry per loop variable, got %#v", b.Arena.GetTypePack(payload.Variables))
	}

	bodyScope, _ := b.Tree.ScopeFor(body)
	if _, ok := bodyScope.Lookup("k"); !ok {
		t.Fatalf("expected loop variable 'k' to be bound in the body scope")
	}
	if _, ok := bodyScope.Lookup("v"); !ok {
		t.Fatalf("expected loop variable 'v' to be bound in the body scope")
	}
}

func TestVisitRepeatChecksConditionInBodyScope(t *testing.T) {
	b, _, sink := newBuilder(t)
	body := &ast.Block{Stmts: []ast.Statement{
		&ast.LocalStatement{Names: []*ast.Identifier{{Name: "done"}}, Values: []ast.Expression{&ast.BooleanLiteral{Value: true}}},
	}}
	s := &ast.RepeatStatement{Body: body, Cond: &ast.Identifier{Name: "done"}}

	b.visitRepeat(b.Tree.Root, s)

	if hasCode(sink, errors.CodeUnknownSymbol) {
		t.Fatalf("expected the until-condition to see the body's local 'done'")
	}

	if _, ok := b.Tree.Root.Lookup("done"); ok {
		t.Fatalf("the until-condition's visibility into the body scope should not leak 'done' into the outer scope")
	}
}

func TestVisitReturnEmitsPackSubtypeAgainstScopeReturnType(t *testing.T) {
	b, _, _ := newBuilder(t)
	retPack := b.Arena.FreshTypePack(b.Tree.Root.ID())
	sigScope := b.Tree.ChildScope(&ast.Block{}, b.Tree.Root)
	sigScope.ReturnType = retPack

	before := b.Constraints.Len()
	b.visitReturn(sigScope, &ast.ReturnStatement{Values: []ast.Expression{&ast.NumberLiteral{Value: 1}}})

	if b.Constraints.Len() != before+1 {
		t.Fatalf("expected exactly one PackSubtype constraint")
	}
	payload, ok := b.Constraints.At(before).Payload.(constraints.PackSubtype)
	if !ok || payload.Super != retPack {
		t.Fatalf("expected the PackSubtype's Super to be the scope's own ReturnType")
	}
}
