package cgb

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/modresolver"
	"github.com/funvibe/funxy/internal/scope"
)

func TestVisitLocalBindsEachNameToItsValue(t *testing.T) {
	b, _, _ := newBuilder(t)
	s := &ast.LocalStatement{
		Names:  []*ast.Identifier{{Name: "a"}, {Name: "b"}},
		Values: []ast.Expression{&ast.NumberLiteral{Value: 1}, &ast.StringLiteral{Value: "x"}},
	}
	b.visitLocal(b.Tree.Root, s)

	aBind, ok := b.Tree.Root.Lookup("a")
	if !ok {
		t.Fatalf("expected 'a' to be bound")
	}
	if _, ok := b.Arena.GetType(aBind.TypeId).(arena.Primitive); !ok {
		t.Fatalf("expected 'a' bound to a Primitive, got %#v", b.Arena.GetType(aBind.TypeId))
	}
	if _, ok := b.Tree.Root.Lookup("b"); !ok {
		t.Fatalf("expected 'b' to be bound")
	}
}

func TestVisitLocalAnnotationConstrainsValue(t *testing.T) {
	b, _, _ := newBuilder(t)
	b.Tree.Root.DefineType("number", scope.TypeFun{Type: b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber})}, false)

	s := &ast.LocalStatement{
		Names:       []*ast.Identifier{{Name: "a"}},
		Annotations: []ast.Type{&ast.TypeReference{Name: "number"}},
		Values:      []ast.Expression{&ast.NumberLiteral{Value: 1}},
	}
	before := b.Constraints.Len()
	b.visitLocal(b.Tree.Root, s)

	if b.Constraints.Len() == before {
		t.Fatalf("expected an annotation to emit a Subtype constraint against the value")
	}
	bind, _ := b.Tree.Root.Lookup("a")
	prim, ok := b.Arena.GetType(bind.TypeId).(arena.Primitive)
	if !ok || prim.Kind != arena.PrimNumber {
		t.Fatalf("expected 'a' to be bound to the declared annotation type, got %#v", b.Arena.GetType(bind.TypeId))
	}
}

func TestVisitLocalTableLiteralGetsSyntheticName(t *testing.T) {
	b, _, _ := newBuilder(t)
	s := &ast.LocalStatement{
		Names:  []*ast.Identifier{{Name: "Account"}},
		Values: []ast.Expression{&ast.TableExpression{}},
	}
	before := b.Constraints.Len()
	b.visitLocal(b.Tree.Root, s)
	if b.Constraints.Len() != before+1 {
		t.Fatalf("expected exactly one Name constraint for the synthetic-name candidate, got %d new", b.Constraints.Len()-before)
	}
}

func TestVisitLocalRequireMergesModuleExports(t *testing.T) {
	b, _, _ := newBuilder(t)
	strTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimString})
	mod := &modresolver.Module{
		Name:                 "lib",
		ExportedTypeBindings: map[string]scope.TypeFun{"Widget": {Type: strTy}},
	}
	b.Modules = modresolver.NewStatic(map[string]*modresolver.Module{"lib": mod})

	s := &ast.LocalStatement{
		Names:  []*ast.Identifier{{Name: "lib"}},
		Values: []ast.Expression{&ast.CallExpression{Callee: &ast.Identifier{Name: "require"}, Args: []ast.Expression{&ast.StringLiteral{Value: "lib"}}}},
	}
	b.visitLocal(b.Tree.Root, s)

	tf, ok := b.Tree.Root.LookupImportedType("lib", "Widget")
	if !ok || tf.Type != strTy {
		t.Fatalf("expected require(...) to merge the resolved module's exports under the local name")
	}
	if _, bound := b.Tree.Root.Lookup("lib"); bound {
		t.Fatalf("a require() local should not also become a value binding")
	}
}

func TestResolveRequireReportsUnknownModule(t *testing.T) {
	b, _, sink := newBuilder(t)
	b.Modules = modresolver.NewStatic(map[string]*modresolver.Module{})

	call := &ast.CallExpression{Callee: &ast.Identifier{Name: "require"}, Args: []ast.Expression{&ast.StringLiteral{Value: "missing"}}}
	_, ok := b.resolveRequire(b.Tree.Root, call)

	if ok {
		t.Fatalf("expected resolveRequire to fail for an unregistered module")
	}
	if !hasCode(sink, errors.CodeUnknownSymbol) {
		t.Fatalf("expected CodeUnknownSymbol to be reported for an unresolvable require()")
	}
}

func TestAssignToExistingIdentifierConstrainsRatherThanRebinds(t *testing.T) {
	b, _, _ := newBuilder(t)
	numTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber})
	b.Tree.Root.DefineValue("x", numTy, pos(1, 1))

	before := b.Constraints.Len()
	b.assignTo(b.Tree.Root, &ast.Identifier{Name: "x"}, b.Arena.AddType(arena.Primitive{Kind: arena.PrimString}))

	if b.Constraints.Len() != before+1 {
		t.Fatalf("expected a Subtype constraint against the existing binding, not a rebind")
	}
	bind, _ := b.Tree.Root.Lookup("x")
	if bind.TypeId != numTy {
		t.Fatalf("expected the existing binding's type to be left untouched")
	}
}

func TestAssignToIndexNameEmitsSetProp(t *testing.T) {
	b, _, _ := newBuilder(t)
	tblTy := b.Arena.FreshType(b.Tree.Root.ID())
	b.Tree.Root.DefineValue("t", tblTy, pos(1, 1))

	before := b.Constraints.Len()
	b.assignTo(b.Tree.Root, &ast.IndexName{Object: &ast.Identifier{Name: "t"}, Name: "field"}, b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber}))

	if b.Constraints.Len() != before+1 {
		t.Fatalf("expected exactly one SetProp constraint for an IndexName l-value")
	}
}
