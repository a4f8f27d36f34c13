package cgb

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/errors"
)

func TestVisitDeclareClassRoutesMetamethodsIntoMetatable(t *testing.T) {
	b, _, _ := newBuilder(t)
	s := &ast.DeclareClassStatement{
		Name: "Vector",
		Props: []*ast.ClassProp{
			{Name: "x", Annotation: &ast.TypeReference{Name: "number"}},
			{Name: "__add", Annotation: &ast.TypeReference{Name: "number"}, IsMethod: true},
		},
	}
	b.Tree.Root.DefineType("number", typeFunOf(b, arena.PrimNumber), false)

	b.visitDeclareClass(b.Tree.Root, s)

	tf, ok := b.Tree.Root.LookupType("Vector")
	if !ok {
		t.Fatalf("expected Vector to be defined as an exported type")
	}
	class, ok := b.Arena.GetType(tf.Type).(arena.Class)
	if !ok {
		t.Fatalf("expected a Class node, got %#v", b.Arena.GetType(tf.Type))
	}
	if _, ok := class.Props["x"]; !ok {
		t.Fatalf("expected 'x' to remain a regular member")
	}
	if _, ok := class.Props["__add"]; ok {
		t.Fatalf("expected '__add' to be routed to the metatable, not left as a regular member")
	}
	if class.Metatable == nil {
		t.Fatalf("expected a synthesized metatable for the __add entry")
	}
	mt := b.Arena.GetType(*class.Metatable).(arena.Table)
	if _, ok := mt.Props["__add"]; !ok {
		t.Fatalf("expected the metatable to carry '__add'")
	}
}

func TestVisitDeclareClassResolvesParent(t *testing.T) {
	b, _, _ := newBuilder(t)
	b.visitDeclareClass(b.Tree.Root, &ast.DeclareClassStatement{Name: "Base"})
	b.visitDeclareClass(b.Tree.Root, &ast.DeclareClassStatement{Name: "Derived", SuperName: "Base"})

	tf, _ := b.Tree.Root.LookupType("Derived")
	class := b.Arena.GetType(tf.Type).(arena.Class)
	if class.Parent == nil {
		t.Fatalf("expected Derived to carry a resolved Parent")
	}
	baseTf, _ := b.Tree.Root.LookupType("Base")
	if *class.Parent != baseTf.Type {
		t.Fatalf("expected Derived's Parent to be Base's own type handle")
	}
}

func TestVisitDeclareClassUnknownSuperclassReports(t *testing.T) {
	b, _, sink := newBuilder(t)
	b.visitDeclareClass(b.Tree.Root, &ast.DeclareClassStatement{Name: "Derived", SuperName: "Nope"})
	if !hasCode(sink, errors.CodeNonClassSuperclass) {
		t.Fatalf("expected CodeNonClassSuperclass for an unknown superclass")
	}
}

func TestVisitDeclareClassOverloadingNonFunctionReports(t *testing.T) {
	b, _, sink := newBuilder(t)
	s := &ast.DeclareClassStatement{
		Name: "Widget",
		Props: []*ast.ClassProp{
			{Name: "x", Annotation: &ast.TypeReference{Name: "number"}},
			{Name: "x", Annotation: &ast.TypeReference{Name: "string"}},
		},
	}
	b.Tree.Root.DefineType("number", typeFunOf(b, arena.PrimNumber), false)
	b.Tree.Root.DefineType("string", typeFunOf(b, arena.PrimString), false)

	b.visitDeclareClass(b.Tree.Root, s)
	if !hasCode(sink, errors.CodeOverloadOfNonFunction) {
		t.Fatalf("expected CodeOverloadOfNonFunction when a non-function member is declared twice")
	}
}
