package cgb

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
)

func TestCheckFunctionExpressionBuildsParamsAndVisitsBody(t *testing.T) {
	b, _, _ := newBuilder(t)
	b.Tree.Root.DefineType("number", typeFunOf(b, arena.PrimNumber), false)

	body := &ast.Block{}
	fn := &ast.FunctionExpression{
		Params: []*ast.Param{{Name: &ast.Identifier{Name: "n"}, Annotation: &ast.TypeReference{Name: "number"}}},
		Body:   body,
	}
	ty := b.checkFunctionExpression(b.Tree.Root, fn)

	fnTy, ok := b.Arena.GetType(ty).(arena.Function)
	if !ok {
		t.Fatalf("expected a Function node, got %#v", b.Arena.GetType(ty))
	}
	if len(fnTy.ArgNames) != 1 || fnTy.ArgNames[0] != "n" {
		t.Fatalf("expected ArgNames [n], got %v", fnTy.ArgNames)
	}
	argPack := b.Arena.GetTypePack(fnTy.ArgPack).(arena.Pack)
	prim, ok := b.Arena.GetType(argPack.Head[0]).(arena.Primitive)
	if !ok || prim.Kind != arena.PrimNumber {
		t.Fatalf("expected the parameter's resolved annotation type to be PrimNumber")
	}
}

func TestCheckFunctionExpressionHasSelfPrependsSelfParam(t *testing.T) {
	b, _, _ := newBuilder(t)
	fn := &ast.FunctionExpression{HasSelf: true, Body: &ast.Block{}}
	ty := b.checkFunctionExpression(b.Tree.Root, fn)
	fnTy := b.Arena.GetType(ty).(arena.Function)

	if len(fnTy.ArgNames) != 1 || fnTy.ArgNames[0] != "self" {
		t.Fatalf("expected a synthesized 'self' first argument, got %v", fnTy.ArgNames)
	}
}

func TestCheckFunctionExpressionUntypedVarargDefaultsToHiddenAny(t *testing.T) {
	b, _, _ := newBuilder(t)
	fn := &ast.FunctionExpression{Vararg: true, Body: &ast.Block{}}
	ty := b.checkFunctionExpression(b.Tree.Root, fn)
	fnTy := b.Arena.GetType(ty).(arena.Function)

	argPack := b.Arena.GetTypePack(fnTy.ArgPack).(arena.Pack)
	if argPack.Tail == nil {
		t.Fatalf("expected a variadic tail for `...` with no annotation")
	}
	variadic, ok := b.Arena.GetTypePack(*argPack.Tail).(arena.VariadicPack)
	if !ok || !variadic.Hidden {
		t.Fatalf("expected a Hidden VariadicPack for an untyped vararg, got %#v", b.Arena.GetTypePack(*argPack.Tail))
	}
}

func TestVisitLocalFunctionCanCallItselfRecursively(t *testing.T) {
	b, _, _ := newBuilder(t)
	recCall := &ast.CallExpression{Callee: &ast.Identifier{Name: "fact"}}
	body := &ast.Block{Stmts: []ast.Statement{&ast.ExpressionStatement{Expr: recCall}}}
	s := &ast.LocalFunctionStatement{
		Name: &ast.Identifier{Name: "fact"},
		Func: &ast.FunctionExpression{Body: body},
	}

	b.visitLocalFunction(b.Tree.Root, s)

	bind, ok := b.Tree.Root.Lookup("fact")
	if !ok {
		t.Fatalf("expected 'fact' to be bound after visiting")
	}
	if _, ok := b.Arena.FollowType(bind.TypeId).(arena.Function); !ok {
		t.Fatalf("expected the placeholder to have been emplaced to the checked Function, got %#v", b.Arena.FollowType(bind.TypeId))
	}
}

func TestVisitFunctionStatementMethodTargetEmitsSubtype(t *testing.T) {
	b, _, _ := newBuilder(t)
	objTy := b.Arena.FreshType(b.Tree.Root.ID())
	b.Tree.Root.DefineValue("obj", objTy, pos(1, 1))

	before := b.Constraints.Len()
	s := &ast.FunctionStatement{
		Target:   &ast.IndexName{Object: &ast.Identifier{Name: "obj"}, Name: "greet"},
		IsMethod: true,
		Func:     &ast.FunctionExpression{Body: &ast.Block{}},
	}
	b.visitFunctionStatement(b.Tree.Root, s)

	if b.Constraints.Len() == before {
		t.Fatalf("expected a Subtype constraint against obj's free table shape")
	}
}

func TestVisitDeclareFunctionDefinesGlobalSignature(t *testing.T) {
	b, _, _ := newBuilder(t)
	s := &ast.DeclareFunctionStatement{Name: "print"}
	b.visitDeclareFunction(b.Tree.Root, s)

	bind, ok := b.Tree.Root.Lookup("print")
	if !ok {
		t.Fatalf("expected 'print' to be defined as a global")
	}
	if _, ok := b.Arena.GetType(bind.TypeId).(arena.Function); !ok {
		t.Fatalf("expected 'print' to be bound to a Function node")
	}
}
