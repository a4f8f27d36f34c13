package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

// visitBlock implements the two-pass Block algorithm (spec.md §4.5):
// every type alias declared directly in the block gets a definition
// sub-scope and a Blocked placeholder head before any statement is
// visited, so self- and mutually-recursive aliases resolve regardless of
// declaration order. The second pass then visits every statement, alias
// statements included, in source order.
func (b *Builder) visitBlock(sc *scope.Scope, block *ast.Block) {
	declaredAt := make(map[string]token.Pos)

	for _, stmt := range block.Stmts {
		alias, ok := stmt.(*ast.TypeAliasStatement)
		if !ok {
			continue
		}
		if first, dup := declaredAt[alias.Name]; dup {
			b.report(alias.GetToken().Pos(), errors.CodeDuplicateTypeAlias,
				"type alias '%s' already declared at %d:%d", alias.Name, first.Line, first.Column)
			continue
		}
		declaredAt[alias.Name] = alias.GetToken().Pos()

		defnScope := b.Tree.ChildScope(alias, sc)
		head := b.Arena.AddType(arena.Blocked{})
		tf := scope.TypeFun{Type: head}
		tf.Generics = b.Resolver.CreateGenerics(defnScope, alias.Name, alias.Generics, true)
		tf.GenericPacks = b.Resolver.CreateGenericPacks(defnScope, alias.Name, alias.GenericPacks, true)
		sc.DefineType(alias.Name, tf, alias.Exported)
		b.aliasDefnScopes[alias] = defnScope
	}

	for _, stmt := range block.Stmts {
		b.visitStatement(sc, stmt)
	}
}

// visitStatement dispatches one statement to its handler (spec.md §4.5).
func (b *Builder) visitStatement(sc *scope.Scope, stmt ast.Statement) {
	done, ok := b.recurse(stmt.GetToken().Pos())
	defer done()
	if !ok {
		return
	}

	switch s := stmt.(type) {
	case *ast.LocalStatement:
		b.visitLocal(sc, s)
	case *ast.AssignStatement:
		b.visitAssign(sc, s)
	case *ast.CompoundAssignStatement:
		b.visitCompoundAssign(sc, s)
	case *ast.IfStatement:
		b.visitIf(sc, s)
	case *ast.NumericForStatement:
		b.visitNumericFor(sc, s)
	case *ast.GenericForStatement:
		b.visitGenericFor(sc, s)
	case *ast.WhileStatement:
		b.visitWhile(sc, s)
	case *ast.RepeatStatement:
		b.visitRepeat(sc, s)
	case *ast.ReturnStatement:
		b.visitReturn(sc, s)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// no type-level effect
	case *ast.LocalFunctionStatement:
		b.visitLocalFunction(sc, s)
	case *ast.FunctionStatement:
		b.visitFunctionStatement(sc, s)
	case *ast.TypeAliasStatement:
		b.finishTypeAlias(sc, s)
	case *ast.DeclareGlobalStatement:
		b.visitDeclareGlobal(sc, s)
	case *ast.DeclareFunctionStatement:
		b.visitDeclareFunction(sc, s)
	case *ast.DeclareClassStatement:
		b.visitDeclareClass(sc, s)
	case *ast.ExpressionStatement:
		b.checkPack(sc, s.Expr, nil)
	default:
		b.report(stmt.GetToken().Pos(), errors.CodeGeneric, "unhandled statement form %T", s)
	}
}
