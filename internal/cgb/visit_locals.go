package cgb

import (
	"context"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/refinement"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

// visitLocal implements `local a, b: T = v1, v2` (spec.md §4.5): a
// single-name `local x = require(...)` merges the resolved module's
// exports into the importing scope instead of binding a value type;
// every other form checks its value list against any declared
// annotations, binds each name, and seeds the name's initial
// dcrRefinement so later reads before any narrowing see the binding's
// declared type.
func (b *Builder) visitLocal(sc *scope.Scope, s *ast.LocalStatement) {
	if len(s.Names) == 1 && len(s.Values) == 1 {
		if exported, ok := b.resolveRequire(sc, s.Values[0]); ok {
			sc.ImportModule(s.Names[0].Name, exported)
			return
		}
	}

	expectedTypes := make([]*arena.TypeId, len(s.Names))
	for i, ann := range s.Annotations {
		if i < len(expectedTypes) && ann != nil {
			t := b.Resolver.ResolveType(sc, ann, false)
			expectedTypes[i] = &t
		}
	}

	valueTypes, _ := b.checkValueListWithExpected(sc, s.Values, expectedTypes)

	for i, name := range s.Names {
		ty := b.Arena.AddType(arena.Primitive{Kind: arena.PrimNil})
		if i < len(valueTypes) {
			ty = valueTypes[i]
		}
		if expectedTypes[i] != nil {
			b.Constraints.Add(sc, name.GetToken().Pos(), constraints.Subtype{Sub: ty, Super: *expectedTypes[i]})
			ty = *expectedTypes[i]
		}
		sc.DefineValue(name.Name, ty, name.GetToken().Pos())
		if def, ok := b.Graph.GetDef(name); ok {
			refinement.ApplyRefinements(b.Arena, sc, b.Graph, refinement.NewProposition(def, ty), true)
		}
	}

	if len(s.Names) == 1 && len(s.Values) == 1 && len(valueTypes) == 1 && isSyntheticNameCandidate(s.Values[0]) {
		b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Name{Target: valueTypes[0], Name: s.Names[0].Name, Synthetic: true})
	}
}

// isSyntheticNameCandidate reports whether a single local's value
// expression is a table literal or a setmetatable(...) call — the two
// shapes spec.md §4.5 names as getting a synthetic Name constraint so
// diagnostics about the value refer to the variable's own name.
func isSyntheticNameCandidate(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.TableExpression:
		return true
	case *ast.CallExpression:
		id, ok := v.Callee.(*ast.Identifier)
		return ok && id.Name == "setmetatable"
	default:
		return false
	}
}

// checkValueListWithExpected checks values the same way checkExprList
// does (all but the last truncated to one value, the last expanded as a
// pack) but additionally threads a per-position expected type into each
// non-last value for literal-widening purposes.
func (b *Builder) checkValueListWithExpected(sc *scope.Scope, values []ast.Expression, expected []*arena.TypeId) ([]arena.TypeId, []refinement.Refinement) {
	if len(values) == 0 {
		return nil, nil
	}
	types := make([]arena.TypeId, 0, len(values))
	refs := make([]refinement.Refinement, 0, len(values))
	for i, v := range values[:len(values)-1] {
		var exp *arena.TypeId
		if i < len(expected) {
			exp = expected[i]
		}
		res := b.check(sc, v, exp, false)
		types = append(types, res.Type)
		refs = append(refs, res.Refinement)
	}
	packRes := b.checkPack(sc, values[len(values)-1], nil)
	if p, ok := b.Arena.FollowTypePack(packRes.Pack).(arena.Pack); ok {
		types = append(types, p.Head...)
		refs = append(refs, packRes.Refinements...)
	}
	return types, refs
}

// resolveRequire recognizes `require("module/path")` and returns the
// resolved module's exported type bindings. The call's own arity is
// validated exactly once, here — every other caller that might touch a
// `require(...)` call (none currently do besides visitLocal) goes through
// this helper rather than re-checking `len(call.Args) != 1` itself.
func (b *Builder) resolveRequire(sc *scope.Scope, expr ast.Expression) (map[string]scope.TypeFun, bool) {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return nil, false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "require" {
		return nil, false
	}
	if len(call.Args) != 1 {
		b.report(call.GetToken().Pos(), errors.CodeGeneric, "require() takes exactly one argument")
		return nil, false
	}
	lit, ok := call.Args[0].(*ast.StringLiteral)
	if !ok || b.Modules == nil {
		return nil, false
	}

	ctx := context.Background()
	name, ok := b.Modules.ResolveModuleInfo(ctx, "", lit.Value)
	if !ok {
		b.report(call.GetToken().Pos(), errors.CodeUnknownSymbol, "cannot resolve module '%s'", lit.Value)
		return nil, false
	}
	mod, ok := b.Modules.GetModule(ctx, name)
	if !ok {
		b.report(call.GetToken().Pos(), errors.CodeUnknownSymbol, "module '%s' has no exports", name)
		return nil, false
	}
	return mod.ExportedTypeBindings, true
}

func (b *Builder) visitAssign(sc *scope.Scope, s *ast.AssignStatement) {
	valueTypes, _, _ := b.checkExprList(sc, s.Values)
	for i, lv := range s.LValues {
		valTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimNil})
		if i < len(valueTypes) {
			valTy = valueTypes[i]
		}
		b.assignTo(sc, lv, valTy)
	}
}

// assignTo implements an l-value's write side: rebinding an existing
// local/global constrains the new value as a subtype of its declared
// type, an undeclared identifier becomes a fresh global, and an index
// target emits a SetProp constraint the solver resolves against the
// subject's table shape.
func (b *Builder) assignTo(sc *scope.Scope, lv ast.Expression, valTy arena.TypeId) {
	switch target := lv.(type) {
	case *ast.Identifier:
		if existing, ok := sc.Lookup(target.Name); ok {
			b.Constraints.Add(sc, lv.GetToken().Pos(), constraints.Subtype{Sub: valTy, Super: existing.TypeId})
			return
		}
		b.Tree.Root.DefineValue(target.Name, valTy, lv.GetToken().Pos())
	case *ast.IndexName:
		subj := b.check(sc, target.Object, nil, false)
		result := b.Arena.FreshType(sc.ID())
		b.Constraints.Add(sc, lv.GetToken().Pos(), constraints.SetProp{Result: result, Subject: subj.Type, Path: []string{target.Name}, PropType: valTy})
	case *ast.IndexExpr:
		subj := b.check(sc, target.Object, nil, false)
		b.check(sc, target.Index, nil, false)
		result := b.Arena.FreshType(sc.ID())
		b.Constraints.Add(sc, lv.GetToken().Pos(), constraints.SetProp{Result: result, Subject: subj.Type, PropType: valTy})
	default:
		b.report(lv.GetToken().Pos(), errors.CodeGeneric, "unsupported assignment target %T", target)
	}
}

func (b *Builder) visitCompoundAssign(sc *scope.Scope, s *ast.CompoundAssignStatement) {
	cur := b.check(sc, s.LValue, nil, false)
	rhs := b.check(sc, s.Value, nil, false)
	result := b.Arena.FreshType(sc.ID())
	b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Binary{
		Op: compoundBaseOp(s.Op), Left: cur.Type, Right: rhs.Type, Result: result,
		AstLeft: s.LValue, AstRight: s.Value,
	})
	b.assignTo(sc, s.LValue, result)
}

func compoundBaseOp(op token.Type) token.Type {
	switch op {
	case token.PLUS_ASSIGN:
		return token.PLUS
	case token.MINUS_ASSIGN:
		return token.MINUS
	case token.STAR_ASSIGN:
		return token.STAR
	case token.SLASH_ASSIGN:
		return token.SLASH
	case token.CONCAT_ASSIGN:
		return token.CONCAT
	default:
		return op
	}
}
