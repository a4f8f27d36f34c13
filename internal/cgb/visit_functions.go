package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/scope"
)

// buildFunctionSignature resolves a function's parameter/return shape
// into a fresh signature scope and returns the resulting arena.Function
// node plus that scope, so callers (checkFunctionExpression, the
// declare-function form) can share the exact same lowering.
func (b *Builder) buildFunctionSignature(
	sc *scope.Scope, owner ast.Node,
	generics, genericPacks []*ast.GenericParam,
	hasSelf bool, params []*ast.Param, vararg bool, varargAnnotation ast.TypePack,
	returnAnnotation ast.TypePack,
) (arena.Function, *scope.Scope) {
	sigScope := b.Tree.ChildScope(owner, sc)

	genericIds := b.Resolver.CreateGenerics(sigScope, "", generics, false)
	genericPackIds := b.Resolver.CreateGenericPacks(sigScope, "", genericPacks, false)

	argNames := make([]string, 0, len(params)+1)
	argHead := make([]arena.TypeId, 0, len(params)+1)
	if hasSelf {
		argNames = append(argNames, "self")
		argHead = append(argHead, b.Arena.FreshType(sigScope.ID()))
	}
	for _, p := range params {
		var ty arena.TypeId
		if p.Annotation != nil {
			ty = b.Resolver.ResolveType(sigScope, p.Annotation, false)
		} else {
			ty = b.Arena.FreshType(sigScope.ID())
		}
		argNames = append(argNames, p.Name.Name)
		argHead = append(argHead, ty)
		sigScope.DefineValue(p.Name.Name, ty, p.Name.GetToken().Pos())
	}

	argPack := arena.Pack{Head: argHead}
	if vararg {
		var elem arena.TypeId
		if varargAnnotation != nil {
			packId := b.Resolver.ResolveTypePack(sigScope, varargAnnotation, false)
			if vp, ok := b.Arena.FollowTypePack(packId).(arena.VariadicPack); ok {
				elem = vp.Element
			}
		} else {
			elem = b.Arena.AddType(arena.Primitive{Kind: arena.PrimAny})
		}
		tailId := b.Arena.AddTypePack(arena.VariadicPack{Element: elem, Hidden: varargAnnotation == nil})
		argPack.Tail = &tailId
		sigScope.VarargPack = &tailId
	}

	var retPack arena.TypePackId
	if returnAnnotation != nil {
		retPack = b.Resolver.ResolveTypePack(sigScope, returnAnnotation, false)
	} else {
		retPack = b.Arena.FreshTypePack(sigScope.ID())
	}
	sigScope.ReturnType = retPack

	fn := arena.Function{
		Generics:     genericIds,
		GenericPacks: genericPackIds,
		ArgPack:      b.Arena.AddTypePack(argPack),
		RetPack:      retPack,
		ArgNames:     argNames,
		Scope:        sigScope.ID(),
		HasSelf:      hasSelf,
		HasNoGenerics: len(genericIds) == 0 && len(genericPackIds) == 0,
	}
	return fn, sigScope
}

// checkFunctionExpression implements the FunctionExpression rule
// (spec.md §4.6/§4.9): lower the signature, visit the body in the
// signature's own scope so parameters and generics are in view, and
// return the Function node's type.
func (b *Builder) checkFunctionExpression(sc *scope.Scope, e *ast.FunctionExpression) arena.TypeId {
	fn, sigScope := b.buildFunctionSignature(sc, e, e.Generics, e.GenericPacks, e.HasSelf, e.Params, e.Vararg, e.VarargAnnotation, e.ReturnAnnotation)
	b.visitBlock(sigScope, e.Body)
	return b.Arena.AddType(fn)
}

func (b *Builder) visitLocalFunction(sc *scope.Scope, s *ast.LocalFunctionStatement) {
	// The name is bound before the body is checked so the function can
	// call itself recursively.
	placeholder := b.Arena.AddType(arena.Blocked{})
	sc.DefineValue(s.Name.Name, placeholder, s.GetToken().Pos())
	fnTy := b.checkFunctionExpression(sc, s.Func)
	b.Arena.EmplaceType(placeholder, arena.Bound{Target: fnTy})
}

func (b *Builder) visitFunctionStatement(sc *scope.Scope, s *ast.FunctionStatement) {
	fn := s.Func
	if s.IsMethod {
		fn = &ast.FunctionExpression{
			Token: s.Func.Token, Generics: s.Func.Generics, GenericPacks: s.Func.GenericPacks,
			HasSelf: true, Params: s.Func.Params, Vararg: s.Func.Vararg,
			VarargAnnotation: s.Func.VarargAnnotation, ReturnAnnotation: s.Func.ReturnAnnotation, Body: s.Func.Body,
		}
	}
	fnTy := b.checkFunctionExpression(sc, fn)

	switch target := s.Target.(type) {
	case *ast.Identifier:
		if existing, ok := sc.Lookup(target.Name); ok {
			b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Subtype{Sub: fnTy, Super: existing.TypeId})
			return
		}
		sc.DefineValue(target.Name, fnTy, s.GetToken().Pos())
	case *ast.IndexName:
		subj := b.check(sc, target.Object, nil, false)
		freeTable := b.Arena.AddType(arena.Table{Props: map[string]arena.Prop{target.Name: {Type: fnTy}}, State: arena.TableFree, Scope: sc.ID()})
		b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Subtype{Sub: subj.Type, Super: freeTable})
	default:
		b.report(s.GetToken().Pos(), errors.CodeGeneric, "unsupported function statement target %T", target)
	}
}

// finishTypeAlias implements the second-pass half of the TypeAliasStatement
// rule (spec.md §4.5/§4.7): resolve the alias body in its own definition
// scope, occurs-check it against the Blocked head allocated in the first
// pass, and emplace the head exactly once.
func (b *Builder) finishTypeAlias(sc *scope.Scope, s *ast.TypeAliasStatement) {
	defnScope, ok := b.aliasDefnScopes[s]
	if !ok {
		// A duplicate declaration in this block; the first pass already
		// reported it and defined nothing for this node to finish.
		return
	}
	tf, _ := sc.LookupType(s.Name)
	head := tf.Type

	resolved := b.Resolver.ResolveType(defnScope, s.Value, false)
	if b.Arena.OccursCheck(head, resolved) {
		b.report(s.GetToken().Pos(), errors.CodeOccursCheckFailed, "type alias '%s' is circular", s.Name)
		b.Arena.EmplaceType(head, arena.ErrorRecovery{})
		return
	}
	b.Arena.EmplaceType(head, arena.Bound{Target: resolved})
	b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Name{
		Target: head, Name: s.Name, TypeParams: tf.Generics, TypePackParams: tf.GenericPacks,
	})
}

func (b *Builder) visitDeclareGlobal(sc *scope.Scope, s *ast.DeclareGlobalStatement) {
	ty := b.Resolver.ResolveType(sc, s.Annotation, false)
	sc.DefineValue(s.Name, ty, s.GetToken().Pos())
}

func (b *Builder) visitDeclareFunction(sc *scope.Scope, s *ast.DeclareFunctionStatement) {
	fn, _ := b.buildFunctionSignature(sc, s, s.Generics, s.GenericPacks, false, s.Params, false, nil, s.ReturnPack)
	sc.DefineValue(s.Name, b.Arena.AddType(fn), s.GetToken().Pos())
}
