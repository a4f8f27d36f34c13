// Package resolver implements the Type Resolver (component G, spec.md
// §4.8): it lowers AST type annotations into arena handles.
//
// Grounded on funvibe-funxy/internal/analyzer/types_builder.go's
// `BuildType` — a single exhaustive type-switch over `ast.Type` that
// returns a `typesystem.Type`, consulting the symbol table for alias
// lookup along the way. Resolver keeps that one-function-per-Ast-case
// dispatch shape but retargets it to emit arena `TypeId`/`TypePackId`
// handles and `PendingExpansion`/`TypeAliasExpansion` constraints
// instead of building a substitution-based type directly.
//
// AstTypeTypeof needs to check an arbitrary expression and take its
// type — that's the Visitor Core's (internal/cgb) own job, and cgb in
// turn needs Resolver to lower every other annotation it meets. Rather
// than let the two packages import each other, Resolver depends only on
// the narrow ExprChecker interface below; cgb implements it and is
// injected in by whoever wires the two together (mirrors the way the
// teacher's analyzer package itself owns both BuildType and expression
// checking as methods on one walker — here the spec's own module split
// keeps them apart, so the dependency is inverted instead).
package resolver

import (
	"fmt"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/scope"
)

// ExprChecker is implemented by the Visitor Core. AstTypeTypeof needs to
// check its expression the same way any other expression would be
// checked and take the resulting type.
type ExprChecker interface {
	CheckExpr(sc *scope.Scope, e ast.Expression) arena.TypeId
}

// Resolver lowers ast.Type/ast.TypePack annotations into arena handles.
type Resolver struct {
	Arena       *arena.Arena
	Constraints *constraints.List
	Errors      errors.Reporter
	Checker     ExprChecker
	Tree        *scope.Tree
}

// New returns a Resolver. checker may be nil while unit-testing
// annotation shapes that never reach AstTypeTypeof; with a nil Checker, a
// typeof annotation resolves to the error-recovery type.
func New(a *arena.Arena, tree *scope.Tree, cl *constraints.List, errs errors.Reporter, checker ExprChecker) *Resolver {
	return &Resolver{Arena: a, Tree: tree, Constraints: cl, Errors: errs, Checker: checker}
}

// ResolveType lowers t to a TypeId. inTypeArguments is true exactly when
// t is itself one of the arguments of an enclosing AstTypeReference's
// argument list (spec.md §4.8).
func (r *Resolver) ResolveType(sc *scope.Scope, t ast.Type, inTypeArguments bool) arena.TypeId {
	if t == nil {
		return r.Arena.AddType(arena.Primitive{Kind: arena.PrimAny})
	}
	switch t := t.(type) {
	case *ast.TypeReference:
		return r.resolveReference(sc, t, inTypeArguments)
	case *ast.TypeTable:
		return r.resolveTable(sc, t)
	case *ast.TypeFunction:
		return r.resolveFunction(sc, t)
	case *ast.TypeTypeof:
		if r.Checker == nil {
			return r.errorRecovery()
		}
		return r.Checker.CheckExpr(sc, t.Expr)
	case *ast.TypeUnion:
		parts := make([]arena.TypeId, len(t.Types))
		for i, sub := range t.Types {
			parts[i] = r.ResolveType(sc, sub, inTypeArguments)
		}
		return r.Arena.AddType(arena.Union{Parts: parts})
	case *ast.TypeIntersection:
		parts := make([]arena.TypeId, len(t.Types))
		for i, sub := range t.Types {
			parts[i] = r.ResolveType(sc, sub, inTypeArguments)
		}
		return r.Arena.AddType(arena.Intersection{Parts: parts})
	case *ast.TypeSingletonBool:
		return r.Arena.AddType(arena.Singleton{IsString: false, BoolValue: t.Value})
	case *ast.TypeSingletonString:
		return r.Arena.AddType(arena.Singleton{IsString: true, StringValue: t.Value})
	case *ast.TypeOptional:
		inner := r.ResolveType(sc, t.Inner, inTypeArguments)
		nilTy := r.Arena.AddType(arena.Primitive{Kind: arena.PrimNil})
		return r.Arena.AddType(arena.Union{Parts: []arena.TypeId{inner, nilTy}})
	case *ast.TypeError:
		return r.errorRecovery()
	default:
		if r.Errors != nil {
			r.Errors.Report(errors.New(t.GetToken().Pos(), errors.CodeGeneric, fmt.Sprintf("unresolvable type annotation %T", t)))
		}
		return r.errorRecovery()
	}
}

// ResolveTypePack lowers a TypePack annotation to a TypePackId.
func (r *Resolver) ResolveTypePack(sc *scope.Scope, tp ast.TypePack, inTypeArguments bool) arena.TypePackId {
	if tp == nil {
		return r.Arena.AddTypePack(arena.VariadicPack{Element: r.Arena.AddType(arena.Primitive{Kind: arena.PrimAny}), Hidden: true})
	}
	switch tp := tp.(type) {
	case *ast.TypePackExplicit:
		head := make([]arena.TypeId, len(tp.Head))
		for i, h := range tp.Head {
			head[i] = r.ResolveType(sc, h, inTypeArguments)
		}
		p := arena.Pack{Head: head}
		if tp.Tail != nil {
			tailElem := r.ResolveType(sc, tp.Tail, inTypeArguments)
			tailId := r.Arena.AddTypePack(arena.VariadicPack{Element: tailElem})
			p.Tail = &tailId
		}
		return r.Arena.AddTypePack(p)
	case *ast.TypePackVariadic:
		elem := r.ResolveType(sc, tp.Element, inTypeArguments)
		return r.Arena.AddTypePack(arena.VariadicPack{Element: elem})
	case *ast.TypePackGeneric:
		if id, ok := sc.LookupPack(tp.Name); ok {
			return id
		}
		if r.Errors != nil {
			r.Errors.Report(errors.New(tp.GetToken().Pos(), errors.CodeUnknownSymbol, fmt.Sprintf("unknown generic type pack '%s'", tp.Name)))
		}
		return r.Arena.AddTypePack(arena.ErrorRecoveryPack{})
	default:
		return r.Arena.AddTypePack(arena.ErrorRecoveryPack{})
	}
}

func (r *Resolver) errorRecovery() arena.TypeId {
	return r.Arena.AddType(arena.ErrorRecovery{})
}

// resolveReference looks up an alias (imported via Prefix, or local) and
// either returns its head directly (non-generic) or builds a
// PendingExpansion and, unless we're already resolving the arguments of
// another application, emits the TypeAliasExpansion constraint the
// solver needs to substitute the arguments into the alias body.
func (r *Resolver) resolveReference(sc *scope.Scope, t *ast.TypeReference, inTypeArguments bool) arena.TypeId {
	var tf scope.TypeFun
	var ok bool
	if t.Prefix != "" {
		tf, ok = sc.LookupImportedType(t.Prefix, t.Name)
	} else {
		tf, ok = sc.LookupType(t.Name)
	}
	if !ok {
		if r.Errors != nil {
			name := t.Name
			if t.Prefix != "" {
				name = t.Prefix + "." + name
			}
			r.Errors.Report(errors.New(t.GetToken().Pos(), errors.CodeUnknownSymbol, fmt.Sprintf("unknown type '%s'", name)))
		}
		return r.errorRecovery()
	}

	if len(tf.Generics) == 0 && len(tf.GenericPacks) == 0 {
		return tf.Type
	}

	typeArgs := make([]arena.TypeId, len(t.Args))
	for i, a := range t.Args {
		typeArgs[i] = r.ResolveType(sc, a, true)
	}
	packArgs := make([]arena.TypePackId, len(t.PackArgs))
	for i, p := range t.PackArgs {
		packArgs[i] = r.ResolveTypePack(sc, p, true)
	}

	pending := r.Arena.AddType(arena.PendingExpansion{
		Prefix:       t.Prefix,
		Name:         t.Name,
		TypeArgs:     typeArgs,
		TypePackArgs: packArgs,
	})

	if !inTypeArguments {
		r.Constraints.Add(sc, t.GetToken().Pos(), constraints.TypeAliasExpansion{Target: pending})
	}
	return pending
}

func (r *Resolver) resolveTable(sc *scope.Scope, t *ast.TypeTable) arena.TypeId {
	props := make(map[string]arena.Prop, len(t.Props))
	for _, p := range t.Props {
		props[p.Name] = arena.Prop{Type: r.ResolveType(sc, p.Annotation, false)}
	}
	var indexer *arena.Indexer
	if t.Indexer != nil {
		indexer = &arena.Indexer{
			Key:   r.ResolveType(sc, t.Indexer.Key, false),
			Value: r.ResolveType(sc, t.Indexer.Value, false),
		}
	}
	return r.Arena.AddType(arena.Table{
		Props:   props,
		Indexer: indexer,
		State:   arena.TableSealed,
		Scope:   sc.ID(),
	})
}

func (r *Resolver) resolveFunction(sc *scope.Scope, t *ast.TypeFunction) arena.TypeId {
	sigScope := sc
	if len(t.Generics) > 0 || len(t.GenericPacks) > 0 {
		sigScope = r.Tree.ChildScope(t, sc)
	}
	generics := r.CreateGenerics(sigScope, "", t.Generics, false)
	genericPacks := r.CreateGenericPacks(sigScope, "", t.GenericPacks, false)

	argPackHead := make([]arena.TypeId, len(t.Params))
	for i, p := range t.Params {
		argPackHead[i] = r.ResolveType(sigScope, p, false)
	}
	argPack := r.Arena.AddTypePack(arena.Pack{Head: argPackHead})
	retPack := r.ResolveTypePack(sigScope, t.ReturnPack, false)

	return r.Arena.AddType(arena.Function{
		Generics:     generics,
		GenericPacks: genericPacks,
		ArgPack:      argPack,
		RetPack:      retPack,
		ArgNames:     t.ParamNames,
		Scope:        sigScope.ID(),
	})
}
