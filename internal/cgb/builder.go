// Package cgb implements the Visitor Core (component F): the recursive
// AST walk that drives every other component, emitting constraints as it
// goes.
//
// Grounded on funvibe-funxy/internal/analyzer's own split — one file per
// AST-shape family (statements.go, expressions.go, inference_*.go,
// declarations_*.go) — and its `walker` struct holding every
// collaborator the traversal needs. Builder plays the same role, renamed
// to the spec's own collaborator names and carrying a resolver.Resolver
// instead of a typesystem.Type builder.
package cgb

import (
	"fmt"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/modresolver"
	"github.com/funvibe/funxy/internal/refinement"
	"github.com/funvibe/funxy/internal/resolver"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

// Result is what `check` returns for a single-valued expression: its
// type and the refinement it contributes to the current branch
// (spec.md §4.6).
type Result struct {
	Type       arena.TypeId
	Refinement refinement.Refinement
}

// PackResult is what `checkPack` returns for a (potentially
// multi-valued) expression.
type PackResult struct {
	Pack        arena.TypePackId
	Refinements []refinement.Refinement
}

// Builder is the Visitor Core's walker. One Builder checks exactly one
// module; it is not safe for concurrent use (spec.md §5 — the arena it
// writes through is single-writer).
type Builder struct {
	Arena       *arena.Arena
	Tree        *scope.Tree
	Constraints *constraints.List
	Resolver    *resolver.Resolver
	Graph       dfg.Graph
	Errors      errors.Reporter
	Config      *config.Config
	Modules     modresolver.Resolver

	astTypes         map[ast.Node]arena.TypeId
	astTypePacks     map[ast.Node]arena.TypePackId
	astExpectedTypes map[ast.Node]arena.TypeId
	aliasDefnScopes  map[ast.Node]*scope.Scope

	recursionDepth int
}

// New wires a Builder together, including its Resolver: the Builder
// implements resolver.ExprChecker, and New passes it to resolver.New
// itself, so callers need not set b.Resolver.
func New(a *arena.Arena, tree *scope.Tree, cl *constraints.List, graph dfg.Graph, errs errors.Reporter, cfg *config.Config, mods modresolver.Resolver) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Builder{
		Arena:            a,
		Tree:             tree,
		Constraints:      cl,
		Graph:            graph,
		Errors:           errs,
		Config:           cfg,
		Modules:          mods,
		astTypes:         make(map[ast.Node]arena.TypeId),
		astTypePacks:     make(map[ast.Node]arena.TypePackId),
		astExpectedTypes: make(map[ast.Node]arena.TypeId),
		aliasDefnScopes:  make(map[ast.Node]*scope.Scope),
	}
	b.Resolver = resolver.New(a, tree, cl, errs, b)
	return b
}

// CheckModule walks the module's top-level block in the scope tree's
// root scope.
func (b *Builder) CheckModule(block *ast.Block) {
	b.visitBlock(b.Tree.Root, block)
}

func (b *Builder) errorRecoveryType() arena.TypeId {
	return b.Arena.AddType(arena.ErrorRecovery{})
}

func (b *Builder) errorRecoveryPack() arena.TypePackId {
	return b.Arena.AddTypePack(arena.ErrorRecoveryPack{})
}

func (b *Builder) report(pos token.Pos, code errors.Code, format string, args ...any) {
	if b.Errors == nil {
		return
	}
	b.Errors.Report(errors.New(pos, code, fmt.Sprintf(format, args...)))
}

// recurse bounds the traversal's recursion depth (spec.md §4.10): every
// statement/expression dispatch entrypoint calls this and defers the
// returned function. When the configured limit is exceeded, CodeTooComplex
// is reported once and ok is false so the caller can fall back to
// errorRecovery without visiting deeper.
func (b *Builder) recurse(pos token.Pos) (done func(), ok bool) {
	b.recursionDepth++
	if b.Config.RecursionLimit > 0 && b.recursionDepth > b.Config.RecursionLimit {
		b.report(pos, errors.CodeTooComplex, "expression nesting exceeds the configured recursion limit (%d)", b.Config.RecursionLimit)
		return func() { b.recursionDepth-- }, false
	}
	return func() { b.recursionDepth-- }, true
}

// CheckExpr implements resolver.ExprChecker for AstTypeTypeof.
func (b *Builder) CheckExpr(sc *scope.Scope, e ast.Expression) arena.TypeId {
	res := b.check(sc, e, nil, false)
	return res.Type
}

// recordType stashes an expression's computed type/expected type into
// astTypes/astExpectedTypes (spec.md §4.6: "every evaluated expression
// is recorded").
func (b *Builder) recordType(n ast.Node, ty arena.TypeId, expected *arena.TypeId) {
	b.astTypes[n] = ty
	if expected != nil {
		b.astExpectedTypes[n] = *expected
	}
}

func (b *Builder) recordPack(n ast.Node, pack arena.TypePackId) {
	b.astTypePacks[n] = pack
}

// TypeOf returns the type recorded for n by a prior check call, if any.
func (b *Builder) TypeOf(n ast.Node) (arena.TypeId, bool) {
	t, ok := b.astTypes[n]
	return t, ok
}
