package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/refinement"
	"github.com/funvibe/funxy/internal/scope"
)

// visitIf implements `if c then A [elseif c2 then B]* [else C] end`
// (spec.md §4.5): each arm's body is visited in its own child scope under
// the conjunction of the arm's own truthy refinement and every preceding
// arm's negated condition, mirroring the if-expression form.
func (b *Builder) visitIf(sc *scope.Scope, s *ast.IfStatement) {
	condRes := b.check(sc, s.Cond, nil, false)
	thenScope := b.Tree.ChildScope(s.Then, sc)
	if condRes.Refinement != nil {
		refinement.ApplyRefinements(b.Arena, thenScope, b.Graph, condRes.Refinement, true)
	}
	b.visitBlock(thenScope, s.Then)
	accumulatedNeg := refinement.Not(condRes.Refinement)

	for _, ei := range s.ElseIfs {
		condScope := sc
		if accumulatedNeg != nil {
			condScope = b.Tree.ChildScope(ei.Cond, sc)
			refinement.ApplyRefinements(b.Arena, condScope, b.Graph, accumulatedNeg, true)
		}
		eiCond := b.check(condScope, ei.Cond, nil, false)

		bodyScope := b.Tree.ChildScope(ei.Body, condScope)
		if eiCond.Refinement != nil {
			refinement.ApplyRefinements(b.Arena, bodyScope, b.Graph, eiCond.Refinement, true)
		}
		b.visitBlock(bodyScope, ei.Body)
		accumulatedNeg = refinement.And(accumulatedNeg, refinement.Not(eiCond.Refinement))
	}

	if s.Else != nil {
		elseScope := b.Tree.ChildScope(s.Else, sc)
		if accumulatedNeg != nil {
			refinement.ApplyRefinements(b.Arena, elseScope, b.Graph, accumulatedNeg, true)
		}
		b.visitBlock(elseScope, s.Else)
	}
}

func (b *Builder) visitNumericFor(sc *scope.Scope, s *ast.NumericForStatement) {
	b.check(sc, s.From, nil, false)
	b.check(sc, s.To, nil, false)
	if s.Step != nil {
		b.check(sc, s.Step, nil, false)
	}

	bodyScope := b.Tree.ChildScope(s.Body, sc)
	numTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber})
	bodyScope.DefineValue(s.Var.Name, numTy, s.Var.GetToken().Pos())
	b.visitBlock(bodyScope, s.Body)
}

// visitGenericFor implements `for k, v in expr do body end` (spec.md
// §4.5): the iterator expression list is checked as a pack and paired
// with a fresh per-loop-variable pack via an Iterable constraint, which
// the solver resolves against whatever `__iter`/native iterator shape the
// iterator expression produced.
func (b *Builder) visitGenericFor(sc *scope.Scope, s *ast.GenericForStatement) {
	head, _, tail := b.checkExprList(sc, s.Exprs)
	iterPack := b.Arena.AddTypePack(arena.Pack{Head: head, Tail: tail})

	varHead := make([]arena.TypeId, len(s.Names))
	for i := range s.Names {
		varHead[i] = b.Arena.FreshType(sc.ID())
	}
	varPack := b.Arena.AddTypePack(arena.Pack{Head: varHead})
	b.Constraints.Add(sc, s.GetToken().Pos(), constraints.Iterable{Iterator: iterPack, Variables: varPack})

	bodyScope := b.Tree.ChildScope(s.Body, sc)
	for i, name := range s.Names {
		bodyScope.DefineValue(name.Name, varHead[i], name.GetToken().Pos())
	}
	b.visitBlock(bodyScope, s.Body)
}

func (b *Builder) visitWhile(sc *scope.Scope, s *ast.WhileStatement) {
	condRes := b.check(sc, s.Cond, nil, false)
	bodyScope := b.Tree.ChildScope(s.Body, sc)
	if condRes.Refinement != nil {
		refinement.ApplyRefinements(b.Arena, bodyScope, b.Graph, condRes.Refinement, true)
	}
	b.visitBlock(bodyScope, s.Body)
}

// visitRepeat implements `repeat body until c` — c is evaluated in the
// body's own scope, so it can see locals the body declared.
func (b *Builder) visitRepeat(sc *scope.Scope, s *ast.RepeatStatement) {
	bodyScope := b.Tree.ChildScope(s.Body, sc)
	b.visitBlock(bodyScope, s.Body)
	b.check(bodyScope, s.Cond, nil, false)
}

func (b *Builder) visitReturn(sc *scope.Scope, s *ast.ReturnStatement) {
	head, _, tail := b.checkExprList(sc, s.Values)
	pack := b.Arena.AddTypePack(arena.Pack{Head: head, Tail: tail})
	b.Constraints.Add(sc, s.GetToken().Pos(), constraints.PackSubtype{Sub: pack, Super: sc.ReturnType})
}
