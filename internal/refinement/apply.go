package refinement

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/scope"
)

// ApplyRefinements computes r under sense and installs the resulting
// discriminant types into sc as refined bindings, lifting each
// discriminant along its definition's derivation chain (spec.md §4.3):
// a discriminant learned about `x.a.b` is wrapped in a synthesized sealed
// table at each property step on the way back up to `x`, so narrowing a
// nested field narrows the type of the root local the way Luau's type
// checker does. It returns the SingletonOrTopType constraints
// ComputeRefinement produced along the way.
//
// Applying the same (scope, refinement) pair twice in a row is
// idempotent: SetRefinement overwrites rather than accumulates, and
// intersecting an already-installed type with itself changes nothing
// observable (the solver treats Intersection{X, X} as equivalent to X).
func ApplyRefinements(a *arena.Arena, sc *scope.Scope, graph dfg.Graph, r Refinement, sense bool) []constraints.SingletonOrTopType {
	discs, cs := ComputeRefinement(a, r, sense)
	for def, discTy := range discs {
		baseDef, liftedTy := liftToBase(a, sc, graph, def, discTy)
		current, ok := sc.LookupRefinement(baseDef)
		if !ok || current == liftedTy {
			sc.SetRefinement(baseDef, liftedTy)
			continue
		}
		sc.SetRefinement(baseDef, a.AddType(arena.Intersection{Parts: []arena.TypeId{current, liftedTy}}))
	}
	return cs
}

// liftToBase climbs def's parent chain through the data-flow graph,
// wrapping discTy in a fresh sealed Table at each property step, until it
// reaches a root def (no parent), returning that root def and the fully
// lifted type.
func liftToBase(a *arena.Arena, sc *scope.Scope, graph dfg.Graph, def dfg.DefId, discTy arena.TypeId) (dfg.DefId, arena.TypeId) {
	cur := def
	ty := discTy
	for {
		cell, ok := graph.GetCell(cur)
		if !ok || cell.Parent == nil || cell.Field == nil {
			return cur, ty
		}
		ty = a.AddType(arena.Table{
			Props: map[string]arena.Prop{cell.Field.PropName: {Type: ty}},
			State: arena.TableSealed,
			Scope: sc.ID(),
		})
		cur = *cell.Parent
	}
}
