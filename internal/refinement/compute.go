package refinement

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/dfg"
)

// discriminants is the per-definition fold accumulated while walking a
// Refinement tree.
type discriminants map[dfg.DefId]arena.TypeId

// ComputeRefinement lowers r into a per-definition discriminant-type map
// under the given sense (true for the "then"/truthy branch, false for
// "else"/falsy), plus any SingletonOrTopType constraints the negated and
// equality propositions along the way require (spec.md §4.3).
func ComputeRefinement(a *arena.Arena, r Refinement, sense bool) (map[dfg.DefId]arena.TypeId, []constraints.SingletonOrTopType) {
	d, c := compute(a, r, sense, false)
	return d, c
}

func compute(a *arena.Arena, r Refinement, sense, eq bool) (discriminants, []constraints.SingletonOrTopType) {
	if r == nil {
		return discriminants{}, nil
	}
	switch t := r.(type) {
	case Proposition:
		return proposition(a, t, sense, eq)

	case Negation:
		return compute(a, t.Inner, !sense, eq)

	case Conjunction:
		lr, lc := compute(a, t.L, sense, eq)
		rr, rc := compute(a, t.R, sense, eq)
		merged := foldSide(a, lr, rr, sense)
		return merged, append(lc, rc...)

	case Disjunction:
		lr, lc := compute(a, t.L, sense, eq)
		rr, rc := compute(a, t.R, sense, eq)
		merged := foldSide(a, lr, rr, !sense)
		return merged, append(lc, rc...)

	case Equivalence:
		lr, lc := compute(a, t.L, sense, true)
		rr, rc := compute(a, t.R, sense, true)
		merged := foldSide(a, lr, rr, sense)
		return merged, append(lc, rc...)

	case Variadic:
		result := discriminants{}
		var cs []constraints.SingletonOrTopType
		for _, item := range t.Items {
			ir, ic := compute(a, item, sense, eq)
			result = foldSide(a, result, ir, sense)
			cs = append(cs, ic...)
		}
		return result, cs

	default:
		return discriminants{}, nil
	}
}

// proposition lowers a base Proposition term. When eq is true — the
// children of an Equivalence (`x == y`), where the discriminant can only
// be validated by the solver once both sides are known — a Blocked type
// is allocated and a SingletonOrTopType(blocked, discTy, !sense)
// constraint is emitted instead of resolving the discriminant here.
// Otherwise, under the true sense the discriminant type applies directly;
// under the false sense it's wrapped in a fresh Negation node and a
// SingletonOrTopType constraint is emitted so the solver can validate the
// negation is well-formed (e.g. negating a singleton against its parent
// primitive).
func proposition(a *arena.Arena, p Proposition, sense, eq bool) (discriminants, []constraints.SingletonOrTopType) {
	if eq {
		blocked := a.AddType(arena.Blocked{})
		return discriminants{p.Def: blocked}, []constraints.SingletonOrTopType{{
			Target:  blocked,
			Source:  p.DiscriminantTy,
			Negated: !sense,
		}}
	}
	if sense {
		return discriminants{p.Def: p.DiscriminantTy}, nil
	}
	negTy := a.AddType(arena.Negation{Inner: p.DiscriminantTy})
	return discriminants{p.Def: negTy}, []constraints.SingletonOrTopType{{
		Target:  negTy,
		Source:  p.DiscriminantTy,
		Negated: true,
	}}
}

// foldSide merges two discriminant maps. For a key present in both sides,
// conjunctive folding intersects the two types (both must hold
// simultaneously) and disjunctive folding unions them (either may hold).
// A key present on only one side passes through unchanged: the other
// branch asserted nothing about that definition, so its lone discriminant
// stands.
func foldSide(a *arena.Arena, lhs, rhs discriminants, conjunctive bool) discriminants {
	merged := make(discriminants, len(lhs)+len(rhs))
	for k, v := range lhs {
		merged[k] = v
	}
	for k, v := range rhs {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}
		if conjunctive {
			merged[k] = a.AddType(arena.Intersection{Parts: []arena.TypeId{existing, v}})
		} else {
			merged[k] = a.AddType(arena.Union{Parts: []arena.TypeId{existing, v}})
		}
	}
	return merged
}
