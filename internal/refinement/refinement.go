// Package refinement implements the refinement algebra (component C):
// propositional terms over (Definition, DiscriminantType) pairs, lowered
// into per-scope refined types for the then/else arms of conditionals,
// and/or, type guards, and equality checks.
//
// Grounded on spec.md §4.3 — no pack repo implements this exact algebra;
// the "persistent tree + smart constructors that drop null operands"
// shape follows the teacher's own immutable Type variants
// (funvibe-funxy/internal/typesystem/types.go), and the narrowing intent
// is cross-checked against other_examples/itsfuad-Ferret__narrowing.go.
package refinement

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/dfg"
)

// Refinement is implemented by every refinement-term variant. A nil
// Refinement is the "no refinement" null handle.
type Refinement interface {
	refinementNode()
}

// Proposition asserts that def's discriminant type is discTy under the
// "then" sense.
type Proposition struct {
	Def       dfg.DefId
	DiscriminantTy arena.TypeId
}

func (Proposition) refinementNode() {}

// Negation is the logical complement of Inner.
type Negation struct{ Inner Refinement }

func (Negation) refinementNode() {}

// Conjunction is the logical AND of L and R.
type Conjunction struct{ L, R Refinement }

func (Conjunction) refinementNode() {}

// Disjunction is the logical OR of L and R.
type Disjunction struct{ L, R Refinement }

func (Disjunction) refinementNode() {}

// Equivalence recurses into both children under the same sense but with
// eq=true (used for `==`/`~=` lowering).
type Equivalence struct{ L, R Refinement }

func (Equivalence) refinementNode() {}

// Variadic folds an arbitrary number of refinements (e.g. a call's
// per-argument propositions) at the same sense.
type Variadic struct{ Items []Refinement }

func (Variadic) refinementNode() {}

// NewProposition builds a Proposition term.
func NewProposition(def dfg.DefId, discTy arena.TypeId) Refinement {
	return Proposition{Def: def, DiscriminantTy: discTy}
}

// Not builds a Negation, dropping a nil operand (negation(nil) == nil).
func Not(r Refinement) Refinement {
	if r == nil {
		return nil
	}
	return Negation{Inner: r}
}

// And builds a Conjunction, dropping nil operands
// (conjunction(nil, x) == x).
func And(l, r Refinement) Refinement {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return Conjunction{L: l, R: r}
}

// Or builds a Disjunction, dropping nil operands.
func Or(l, r Refinement) Refinement {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return Disjunction{L: l, R: r}
}

// Equiv builds an Equivalence, dropping nil operands.
func Equiv(l, r Refinement) Refinement {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return Equivalence{L: l, R: r}
}

// NewVariadic builds a Variadic term, dropping nil items and collapsing
// to the single surviving item (or nil) when fewer than two remain.
func NewVariadic(items []Refinement) Refinement {
	filtered := make([]Refinement, 0, len(items))
	for _, it := range items {
		if it != nil {
			filtered = append(filtered, it)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return Variadic{Items: filtered}
	}
}
