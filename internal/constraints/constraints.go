// Package constraints implements the append-only, dependency-annotated
// constraint list (component E) the solver later consumes.
//
// Grounded on funvibe-funxy/internal/analyzer/constraints.go's
// `Constraint{Kind, Left, Right, Trait, Args, Node}` shape, generalized to
// the spec's full ConstraintKind sum and given the checkpoint/dependency
// machinery the teacher's flat slice never needed (funxy's solver doesn't
// order constraints; this one must).
package constraints

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

// Kind is implemented by every ConstraintKind variant in spec.md §3.
type Kind interface {
	constraintKind()
}

type Subtype struct{ Sub, Super arena.TypeId }
type PackSubtype struct{ Sub, Super arena.TypePackId }
type Generalization struct {
	Target arena.TypeId
	Source arena.TypeId
}
type Instantiation struct {
	Target arena.TypeId
	Source arena.TypeId
}
type Iterable struct {
	Iterator  arena.TypePackId
	Variables arena.TypePackId
}
type Name struct {
	Target        arena.TypeId
	Name          string
	Synthetic     bool
	TypeParams    []arena.TypeId
	TypePackParams []arena.TypePackId
}
type TypeAliasExpansion struct{ Target arena.TypeId }
type FunctionCall struct {
	Fn            arena.TypeId
	Args          arena.TypePackId
	Rets          arena.TypePackId
	CallAst       ast.Node
	Discriminants []arena.TypeId
}
type PrimitiveType struct {
	Result    arena.TypeId
	Expected  arena.TypeId
	Singleton arena.TypeId
	Primitive arena.TypeId
}
type HasProp struct {
	Result   arena.TypeId
	Subject  arena.TypeId
	PropName string
}
type SetProp struct {
	Result   arena.TypeId
	Subject  arena.TypeId
	Path     []string
	PropType arena.TypeId
}
type Unary struct {
	Op      token.Type
	Operand arena.TypeId
	Result  arena.TypeId
}
type Binary struct {
	Op          token.Type
	Left, Right arena.TypeId
	Result      arena.TypeId
	AstLeft     ast.Node
	AstRight    ast.Node
}
type SingletonOrTopType struct {
	Target  arena.TypeId
	Source  arena.TypeId
	Negated bool
}

func (Subtype) constraintKind()            {}
func (PackSubtype) constraintKind()        {}
func (Generalization) constraintKind()     {}
func (Instantiation) constraintKind()      {}
func (Iterable) constraintKind()           {}
func (Name) constraintKind()               {}
func (TypeAliasExpansion) constraintKind() {}
func (FunctionCall) constraintKind()       {}
func (PrimitiveType) constraintKind()      {}
func (HasProp) constraintKind()            {}
func (SetProp) constraintKind()            {}
func (Unary) constraintKind()              {}
func (Binary) constraintKind()             {}
func (SingletonOrTopType) constraintKind() {}

// Constraint is one entry of the ordered constraint list.
type Constraint struct {
	Scope        *scope.Scope
	Location     token.Pos
	Payload      Kind
	Dependencies []*Constraint
}

// Checkpoint is an offset into the constraint list, used to express "all
// constraints emitted during this sub-traversal" (spec.md §4.4).
type Checkpoint int

// List is the module's append-only, insertion-ordered constraint store.
// Nodes are never moved after insertion, so dependency pointers captured
// at emit time stay stable for the checkpoint's lifetime.
type List struct {
	items []*Constraint
}

// NewList returns an empty constraint list.
func NewList() *List { return &List{} }

// Add appends a new constraint with the given dependencies and returns
// it. Every dependency must already be present in the list (the list is
// insertion-ordered and dependencies may only point backward).
func (l *List) Add(s *scope.Scope, loc token.Pos, payload Kind, deps ...*Constraint) *Constraint {
	c := &Constraint{Scope: s, Location: loc, Payload: payload, Dependencies: deps}
	l.items = append(l.items, c)
	return c
}

// Checkpoint returns the current end-of-list offset.
func (l *List) Checkpoint() Checkpoint { return Checkpoint(len(l.items)) }

// Len reports how many constraints have been appended.
func (l *List) Len() int { return len(l.items) }

// At returns the constraint at position i (0-indexed, insertion order).
func (l *List) At(i int) *Constraint { return l.items[i] }

// ForEachConstraint iterates the constraints inserted in the half-open
// range [start, end), in insertion order.
func (l *List) ForEachConstraint(start, end Checkpoint, f func(*Constraint)) {
	for i := start; i < end; i++ {
		f(l.items[i])
	}
}

// Slice between two checkpoints; equivalent to ForEachConstraint's range,
// returned as a value for callers that want to build a dependency set.
func (l *List) Slice(start, end Checkpoint) []*Constraint {
	return append([]*Constraint(nil), l.items[start:end]...)
}

// All returns every constraint in insertion order.
func (l *List) All() []*Constraint {
	return l.items
}
