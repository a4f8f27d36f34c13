// Package arena owns every type and type-pack node the constraint graph
// builder allocates (component A). All back-references — recursive
// aliases, class/meta tables, forwarding — go through the TypeId/
// TypePackId handles defined here; nothing is ever embedded by value.
//
// The arena does not import the scope package (scope imports arena, for
// TypeId) — Free/Generic-shaped nodes carry a ScopeRef, an opaque integer
// the scope package mints and recognizes as its own identity. This keeps
// the dependency edge one-directional, the same way the teacher keeps
// `typesystem` free of any import on `symbols`.
package arena

import "fmt"

// ScopeRef is an opaque scope identity. Only the scope package assigns
// meaning to particular values; the arena just carries them around.
type ScopeRef int

// TypeId is a stable handle into the arena's type-node table.
type TypeId int

// TypePackId is a stable handle into the arena's type-pack-node table.
type TypePackId int

// Type is implemented by every type-node variant in spec.md §3.
type Type interface {
	String() string
}

// TypePack is implemented by every type-pack-node variant in spec.md §3.
type TypePack interface {
	String() string
}

// FatalInvariantError marks an internal invariant violation CGB cannot
// recover from (spec.md §7: "not recoverable... should halt compilation
// of the module"). Callers panic with it rather than reporting it as a
// user-visible diagnostic.
type FatalInvariantError struct {
	Message string
}

func (e *FatalInvariantError) Error() string { return "internal invariant violation: " + e.Message }

// Arena is the single mutable heap for one module's compilation. It is
// single-writer: only the constraint graph builder mutates it during this
// phase (spec.md §5), so no locking is needed.
type Arena struct {
	types []Type
	packs []TypePack
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{}
}

// AddType allocates a new type node and returns its handle.
func (a *Arena) AddType(t Type) TypeId {
	a.types = append(a.types, t)
	return TypeId(len(a.types) - 1)
}

// AddTypePack allocates a new type-pack node and returns its handle.
func (a *Arena) AddTypePack(p TypePack) TypePackId {
	a.packs = append(a.packs, p)
	return TypePackId(len(a.packs) - 1)
}

// FreshType allocates a Free type node bound to scope.
func (a *Arena) FreshType(scope ScopeRef) TypeId {
	return a.AddType(Free{Scope: scope})
}

// FreshTypePack allocates a FreePack node bound to scope.
func (a *Arena) FreshTypePack(scope ScopeRef) TypePackId {
	return a.AddTypePack(FreePack{Scope: scope})
}

// GetType dereferences a TypeId without following Bound forwarding.
func (a *Arena) GetType(id TypeId) Type {
	return a.types[id]
}

// GetTypePack dereferences a TypePackId without following BoundPack
// forwarding.
func (a *Arena) GetTypePack(id TypePackId) TypePack {
	return a.packs[id]
}

// EmplaceType rewrites a Blocked or Free node into its resolved form. A
// node may only be legally rewritten once — spec.md §3's "may be
// rewritten in place exactly once" invariant — enforced by requiring the
// current variant to still be Blocked or Free.
func (a *Arena) EmplaceType(id TypeId, resolved Type) {
	switch a.types[id].(type) {
	case Blocked, Free:
		a.types[id] = resolved
	default:
		panic(&FatalInvariantError{Message: fmt.Sprintf("type %d already emplaced (was %T, tried %T)", id, a.types[id], resolved)})
	}
}

// EmplaceTypePack is EmplaceType's type-pack counterpart.
func (a *Arena) EmplaceTypePack(id TypePackId, resolved TypePack) {
	switch a.packs[id].(type) {
	case BlockedPack, FreePack:
		a.packs[id] = resolved
	default:
		panic(&FatalInvariantError{Message: fmt.Sprintf("type pack %d already emplaced (was %T, tried %T)", id, a.packs[id], resolved)})
	}
}

// Follow chases Bound forwarding until it reaches a non-Bound node.
// Arena construction never closes a Bound cycle (spec.md §3), but Follow
// still bounds its own walk defensively and raises a fatal invariant
// error if that promise is somehow broken.
func (a *Arena) Follow(id TypeId) TypeId {
	for i := 0; i < len(a.types)+1; i++ {
		b, ok := a.types[id].(Bound)
		if !ok {
			return id
		}
		id = b.Target
	}
	panic(&FatalInvariantError{Message: "Bound cycle detected during follow"})
}

// FollowPack is Follow's type-pack counterpart.
func (a *Arena) FollowPack(id TypePackId) TypePackId {
	for i := 0; i < len(a.packs)+1; i++ {
		b, ok := a.packs[id].(BoundPack)
		if !ok {
			return id
		}
		id = b.Target
	}
	panic(&FatalInvariantError{Message: "BoundPack cycle detected during follow"})
}

// FollowType is sugar for GetType(Follow(id)).
func (a *Arena) FollowType(id TypeId) Type {
	return a.GetType(a.Follow(id))
}

// FollowTypePack is sugar for GetTypePack(FollowPack(id)).
func (a *Arena) FollowTypePack(id TypePackId) TypePack {
	return a.GetTypePack(a.FollowPack(id))
}
