package arena

import (
	"fmt"
	"strings"
)

// FreePack is an unresolved type-pack variable.
type FreePack struct{ Scope ScopeRef }

func (FreePack) String() string { return "'freepack" }

// BoundPack forwards to another TypePackId. FollowPack chases these.
type BoundPack struct{ Target TypePackId }

func (b BoundPack) String() string { return fmt.Sprintf("-> %d", b.Target) }

// Pack is a fixed-length prefix of types optionally followed by a tail
// pack (for variadic results / forwarded `...`).
type Pack struct {
	Head []TypeId
	Tail *TypePackId
}

func (p Pack) String() string {
	parts := make([]string, len(p.Head))
	for i, h := range p.Head {
		parts[i] = fmt.Sprintf("%d", h)
	}
	s := strings.Join(parts, ", ")
	if p.Tail != nil {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("...%d", *p.Tail)
	}
	return "(" + s + ")"
}

// VariadicPack is a homogeneous `...T` tail. Hidden marks a
// compiler-synthesized variadic (e.g. a function's implicit trailing
// `...any` when unannotated) that should not surface in error messages.
type VariadicPack struct {
	Element TypeId
	Hidden  bool
}

func (v VariadicPack) String() string { return fmt.Sprintf("...%d", v.Element) }

// GenericPack is a rigid, named generic type-pack parameter.
type GenericPack struct {
	Scope ScopeRef
	Name  string
}

func (g GenericPack) String() string { return g.Name }

// BlockedPack is a placeholder type pack rewritten in place exactly once.
type BlockedPack struct{}

func (BlockedPack) String() string { return "*blockedpack*" }

// ErrorRecoveryPack substitutes for any type pack CGB could not
// meaningfully compute.
type ErrorRecoveryPack struct{}

func (ErrorRecoveryPack) String() string { return "*error-pack*" }
