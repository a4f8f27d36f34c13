package arena

import (
	"fmt"
	"sort"
	"strings"
)

// PrimitiveKind enumerates the closed set of primitive type nodes.
type PrimitiveKind int

const (
	PrimNil PrimitiveKind = iota
	PrimBoolean
	PrimNumber
	PrimString
	PrimThread
	PrimFunction
	PrimTable
	PrimClass
	PrimAny
	PrimNever
	PrimError
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimNil:
		return "nil"
	case PrimBoolean:
		return "boolean"
	case PrimNumber:
		return "number"
	case PrimString:
		return "string"
	case PrimThread:
		return "thread"
	case PrimFunction:
		return "function"
	case PrimTable:
		return "table"
	case PrimClass:
		return "class"
	case PrimAny:
		return "any"
	case PrimNever:
		return "never"
	case PrimError:
		return "error"
	default:
		return "<unknown-primitive>"
	}
}

// Free is an unresolved type variable scoped to a lexical scope, waiting
// to be generalized or unified by the solver.
type Free struct{ Scope ScopeRef }

func (Free) String() string { return "'free" }

// Generic is a rigid, named generic parameter bound to the scope that
// declared it.
type Generic struct {
	Scope ScopeRef
	Name  string
}

func (g Generic) String() string { return g.Name }

// Blocked is a placeholder physically rewritten in place exactly once,
// when whatever it depends on (a call's return type, an alias head) is
// discovered.
type Blocked struct{}

func (Blocked) String() string { return "*blocked*" }

// Bound forwards to another TypeId. Follow chases these.
type Bound struct{ Target TypeId }

func (b Bound) String() string { return fmt.Sprintf("-> %d", b.Target) }

// Primitive is one of the fixed builtin primitive types.
type Primitive struct{ Kind PrimitiveKind }

func (p Primitive) String() string { return p.Kind.String() }

// Singleton is a literal boolean or string type, e.g. `true` or `"ok"`.
type Singleton struct {
	IsString    bool
	BoolValue   bool
	StringValue string
}

func (s Singleton) String() string {
	if s.IsString {
		return fmt.Sprintf("%q", s.StringValue)
	}
	if s.BoolValue {
		return "true"
	}
	return "false"
}

// Union is a disjunction of types.
type Union struct{ Parts []TypeId }

func (u Union) String() string {
	parts := make([]string, len(u.Parts))
	for i, p := range u.Parts {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, " | ")
}

// Intersection is a conjunction of types.
type Intersection struct{ Parts []TypeId }

func (t Intersection) String() string {
	parts := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, " & ")
}

// Negation is the complement of a type, used by type-guard refinements.
type Negation struct{ Inner TypeId }

func (n Negation) String() string { return fmt.Sprintf("~%d", n.Inner) }

// TableState is the sealedness of a Table node.
type TableState int

const (
	TableFree TableState = iota
	TableUnsealed
	TableSealed
)

func (s TableState) String() string {
	switch s {
	case TableFree:
		return "free"
	case TableUnsealed:
		return "unsealed"
	default:
		return "sealed"
	}
}

// Prop is one property slot of a Table or Class node.
type Prop struct {
	Type TypeId
}

// Indexer is a Table node's `[K]: V` indexer, if any.
type Indexer struct {
	Key   TypeId
	Value TypeId
}

// Table is a structural table/record type.
type Table struct {
	Props   map[string]Prop
	Indexer *Indexer
	State   TableState
	Scope   ScopeRef
	Level   int
}

func (t Table) String() string {
	names := make([]string, 0, len(t.Props))
	for k := range t.Props {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names)+1)
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", n, t.Props[n].Type))
	}
	if t.Indexer != nil {
		parts = append(parts, fmt.Sprintf("[%d]: %d", t.Indexer.Key, t.Indexer.Value))
	}
	return fmt.Sprintf("{%s}(%s)", strings.Join(parts, ", "), t.State)
}

// Function is a function signature: generics, argument pack, return
// pack, argument names (for error messages), and the signature's own
// child scope.
type Function struct {
	Generics      []TypeId
	GenericPacks  []TypePackId
	ArgPack       TypePackId
	RetPack       TypePackId
	ArgNames      []string
	Scope         ScopeRef
	HasNoGenerics bool
	HasSelf       bool
}

func (f Function) String() string {
	return fmt.Sprintf("(%d) -> (%d)", f.ArgPack, f.RetPack)
}

// Class is a declared class type.
type Class struct {
	Name      string
	Props     map[string]Prop
	Parent    *TypeId
	Metatable *TypeId
	Module    string
}

func (c Class) String() string { return c.Name }

// Metatable pairs a base type with the type backing its metatable.
type Metatable struct {
	Target      TypeId
	MetatableTy TypeId
}

func (m Metatable) String() string { return fmt.Sprintf("setmetatable(%d, %d)", m.Target, m.MetatableTy) }

// PendingExpansion is a not-yet-reduced type-alias application; the
// solver substitutes TypeArgs/TypePackArgs into the alias body.
type PendingExpansion struct {
	Prefix       string // imported-module prefix, "" if local
	Name         string
	TypeArgs     []TypeId
	TypePackArgs []TypePackId
}

func (p PendingExpansion) String() string {
	name := p.Name
	if p.Prefix != "" {
		name = p.Prefix + "." + name
	}
	return fmt.Sprintf("%s<pending>", name)
}

// ErrorRecovery substitutes for any type CGB could not meaningfully
// compute (spec.md §4.10: "no silent construction of bogus constraints").
type ErrorRecovery struct{}

func (ErrorRecovery) String() string { return "*error-type*" }
