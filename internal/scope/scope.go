// Package scope implements the lexically-nested scope tree (component B):
// bindings for values, types, type packs, imported modules, and
// definition refinements, with parent-walking lookup.
//
// Grounded on funvibe-funxy/internal/symbols' SymbolTable (an `outer
// *SymbolTable` parent chain with `Find`/`ResolveType` walking `outer`),
// renamed to the spec's field names and extended with the refinement map
// the teacher's scope doesn't carry.
package scope

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/token"
)

// Binding is a value binding: the type it was last rebound to, and where
// that binding was introduced.
type Binding struct {
	TypeId   arena.TypeId
	Location token.Pos
}

// TypeFun is a (possibly generic) type alias signature: its declared
// generic/generic-pack parameters and the arena handle of its head
// (which may itself be `Bound` to the alias's body once resolved).
type TypeFun struct {
	Generics     []arena.TypeId
	GenericPacks []arena.TypePackId
	Type         arena.TypeId
}

// Scope is one lexical scope node.
type Scope struct {
	id     arena.ScopeRef
	Parent *Scope
	Children []*Scope
	Level  int

	ReturnType arena.TypePackId
	VarargPack *arena.TypePackId

	Bindings                    map[string]Binding
	PrivateTypeBindings         map[string]TypeFun
	ExportedTypeBindings        map[string]TypeFun
	PrivateTypePackBindings     map[string]arena.TypePackId
	ImportedTypeBindings        map[string]map[string]TypeFun
	ImportedModules             map[string]string
	DcrRefinements              map[dfg.DefId]arena.TypeId
	TypeAliasTypeParameters     map[string][]arena.TypeId
	TypeAliasTypePackParameters map[string][]arena.TypePackId
}

// ID returns the arena.ScopeRef identifying this scope to Free/Generic
// arena nodes.
func (s *Scope) ID() arena.ScopeRef { return s.id }

func newScope(id arena.ScopeRef, parent *Scope, level int) *Scope {
	return &Scope{
		id:                          id,
		Parent:                      parent,
		Level:                       level,
		Bindings:                    make(map[string]Binding),
		PrivateTypeBindings:         make(map[string]TypeFun),
		ExportedTypeBindings:        make(map[string]TypeFun),
		PrivateTypePackBindings:     make(map[string]arena.TypePackId),
		ImportedTypeBindings:        make(map[string]map[string]TypeFun),
		ImportedModules:             make(map[string]string),
		DcrRefinements:              make(map[dfg.DefId]arena.TypeId),
		TypeAliasTypeParameters:     make(map[string][]arena.TypeId),
		TypeAliasTypePackParameters: make(map[string][]arena.TypePackId),
	}
}

// Tree is the module's scope tree, rooted at Root. It owns every scope
// created during CGB's traversal and the astNode -> scope map named in
// spec.md §6 (`astScopes`).
type Tree struct {
	Root      *Scope
	astScopes map[ast.Node]*Scope
	nextID    arena.ScopeRef
}

// NewTree creates a fresh scope tree with an empty root scope.
func NewTree(returnType arena.TypePackId) *Tree {
	t := &Tree{astScopes: make(map[ast.Node]*Scope)}
	t.Root = newScope(t.nextID, nil, 0)
	t.nextID++
	t.Root.ReturnType = returnType
	return t
}

// ChildScope creates a new scope nested under parent, binds astNode to
// it in the module's astScopes map, inherits parent's ReturnType and
// VarargPack, and appends the child to parent's Children list
// (spec.md §4.2).
func (t *Tree) ChildScope(astNode ast.Node, parent *Scope) *Scope {
	child := newScope(t.nextID, parent, parent.Level+1)
	t.nextID++
	child.ReturnType = parent.ReturnType
	child.VarargPack = parent.VarargPack
	parent.Children = append(parent.Children, child)
	t.astScopes[astNode] = child
	return child
}

// ScopeFor returns the scope created from astNode, if any.
func (t *Tree) ScopeFor(astNode ast.Node) (*Scope, bool) {
	s, ok := t.astScopes[astNode]
	return s, ok
}
