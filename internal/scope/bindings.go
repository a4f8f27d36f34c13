package scope

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/token"
)

// DefineValue binds (or rebinds) name to typeId in this scope.
func (s *Scope) DefineValue(name string, typeId arena.TypeId, loc token.Pos) {
	s.Bindings[name] = Binding{TypeId: typeId, Location: loc}
}

// DefineType installs a type alias signature, exported or private per the
// `exported` flag (spec.md §4.5 block-statement first pass).
func (s *Scope) DefineType(name string, tf TypeFun, exported bool) {
	if exported {
		s.ExportedTypeBindings[name] = tf
	} else {
		s.PrivateTypeBindings[name] = tf
	}
}

// DefineTypePack binds a generic type-pack parameter name.
func (s *Scope) DefineTypePack(name string, id arena.TypePackId) {
	s.PrivateTypePackBindings[name] = id
}

// SetRefinement sets this scope's (not a parent's) refined type for def.
func (s *Scope) SetRefinement(def dfg.DefId, t arena.TypeId) {
	s.DcrRefinements[def] = t
}

// ImportModule merges a resolved module's exported type bindings under
// localName, for `local x = require(...)` (spec.md §4.2/§4.5).
func (s *Scope) ImportModule(localName string, exported map[string]TypeFun) {
	merged := make(map[string]TypeFun, len(exported))
	for k, v := range exported {
		merged[k] = v
	}
	s.ImportedTypeBindings[localName] = merged
}
