package scope

import "github.com/funvibe/funxy/internal/dfg"
import "github.com/funvibe/funxy/internal/arena"

// Lookup walks parents for a value binding, honoring most-local shadowing.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.Bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupType walks parents for a type alias, checking both private and
// exported bindings at each level (both are visible from inside the
// scope that declared them and its descendants).
func (s *Scope) LookupType(name string) (TypeFun, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if tf, ok := cur.PrivateTypeBindings[name]; ok {
			return tf, true
		}
		if tf, ok := cur.ExportedTypeBindings[name]; ok {
			return tf, true
		}
	}
	return TypeFun{}, false
}

// LookupPack walks parents for a generic type-pack parameter binding.
func (s *Scope) LookupPack(name string) (arena.TypePackId, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if id, ok := cur.PrivateTypePackBindings[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// LookupImportedType consults importedTypeBindings at the current scope
// only — imports are not inherited by lexical nesting the way locals are
// (spec.md §4.2).
func (s *Scope) LookupImportedType(modName, name string) (TypeFun, bool) {
	mod, ok := s.ImportedTypeBindings[modName]
	if !ok {
		return TypeFun{}, false
	}
	tf, ok := mod[name]
	return tf, ok
}

// LookupRefinement walks parents for a definition's current refined type.
func (s *Scope) LookupRefinement(def dfg.DefId) (arena.TypeId, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if t, ok := cur.DcrRefinements[def]; ok {
			return t, true
		}
	}
	return 0, false
}
