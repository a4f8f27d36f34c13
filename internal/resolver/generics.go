package resolver

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/scope"
)

// CreateGenerics allocates a fresh Generic type per non-pack parameter in
// params, defining each into sc so the declaration's own body can refer
// to it by name. When useCache is true and aliasName names a type alias
// being declared in sc's parent, the parent's alias-parameter cache is
// consulted first and populated on first use, so two mutually-recursive
// alias bodies that reference each other's generics see the same
// Generic identities (spec.md §4.7).
func (r *Resolver) CreateGenerics(sc *scope.Scope, aliasName string, params []*ast.GenericParam, useCache bool) []arena.TypeId {
	if useCache && aliasName != "" && sc.Parent != nil {
		if cached, ok := sc.Parent.TypeAliasTypeParameters[aliasName]; ok {
			for i, p := range params {
				if i < len(cached) {
					sc.DefineType(p.Name, scope.TypeFun{Type: cached[i]}, false)
				}
			}
			return cached
		}
	}

	ids := make([]arena.TypeId, len(params))
	for i, p := range params {
		id := r.Arena.AddType(arena.Generic{Scope: sc.ID(), Name: p.Name})
		ids[i] = id
		sc.DefineType(p.Name, scope.TypeFun{Type: id}, false)
		if p.Default != nil {
			// Default values resolve via the type resolver with
			// inTypeArguments=false (spec.md §4.7); the solver consults
			// TypeAliasTypeParameters/defaults at instantiation time, so
			// resolving here is solely to surface errors in the default
			// expression itself as early as possible.
			r.ResolveType(sc, p.Default, false)
		}
	}

	if useCache && aliasName != "" && sc.Parent != nil {
		sc.Parent.TypeAliasTypeParameters[aliasName] = ids
	}
	return ids
}

// CreateGenericPacks is CreateGenerics's type-pack counterpart.
func (r *Resolver) CreateGenericPacks(sc *scope.Scope, aliasName string, params []*ast.GenericParam, useCache bool) []arena.TypePackId {
	if useCache && aliasName != "" && sc.Parent != nil {
		if cached, ok := sc.Parent.TypeAliasTypePackParameters[aliasName]; ok {
			for i, p := range params {
				if i < len(cached) {
					sc.DefineTypePack(p.Name, cached[i])
				}
			}
			return cached
		}
	}

	ids := make([]arena.TypePackId, len(params))
	for i, p := range params {
		id := r.Arena.AddTypePack(arena.GenericPack{Scope: sc.ID(), Name: p.Name})
		ids[i] = id
		sc.DefineTypePack(p.Name, id)
		if p.DefaultPack != nil {
			r.ResolveTypePack(sc, p.DefaultPack, false)
		}
	}

	if useCache && aliasName != "" && sc.Parent != nil {
		sc.Parent.TypeAliasTypePackParameters[aliasName] = ids
	}
	return ids
}
