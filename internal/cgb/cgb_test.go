package cgb

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

// newBuilder wires a Builder the way cmd/cgb does, minus a module
// resolver, backed by a StaticGraph so tests can opt individual nodes
// into def tracking with Def/Derive.
func newBuilder(t *testing.T) (*Builder, *dfg.StaticGraph, *errors.Sink) {
	t.Helper()
	a := arena.New()
	tree := scope.NewTree(0)
	cl := constraints.NewList()
	graph := dfg.NewStaticGraph()
	sink := errors.NewSink("t.luau")
	b := New(a, tree, cl, graph, sink, nil, nil)
	return b, graph, sink
}

func pos(line, col int) token.Pos { return token.Pos{Line: line, Column: col} }

func hasCode(s *errors.Sink, code errors.Code) bool {
	for _, d := range s.All() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// typeFunOf builds a non-generic scope.TypeFun wrapping a bare primitive,
// for tests that need a name like "number" resolvable in scope.
func typeFunOf(b *Builder, kind arena.PrimitiveKind) scope.TypeFun {
	return scope.TypeFun{Type: b.Arena.AddType(arena.Primitive{Kind: kind})}
}
