package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/scope"
)

// metamethodNames is the closed set of metatable entries recognized by
// DeclareClassStatement (spec.md §4.9). A prop with one of these names
// is routed into the class's synthesized metatable rather than its own
// member set.
var metamethodNames = map[string]bool{
	"__index": true, "__newindex": true, "__call": true, "__concat": true,
	"__unm": true, "__add": true, "__sub": true, "__mul": true, "__div": true,
	"__mod": true, "__pow": true, "__tostring": true, "__metatable": true,
	"__eq": true, "__lt": true, "__le": true, "__mode": true, "__iter": true,
	"__len": true,
}

// visitDeclareClass implements `declare class Name [extends Super] ...
// end` (spec.md §4.9): members are collected into a Class node, with
// metamethod-named members routed into a synthesized metatable instead of
// the class's own property set. A member name declared twice merges via
// Intersection if both declarations resolve to Function types;
// overloading anything else reports CodeOverloadOfNonFunction and keeps
// the first declaration.
func (b *Builder) visitDeclareClass(sc *scope.Scope, s *ast.DeclareClassStatement) {
	props := make(map[string]arena.Prop)
	metaProps := make(map[string]arena.Prop)

	for _, p := range s.Props {
		ty := b.Resolver.ResolveType(sc, p.Annotation, false)
		dest := props
		if metamethodNames[p.Name] {
			dest = metaProps
		}
		existing, dup := dest[p.Name]
		if !dup {
			dest[p.Name] = arena.Prop{Type: ty}
			continue
		}
		if !b.bothFunctions(existing.Type, ty) {
			b.report(s.GetToken().Pos(), errors.CodeOverloadOfNonFunction,
				"cannot overload non-function class member '%s'", p.Name)
			continue
		}
		dest[p.Name] = arena.Prop{Type: b.Arena.AddType(arena.Intersection{Parts: []arena.TypeId{existing.Type, ty}})}
	}

	var parent *arena.TypeId
	if s.SuperName != "" {
		tf, ok := sc.LookupType(s.SuperName)
		if !ok {
			b.report(s.GetToken().Pos(), errors.CodeNonClassSuperclass, "unknown superclass '%s'", s.SuperName)
		} else if _, isClass := b.Arena.FollowType(tf.Type).(arena.Class); !isClass {
			b.report(s.GetToken().Pos(), errors.CodeNonClassSuperclass, "'%s' is not a class", s.SuperName)
		} else {
			target := tf.Type
			parent = &target
		}
	}

	var metatable *arena.TypeId
	if len(metaProps) > 0 {
		mt := b.Arena.AddType(arena.Table{Props: metaProps, State: arena.TableSealed, Scope: sc.ID()})
		metatable = &mt
	}

	classTy := b.Arena.AddType(arena.Class{Name: s.Name, Props: props, Parent: parent, Metatable: metatable})
	sc.DefineType(s.Name, scope.TypeFun{Type: classTy}, true)
}

// bothFunctions reports whether both a and b (followed through Bound
// forwarding) are Function nodes, the only shape Intersection-merging an
// overloaded class member is meaningful for.
func (b *Builder) bothFunctions(a, c arena.TypeId) bool {
	_, aOk := b.Arena.FollowType(a).(arena.Function)
	_, cOk := b.Arena.FollowType(c).(arena.Function)
	return aOk && cOk
}
