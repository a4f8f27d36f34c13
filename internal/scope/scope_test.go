package scope

import (
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/token"
)

func TestLookupWalksParentsAndShadows(t *testing.T) {
	tree := NewTree(0)
	block := &ast.Block{}
	child := tree.ChildScope(block, tree.Root)

	tree.Root.DefineValue("x", arena.TypeId(1), token.Pos{})
	child.DefineValue("x", arena.TypeId(2), token.Pos{})

	b, ok := child.Lookup("x")
	if !ok || b.TypeId != 2 {
		t.Fatalf("expected shadowed binding 2, got %+v ok=%v", b, ok)
	}

	grandparentLookup, ok := tree.Root.Lookup("x")
	if !ok || grandparentLookup.TypeId != 1 {
		t.Fatalf("expected root binding 1, got %+v ok=%v", grandparentLookup, ok)
	}
}

func TestChildScopeInheritsReturnTypeAndLinksAstNode(t *testing.T) {
	tree := NewTree(arena.TypePackId(42))
	block := &ast.Block{}
	child := tree.ChildScope(block, tree.Root)

	if child.ReturnType != 42 {
		t.Fatalf("expected inherited return type 42, got %d", child.ReturnType)
	}
	if child.Parent != tree.Root {
		t.Fatalf("expected child's parent to be root")
	}
	got, ok := tree.ScopeFor(block)
	if !ok || got != child {
		t.Fatalf("expected astScopes[block] == child")
	}
}

func TestLookupRefinementWalksParents(t *testing.T) {
	tree := NewTree(0)
	child := tree.ChildScope(&ast.Block{}, tree.Root)
	def := dfg.DefId(7)

	tree.Root.SetRefinement(def, arena.TypeId(9))
	got, ok := child.LookupRefinement(def)
	if !ok || got != 9 {
		t.Fatalf("expected refinement 9 from parent, got %d ok=%v", got, ok)
	}
}

func TestLookupImportedTypeDoesNotWalkParents(t *testing.T) {
	tree := NewTree(0)
	child := tree.ChildScope(&ast.Block{}, tree.Root)

	tree.Root.ImportModule("M", map[string]TypeFun{"A": {Type: arena.TypeId(5)}})

	if _, ok := child.LookupImportedType("M", "A"); ok {
		t.Fatalf("expected imported type bindings to not be inherited by children")
	}
	if tf, ok := tree.Root.LookupImportedType("M", "A"); !ok || tf.Type != 5 {
		t.Fatalf("expected to find imported type at declaring scope")
	}
}
