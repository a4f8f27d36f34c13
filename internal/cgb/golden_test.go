package cgb

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"

	"golang.org/x/tools/txtar"
)

// golden constraint-kind sequences live in one txtar archive (the same
// multi-file-fixture-in-one-text-file idea Go's own compiler tests use)
// rather than one file per scenario.
func loadGoldenArchive(t *testing.T) *txtar.Archive {
	t.Helper()
	data, err := os.ReadFile("testdata/constraint_dump.txtar")
	if err != nil {
		t.Fatalf("reading golden archive: %v", err)
	}
	return txtar.Parse(data)
}

func goldenLines(t *testing.T, ar *txtar.Archive, name string) []string {
	t.Helper()
	for _, f := range ar.Files {
		if f.Name == name {
			trimmed := strings.TrimSpace(string(f.Data))
			if trimmed == "" {
				return nil
			}
			return strings.Split(trimmed, "\n")
		}
	}
	t.Fatalf("no %q section in golden archive", name)
	return nil
}

func TestGoldenConstraintKindSequences(t *testing.T) {
	ar := loadGoldenArchive(t)

	t.Run("local_with_annotation", func(t *testing.T) {
		b, _, _ := newBuilder(t)
		b.Tree.Root.DefineType("number", typeFunOf(b, arena.PrimNumber), false)

		before := b.Constraints.Len()
		s := &ast.LocalStatement{
			Names:       []*ast.Identifier{{Name: "x"}},
			Annotations: []ast.Type{&ast.TypeReference{Name: "number"}},
			Values:      []ast.Expression{&ast.NumberLiteral{Value: 1}},
		}
		b.visitLocal(b.Tree.Root, s)

		var got []string
		for i := before; i < b.Constraints.Len(); i++ {
			got = append(got, fmt.Sprintf("%T", b.Constraints.At(i).Payload))
		}
		assertKindsMatch(t, goldenLines(t, ar, "local_with_annotation"), got)
	})

	t.Run("bare_call", func(t *testing.T) {
		b, _, _ := newBuilder(t)
		b.Tree.Root.DefineValue("f", b.Arena.FreshType(b.Tree.Root.ID()), pos(1, 1))

		before := b.Constraints.Len()
		b.visitStatement(b.Tree.Root, &ast.ExpressionStatement{
			Expr: &ast.CallExpression{Callee: &ast.Identifier{Name: "f"}},
		})

		var got []string
		for i := before; i < b.Constraints.Len(); i++ {
			got = append(got, fmt.Sprintf("%T", b.Constraints.At(i).Payload))
		}
		assertKindsMatch(t, goldenLines(t, ar, "bare_call"), got)
	})
}

func assertKindsMatch(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d constraints %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("constraint %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
