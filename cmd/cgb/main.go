// Command cgb wires the constraint graph builder end to end: it seeds a
// scope tree with the primitive type names a module expects to find
// already bound, runs the builder over a module's AST, and prints the
// resulting diagnostics the way funxy prints compile errors.
//
// The builder itself takes an already-parsed *ast.Block; no lexer or
// parser lives in this module, so this command demonstrates the pipeline
// against a small built-in example program rather than reading source
// text from disk. See DESIGN.md's "cmd/cgb" entry for the reasoning.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/cgb"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/dfg"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/modresolver"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"

	"github.com/mattn/go-isatty"
)

func main() {
	configPath := flag.String("config", "", "path to a funxy.yaml-style config file")
	dumpJSON := flag.Bool("json", false, "dump the emitted constraint list as JSON instead of printing diagnostics")
	sqliteCachePath := flag.String("sqlite-cache", "", "wrap the module resolver in a SQLiteCache backed by this database file")
	grpcTarget := flag.String("grpc-resolver", "", "resolve modules from a remote index at this gRPC target instead of the built-in static one")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	mods, closeResolver, err := buildResolver(*grpcTarget, *sqliteCachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up module resolver: %s\n", err)
		os.Exit(1)
	}
	if closeResolver != nil {
		defer closeResolver()
	}

	a := arena.New()
	tree := scope.NewTree(0)
	definePrelude(a, tree)
	cl := constraints.NewList()
	graph := dfg.NewStaticGraph()
	sink := errors.NewSink("example.luau")

	b := cgb.New(a, tree, cl, graph, sink, cfg, mods)
	b.CheckModule(exampleModule())

	if *dumpJSON || cfg.DebugLuauLogSolverToJson {
		if err := dumpConstraintsJSON(os.Stdout, cl); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping constraints: %s\n", err)
			os.Exit(1)
		}
		return
	}

	diags := sink.All()
	if len(diags) == 0 {
		fmt.Println(colorGreen("no diagnostics"))
		return
	}

	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Pos.Line != diags[j].Pos.Line {
			return diags[i].Pos.Line < diags[j].Pos.Line
		}
		return diags[i].Pos.Column < diags[j].Pos.Column
	})

	fmt.Fprintln(os.Stderr, "Checking failed with diagnostics:")
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "- %s %s\n", colorYellow(fmt.Sprintf("[%s]", d.Code)), d.Error())
	}
	os.Exit(1)
}

// buildResolver picks the module resolver backend: the built-in static
// one (empty by default, since this command has no module graph of its
// own to resolve against), a GRPCResolver if a remote target was given,
// optionally wrapped in a SQLiteCache. The returned close func is nil
// when nothing needs closing.
func buildResolver(grpcTarget, sqliteCachePath string) (modresolver.Resolver, func(), error) {
	var base modresolver.Resolver
	var closers []func()

	if grpcTarget != "" {
		r, err := modresolver.DialGRPCResolver(grpcTarget)
		if err != nil {
			return nil, nil, fmt.Errorf("dialing %s: %w", grpcTarget, err)
		}
		base = r
		closers = append(closers, func() { r.Close() })
	} else {
		base = modresolver.NewStatic(map[string]*modresolver.Module{})
	}

	if sqliteCachePath != "" {
		cache, err := modresolver.OpenSQLiteCache(sqliteCachePath, base)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		base = cache
		closers = append(closers, func() { cache.Close() })
	}

	if len(closers) == 0 {
		return base, nil, nil
	}
	return base, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// definePrelude binds the handful of primitive type names a module
// expects to already be in scope; the resolver treats every type
// reference as an ordinary alias lookup, never special-casing a name by
// spelling.
func definePrelude(a *arena.Arena, tree *scope.Tree) {
	define := func(name string, kind arena.PrimitiveKind) {
		tf := scope.TypeFun{Type: a.AddType(arena.Primitive{Kind: kind})}
		tree.Root.DefineType(name, tf, false)
	}
	define("number", arena.PrimNumber)
	define("string", arena.PrimString)
	define("boolean", arena.PrimBoolean)
	define("nil", arena.PrimNil)
}

// constraintDump is the JSON-friendly projection of one emitted
// constraint: a caller-chosen sink, matching the "plain data struct,
// caller decides the format" shape ext/config.go uses elsewhere in the
// pack rather than a logging framework.
type constraintDump struct {
	Line int    `json:"line"`
	Col  int    `json:"col"`
	Kind string `json:"kind"`
	Deps int    `json:"deps"`
}

func dumpConstraintsJSON(w io.Writer, cl *constraints.List) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	dumped := make([]constraintDump, 0, cl.Len())
	for _, c := range cl.All() {
		dumped = append(dumped, constraintDump{
			Line: c.Location.Line,
			Col:  c.Location.Column,
			Kind: fmt.Sprintf("%T", c.Payload),
			Deps: len(c.Dependencies),
		})
	}
	return enc.Encode(dumped)
}

// =============================================================================
// isatty-gated color, matching internal/evaluator/builtins_term.go's
// NO_COLOR / TERM=dumb / isatty detection.
// =============================================================================

var (
	colorOnce sync.Once
	colorOn   bool
)

func colorEnabled() bool {
	colorOnce.Do(func() {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return
		}
		if os.Getenv("TERM") == "dumb" {
			return
		}
		colorOn = true
	})
	return colorOn
}

func ansiFg(code int, s string) string {
	if !colorEnabled() {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", code, s)
}

func colorGreen(s string) string  { return ansiFg(32, s) }
func colorYellow(s string) string { return ansiFg(33, s) }

// exampleModule builds a small fixture program exercising locals, a type
// alias, a declared class, and a call, the same hand-built-AST style the
// package's own tests use in place of a lexer/parser.
func exampleModule() *ast.Block {
	tok := func(line, col int) token.Token { return token.Token{Line: line, Column: col} }

	alias := &ast.TypeAliasStatement{
		Token: tok(1, 1),
		Name:  "Id",
		Value: &ast.TypeReference{Token: tok(1, 12), Name: "number"},
	}
	local := &ast.LocalStatement{
		Token:       tok(2, 1),
		Names:       []*ast.Identifier{{Token: tok(2, 7), Name: "x"}},
		Annotations: []ast.Type{&ast.TypeReference{Token: tok(2, 10), Name: "Id"}},
		Values:      []ast.Expression{&ast.NumberLiteral{Token: tok(2, 15), Value: 1}},
	}
	class := &ast.DeclareClassStatement{
		Token: tok(4, 1),
		Name:  "Vector",
		Props: []*ast.ClassProp{
			{Name: "x", Annotation: &ast.TypeReference{Token: tok(4, 20), Name: "number"}},
		},
	}
	call := &ast.ExpressionStatement{
		Token: tok(6, 1),
		Expr: &ast.CallExpression{
			Token:  tok(6, 1),
			Callee: &ast.Identifier{Token: tok(6, 1), Name: "print"},
			Args:   []ast.Expression{&ast.Identifier{Token: tok(6, 7), Name: "x"}},
		},
	}

	return &ast.Block{Token: tok(1, 1), Stmts: []ast.Statement{alias, local, class, call}}
}
