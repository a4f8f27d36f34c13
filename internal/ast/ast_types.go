package ast

import "github.com/funvibe/funxy/internal/token"

// Type is the base interface for AST type annotations; the resolver
// (component G) lowers these into arena TypeIds.
type Type interface {
	Node
	typeNode()
}

// TypePack is the base interface for AST type-pack annotations.
type TypePack interface {
	Node
	typePackNode()
}

// TypeReference is `[Prefix.]Name[<Args, Packs...>]`.
type TypeReference struct {
	Token    token.Token
	Prefix   string // "" if unqualified
	Name     string
	Args     []Type
	PackArgs []TypePack
}

func (t *TypeReference) GetToken() token.Token { return t.Token }
func (t *TypeReference) typeNode()             {}

// TypeTableProp is one named property of a TypeTable.
type TypeTableProp struct {
	Name       string
	Annotation Type
}

// TypeIndexer is the `[K]: V` indexer of a TypeTable.
type TypeIndexer struct {
	Key   Type
	Value Type
}

// TypeTable is `{ prop: T, [K]: V }`.
type TypeTable struct {
	Token   token.Token
	Props   []*TypeTableProp
	Indexer *TypeIndexer // nil if absent
}

func (t *TypeTable) GetToken() token.Token { return t.Token }
func (t *TypeTable) typeNode()             {}

// TypeFunction is `<generics>(params) -> retpack`.
type TypeFunction struct {
	Token        token.Token
	Generics     []*GenericParam
	GenericPacks []*GenericParam
	ParamNames   []string // parallel to Params; "" if unnamed
	Params       []Type
	ReturnPack   TypePack
}

func (t *TypeFunction) GetToken() token.Token { return t.Token }
func (t *TypeFunction) typeNode()             {}

// TypeTypeof is `typeof(expr)`.
type TypeTypeof struct {
	Token token.Token
	Expr  Expression
}

func (t *TypeTypeof) GetToken() token.Token { return t.Token }
func (t *TypeTypeof) typeNode()             {}

// TypeUnion is `A | B | ...`.
type TypeUnion struct {
	Token token.Token
	Types []Type
}

func (t *TypeUnion) GetToken() token.Token { return t.Token }
func (t *TypeUnion) typeNode()             {}

// TypeIntersection is `A & B & ...`.
type TypeIntersection struct {
	Token token.Token
	Types []Type
}

func (t *TypeIntersection) GetToken() token.Token { return t.Token }
func (t *TypeIntersection) typeNode()             {}

// TypeSingletonBool is the singleton type `true` or `false`.
type TypeSingletonBool struct {
	Token token.Token
	Value bool
}

func (t *TypeSingletonBool) GetToken() token.Token { return t.Token }
func (t *TypeSingletonBool) typeNode()             {}

// TypeSingletonString is a singleton string type `"literal"`.
type TypeSingletonString struct {
	Token token.Token
	Value string
}

func (t *TypeSingletonString) GetToken() token.Token { return t.Token }
func (t *TypeSingletonString) typeNode()             {}

// TypeOptional is `T?`, sugar for `T | nil`.
type TypeOptional struct {
	Token token.Token
	Inner Type
}

func (t *TypeOptional) GetToken() token.Token { return t.Token }
func (t *TypeOptional) typeNode()             {}

// TypeError is a parse-recovered type annotation (`!` placeholder).
type TypeError struct{ Token token.Token }

func (t *TypeError) GetToken() token.Token { return t.Token }
func (t *TypeError) typeNode()             {}

// TypePackExplicit is `(A, B, ...C)` as a type-pack annotation.
type TypePackExplicit struct {
	Token token.Token
	Head  []Type
	Tail  Type // variadic element type, nil if absent
}

func (t *TypePackExplicit) GetToken() token.Token { return t.Token }
func (t *TypePackExplicit) typePackNode()         {}

// TypePackVariadic is a bare `...T` type-pack annotation.
type TypePackVariadic struct {
	Token   token.Token
	Element Type
}

func (t *TypePackVariadic) GetToken() token.Token { return t.Token }
func (t *TypePackVariadic) typePackNode()         {}

// TypePackGeneric is a generic type-pack reference `T...`.
type TypePackGeneric struct {
	Token token.Token
	Name  string
}

func (t *TypePackGeneric) GetToken() token.Token { return t.Token }
func (t *TypePackGeneric) typePackNode()         {}
