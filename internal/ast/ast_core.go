// Package ast defines the AST shapes the constraint graph builder walks.
//
// The parser and lexer that produce this tree are outside the constraint
// graph builder's contract (spec: "out of scope: the lexer/parser and AST
// shape"); this package exists so the builder has something concrete to
// type-switch over, and so a front end outside this module has something
// to build (the tests and cmd/cgb build these nodes by hand). Per
// the design note "Visitor polymorphism -> tagged dispatch," nodes do NOT
// carry an Accept/Visitor pair — callers type-switch exhaustively instead.
package ast

import "github.com/funvibe/funxy/internal/token"

// Node is the base interface implemented by every AST shape.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node that appears in a Block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a value (or a value pack).
type Expression interface {
	Node
	expressionNode()
}

// Block is an ordered list of statements sharing one lexical scope.
type Block struct {
	Token token.Token
	Stmts []Statement
}

func (b *Block) GetToken() token.Token { return b.Token }

// Identifier names a local, global, or declared binding.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) expressionNode()       {}

// Param is a function parameter: a name plus an optional type annotation.
type Param struct {
	Name       *Identifier
	Annotation Type // nil if unannotated
}

// GenericParam is a declared generic type or type-pack parameter,
// optionally carrying a default.
type GenericParam struct {
	Name        string
	IsPack      bool
	Default     Type     // for IsPack == false
	DefaultPack TypePack // for IsPack == true
}
