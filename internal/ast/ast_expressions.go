package ast

import "github.com/funvibe/funxy/internal/token"

// NilLiteral is the literal `nil`.
type NilLiteral struct{ Token token.Token }

func (e *NilLiteral) GetToken() token.Token { return e.Token }
func (e *NilLiteral) expressionNode()       {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) GetToken() token.Token { return e.Token }
func (e *BooleanLiteral) expressionNode()       {}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (e *NumberLiteral) GetToken() token.Token { return e.Token }
func (e *NumberLiteral) expressionNode()       {}

// StringLiteral is a plain string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) GetToken() token.Token { return e.Token }
func (e *StringLiteral) expressionNode()       {}

// InterpolatedStringExpression is `` `text ${expr} more` ``; Parts
// alternates StringLiteral chunks and arbitrary embedded expressions.
type InterpolatedStringExpression struct {
	Token token.Token
	Parts []Expression
}

func (e *InterpolatedStringExpression) GetToken() token.Token { return e.Token }
func (e *InterpolatedStringExpression) expressionNode()       {}

// VarargExpression is `...`.
type VarargExpression struct{ Token token.Token }

func (e *VarargExpression) GetToken() token.Token { return e.Token }
func (e *VarargExpression) expressionNode()       {}

// IndexName is `obj.name`.
type IndexName struct {
	Token  token.Token
	Object Expression
	Name   string
}

func (e *IndexName) GetToken() token.Token { return e.Token }
func (e *IndexName) expressionNode()       {}

// IndexExpr is `obj[index]`.
type IndexExpr struct {
	Token  token.Token
	Object Expression
	Index  Expression
}

func (e *IndexExpr) GetToken() token.Token { return e.Token }
func (e *IndexExpr) expressionNode()       {}

// UnaryExpression is `-x`, `not x`, `#x`.
type UnaryExpression struct {
	Token   token.Token
	Op      token.Type
	Operand Expression
}

func (e *UnaryExpression) GetToken() token.Token { return e.Token }
func (e *UnaryExpression) expressionNode()       {}

// BinaryExpression covers arithmetic, comparison, concat, and/or.
type BinaryExpression struct {
	Token token.Token
	Op    token.Type
	Left  Expression
	Right Expression
}

func (e *BinaryExpression) GetToken() token.Token { return e.Token }
func (e *BinaryExpression) expressionNode()       {}

// CallExpression is `callee(args)` or, when Method != "", `callee:Method(args)`.
type CallExpression struct {
	Token  token.Token
	Callee Expression
	Method string
	Args   []Expression
}

func (e *CallExpression) GetToken() token.Token { return e.Token }
func (e *CallExpression) expressionNode()       {}

// FunctionExpression is an anonymous or named function's signature + body.
type FunctionExpression struct {
	Token            token.Token
	Generics         []*GenericParam
	GenericPacks     []*GenericParam
	HasSelf          bool
	Params           []*Param
	Vararg           bool
	VarargAnnotation TypePack // annotation on `...`, nil if untyped
	ReturnAnnotation TypePack // nil if unannotated
	Body             *Block
}

func (e *FunctionExpression) GetToken() token.Token { return e.Token }
func (e *FunctionExpression) expressionNode()       {}

// TableField is one entry of a TableExpression: either positional
// (Key == nil), named (Name != ""), or computed (Key != nil).
type TableField struct {
	Key   Expression // nil for positional and named fields
	Name  string     // set for `name = value` fields
	Value Expression
}

// TableExpression is a table literal `{ ... }`.
type TableExpression struct {
	Token  token.Token
	Fields []*TableField
}

func (e *TableExpression) GetToken() token.Token { return e.Token }
func (e *TableExpression) expressionNode()       {}

// IfExprElseIf is one `elseif c then v` arm of an if-expression.
type IfExprElseIf struct {
	Cond Expression
	Then Expression
}

// IfExpression is the expression form `if c then v1 [elseif ...] else v2`.
type IfExpression struct {
	Token   token.Token
	Cond    Expression
	Then    Expression
	ElseIfs []*IfExprElseIf
	Else    Expression
}

func (e *IfExpression) GetToken() token.Token { return e.Token }
func (e *IfExpression) expressionNode()       {}

// TypeAssertionExpression is `expr :: T`.
type TypeAssertionExpression struct {
	Token      token.Token
	Expr       Expression
	Annotation Type
}

func (e *TypeAssertionExpression) GetToken() token.Token { return e.Token }
func (e *TypeAssertionExpression) expressionNode()       {}

// ParenExpression is `(expr)`; it truncates a multi-valued expression to
// exactly one result, mirroring Lua-family semantics.
type ParenExpression struct {
	Token token.Token
	Inner Expression
}

func (e *ParenExpression) GetToken() token.Token { return e.Token }
func (e *ParenExpression) expressionNode()       {}
