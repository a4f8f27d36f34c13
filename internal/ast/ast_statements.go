package ast

import "github.com/funvibe/funxy/internal/token"

// LocalStatement is `local a, b: T = v1, v2`.
type LocalStatement struct {
	Token       token.Token
	Names       []*Identifier
	Annotations []Type // parallel to Names; nil entries mean "no annotation"
	Values      []Expression
}

func (s *LocalStatement) GetToken() token.Token { return s.Token }
func (s *LocalStatement) statementNode()        {}

// AssignStatement is `lv1, lv2 = v1, v2`.
type AssignStatement struct {
	Token   token.Token
	LValues []Expression
	Values  []Expression
}

func (s *AssignStatement) GetToken() token.Token { return s.Token }
func (s *AssignStatement) statementNode()        {}

// CompoundAssignStatement is `lv += v` (and -=, *=, /=, ..=).
type CompoundAssignStatement struct {
	Token  token.Token
	LValue Expression
	Op     token.Type
	Value  Expression
}

func (s *CompoundAssignStatement) GetToken() token.Token { return s.Token }
func (s *CompoundAssignStatement) statementNode()        {}

// ElseIfClause is one `elseif cond then body` arm of an IfStatement.
type ElseIfClause struct {
	Cond Expression
	Body *Block
}

// IfStatement is `if c then A [elseif c2 then B]* [else C] end`.
type IfStatement struct {
	Token    token.Token
	Cond     Expression
	Then     *Block
	ElseIfs  []*ElseIfClause
	Else     *Block // nil if absent
}

func (s *IfStatement) GetToken() token.Token { return s.Token }
func (s *IfStatement) statementNode()        {}

// NumericForStatement is `for i = from, to[, step] do body end`.
type NumericForStatement struct {
	Token token.Token
	Var   *Identifier
	From  Expression
	To    Expression
	Step  Expression // nil if absent
	Body  *Block
}

func (s *NumericForStatement) GetToken() token.Token { return s.Token }
func (s *NumericForStatement) statementNode()        {}

// GenericForStatement is `for k, v in expr do body end`.
type GenericForStatement struct {
	Token token.Token
	Names []*Identifier
	Exprs []Expression
	Body  *Block
}

func (s *GenericForStatement) GetToken() token.Token { return s.Token }
func (s *GenericForStatement) statementNode()        {}

// WhileStatement is `while c do body end`.
type WhileStatement struct {
	Token token.Token
	Cond  Expression
	Body  *Block
}

func (s *WhileStatement) GetToken() token.Token { return s.Token }
func (s *WhileStatement) statementNode()        {}

// RepeatStatement is `repeat body until c` — c is evaluated in body's scope.
type RepeatStatement struct {
	Token token.Token
	Body  *Block
	Cond  Expression
}

func (s *RepeatStatement) GetToken() token.Token { return s.Token }
func (s *RepeatStatement) statementNode()        {}

// ReturnStatement is `return v1, v2, ...`.
type ReturnStatement struct {
	Token  token.Token
	Values []Expression
}

func (s *ReturnStatement) GetToken() token.Token { return s.Token }
func (s *ReturnStatement) statementNode()        {}

// BreakStatement is `break`.
type BreakStatement struct{ Token token.Token }

func (s *BreakStatement) GetToken() token.Token { return s.Token }
func (s *BreakStatement) statementNode()        {}

// ContinueStatement is `continue`.
type ContinueStatement struct{ Token token.Token }

func (s *ContinueStatement) GetToken() token.Token { return s.Token }
func (s *ContinueStatement) statementNode()        {}

// LocalFunctionStatement is `local function f(...) ... end`.
type LocalFunctionStatement struct {
	Token token.Token
	Name  *Identifier
	Func  *FunctionExpression
}

func (s *LocalFunctionStatement) GetToken() token.Token { return s.Token }
func (s *LocalFunctionStatement) statementNode()        {}

// FunctionStatement is `function target(...) ... end` or
// `function target:method(...) ... end`; Target is an Identifier or an
// IndexName l-value.
type FunctionStatement struct {
	Token    token.Token
	Target   Expression
	IsMethod bool
	Func     *FunctionExpression
}

func (s *FunctionStatement) GetToken() token.Token { return s.Token }
func (s *FunctionStatement) statementNode()        {}

// TypeAliasStatement is `[export] type Name<T...> = Value`.
type TypeAliasStatement struct {
	Token        token.Token
	Name         string
	Exported     bool
	Generics     []*GenericParam
	GenericPacks []*GenericParam
	Value        Type
}

func (s *TypeAliasStatement) GetToken() token.Token { return s.Token }
func (s *TypeAliasStatement) statementNode()        {}

// DeclareGlobalStatement is `declare global Name: T`.
type DeclareGlobalStatement struct {
	Token      token.Token
	Name       string
	Annotation Type
}

func (s *DeclareGlobalStatement) GetToken() token.Token { return s.Token }
func (s *DeclareGlobalStatement) statementNode()        {}

// DeclareFunctionStatement is `declare function name<T...>(params): Ret`.
type DeclareFunctionStatement struct {
	Token        token.Token
	Name         string
	Generics     []*GenericParam
	GenericPacks []*GenericParam
	Params       []*Param
	ReturnPack   TypePack
}

func (s *DeclareFunctionStatement) GetToken() token.Token { return s.Token }
func (s *DeclareFunctionStatement) statementNode()        {}

// ClassProp is one declared member of a DeclareClassStatement.
type ClassProp struct {
	Name       string
	Annotation Type
	IsMethod   bool
}

// DeclareClassStatement is `declare class Name [extends Super] props end`.
type DeclareClassStatement struct {
	Token     token.Token
	Name      string
	SuperName string // "" if absent
	Props     []*ClassProp
}

func (s *DeclareClassStatement) GetToken() token.Token { return s.Token }
func (s *DeclareClassStatement) statementNode()        {}

// ExpressionStatement wraps a call expression used for effect only.
type ExpressionStatement struct {
	Token token.Token
	Expr  Expression
}

func (s *ExpressionStatement) GetToken() token.Token { return s.Token }
func (s *ExpressionStatement) statementNode()        {}
