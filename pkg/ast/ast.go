// Package ast defines the Lox language AST node types.
//
// Expressions and statements are closed sets: each interface carries an
// unexported marker method, and every consumer goes through ExprVisitor or
// StmtVisitor. Adding a node kind adds a visitor method, so every consumer
// must be updated before the tree compiles again.
package ast

import (
	"fmt"

	"github.com/thomasrohde/lox/pkg/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	// Line is the source line the node is reported against.
	Line() int
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expressions ---

type Assign struct {
	Name  token.Token
	Value Expr
}

func (n *Assign) Kind() string { return "Assign" }
func (n *Assign) Line() int    { return n.Name.Line }
func (n *Assign) exprNode()    {}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Binary) Kind() string { return "Binary" }
func (n *Binary) Line() int    { return n.Operator.Line }
func (n *Binary) exprNode()    {}

type Grouping struct {
	Inner Expr
	// Paren is the opening parenthesis.
	Paren token.Token
}

func (n *Grouping) Kind() string { return "Grouping" }
func (n *Grouping) Line() int    { return n.Inner.Line() }
func (n *Grouping) exprNode()    {}

type Literal struct {
	Value token.Literal
	// Tok is the token the constant was read from.
	Tok token.Token
}

func (n *Literal) Kind() string { return "Literal" }
func (n *Literal) Line() int    { return n.Tok.Line }
func (n *Literal) exprNode()    {}

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (n *Unary) Kind() string { return "Unary" }
func (n *Unary) Line() int    { return n.Operator.Line }
func (n *Unary) exprNode()    {}

// Ternary is `Condition ? TruePart : FalsePart`. Question is the `?`
// token, used to locate runtime errors on the condition.
type Ternary struct {
	Condition Expr
	Question  token.Token
	TruePart  Expr
	FalsePart Expr
}

func (n *Ternary) Kind() string { return "Ternary" }
func (n *Ternary) Line() int    { return n.Question.Line }
func (n *Ternary) exprNode()    {}

type Variable struct {
	Name token.Token
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) Line() int    { return n.Name.Line }
func (n *Variable) exprNode()    {}

// --- Statements ---

type Block struct {
	Statements []Stmt
	Brace      token.Token
}

func (n *Block) Kind() string { return "Block" }
func (n *Block) Line() int    { return n.Brace.Line }
func (n *Block) stmtNode()    {}

type Program struct {
	Statements []Stmt
}

func (n *Program) Kind() string { return "Program" }
func (n *Program) Line() int {
	if len(n.Statements) == 0 {
		return 1
	}
	return n.Statements[0].Line()
}
func (n *Program) stmtNode() {}

// Var declares Name. Initializer is nil when the declaration has none.
type Var struct {
	Name        token.Token
	Initializer Expr
}

func (n *Var) Kind() string { return "Var" }
func (n *Var) Line() int    { return n.Name.Line }
func (n *Var) stmtNode()    {}

type Expression struct {
	Expr Expr
}

func (n *Expression) Kind() string { return "Expression" }
func (n *Expression) Line() int    { return n.Expr.Line() }
func (n *Expression) stmtNode()    {}

type Print struct {
	Keyword token.Token
	Expr    Expr
}

func (n *Print) Kind() string { return "Print" }
func (n *Print) Line() int    { return n.Keyword.Line }
func (n *Print) stmtNode()    {}

// --- Dispatch ---

// ExprVisitor is implemented by every expression consumer. Its method set
// names each expression kind exactly once.
type ExprVisitor[R any] interface {
	VisitAssign(e *Assign) (R, error)
	VisitBinary(e *Binary) (R, error)
	VisitGrouping(e *Grouping) (R, error)
	VisitLiteral(e *Literal) (R, error)
	VisitUnary(e *Unary) (R, error)
	VisitTernary(e *Ternary) (R, error)
	VisitVariable(e *Variable) (R, error)
}

// StmtVisitor is implemented by every statement consumer.
type StmtVisitor[R any] interface {
	VisitBlock(s *Block) (R, error)
	VisitProgram(s *Program) (R, error)
	VisitVar(s *Var) (R, error)
	VisitExpression(s *Expression) (R, error)
	VisitPrint(s *Print) (R, error)
}

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[R any](e Expr, v ExprVisitor[R]) (R, error) {
	switch n := e.(type) {
	case *Assign:
		return v.VisitAssign(n)
	case *Binary:
		return v.VisitBinary(n)
	case *Grouping:
		return v.VisitGrouping(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Unary:
		return v.VisitUnary(n)
	case *Ternary:
		return v.VisitTernary(n)
	case *Variable:
		return v.VisitVariable(n)
	}
	// Expr is sealed, so only a nil interface reaches here.
	panic(fmt.Sprintf("ast: unknown expression %T", e))
}

// VisitStmt dispatches s to the matching method of v.
func VisitStmt[R any](s Stmt, v StmtVisitor[R]) (R, error) {
	switch n := s.(type) {
	case *Block:
		return v.VisitBlock(n)
	case *Program:
		return v.VisitProgram(n)
	case *Var:
		return v.VisitVar(n)
	case *Expression:
		return v.VisitExpression(n)
	case *Print:
		return v.VisitPrint(n)
	}
	panic(fmt.Sprintf("ast: unknown statement %T", s))
}
