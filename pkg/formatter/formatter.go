// Package formatter prints Lox ASTs in a parenthesised prefix form.
//
//	1 + 2 * 3          =>  (+ 1 (* 2 3))
//	var x = a ? b : c; =>  (var x (? a b c))
package formatter

import (
	"strings"

	"github.com/thomasrohde/lox/pkg/ast"
)

// printer never fails; the error results only satisfy the visitor interfaces.
type printer struct{}

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	s, _ := ast.VisitExpr[string](e, printer{})
	return s
}

// Stmt renders a single statement, including Program and Block.
func Stmt(s ast.Stmt) string {
	out, _ := ast.VisitStmt[string](s, printer{})
	return out
}

// Format renders each top-level statement of program on its own line.
func Format(program *ast.Program) string {
	var b strings.Builder
	for _, s := range program.Statements {
		b.WriteString(Stmt(s))
		b.WriteByte('\n')
	}
	return b.String()
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

// --- Expressions ---

func (printer) VisitAssign(e *ast.Assign) (string, error) {
	return parenthesize("=", e.Name.Lexeme, Expr(e.Value)), nil
}

func (printer) VisitBinary(e *ast.Binary) (string, error) {
	return parenthesize(e.Operator.Lexeme, Expr(e.Left), Expr(e.Right)), nil
}

func (printer) VisitGrouping(e *ast.Grouping) (string, error) {
	return parenthesize("group", Expr(e.Inner)), nil
}

// Strings print raw, without quotes.
func (printer) VisitLiteral(e *ast.Literal) (string, error) {
	if e.Value == nil {
		return "nil", nil
	}
	return e.Value.String(), nil
}

func (printer) VisitUnary(e *ast.Unary) (string, error) {
	return parenthesize(e.Operator.Lexeme, Expr(e.Right)), nil
}

func (printer) VisitTernary(e *ast.Ternary) (string, error) {
	return parenthesize("?", Expr(e.Condition), Expr(e.TruePart), Expr(e.FalsePart)), nil
}

func (printer) VisitVariable(e *ast.Variable) (string, error) {
	return e.Name.Lexeme, nil
}

// --- Statements ---

func (printer) VisitBlock(s *ast.Block) (string, error) {
	return parenthesize("block", stmts(s.Statements)...), nil
}

func (printer) VisitProgram(s *ast.Program) (string, error) {
	return parenthesize("program", stmts(s.Statements)...), nil
}

func (printer) VisitVar(s *ast.Var) (string, error) {
	if s.Initializer == nil {
		return parenthesize("var", s.Name.Lexeme), nil
	}
	return parenthesize("var", s.Name.Lexeme, Expr(s.Initializer)), nil
}

func (printer) VisitExpression(s *ast.Expression) (string, error) {
	return parenthesize(";", Expr(s.Expr)), nil
}

func (printer) VisitPrint(s *ast.Print) (string, error) {
	return parenthesize("print", Expr(s.Expr)), nil
}

func stmts(list []ast.Stmt) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = Stmt(s)
	}
	return out
}
