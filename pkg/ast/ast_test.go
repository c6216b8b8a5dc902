package ast_test

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/token"
)

func TestNodeKinds(t *testing.T) {
	num := &ast.Literal{Value: token.NumberLit{Value: 1}, Tok: token.New(token.Number, "1", token.NumberLit{Value: 1}, 1)}
	name := token.New(token.Identifier, "x", nil, 1)

	nodes := []ast.Node{
		&ast.Assign{Name: name, Value: num},
		&ast.Binary{Left: num, Operator: token.New(token.Plus, "+", nil, 1), Right: num},
		&ast.Grouping{Inner: num},
		num,
		&ast.Unary{Operator: token.New(token.Minus, "-", nil, 1), Right: num},
		&ast.Ternary{Condition: num, TruePart: num, FalsePart: num},
		&ast.Variable{Name: name},
		&ast.Block{},
		&ast.Program{},
		&ast.Var{Name: name},
		&ast.Expression{Expr: num},
		&ast.Print{Expr: num},
	}

	expected := []string{
		"Assign", "Binary", "Grouping", "Literal", "Unary", "Ternary", "Variable",
		"Block", "Program", "Var", "Expression", "Print",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
	}
}

// kindCounter records which visitor method handled each node.
type kindCounter struct{}

func (kindCounter) VisitAssign(*ast.Assign) (string, error)     { return "assign", nil }
func (kindCounter) VisitBinary(*ast.Binary) (string, error)     { return "binary", nil }
func (kindCounter) VisitGrouping(*ast.Grouping) (string, error) { return "grouping", nil }
func (kindCounter) VisitLiteral(*ast.Literal) (string, error)   { return "literal", nil }
func (kindCounter) VisitUnary(*ast.Unary) (string, error)       { return "unary", nil }
func (kindCounter) VisitTernary(*ast.Ternary) (string, error)   { return "ternary", nil }
func (kindCounter) VisitVariable(*ast.Variable) (string, error) { return "variable", nil }

func (kindCounter) VisitBlock(*ast.Block) (string, error)           { return "block", nil }
func (kindCounter) VisitProgram(*ast.Program) (string, error)       { return "program", nil }
func (kindCounter) VisitVar(*ast.Var) (string, error)               { return "var", nil }
func (kindCounter) VisitExpression(*ast.Expression) (string, error) { return "expression", nil }
func (kindCounter) VisitPrint(*ast.Print) (string, error)           { return "print", nil }

func TestVisitDispatch(t *testing.T) {
	exprs := map[string]ast.Expr{
		"assign":   &ast.Assign{},
		"binary":   &ast.Binary{},
		"grouping": &ast.Grouping{},
		"literal":  &ast.Literal{},
		"unary":    &ast.Unary{},
		"ternary":  &ast.Ternary{},
		"variable": &ast.Variable{},
	}
	for want, e := range exprs {
		got, err := ast.VisitExpr[string](e, kindCounter{})
		if err != nil || got != want {
			t.Errorf("VisitExpr(%T) = %q, %v; want %q", e, got, err, want)
		}
	}

	stmts := map[string]ast.Stmt{
		"block":      &ast.Block{},
		"program":    &ast.Program{},
		"var":        &ast.Var{},
		"expression": &ast.Expression{},
		"print":      &ast.Print{},
	}
	for want, s := range stmts {
		got, err := ast.VisitStmt[string](s, kindCounter{})
		if err != nil || got != want {
			t.Errorf("VisitStmt(%T) = %q, %v; want %q", s, got, err, want)
		}
	}
}

func TestLinesFollowTokens(t *testing.T) {
	op := token.New(token.Star, "*", nil, 4)
	lit := &ast.Literal{Value: token.NumberLit{Value: 2}, Tok: token.New(token.Number, "2", nil, 3)}
	bin := &ast.Binary{Left: lit, Operator: op, Right: lit}

	if bin.Line() != 4 {
		t.Errorf("binary: got line %d, want 4", bin.Line())
	}
	if g := (&ast.Grouping{Inner: lit}); g.Line() != 3 {
		t.Errorf("grouping: got line %d, want 3", g.Line())
	}
	if p := (&ast.Program{}); p.Line() != 1 {
		t.Errorf("empty program: got line %d, want 1", p.Line())
	}
}
