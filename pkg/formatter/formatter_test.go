package formatter_test

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/formatter"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/token"
)

func num(v float64, line int) *ast.Literal {
	lit := token.NumberLit{Value: v}
	return &ast.Literal{Value: lit, Tok: token.New(token.Number, lit.String(), lit, line)}
}

func op(typ token.TokenType, lexeme string) token.Token {
	return token.New(typ, lexeme, nil, 1)
}

func TestHandBuiltExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{
			"one plus two times three",
			&ast.Binary{
				Left:     num(1, 1),
				Operator: op(token.Plus, "+"),
				Right:    &ast.Binary{Left: num(2, 1), Operator: op(token.Star, "*"), Right: num(3, 1)},
			},
			"(+ 1 (* 2 3))",
		},
		{
			"negation",
			&ast.Binary{
				Left:     &ast.Unary{Operator: op(token.Minus, "-"), Right: num(1, 1)},
				Operator: op(token.Plus, "+"),
				Right:    num(2, 1),
			},
			"(+ (- 1) 2)",
		},
		{
			"grouping",
			&ast.Grouping{Inner: num(45.67, 1)},
			"(group 45.67)",
		},
		{
			"raw string",
			&ast.Literal{Value: token.StringLit{Value: "hi there"}},
			"hi there",
		},
		{
			"nil literal",
			&ast.Literal{Value: token.NilLit{}},
			"nil",
		},
		{
			"ternary",
			&ast.Ternary{
				Condition: &ast.Literal{Value: token.BoolLit{Value: true}},
				TruePart:  num(1, 1),
				FalsePart: &ast.Variable{Name: op(token.Identifier, "y")},
			},
			"(? true 1 y)",
		},
		{
			"assignment",
			&ast.Assign{Name: op(token.Identifier, "x"), Value: num(0.5, 1)},
			"(= x 0.5)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatter.Expr(tt.expr); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print 1;", "(print 1)"},
		{"var a;", "(var a)"},
		{"var a = \"s\";", "(var a s)"},
		{"a = 2;", "(; (= a 2))"},
		{"{ }", "(block)"},
		{"{ var a = 1; { print a; } }", "(block (var a 1) (block (print a)))"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog, err := parser.ParseSource(tt.source, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := formatter.Stmt(prog.Statements[0]); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatProgram(t *testing.T) {
	prog, err := parser.ParseSource("var a = 1;\nprint a * 2;\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "(var a 1)\n(print (* a 2))\n"
	if got := formatter.Format(prog); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := formatter.Stmt(prog); got != "(program (var a 1) (print (* a 2)))" {
		t.Errorf("got %q", got)
	}
}
