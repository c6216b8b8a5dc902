// Package validator implements static checks of Lox programs.
//
// Statements run in source order and the language has no functions, so a
// name read before any declaration of it is in scope is an error as soon
// as that code is reached. The validator reports such reads and a few
// other mistakes as warnings; a program with warnings still runs.
package validator

import (
	"fmt"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/token"
)

type scope struct {
	bindings map[string]bool
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]bool), parent: parent}
}

func (s *scope) has(name string) bool {
	if s.bindings[name] {
		return true
	}
	if s.parent != nil {
		return s.parent.has(name)
	}
	return false
}

func (s *scope) add(name string) {
	s.bindings[name] = true
}

func (s *scope) hasLocal(name string) bool {
	return s.bindings[name]
}

type validator struct {
	diags []diagnostics.Diagnostic
	scope *scope
}

// Validate walks program and returns its warnings in source order.
func Validate(program *ast.Program) []diagnostics.Diagnostic {
	v := &validator{scope: newScope(nil)}
	v.validateStmt(program)
	return v.diags
}

func (v *validator) warn(tok token.Token, msg string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(diagnostics.Warning, tok.Line, tok.Lexeme, msg))
}

func (v *validator) validateStmt(s ast.Stmt) {
	ast.VisitStmt[struct{}](s, v)
}

func (v *validator) validateExpr(e ast.Expr) {
	ast.VisitExpr[struct{}](e, v)
}

func (v *validator) VisitProgram(s *ast.Program) (struct{}, error) {
	for _, stmt := range s.Statements {
		v.validateStmt(stmt)
	}
	return struct{}{}, nil
}

func (v *validator) VisitBlock(s *ast.Block) (struct{}, error) {
	outer := v.scope
	v.scope = newScope(outer)
	defer func() { v.scope = outer }()

	for _, stmt := range s.Statements {
		v.validateStmt(stmt)
	}
	return struct{}{}, nil
}

func (v *validator) VisitVar(s *ast.Var) (struct{}, error) {
	name := s.Name.Lexeme
	// Redeclaring a global is how a REPL session replaces a value.
	if v.scope.parent != nil && v.scope.hasLocal(name) {
		v.warn(s.Name, fmt.Sprintf("Variable '%s' is already declared in this scope.", name))
	}
	if s.Initializer != nil {
		v.validateExpr(s.Initializer)
	}
	v.scope.add(name)
	return struct{}{}, nil
}

func (v *validator) VisitExpression(s *ast.Expression) (struct{}, error) {
	v.validateExpr(s.Expr)
	return struct{}{}, nil
}

func (v *validator) VisitPrint(s *ast.Print) (struct{}, error) {
	v.validateExpr(s.Expr)
	return struct{}{}, nil
}

func (v *validator) VisitAssign(e *ast.Assign) (struct{}, error) {
	v.validateExpr(e.Value)
	if !v.scope.has(e.Name.Lexeme) {
		v.warn(e.Name, fmt.Sprintf("Assignment to undeclared variable '%s'.", e.Name.Lexeme))
	}
	return struct{}{}, nil
}

func (v *validator) VisitBinary(e *ast.Binary) (struct{}, error) {
	v.validateExpr(e.Left)
	v.validateExpr(e.Right)
	return struct{}{}, nil
}

func (v *validator) VisitGrouping(e *ast.Grouping) (struct{}, error) {
	v.validateExpr(e.Inner)
	return struct{}{}, nil
}

func (v *validator) VisitLiteral(*ast.Literal) (struct{}, error) {
	return struct{}{}, nil
}

func (v *validator) VisitUnary(e *ast.Unary) (struct{}, error) {
	v.validateExpr(e.Right)
	return struct{}{}, nil
}

func (v *validator) VisitTernary(e *ast.Ternary) (struct{}, error) {
	v.validateExpr(e.Condition)
	v.validateExpr(e.TruePart)
	v.validateExpr(e.FalsePart)
	return struct{}{}, nil
}

func (v *validator) VisitVariable(e *ast.Variable) (struct{}, error) {
	if !v.scope.has(e.Name.Lexeme) {
		v.warn(e.Name, fmt.Sprintf("Variable '%s' is read before it is declared.", e.Name.Lexeme))
	}
	return struct{}{}, nil
}
