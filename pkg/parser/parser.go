// Package parser implements the Lox recursive-descent parser.
package parser

import (
	"errors"
	"fmt"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/lexer"
	"github.com/thomasrohde/lox/pkg/token"
)

// ErrParseFailed is returned when at least one syntax error was reported.
var ErrParseFailed = errors.New("parser error")

// DefaultMaxDepth bounds expression and block nesting.
const DefaultMaxDepth = 512

// errSyntax unwinds the current declaration after a syntax error has been
// reported. It never leaves the package.
var errSyntax = errors.New("syntax error")

// Parser turns a token slice into an AST. A Parser is single use.
type Parser struct {
	tokens   []token.Token
	pos      int
	reporter diagnostics.Reporter
	errors   int
	depth    int
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the nesting bound. Zero or less disables the check.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// New creates a parser over tokens. Syntax errors are sent to r.
func New(tokens []token.Token, r diagnostics.Reporter, opts ...Option) *Parser {
	if r == nil {
		r = diagnostics.Discard
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.Eof {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.Eof, "", nil, line))
	}
	p := &Parser{
		tokens:   tokens,
		reporter: r,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource scans and parses source in one step.
func ParseSource(source string, r diagnostics.Reporter, opts ...Option) (*ast.Program, error) {
	tokens, err := lexer.Scan(source, r)
	if err != nil {
		return nil, err
	}
	return New(tokens, r, opts...).Parse()
}

// Parse parses a whole program. After a syntax error the parser skips to
// the next statement boundary and keeps going, so every error in the
// input is reported; the program is returned only when there were none.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	if p.errors > 0 {
		return nil, p.failure()
	}
	return prog, nil
}

// ParseExpression parses a single expression spanning the whole input.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr, err := p.expression()
	if err == nil && !p.atEnd() {
		tok := p.current()
		p.errorAt(tok, fmt.Sprintf("Unexpected token type: %s.", tok.Type))
	}
	if p.errors > 0 {
		return nil, p.failure()
	}
	return expr, nil
}

func (p *Parser) failure() error {
	return fmt.Errorf("%w: %d syntax error(s)", ErrParseFailed, p.errors)
}

// --- Token cursor ---

func (p *Parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) peek() token.TokenType {
	return p.current().Type
}

func (p *Parser) atEnd() bool {
	return p.peek() == token.Eof
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

// match consumes the current token if it has one of the given types.
func (p *Parser) match(types ...token.TokenType) bool {
	for _, typ := range types {
		if p.peek() == typ {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(typ token.TokenType, msg string) (token.Token, error) {
	if p.peek() == typ {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.current(), msg)
}

// errorAt reports a syntax error located at tok and returns errSyntax.
func (p *Parser) errorAt(tok token.Token, msg string) error {
	p.errors++
	p.reporter.Report(diagnostics.MakeDiag(diagnostics.SyntaxError, tok.Line, tok.Lexeme, msg))
	return errSyntax
}

// enter guards recursion on nested constructs. Callers must defer leave.
func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorAt(p.current(), "Maximum nesting depth exceeded.")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// synchronize discards tokens until a likely statement start.
func (p *Parser) synchronize() {
	if !p.atEnd() {
		p.advance()
	}
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon || startsStatement(p.peek()) {
			return
		}
		p.advance()
	}
}

// skipStatement discards the rest of a failed statement inside a block.
// Nested braces are skipped whole, and the '}' closing the enclosing block
// is left for the block to consume.
func (p *Parser) skipStatement() {
	depth := 0
	for !p.atEnd() {
		switch p.peek() {
		case token.LeftBrace:
			depth++
		case token.RightBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
		if depth == 0 && (p.previous().Type == token.Semicolon || startsStatement(p.peek())) {
			return
		}
	}
}

// skipBlock discards a block body up to and including its closing '}'.
// The opening '{' has already been consumed.
func (p *Parser) skipBlock() {
	depth := 1
	for !p.atEnd() {
		switch p.advance().Type {
		case token.LeftBrace:
			depth++
		case token.RightBrace:
			if depth--; depth == 0 {
				return
			}
		}
	}
}

func startsStatement(typ token.TokenType) bool {
	switch typ {
	case token.Class, token.Fun, token.Var, token.For, token.If,
		token.While, token.Print, token.Return:
		return true
	}
	return false
}

// --- Declarations and statements ---

func (p *Parser) declaration() (ast.Stmt, error) {
	if p.match(token.Var) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.expect(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.match(token.Equal) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Initializer: init}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch p.peek() {
	case token.Print:
		return p.printStatement()
	case token.LeftBrace:
		return p.block()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	keyword := p.advance()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.Print{Keyword: keyword, Expr: value}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Expression{Expr: expr}, nil
}

// block recovers from errors in its own statements, so one mistake inside
// braces yields one diagnostic. An error that reaches the end of input is
// passed up unchanged.
func (p *Parser) block() (ast.Stmt, error) {
	brace := p.advance() // consume '{'
	if err := p.enter(); err != nil {
		p.leave()
		p.skipBlock()
		return nil, err
	}
	defer p.leave()

	var stmts []ast.Stmt
	for p.peek() != token.RightBrace && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.skipStatement()
			if p.atEnd() {
				return nil, err
			}
			continue
		}
		stmts = append(stmts, stmt)
	}

	if _, err := p.expect(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, Brace: brace}, nil
}

// --- Expressions ---

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		p.leave()
		return nil, err
	}
	defer p.leave()

	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.peek() != token.Equal {
		return expr, nil
	}
	equals := p.advance()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if v, ok := expr.(*ast.Variable); ok {
		return &ast.Assign{Name: v.Name, Value: value}, nil
	}
	// Reported, but the statement still parses to its end.
	p.errorAt(equals, "Invalid assignment target.")
	return expr, nil
}

// ternary is right-associative: both branches re-enter expression.
func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.peek() != token.QuestionMark {
		return cond, nil
	}

	question := p.advance()
	truePart, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, "Expect ':' after '?' in ternary operator."); err != nil {
		return nil, err
	}
	falsePart, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.Ternary{
		Condition: cond,
		Question:  question,
		TruePart:  truePart,
		FalsePart: falsePart,
	}, nil
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops ...token.TokenType) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.peek() != token.Bang && p.peek() != token.Minus {
		return p.primary()
	}

	if err := p.enter(); err != nil {
		p.leave()
		return nil, err
	}
	defer p.leave()

	op := p.advance()
	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Operator: op, Right: right}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Type {
	case token.Number, token.String, token.True, token.False, token.Nil:
		p.advance()
		return &ast.Literal{Value: tok.Literal, Tok: tok}, nil

	case token.Identifier:
		p.advance()
		return &ast.Variable{Name: tok}, nil

	case token.LeftParen:
		paren := p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: inner, Paren: paren}, nil
	}

	return nil, p.errorAt(tok, fmt.Sprintf("Unexpected token type: %s.", tok.Type))
}
