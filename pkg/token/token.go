// Package token defines the Lox token vocabulary shared by the lexer,
// parser and evaluator.
package token

import (
	"fmt"
	"math"
	"strconv"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Single-character tokens
	LeftParen TokenType = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	QuestionMark
	Colon

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	Eof
)

var typeNames = [...]string{
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Dot:          "Dot",
	Minus:        "Minus",
	Plus:         "Plus",
	Semicolon:    "Semicolon",
	Slash:        "Slash",
	Star:         "Star",
	QuestionMark: "QuestionMark",
	Colon:        "Colon",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Identifier:   "Identifier",
	String:       "String",
	Number:       "Number",
	And:          "And",
	Class:        "Class",
	Else:         "Else",
	False:        "False",
	Fun:          "Fun",
	For:          "For",
	If:           "If",
	Nil:          "Nil",
	Or:           "Or",
	Print:        "Print",
	Return:       "Return",
	Super:        "Super",
	This:         "This",
	True:         "True",
	Var:          "Var",
	While:        "While",
	Eof:          "Eof",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= And && t <= While
}

// Keywords maps reserved words to their token types. It is fully built
// during package initialisation.
var Keywords = map[string]TokenType{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent returns the keyword type for ident, or Identifier.
func LookupIdent(ident string) TokenType {
	if t, ok := Keywords[ident]; ok {
		return t
	}
	return Identifier
}

// Literal is a scan/parse-time constant value.
// Use the sealed marker method to restrict implementations to this package.
type Literal interface {
	literal() // sealed marker
	String() string
}

// StringLit is a decoded string constant.
type StringLit struct {
	Value string
}

func (StringLit) literal()         {}
func (l StringLit) String() string { return l.Value }

// NumberLit is a numeric constant.
type NumberLit struct {
	Value float64
}

func (NumberLit) literal()         {}
func (l NumberLit) String() string { return FormatNumber(l.Value) }

// BoolLit is a boolean constant.
type BoolLit struct {
	Value bool
}

func (BoolLit) literal()         {}
func (l BoolLit) String() string { return strconv.FormatBool(l.Value) }

// NilLit is the nil constant.
type NilLit struct{}

func (NilLit) literal()       {}
func (NilLit) String() string { return "nil" }

// FormatNumber renders n as the shortest decimal that round-trips,
// without an exponent, so integral values print without a fraction.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Token represents a single lexer token.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Literal
	Line    int
}

// New creates a token. A nil literal is stored as NilLit.
func New(typ TokenType, lexeme string, lit Literal, line int) Token {
	if lit == nil {
		lit = NilLit{}
	}
	return Token{Type: typ, Lexeme: lexeme, Literal: lit, Line: line}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Type, t.Lexeme, t.Literal)
}
