// Package lexer implements the Lox tokenizer.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/token"
)

// ErrScanFailed is returned when at least one lexical error was found.
// The individual errors have already been sent to the reporter.
var ErrScanFailed = errors.New("scanner error")

type scanner struct {
	source   string
	tokens   []token.Token
	start    int
	pos      int
	line     int
	errors   int
	reporter diagnostics.Reporter
}

func newScanner(source string, r diagnostics.Reporter) *scanner {
	if r == nil {
		r = diagnostics.Discard
	}
	return &scanner{
		source:   source,
		line:     1,
		reporter: r,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	return ch
}

// match consumes the next byte if it equals expected.
func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) text() string {
	return s.source[s.start:s.pos]
}

func (s *scanner) add(typ token.TokenType) {
	s.addLiteral(typ, token.NilLit{})
}

func (s *scanner) addLiteral(typ token.TokenType, lit token.Literal) {
	s.tokens = append(s.tokens, token.New(typ, s.text(), lit, s.line))
}

func (s *scanner) lexError(near, msg string) {
	s.errors++
	s.reporter.Report(diagnostics.MakeDiag(diagnostics.LexicalError, s.line, near, msg))
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) scanToken() {
	ch := s.advance()
	switch ch {
	case '(':
		s.add(token.LeftParen)
	case ')':
		s.add(token.RightParen)
	case '{':
		s.add(token.LeftBrace)
	case '}':
		s.add(token.RightBrace)
	case ',':
		s.add(token.Comma)
	case '.':
		s.add(token.Dot)
	case '-':
		s.add(token.Minus)
	case '+':
		s.add(token.Plus)
	case ';':
		s.add(token.Semicolon)
	case '*':
		s.add(token.Star)
	case '?':
		s.add(token.QuestionMark)
	case ':':
		s.add(token.Colon)

	case '!':
		if s.match('=') {
			s.add(token.BangEqual)
		} else {
			s.add(token.Bang)
		}
	case '=':
		if s.match('=') {
			s.add(token.EqualEqual)
		} else {
			s.add(token.Equal)
		}
	case '<':
		if s.match('=') {
			s.add(token.LessEqual)
		} else {
			s.add(token.Less)
		}
	case '>':
		if s.match('=') {
			s.add(token.GreaterEqual)
		} else {
			s.add(token.Greater)
		}

	case '/':
		if s.match('/') {
			// Comment runs to end of line
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			s.add(token.Slash)
		}

	case ' ', '\r', '\t':
	case '\n':
		s.line++

	case '"':
		s.scanString()

	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentOrKeyword()
		default:
			// Report the whole rune, not a stray UTF-8 byte
			s.pos = s.start
			r, size := utf8.DecodeRuneInString(s.source[s.pos:])
			s.pos += size
			near := string(r)
			if r == utf8.RuneError && size == 1 {
				near = fmt.Sprintf("\\x%02x", s.source[s.start])
			}
			s.lexError(near, "invalid token")
		}
	}
}

func (s *scanner) scanString() {
	escaped := false
	for !s.atEnd() && (s.peek() != '"' || escaped) {
		ch := s.peek()
		if ch == '\n' {
			s.line++
		}
		if ch == '\\' {
			escaped = !escaped
		} else {
			escaped = false
		}
		s.advance()
	}

	if s.atEnd() {
		s.lexError(s.text(), "unterminated string")
		return
	}

	s.advance() // consume closing "

	body := s.source[s.start+1 : s.pos-1]
	value, ok := unescape(body)
	if !ok {
		s.lexError(body, "invalid escape sequence")
		return
	}
	s.addLiteral(token.String, token.StringLit{Value: value})
}

func (s *scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// Optional fractional part
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// A number must not run straight into a name
	if isAlpha(s.peek()) {
		for isAlphaNumeric(s.peek()) {
			s.advance()
		}
		s.lexError(s.text(), "invalid number")
		return
	}

	val, err := strconv.ParseFloat(s.text(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.lexError(s.text(), "invalid number")
		return
	}
	s.addLiteral(token.Number, token.NumberLit{Value: val})
}

func (s *scanner) scanIdentOrKeyword() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	typ := token.LookupIdent(s.text())
	switch typ {
	case token.True:
		s.addLiteral(typ, token.BoolLit{Value: true})
	case token.False:
		s.addLiteral(typ, token.BoolLit{Value: false})
	default:
		s.add(typ)
	}
}

// Scan breaks source code into a slice of tokens terminated by an Eof
// token. Every lexical error is sent to r as it is found and scanning
// continues; if any occurred, Scan returns ErrScanFailed and no tokens.
func Scan(source string, r diagnostics.Reporter) ([]token.Token, error) {
	s := newScanner(source, r)

	for !s.atEnd() {
		s.start = s.pos
		s.scanToken()
	}

	if s.errors > 0 {
		return nil, fmt.Errorf("%w: %d lexical error(s)", ErrScanFailed, s.errors)
	}

	s.tokens = append(s.tokens, token.New(token.Eof, "", token.NilLit{}, s.line))
	return s.tokens, nil
}
