package lexer

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/token"
)

// FuzzScan feeds random inputs to the lexer to catch panics.
// The lexer should never panic; invalid input yields ErrScanFailed.
func FuzzScan(f *testing.F) {
	seeds := []string{
		// Keywords
		`and class else false for fun if nil or print return super this true var while`,
		// Literals
		`42 3.14 0 007 12.`,
		`"hello" "with\nescape" "quote\"" "A"`,
		// Operators
		`+ - * / > < >= <= == != ! = ? :`,
		// Delimiters
		`{ } ( ) , . ;`,
		// Comments
		`// this is a comment`,
		// Mixed
		`var x = 1 < 2 ? "a" : "b";`,
		`{ var a = 1; { a = a + 1; print a; } }`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`"""`,
		`"\`,
		`@#$^&`,
		"\x00",
		`123abc`,
		`"\q"`,
		"\xff\xfe",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Scan panicked on input %q: %v", input, r)
				}
			}()
			tokens, err := Scan(input, nil)
			if err == nil && (len(tokens) == 0 || tokens[len(tokens)-1].Type != token.Eof) {
				t.Fatalf("successful scan of %q did not end with Eof", input)
			}
		}()
	})
}
