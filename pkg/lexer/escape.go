package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unescape decodes the escape sequences of a string literal body.
// It reports false for an unknown or truncated escape, and for a \u
// escape naming a surrogate half.
func unescape(body string) (string, bool) {
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}

	var buf strings.Builder
	buf.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			buf.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		case '0':
			buf.WriteByte(0)
		case '\\':
			buf.WriteByte('\\')
		case '"':
			buf.WriteByte('"')
		case '\'':
			buf.WriteByte('\'')
		case '/':
			buf.WriteByte('/')
		case 'u':
			// \uXXXX
			if i+5 > len(body) {
				return "", false
			}
			codepoint, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil || !utf8.ValidRune(rune(codepoint)) {
				return "", false
			}
			buf.WriteRune(rune(codepoint))
			i += 4
		default:
			return "", false
		}
	}
	return buf.String(), true
}
