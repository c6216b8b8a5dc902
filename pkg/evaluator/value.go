// Package evaluator implements the Lox tree-walking interpreter.
package evaluator

import (
	"log/slog"
	"strconv"

	"github.com/thomasrohde/lox/pkg/token"
)

// LoxValue is the interface for all Lox runtime values.
// Use the sealed marker method to restrict implementations to this package.
type LoxValue interface {
	loxValue() // sealed marker
	// String is the text print writes for the value.
	String() string
}

// LoxNil represents the nil value.
type LoxNil struct{}

func (LoxNil) loxValue()      {}
func (LoxNil) String() string { return "nil" }

// LoxBool represents a boolean value.
type LoxBool struct {
	Value bool
}

func (LoxBool) loxValue()        {}
func (v LoxBool) String() string { return strconv.FormatBool(v.Value) }

// LoxNumber represents a 64-bit float.
type LoxNumber struct {
	Value float64
}

func (LoxNumber) loxValue()        {}
func (v LoxNumber) String() string { return token.FormatNumber(v.Value) }

// LoxString represents a string value.
type LoxString struct {
	Value string
}

func (LoxString) loxValue()        {}
func (v LoxString) String() string { return v.Value }

// NewNil creates a nil value.
func NewNil() LoxValue {
	return LoxNil{}
}

// NewBool creates a boolean value.
func NewBool(b bool) LoxValue {
	return LoxBool{Value: b}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) LoxValue {
	return LoxNumber{Value: n}
}

// NewString creates a string value.
func NewString(s string) LoxValue {
	return LoxString{Value: s}
}

// FromLiteral converts a scanned constant to its runtime value.
func FromLiteral(lit token.Literal) LoxValue {
	switch l := lit.(type) {
	case token.StringLit:
		return NewString(l.Value)
	case token.NumberLit:
		return NewNumber(l.Value)
	case token.BoolLit:
		return NewBool(l.Value)
	}
	return NewNil()
}

// Truthiness returns the boolean interpretation of a value.
// nil and false are falsy; everything else is truthy.
func Truthiness(v LoxValue) bool {
	switch val := v.(type) {
	case LoxNil:
		return false
	case LoxBool:
		return val.Value
	case nil:
		return false
	default:
		return true
	}
}

// Equal compares two values structurally. Values of different types are
// never equal.
func Equal(a, b LoxValue) bool {
	switch av := a.(type) {
	case LoxNil:
		_, ok := b.(LoxNil)
		return ok
	case LoxBool:
		bv, ok := b.(LoxBool)
		return ok && av.Value == bv.Value
	case LoxNumber:
		bv, ok := b.(LoxNumber)
		return ok && av.Value == bv.Value
	case LoxString:
		bv, ok := b.(LoxString)
		return ok && av.Value == bv.Value
	}
	return false
}

// TypeName returns the Lox name of v's type.
func TypeName(v LoxValue) string {
	switch v.(type) {
	case LoxNil:
		return "nil"
	case LoxBool:
		return "boolean"
	case LoxNumber:
		return "number"
	case LoxString:
		return "string"
	default:
		return "unknown"
	}
}

// LogValue lets values appear as typed attributes in structured logs.
func (v LoxNumber) LogValue() slog.Value { return slog.Float64Value(v.Value) }
func (v LoxBool) LogValue() slog.Value   { return slog.BoolValue(v.Value) }
func (v LoxString) LogValue() slog.Value { return slog.StringValue(v.Value) }
func (LoxNil) LogValue() slog.Value      { return slog.AnyValue(nil) }
