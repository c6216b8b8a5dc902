// Package diagnostics defines Lox diagnostic types for lexical, syntax and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	LexicalError Kind = "Lexical"
	SyntaxError  Kind = "Syntax"
	RuntimeError Kind = "Runtime"
	// Warning marks a static finding that does not stop a program.
	Warning Kind = "Warning"
)

// Diagnostic represents a lexical, syntax, or runtime diagnostic.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Line    int    `json:"line"`
	Near    string `json:"near"`
	Message string `json:"message"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(kind Kind, line int, near, message string) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Line:    line,
		Near:    near,
		Message: message,
	}
}

func (d Diagnostic) Error() string {
	return FormatDiagnostic(d, false)
}

// FormatDiagnostic formats a single diagnostic for display. The text form
// is compared byte for byte by the conformance suite.
func FormatDiagnostic(d Diagnostic, asJSON bool) string {
	if asJSON {
		b, _ := json.Marshal(d)
		return string(b)
	}
	if d.Kind == Warning {
		return fmt.Sprintf("Warning: [line: %d, near: %s, message: %s].", d.Line, d.Near, d.Message)
	}
	return fmt.Sprintf("%s Error: [line: %d, near: %s, message: %s].", d.Kind, d.Line, d.Near, d.Message)
}

// FormatDiagnostics formats a slice of diagnostics, one per line.
func FormatDiagnostics(diags []Diagnostic, asJSON bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, asJSON)
	}
	return strings.Join(parts, "\n")
}

// Reporter receives diagnostics as the pipeline discovers them.
type Reporter interface {
	Report(d Diagnostic)
}

// Collector is a Reporter that keeps diagnostics in memory.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// HasErrors reports whether anything other than a warning was collected.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Kind != Warning {
			return true
		}
	}
	return false
}

// Reset drops everything collected so far.
func (c *Collector) Reset() {
	c.Diagnostics = c.Diagnostics[:0]
}

// WriterReporter writes each diagnostic as one line.
type WriterReporter struct {
	mu     sync.Mutex
	w      io.Writer
	asJSON bool
}

// NewWriterReporter returns a Reporter printing to w in text or JSON form.
func NewWriterReporter(w io.Writer, asJSON bool) *WriterReporter {
	return &WriterReporter{w: w, asJSON: asJSON}
}

// Report writes d followed by a newline.
func (r *WriterReporter) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, FormatDiagnostic(d, r.asJSON))
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// InvariantViolation reports an internal consistency failure. It is never
// a user-facing diagnostic and is not produced by any valid program.
type InvariantViolation struct {
	Op      string
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Message)
}
