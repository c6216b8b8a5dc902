package diagnostics_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/thomasrohde/lox/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.SyntaxError, 3, ")", "Expect expression.")

	if d.Kind != diagnostics.SyntaxError {
		t.Errorf("got Kind = %q, want %q", d.Kind, diagnostics.SyntaxError)
	}
	if d.Line != 3 {
		t.Errorf("got Line = %d, want 3", d.Line)
	}
	if d.Near != ")" {
		t.Errorf("got Near = %q, want %q", d.Near, ")")
	}
}

func TestFormatDiagnosticText(t *testing.T) {
	tests := []struct {
		diag diagnostics.Diagnostic
		want string
	}{
		{
			diagnostics.MakeDiag(diagnostics.LexicalError, 1, "123abc", "invalid number"),
			"Lexical Error: [line: 1, near: 123abc, message: invalid number].",
		},
		{
			diagnostics.MakeDiag(diagnostics.SyntaxError, 2, "", "Expect ';' after value."),
			"Syntax Error: [line: 2, near: , message: Expect ';' after value.].",
		},
		{
			diagnostics.MakeDiag(diagnostics.RuntimeError, 7, "/", "Division by zero."),
			"Runtime Error: [line: 7, near: /, message: Division by zero.].",
		},
		{
			diagnostics.MakeDiag(diagnostics.Warning, 4, "a", "Variable 'a' is read before it is declared."),
			"Warning: [line: 4, near: a, message: Variable 'a' is read before it is declared.].",
		},
	}

	for _, tt := range tests {
		if got := diagnostics.FormatDiagnostic(tt.diag, false); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
		if got := tt.diag.Error(); got != tt.want {
			t.Errorf("Error(): got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.LexicalError, 1, "@", "invalid token")
	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, `"kind":"Lexical"`) {
		t.Errorf("expected JSON kind in output, got: %s", out)
	}
	if !strings.Contains(out, `"near":"@"`) {
		t.Errorf("expected JSON near in output, got: %s", out)
	}
}

func TestFormatDiagnosticsJoinsLines(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.LexicalError, 1, "@", "invalid token"),
		diagnostics.MakeDiag(diagnostics.LexicalError, 2, "#", "invalid token"),
	}
	out := diagnostics.FormatDiagnostics(diags, false)
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("expected 2 lines, got %d newlines in %q", got, out)
	}
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	r := diagnostics.NewWriterReporter(&buf, false)
	r.Report(diagnostics.MakeDiag(diagnostics.RuntimeError, 1, "x", "Undefined variable 'x'."))

	want := "Runtime Error: [line: 1, near: x, message: Undefined variable 'x'.].\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestCollector(t *testing.T) {
	var c diagnostics.Collector
	if c.HasErrors() {
		t.Fatal("empty collector reports errors")
	}
	c.Report(diagnostics.MakeDiag(diagnostics.SyntaxError, 1, "", "boom"))
	if !c.HasErrors() || len(c.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", c.Diagnostics)
	}
	c.Reset()
	if c.HasErrors() {
		t.Error("expected Reset to clear diagnostics")
	}

	c.Report(diagnostics.MakeDiag(diagnostics.Warning, 1, "a", "unused"))
	if c.HasErrors() {
		t.Error("a warning alone is not an error")
	}
}

func TestInvariantViolationIsDistinct(t *testing.T) {
	var err error = &diagnostics.InvariantViolation{Op: "exit scope", Message: "already at global scope"}

	var diag diagnostics.Diagnostic
	if errors.As(err, &diag) {
		t.Error("invariant violation must not be a Diagnostic")
	}
	var iv *diagnostics.InvariantViolation
	if !errors.As(err, &iv) {
		t.Fatal("expected errors.As to find InvariantViolation")
	}
	if !strings.Contains(err.Error(), "exit scope") {
		t.Errorf("unexpected message: %s", err)
	}
}
