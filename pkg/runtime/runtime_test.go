package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thomasrohde/lox/pkg/config"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/evaluator"
	"github.com/thomasrohde/lox/pkg/lexer"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/runtime"
)

func newRuntime(opts ...runtime.Option) (*runtime.Runtime, *bytes.Buffer, *diagnostics.Collector) {
	var out bytes.Buffer
	var c diagnostics.Collector
	opts = append([]runtime.Option{runtime.WithOutput(&out), runtime.WithReporter(&c)}, opts...)
	return runtime.New(opts...), &out, &c
}

func TestRun(t *testing.T) {
	rt, out, c := newRuntime()
	if err := rt.Run(context.Background(), `var greeting = "hi"; print greeting + " lox";`); err != nil {
		t.Fatalf("unexpected error: %v (%v)", err, c.Diagnostics)
	}
	if out.String() != "hi lox\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRunPhases(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
		kind   diagnostics.Kind
	}{
		{"lexical", `print "open;`, lexer.ErrScanFailed, diagnostics.LexicalError},
		{"syntax", "print (1;", parser.ErrParseFailed, diagnostics.SyntaxError},
		{"runtime", "print -true;", evaluator.ErrRuntimeFailure, diagnostics.RuntimeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, out, c := newRuntime()
			err := rt.Run(context.Background(), tt.source)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if len(c.Diagnostics) != 1 || c.Diagnostics[0].Kind != tt.kind {
				t.Errorf("unexpected diagnostics %v", c.Diagnostics)
			}
			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func TestSyntaxErrorRunsNothing(t *testing.T) {
	rt, out, _ := newRuntime()
	if err := rt.Run(context.Background(), "print 1; print (2;"); err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("program ran despite syntax error: %q", out.String())
	}
}

func TestGlobalsPersistBetweenRuns(t *testing.T) {
	rt, out, _ := newRuntime()
	ctx := context.Background()
	for _, line := range []string{"var a = 1;", "print a;", "print b;", "a = a + 1;", "print a;"} {
		rt.Run(ctx, line)
	}
	if out.String() != "1\n2\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 5
	cfg.StopOnError = true
	rt, out, c := newRuntime(runtime.WithConfig(cfg))

	deep := "print " + strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10) + ";"
	if err := rt.Run(context.Background(), deep); !errors.Is(err, parser.ErrParseFailed) {
		t.Errorf("expected depth failure while parsing, got %v", err)
	}

	c.Reset()
	if err := rt.Run(context.Background(), "print 1; print nil + 1; print 2;"); err == nil {
		t.Fatal("expected runtime error")
	}
	if out.String() != "1\n" || len(c.Diagnostics) != 1 {
		t.Errorf("stopOnError not applied: out %q diags %v", out.String(), c.Diagnostics)
	}
}

func TestLongFlatExpressions(t *testing.T) {
	rt, out, c := newRuntime()
	ctx := context.Background()
	if err := rt.Run(ctx, "print "+strings.Repeat("1+", 599)+"1;"); err != nil {
		t.Fatalf("sum: %v (%v)", err, c.Diagnostics)
	}
	src := `var s = ""` + strings.Repeat(` + "a"`, 600) + "; print s == \"" + strings.Repeat("a", 600) + "\";"
	if err := rt.Run(ctx, src); err != nil {
		t.Fatalf("concatenation: %v (%v)", err, c.Diagnostics)
	}
	if out.String() != "600\ntrue\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestSyntaxErrorInBlockReportedOnce(t *testing.T) {
	rt, out, c := newRuntime()
	err := rt.Run(context.Background(), "{ var = 1; print 2; }")
	if !errors.Is(err, parser.ErrParseFailed) {
		t.Fatalf("got %v", err)
	}
	if len(c.Diagnostics) != 1 || c.Diagnostics[0].Near != "=" {
		t.Errorf("unexpected diagnostics %v", c.Diagnostics)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestCheck(t *testing.T) {
	rt := runtime.New()
	if diags := rt.Check("var a = 1; print a;"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %v", diags)
	}
	// Runtime errors are not found by Check, but reads of undeclared
	// names are warned about.
	diags := rt.Check("print -true;\nprint undefinedName;")
	if len(diags) != 1 || diags[0].Kind != diagnostics.Warning || diags[0].Line != 2 {
		t.Errorf("unexpected diagnostics %v", diags)
	}
	// Syntax errors suppress validation.
	diags = rt.Check("print (1;\nvar = 2;\nprint undefinedName;")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	for _, d := range diags {
		if d.Kind != diagnostics.SyntaxError {
			t.Errorf("unexpected %v", d)
		}
	}
}

func TestFormat(t *testing.T) {
	rt := runtime.New()
	got, err := rt.Format("var a = 1 + 2 * 3;\n{ print a ? 1 : 2; }\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "(var a (+ 1 (* 2 3)))\n(block (print (? a 1 2)))\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, err = rt.Format("print 1")
	var derr *runtime.DiagnosticError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DiagnosticError, got %v", err)
	}
	if !errors.Is(err, parser.ErrParseFailed) {
		t.Errorf("expected ErrParseFailed in chain, got %v", err)
	}
	if want := "Syntax Error: [line: 1, near: , message: Expect ';' after value.]."; derr.Error() != want {
		t.Errorf("got %q, want %q", derr.Error(), want)
	}
}
