// Package runtime provides the top-level Lox runtime orchestrator.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/thomasrohde/lox/pkg/config"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/evaluator"
	"github.com/thomasrohde/lox/pkg/formatter"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/validator"
)

// Runtime wires the lexer, parser and interpreter together. It keeps one
// interpreter for its whole life, so globals defined by one Run are
// visible to the next.
type Runtime struct {
	out         io.Writer
	reporter    diagnostics.Reporter
	logger      *slog.Logger
	maxDepth    int
	stopOnError bool
	interp      *evaluator.Interpreter
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets where print statements write.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithReporter sets the sink for lexical, syntax and runtime diagnostics.
func WithReporter(r diagnostics.Reporter) Option {
	return func(rt *Runtime) {
		rt.reporter = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithMaxDepth sets the nesting bound for parsing and evaluation.
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) {
		rt.maxDepth = n
	}
}

// WithStopOnError stops a program at its first runtime error.
func WithStopOnError(stop bool) Option {
	return func(rt *Runtime) {
		rt.stopOnError = stop
	}
}

// WithConfig applies the language settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		rt.maxDepth = cfg.MaxDepth
		rt.stopOnError = cfg.StopOnError
	}
}

// New creates a new Runtime with the given options.
// By default output and diagnostics are discarded.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		out:      io.Discard,
		reporter: diagnostics.Discard,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: parser.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.interp = evaluator.New(
		evaluator.WithOutput(rt.out),
		evaluator.WithReporter(rt.reporter),
		evaluator.WithLogger(rt.logger),
		evaluator.WithBudget(evaluator.Budget{MaxDepth: rt.maxDepth}),
		evaluator.WithStopOnError(rt.stopOnError),
	)
	return rt
}

// Run scans, parses and executes source. Lexical and syntax errors stop
// before anything runs. Every diagnostic has already been reported when
// Run returns; the error says which phase failed.
func (rt *Runtime) Run(ctx context.Context, source string) error {
	program, err := parser.ParseSource(source, rt.reporter, parser.WithMaxDepth(rt.maxDepth))
	if err != nil {
		rt.logger.Debug("parse failed", "error", err)
		return err
	}
	rt.logger.Debug("parsed", "statements", len(program.Statements))
	return rt.interp.Interpret(ctx, program)
}

// Check scans and parses source without executing it and returns every
// lexical and syntax diagnostic. A program that parses is validated
// instead, and the result holds its warnings.
func (rt *Runtime) Check(source string) []diagnostics.Diagnostic {
	var c diagnostics.Collector
	program, err := parser.ParseSource(source, &c, parser.WithMaxDepth(rt.maxDepth))
	if err != nil {
		return c.Diagnostics
	}
	return validator.Validate(program)
}

// Format parses source and prints its syntax tree, one top-level statement
// per line.
func (rt *Runtime) Format(source string) (string, error) {
	var c diagnostics.Collector
	program, err := parser.ParseSource(source, &c, parser.WithMaxDepth(rt.maxDepth))
	if err != nil {
		return "", &DiagnosticError{Diagnostics: c.Diagnostics, Err: err}
	}
	return formatter.Format(program), nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
	// Err is the phase error, such as parser.ErrParseFailed.
	Err error
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}
