// Command lox is the Lox interpreter entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/thomasrohde/lox/pkg/config"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/evaluator"
	"github.com/thomasrohde/lox/pkg/lexer"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/runtime"
)

// Exit codes follow sysexits.h.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 64
	exitDataErr     = 65
	exitSoftware    = 70
	exitInterrupted = 130
)

const usage = "Usage: lox [script]"

const helpText = `Usage: lox [flags] [script]
       lox [flags] <command> <file>

Commands:
  run <file>      run a script (same as "lox <file>")
  check <file>    report errors and warnings without running
  ast <file>      print the syntax tree
  trace <file>    summarise a trace written with --trace [--json|--text]
  help            show this message

With no script, lox starts an interactive prompt. A file of "-" reads
standard input.

Flags:
  --config <path>  configuration file (default .lox.yml, then ~/.lox/config.yml)
  --trace <path>   write debug events as NDJSON to path
  --json           print diagnostics as JSON
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	configPath string
	tracePath  string
	json       bool
	text       bool
	help       bool
	args       []string
}

func parseArgs(args []string) (*cliOptions, error) {
	opts := &cliOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--config", "--trace":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			if arg == "--config" {
				opts.configPath = args[i]
			} else {
				opts.tracePath = args[i]
			}
		case "--json":
			opts.json = true
		case "--text":
			opts.text = true
		case "-h", "--help":
			opts.help = true
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, fmt.Errorf("unknown flag %s", arg)
			}
			opts.args = append(opts.args, arg)
		}
	}
	return opts, nil
}

// run is main without the process exit, so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n%s\n", err, usage)
		return exitUsage
	}
	if opts.help {
		fmt.Fprint(stdout, helpText)
		return exitOK
	}
	if len(opts.args) == 0 {
		return cmdRepl(opts, stdin, stdout, stderr)
	}

	cmd, rest := opts.args[0], opts.args[1:]
	switch cmd {
	case "run":
		return withFile(rest, "lox run <file>", stderr, func(file string) int {
			return cmdRun(opts, file, stdin, stdout, stderr)
		})
	case "check":
		return withFile(rest, "lox check <file>", stderr, func(file string) int {
			return cmdCheck(opts, file, stdin, stdout, stderr)
		})
	case "ast":
		return withFile(rest, "lox ast <file>", stderr, func(file string) int {
			return cmdAST(opts, file, stdin, stdout, stderr)
		})
	case "trace":
		return withFile(rest, "lox trace <file.jsonl> [--json|--text]", stderr, func(file string) int {
			return cmdTrace(opts, file, stdin, stdout, stderr)
		})
	case "help":
		fmt.Fprint(stdout, helpText)
		return exitOK
	default:
		if len(rest) > 0 {
			fmt.Fprintln(stderr, usage)
			return exitUsage
		}
		return cmdRun(opts, cmd, stdin, stdout, stderr)
	}
}

func withFile(args []string, form string, stderr io.Writer, fn func(string) int) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s\n", form)
		return exitUsage
	}
	return fn(args[0])
}

// session holds what every command that touches source needs.
type session struct {
	cfg      *config.Config
	rt       *runtime.Runtime
	jsonDiag bool
	close    func()
}

func newSession(opts *cliOptions, stdout, stderr io.Writer) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.Load(opts.configPath, cwd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, jsonDiag: opts.json || cfg.JSONDiagnostics(), close: func() {}}

	tracePath := opts.tracePath
	if tracePath == "" {
		tracePath = cfg.Log.Trace
	}
	var logger *slog.Logger
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		s.close = func() { f.Close() }
		logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	}

	s.rt = runtime.New(
		runtime.WithConfig(cfg),
		runtime.WithOutput(stdout),
		runtime.WithReporter(diagnostics.NewWriterReporter(stderr, s.jsonDiag)),
		runtime.WithLogger(logger),
	)
	return s, nil
}

func cmdRun(opts *cliOptions, file string, stdin io.Reader, stdout, stderr io.Writer) int {
	source, err := readSource(file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	s, err := newSession(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return reportRunError(s.rt.Run(ctx, source), stderr)
}

func cmdCheck(opts *cliOptions, file string, stdin io.Reader, stdout, stderr io.Writer) int {
	source, err := readSource(file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	s, err := newSession(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	defer s.close()

	var c diagnostics.Collector
	for _, d := range s.rt.Check(source) {
		c.Report(d)
	}
	if len(c.Diagnostics) > 0 {
		fmt.Fprintln(stderr, diagnostics.FormatDiagnostics(c.Diagnostics, s.jsonDiag))
	}
	if c.HasErrors() {
		return exitDataErr
	}
	if s.jsonDiag {
		fmt.Fprintln(stdout, "[]")
	} else {
		fmt.Fprintln(stdout, "No errors found.")
	}
	return exitOK
}

func cmdAST(opts *cliOptions, file string, stdin io.Reader, stdout, stderr io.Writer) int {
	source, err := readSource(file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	s, err := newSession(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	defer s.close()

	tree, err := s.rt.Format(source)
	if err != nil {
		var derr *runtime.DiagnosticError
		if errors.As(err, &derr) {
			fmt.Fprintln(stderr, diagnostics.FormatDiagnostics(derr.Diagnostics, s.jsonDiag))
		}
		return exitCode(err)
	}
	fmt.Fprint(stdout, tree)
	return exitOK
}

func cmdTrace(opts *cliOptions, file string, stdin io.Reader, stdout, stderr io.Writer) int {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(stderr, "lox: cannot read file: %s\n", file)
			return exitFailure
		}
		defer f.Close()
		r = f
	}

	summary, err := computeTraceSummary(r)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	if opts.text {
		printTraceSummaryText(stdout, summary)
		return exitOK
	}
	b, err := json.Marshal(summary)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, string(b))
	return exitOK
}

// reportRunError prints the parts of err that the reporter has not
// already shown and returns the exit code for it.
func reportRunError(err error, stderr io.Writer) int {
	code := exitCode(err)
	var inv *diagnostics.InvariantViolation
	if code == exitFailure || code == exitInterrupted || errors.As(err, &inv) {
		fmt.Fprintf(stderr, "lox: %s\n", err)
	}
	return code
}

func exitCode(err error) int {
	var inv *diagnostics.InvariantViolation
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, lexer.ErrScanFailed), errors.Is(err, parser.ErrParseFailed):
		return exitDataErr
	case errors.Is(err, evaluator.ErrRuntimeFailure), errors.As(err, &inv):
		return exitSoftware
	default:
		return exitFailure
	}
}

func readSource(file string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s", file)
	}
	return string(b), nil
}
