package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/lox/pkg/config"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/lexer"
	"github.com/thomasrohde/lox/pkg/token"
)

const continuationPrompt = ". "

// lineReader is the part of *liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

// plainReader reads lines from a non-interactive input without prompts.
type plainReader struct {
	sc *bufio.Scanner
}

func (p *plainReader) Prompt(string) (string, error) {
	if p.sc.Scan() {
		return p.sc.Text(), nil
	}
	if err := p.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func cmdRepl(opts *cliOptions, stdin io.Reader, stdout, stderr io.Writer) int {
	s, err := newSession(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %s\n", err)
		return exitFailure
	}
	defer s.close()

	if f, ok := stdin.(*os.File); !ok || f != os.Stdin {
		return repl(s, &plainReader{sc: bufio.NewScanner(stdin)}, stderr)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history, err := config.ExpandHome(s.cfg.REPL.History); err == nil {
		if f, err := os.Open(history); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	return repl(s, ln, stderr)
}

// repl reads entries until end of input or ":quit". An entry spans lines
// while a block or string is still open. Every entry runs in the same
// runtime, so globals carry over.
func repl(s *session, in lineReader, stderr io.Writer) int {
	var pending []string
	for {
		prompt := s.cfg.REPL.Prompt
		if len(pending) > 0 {
			prompt = continuationPrompt
		}

		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending = pending[:0]
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(pending) > 0 {
				eval(s, strings.Join(pending, "\n"), stderr)
			}
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(stderr, "lox: %s\n", err)
			return exitFailure
		}

		if len(pending) == 0 && strings.TrimSpace(line) == ":quit" {
			return exitOK
		}
		pending = append(pending, line)
		code := strings.Join(pending, "\n")
		if incomplete(code) {
			continue
		}
		pending = pending[:0]
		if strings.TrimSpace(code) == "" {
			continue
		}

		if h, ok := in.(historyAppender); ok {
			h.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
		eval(s, code, stderr)
	}
}

// eval runs one entry. Ctrl-C while it runs stops it at the next
// statement boundary instead of ending the process.
func eval(s *session, code string, stderr io.Writer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reportRunError(s.rt.Run(ctx, code), stderr)
}

// incomplete reports whether code ends inside a block or a string.
func incomplete(code string) bool {
	var c diagnostics.Collector
	toks, err := lexer.Scan(code, &c)
	if err != nil {
		for _, d := range c.Diagnostics {
			if d.Message == "unterminated string" {
				return true
			}
		}
		return false
	}

	depth := 0
	for _, tok := range toks {
		switch tok.Type {
		case token.LeftBrace:
			depth++
		case token.RightBrace:
			depth--
		}
	}
	return depth > 0
}
