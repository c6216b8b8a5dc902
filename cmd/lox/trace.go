package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// TraceSummary aggregates the debug events of one traced run.
type TraceSummary struct {
	TotalEvents      int            `json:"totalEvents"`
	Statements       int            `json:"statements"`
	StatementsByKind map[string]int `json:"statementsByKind"`
	ScopesEntered    int            `json:"scopesEntered"`
	MaxScopeDepth    int            `json:"maxScopeDepth"`
	RuntimeErrors    int            `json:"runtimeErrors"`
	StartTime        string         `json:"startTime,omitempty"`
	EndTime          string         `json:"endTime,omitempty"`
	DurationMs       float64        `json:"durationMs"`
}

// traceEvent is one slog JSON record.
type traceEvent struct {
	Time  string `json:"time"`
	Msg   string `json:"msg"`
	Kind  string `json:"kind"`
	Depth int    `json:"depth"`
}

// computeTraceSummary reads NDJSON records. Lines that are not JSON are
// skipped.
func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		StatementsByKind: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		summary.TotalEvents++
		if summary.StartTime == "" {
			summary.StartTime = event.Time
		}
		summary.EndTime = event.Time

		switch event.Msg {
		case "statement":
			summary.Statements++
			if event.Kind != "" {
				summary.StatementsByKind[event.Kind]++
			}
		case "scope enter":
			summary.ScopesEntered++
			if event.Depth > summary.MaxScopeDepth {
				summary.MaxScopeDepth = event.Depth
			}
		case "runtime error":
			summary.RuntimeErrors++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}
	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Total events:   %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements:     %d\n", s.Statements)
	kinds := make([]string, 0, len(s.StatementsByKind))
	for kind := range s.StatementsByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-12s %d\n", kind+":", s.StatementsByKind[kind])
	}
	fmt.Fprintf(w, "Scopes entered: %d (max depth %d)\n", s.ScopesEntered, s.MaxScopeDepth)
	fmt.Fprintf(w, "Runtime errors: %d\n", s.RuntimeErrors)
	if s.StartTime != "" {
		fmt.Fprintf(w, "Duration:       %.3fms\n", s.DurationMs)
	}
}
