package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thomasrohde/lox/internal/testutil"
)

const scenariosDir = "testdata/scenarios"

// isolateHome keeps a user config in the real home directory out of the
// run.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
}

func TestConformance(t *testing.T) {
	isolateHome(t)

	files, err := testutil.ListScenarios(filepath.FromSlash(scenariosDir))
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, path := range files {
		scenario, err := testutil.LoadScenario(path)
		if err != nil {
			t.Fatalf("failed to load scenario: %v", err)
		}

		t.Run(scenario.Name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(scenario.CommandLine(), strings.NewReader(scenario.Source), &stdout, &stderr)

			if code != scenario.ExitCode {
				t.Errorf("exit code: got %d, want %d (stderr %q)", code, scenario.ExitCode, stderr.String())
			}
			if stdout.String() != scenario.Stdout {
				t.Errorf("stdout mismatch:\n got: %q\nwant: %q", stdout.String(), scenario.Stdout)
			}
			if stderr.String() != scenario.Stderr {
				t.Errorf("stderr mismatch:\n got: %q\nwant: %q", stderr.String(), scenario.Stderr)
			}
		})
	}
}
