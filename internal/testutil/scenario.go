// Package testutil provides shared test helpers for lox Go tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one end-to-end case: the command line, the text fed to
// standard input and everything the command is expected to produce.
type Scenario struct {
	Name string `yaml:"-"`
	// Args is the command line after the program name. When empty the
	// script is run from standard input, as "run -".
	Args []string `yaml:"args"`
	// REPL starts the interactive prompt instead; Source is typed into it.
	REPL     bool   `yaml:"repl"`
	Source   string `yaml:"source"`
	Stdout   string `yaml:"stdout"`
	Stderr   string `yaml:"stderr"`
	ExitCode int    `yaml:"exitCode"`
}

// CommandLine returns the arguments to run the scenario with.
func (s *Scenario) CommandLine() []string {
	switch {
	case s.REPL:
		return nil
	case len(s.Args) == 0:
		return []string{"run", "-"}
	default:
		return s.Args
	}
}

// LoadScenario reads one scenario file. Unknown keys are rejected so a
// misspelt expectation cannot silently pass.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &s, nil
}

// ListScenarios returns the scenario files under root in name order.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yml", ".yaml":
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
