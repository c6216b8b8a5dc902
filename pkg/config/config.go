// Package config implements lox configuration file loading.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File names searched by Load.
const (
	ProjectFile = ".lox.yml"
	UserDir     = ".lox"
	UserFile    = "config.yml"
)

// Config holds the driver settings.
type Config struct {
	// MaxDepth bounds parser and interpreter nesting. Zero disables it.
	MaxDepth int `yaml:"maxDepth"`
	// StopOnError ends a program at its first runtime error.
	StopOnError bool `yaml:"stopOnError"`
	// Diagnostics is the diagnostic output format, "text" or "json".
	Diagnostics string     `yaml:"diagnostics"`
	REPL        REPLConfig `yaml:"repl"`
	Log         LogConfig  `yaml:"log"`

	// Path is the file the configuration came from, empty for defaults.
	Path string `yaml:"-"`
}

type REPLConfig struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Trace is a file receiving NDJSON debug events.
	Trace string `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxDepth:    512,
		Diagnostics: "text",
		REPL: REPLConfig{
			Prompt:  "> ",
			History: "~/.lox_history",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load resolves the configuration.
// Precedence: explicit path → project (.lox.yml in projectDir) → user
// (~/.lox/config.yml) → defaults. A missing explicit file is an error;
// missing project and user files are skipped.
func Load(explicit, projectDir string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}

	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserDir, UserFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// LoadFile reads one YAML file on top of the defaults. Unknown keys are
// rejected.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if c.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("maxDepth must not be negative, got %d", c.MaxDepth))
	}
	switch c.Diagnostics {
	case "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("diagnostics must be \"text\" or \"json\", got %q", c.Diagnostics))
	}
	if c.REPL.Prompt == "" {
		errs.Issues = append(errs.Issues, "repl.prompt must not be empty")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the slog level named by Log.Level.
func (c *Config) LogLevel() slog.Level {
	return levels[strings.ToLower(c.Log.Level)]
}

// JSONDiagnostics reports whether diagnostics are printed as JSON.
func (c *Config) JSONDiagnostics() bool {
	return c.Diagnostics == "json"
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home for %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
