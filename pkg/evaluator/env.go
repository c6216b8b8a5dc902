package evaluator

import "github.com/thomasrohde/lox/pkg/diagnostics"

// noParent marks the global frame.
const noParent = -1

type frame struct {
	bindings map[string]LoxValue
	parent   int
}

// Env is an arena of scope frames. Each frame refers to its parent by
// index, and lookups walk outward from the innermost frame. Frame 0 is the
// global scope and lives as long as the Env.
type Env struct {
	frames  []frame
	current int
}

// NewEnv creates an environment holding only the global scope.
func NewEnv() *Env {
	return &Env{
		frames:  []frame{{bindings: make(map[string]LoxValue), parent: noParent}},
		current: 0,
	}
}

// Define binds name in the innermost scope, shadowing any outer binding.
func (e *Env) Define(name string, val LoxValue) {
	e.frames[e.current].bindings[name] = val
}

// Get looks up a variable by name, walking outward through parent scopes.
func (e *Env) Get(name string) (LoxValue, bool) {
	for i := e.current; i != noParent; i = e.frames[i].parent {
		if val, ok := e.frames[i].bindings[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Assign replaces the value of the nearest existing binding of name.
// It never creates a binding and reports false when none exists.
func (e *Env) Assign(name string, val LoxValue) bool {
	for i := e.current; i != noParent; i = e.frames[i].parent {
		if _, ok := e.frames[i].bindings[name]; ok {
			e.frames[i].bindings[name] = val
			return true
		}
	}
	return false
}

// EnterScope pushes an empty innermost scope.
func (e *Env) EnterScope() {
	e.frames = append(e.frames, frame{
		bindings: make(map[string]LoxValue),
		parent:   e.current,
	})
	e.current = len(e.frames) - 1
}

// ExitScope pops the innermost scope. Exiting the global scope is an
// invariant violation and leaves the Env unchanged.
func (e *Env) ExitScope() error {
	if e.current == 0 {
		return &diagnostics.InvariantViolation{
			Op:      "ExitScope",
			Message: "cannot exit the global scope",
		}
	}
	parent := e.frames[e.current].parent
	// Scopes nest strictly, so the innermost frame is always the last one.
	e.frames[e.current] = frame{}
	e.frames = e.frames[:e.current]
	e.current = parent
	return nil
}

// Depth returns the number of scopes above the global one.
func (e *Env) Depth() int {
	depth := 0
	for i := e.current; e.frames[i].parent != noParent; i = e.frames[i].parent {
		depth++
	}
	return depth
}
