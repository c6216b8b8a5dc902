package evaluator

// DefaultMaxDepth is the nesting bound used when no Budget is given.
const DefaultMaxDepth = 512

// Budget holds the resource limits for an interpretation.
type Budget struct {
	// MaxDepth bounds expression and block nesting during evaluation.
	// Zero or less disables the check.
	MaxDepth int
}

// DefaultBudget returns the limits used by New.
func DefaultBudget() Budget {
	return Budget{MaxDepth: DefaultMaxDepth}
}

// depthTracker counts the nested groupings, unary operators, assignments,
// ternaries and blocks currently being evaluated.
type depthTracker struct {
	depth int
	max   int
}

// enter reports false once the bound has been passed. Callers must call
// leave whatever enter returned.
func (d *depthTracker) enter() bool {
	d.depth++
	return d.max <= 0 || d.depth <= d.max
}

func (d *depthTracker) leave() {
	d.depth--
}
