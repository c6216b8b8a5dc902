package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/token"
)

var (
	// ErrRuntimeFailure matches every *RuntimeError via errors.Is.
	ErrRuntimeFailure = errors.New("runtime error")
	// ErrNotProgram is returned when Interpret is handed anything but a Program.
	ErrNotProgram = errors.New("interpret: top-level node is not a program")
)

// RuntimeError represents a Lox runtime error. It carries the diagnostic
// that is shown to the user.
type RuntimeError struct {
	Diag diagnostics.Diagnostic
}

func (e *RuntimeError) Error() string {
	return e.Diag.Error()
}

func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntimeFailure
}

// Interpreter executes Lox programs. Globals persist across Interpret
// calls, so a REPL can feed it one line at a time. It is not safe for
// concurrent use.
type Interpreter struct {
	ctx         context.Context
	env         *Env
	out         io.Writer
	reporter    diagnostics.Reporter
	logger      *slog.Logger
	stopOnError bool
	depth       depthTracker
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print statements go to.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithReporter sets the sink for runtime diagnostics.
func WithReporter(r diagnostics.Reporter) Option {
	return func(in *Interpreter) {
		in.reporter = r
	}
}

// WithLogger sets the logger for scope and statement events.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = l
	}
}

// WithBudget sets the resource limits.
func WithBudget(b Budget) Option {
	return func(in *Interpreter) {
		in.depth.max = b.MaxDepth
	}
}

// WithStopOnError makes Interpret stop at the first failing top-level
// statement instead of moving on to the next one.
func WithStopOnError(stop bool) Option {
	return func(in *Interpreter) {
		in.stopOnError = stop
	}
}

// New creates an Interpreter with an empty global scope.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		ctx:      context.Background(),
		env:      NewEnv(),
		out:      io.Discard,
		reporter: diagnostics.Discard,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		depth:    depthTracker{max: DefaultBudget().MaxDepth},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret executes a Program. Each runtime error aborts the statement it
// occurred in, is sent to the reporter, and is included in the returned
// error; execution then continues with the next top-level statement unless
// stop-on-error is set. Cancelling ctx stops execution between top-level
// statements.
func (in *Interpreter) Interpret(ctx context.Context, stmt ast.Stmt) error {
	prog, ok := stmt.(*ast.Program)
	if !ok || prog == nil {
		return fmt.Errorf("%w: got %T", ErrNotProgram, stmt)
	}
	in.ctx = ctx
	defer func() { in.ctx = context.Background() }()

	_, err := in.VisitProgram(prog)
	return err
}

// Evaluate computes the value of a single expression in the global scope.
func (in *Interpreter) Evaluate(expr ast.Expr) (LoxValue, error) {
	return in.evaluate(expr)
}

// Lookup returns the value a name currently resolves to.
func (in *Interpreter) Lookup(name string) (LoxValue, bool) {
	return in.env.Get(name)
}

func (in *Interpreter) runtimeError(tok token.Token, msg string) error {
	return &RuntimeError{Diag: diagnostics.MakeDiag(diagnostics.RuntimeError, tok.Line, tok.Lexeme, msg)}
}

// nest charges one level of the nesting budget to the construct opened by
// tok. Binary operators are not charged, matching the parser, which folds
// them iteratively. Callers must defer in.depth.leave() even when nest
// fails.
func (in *Interpreter) nest(tok token.Token) error {
	if !in.depth.enter() {
		return in.runtimeError(tok, "Maximum nesting depth exceeded.")
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) error {
	in.logger.Debug("statement", "kind", stmt.Kind(), "line", stmt.Line())
	_, err := ast.VisitStmt[struct{}](stmt, in)
	return err
}

func (in *Interpreter) evaluate(expr ast.Expr) (LoxValue, error) {
	return ast.VisitExpr[LoxValue](expr, in)
}

// --- Statements ---

func (in *Interpreter) VisitProgram(s *ast.Program) (struct{}, error) {
	var errs []error
	for _, stmt := range s.Statements {
		if err := in.ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("interpret: %w", err))
			break
		}

		err := in.execute(stmt)
		if err == nil {
			continue
		}

		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			// Invariant violations and output failures end the run.
			errs = append(errs, err)
			break
		}
		in.reporter.Report(rerr.Diag)
		in.logger.Debug("runtime error", "line", rerr.Diag.Line, "message", rerr.Diag.Message)
		errs = append(errs, err)
		if in.stopOnError {
			break
		}
	}
	return struct{}{}, errors.Join(errs...)
}

// VisitBlock runs the statements in a fresh scope. The scope is released
// on every path out, and a failure to release it is joined into err.
func (in *Interpreter) VisitBlock(s *ast.Block) (_ struct{}, err error) {
	defer in.depth.leave()
	if err := in.nest(s.Brace); err != nil {
		return struct{}{}, err
	}

	in.env.EnterScope()
	in.logger.Debug("scope enter", "depth", in.env.Depth())
	defer func() {
		depth := in.env.Depth()
		if exitErr := in.env.ExitScope(); exitErr != nil {
			err = errors.Join(err, exitErr)
			return
		}
		in.logger.Debug("scope exit", "depth", depth)
	}()

	for _, stmt := range s.Statements {
		if err := in.execute(stmt); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

func (in *Interpreter) VisitVar(s *ast.Var) (struct{}, error) {
	var val LoxValue = NewNil()
	if s.Initializer != nil {
		v, err := in.evaluate(s.Initializer)
		if err != nil {
			return struct{}{}, err
		}
		val = v
	}
	in.env.Define(s.Name.Lexeme, val)
	in.logger.Debug("define", "name", s.Name.Lexeme, "type", TypeName(val), "value", val)
	return struct{}{}, nil
}

func (in *Interpreter) VisitExpression(s *ast.Expression) (struct{}, error) {
	_, err := in.evaluate(s.Expr)
	return struct{}{}, err
}

func (in *Interpreter) VisitPrint(s *ast.Print) (struct{}, error) {
	val, err := in.evaluate(s.Expr)
	if err != nil {
		return struct{}{}, err
	}
	if _, err := fmt.Fprintln(in.out, val.String()); err != nil {
		return struct{}{}, fmt.Errorf("print: %w", err)
	}
	return struct{}{}, nil
}

// --- Expressions ---

func (in *Interpreter) VisitLiteral(e *ast.Literal) (LoxValue, error) {
	return FromLiteral(e.Value), nil
}

func (in *Interpreter) VisitGrouping(e *ast.Grouping) (LoxValue, error) {
	defer in.depth.leave()
	if err := in.nest(e.Paren); err != nil {
		return nil, err
	}
	return in.evaluate(e.Inner)
}

func (in *Interpreter) VisitVariable(e *ast.Variable) (LoxValue, error) {
	val, ok := in.env.Get(e.Name.Lexeme)
	if !ok {
		return nil, in.runtimeError(e.Name, fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme))
	}
	return val, nil
}

func (in *Interpreter) VisitAssign(e *ast.Assign) (LoxValue, error) {
	defer in.depth.leave()
	if err := in.nest(e.Name); err != nil {
		return nil, err
	}
	val, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if !in.env.Assign(e.Name.Lexeme, val) {
		return nil, in.runtimeError(e.Name, fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme))
	}
	return val, nil
}

func (in *Interpreter) VisitUnary(e *ast.Unary) (LoxValue, error) {
	defer in.depth.leave()
	if err := in.nest(e.Operator); err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.Minus:
		num, ok := right.(LoxNumber)
		if !ok {
			return nil, in.runtimeError(e.Operator, "Operand must be a number.")
		}
		return NewNumber(-num.Value), nil
	case token.Bang:
		return NewBool(!Truthiness(right)), nil
	}
	return nil, in.runtimeError(e.Operator, fmt.Sprintf("Unknown unary operator %s.", e.Operator.Type))
}

// VisitTernary requires a boolean condition; unlike !, it does not apply
// truthiness.
func (in *Interpreter) VisitTernary(e *ast.Ternary) (LoxValue, error) {
	defer in.depth.leave()
	if err := in.nest(e.Question); err != nil {
		return nil, err
	}
	cond, err := in.evaluate(e.Condition)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(LoxBool)
	if !ok {
		return nil, in.runtimeError(e.Question, "Ternary condition must be a boolean.")
	}
	if b.Value {
		return in.evaluate(e.TruePart)
	}
	return in.evaluate(e.FalsePart)
}

func (in *Interpreter) VisitBinary(e *ast.Binary) (LoxValue, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Operator
	switch op.Type {
	case token.Plus:
		// Number + Number or String + String
		if lNum, ok := left.(LoxNumber); ok {
			if rNum, ok := right.(LoxNumber); ok {
				return NewNumber(lNum.Value + rNum.Value), nil
			}
		}
		if lStr, ok := left.(LoxString); ok {
			if rStr, ok := right.(LoxString); ok {
				return NewString(lStr.Value + rStr.Value), nil
			}
		}
		return nil, in.runtimeError(op, "Operands must be two numbers or two strings.")

	case token.EqualEqual:
		return NewBool(Equal(left, right)), nil

	case token.BangEqual:
		return NewBool(!Equal(left, right)), nil
	}

	lNum, lOk := left.(LoxNumber)
	rNum, rOk := right.(LoxNumber)
	if !lOk || !rOk {
		return nil, in.runtimeError(op, "Operands must be two numbers.")
	}
	l, r := lNum.Value, rNum.Value

	switch op.Type {
	case token.Minus:
		return NewNumber(l - r), nil
	case token.Star:
		return NewNumber(l * r), nil
	case token.Slash:
		if r == 0 {
			return nil, in.runtimeError(op, "Division by zero.")
		}
		return NewNumber(l / r), nil
	case token.Greater:
		return NewBool(l > r), nil
	case token.GreaterEqual:
		return NewBool(l >= r), nil
	case token.Less:
		return NewBool(l < r), nil
	case token.LessEqual:
		return NewBool(l <= r), nil
	}
	return nil, in.runtimeError(op, fmt.Sprintf("Unknown binary operator %s.", op.Type))
}
