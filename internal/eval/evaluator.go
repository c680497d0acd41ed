// Package eval wraps the yaegi interpreter behind a structured
// Evaluate(line) call with its own result capture, so the dispatcher never
// deals with raw interpreter state.
package eval

import (
	"context"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Result is the captured value of an evaluated expression. HasValue is false
// for statements and expressions that produce nothing printable.
type Result struct {
	Value    any
	HasValue bool
}

// Evaluator owns the shell's shared interpreter namespace. It is long-lived:
// variables defined in one line are visible to the next.
type Evaluator struct {
	mu     sync.Mutex
	interp *interp.Interpreter
	ans    any
}

// New creates an evaluator. The binder (usually Bindings.Binder) seeds the
// namespace with session handles; the last captured result is reachable from
// inside the namespace as ans().
func New(binder func(*interp.Interpreter) error) (*Evaluator, error) {
	e := &Evaluator{}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, err
	}
	if err := i.Use(interp.Exports{"cozmoshell/cozmoshell": {
		"Ans": reflect.ValueOf(e.Ans),
	}}); err != nil {
		return nil, err
	}
	if _, err := i.Eval("import __cozmoshell \"cozmoshell\"\n"); err != nil {
		return nil, err
	}
	if _, err := i.Eval("ans := __cozmoshell.Ans\n_ = ans\n"); err != nil {
		return nil, err
	}
	if binder != nil {
		if err := binder(i); err != nil {
			return nil, err
		}
	}

	e.interp = i
	return e, nil
}

// Evaluate runs line as an expression and captures its value. Cancelling ctx
// aborts a long-running evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, line string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.interp.EvalWithContext(ctx, line)
	if err != nil {
		return Result{}, err
	}
	if v.IsValid() && v.Kind() != reflect.Invalid && v.CanInterface() {
		val := v.Interface()
		if val != nil {
			e.ans = val
			return Result{Value: val, HasValue: true}, nil
		}
	}
	e.ans = nil
	return Result{}, nil
}

// EvaluateStatement runs line for its side effects only; the captured result
// is reset.
func (e *Evaluator) EvaluateStatement(ctx context.Context, line string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.interp.EvalWithContext(ctx, line)
	e.ans = nil
	return err
}

// Reset discards the captured result.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ans = nil
}

// Ans returns the last captured result, or nil.
func (e *Evaluator) Ans() any {
	// Callers inside the interpreter reach this through the ans() binding.
	return e.ans
}
