package typoscript

import (
	"context"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// Evaluator evaluates expression source against a set of bindings. It must
// not retain or modify env.
type Evaluator interface {
	Evaluate(ctx context.Context, source string, env map[string]any) (any, error)
}

// ExprEvaluator evaluates expr-lang expressions. Compiled programs are
// cached by source hash and shared by all evaluations.
type ExprEvaluator struct {
	programs sync.Map // uint64 -> *vm.Program
}

// NewExprEvaluator returns an [ExprEvaluator] with an empty program cache.
func NewExprEvaluator() *ExprEvaluator { return &ExprEvaluator{} }

// Evaluate implements [Evaluator].
func (e *ExprEvaluator) Evaluate(
	_ context.Context,
	source string,
	env map[string]any,
) (any, error) {
	program, err := e.compile(source)
	if err != nil {
		return nil, err
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return result, nil
}

func (e *ExprEvaluator) compile(source string) (*vm.Program, error) {
	key := xxh3.HashString(source)

	if cached, ok := e.programs.Load(key); ok {
		if program, ok := cached.(*vm.Program); ok {
			return program, nil
		}
	}

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	if actual, loaded := e.programs.LoadOrStore(key, program); loaded {
		if shared, ok := actual.(*vm.Program); ok {
			return shared, nil
		}
	}

	return program, nil
}
