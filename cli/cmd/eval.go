package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/typoscript/typoscript"
)

// Eval evaluates a path and prints its value. Unlike render, string output
// is neither trimmed nor annotated, and a path that cannot be rendered is
// reported instead of failing the runtime.
type Eval struct {
	Path   string `arg:"" help:"TypoScript path to evaluate" name:"path"`
	Format string `default:"native" enum:"native,yaml,json" help:"Output format." short:"o"`
	Indent int    `default:"2"                              help:"Indent width for structured output" short:"i"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := typoscript.ParseOutputFormat(e.Format)
	if err != nil {
		return err
	}

	rt, err := LoadRuntime(ctx)
	if err != nil {
		return err
	}

	value, ok, err := rt.Evaluate(ctx, e.Path)
	if err != nil {
		return typoscript.WrapError(err).
			With(slog.String("command", "eval"), slog.String("path", e.Path))
	}

	if !ok {
		return ErrNoResult.With(slog.String("path", e.Path))
	}

	return typoscript.FormatResult(ctx, outputFrom(ctx), value, format, e.Indent)
}
