package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/typoscript/log"
	"github.com/ardnew/typoscript/typoscript"
)

// Render renders a path and prints its output.
type Render struct {
	Path string `arg:"" help:"TypoScript path to render, e.g. page/body<Text>" name:"path"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rt, err := LoadRuntime(ctx)
	if err != nil {
		return err
	}

	out, err := rt.Render(ctx, r.Path)
	if err != nil {
		return typoscript.WrapError(err).With(slog.String("command", "render"))
	}

	log.DebugContext(ctx, "rendered", slog.String("path", r.Path))

	return typoscript.FormatResult(ctx, outputFrom(ctx), out, typoscript.FormatNative, 0)
}
