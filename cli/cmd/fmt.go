package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/typoscript/typoscript"
)

// Fmt prints the merged configuration tree of all sources.
type Fmt struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format." short:"o"`
	Indent int    `default:"2"                     help:"Indent width"  short:"i"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := typoscript.ParseOutputFormat(f.Format)
	if err != nil {
		return err
	}

	tree, err := loadTree(ctx)
	if err != nil {
		return typoscript.WrapError(err).With(slog.String("command", "fmt"))
	}

	return typoscript.FormatResult(ctx, outputFrom(ctx), tree, format, f.Indent)
}
