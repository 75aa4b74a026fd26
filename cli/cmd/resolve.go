package cmd

import (
	"context"

	"github.com/ardnew/typoscript/typoscript"
)

// Resolve prints the effective configuration of a path: the node merged
// over the prototypes of its type.
type Resolve struct {
	Path   string `arg:"" help:"TypoScript path to resolve" name:"path"`
	Format string `default:"yaml" enum:"native,yaml,json" help:"Output format." short:"o"`
	Indent int    `default:"2"                            help:"Indent width for structured output" short:"i"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := typoscript.ParseOutputFormat(r.Format)
	if err != nil {
		return err
	}

	rt, err := LoadRuntime(ctx)
	if err != nil {
		return err
	}

	cfg, err := rt.Resolve(r.Path)
	if err != nil {
		return err
	}

	return typoscript.FormatResult(ctx, outputFrom(ctx), cfg, format, r.Indent)
}
