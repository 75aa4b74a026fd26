package cmd

import (
	"context"

	"github.com/ardnew/typoscript/cli/cmd/repl"
	"github.com/ardnew/typoscript/log"
	"github.com/ardnew/typoscript/pkg"
)

// Repl starts an interactive session rendering paths of the loaded tree.
type Repl struct{}

// Run executes the repl command.
func (Repl) Run(ctx context.Context) error {
	cacheDir := pkg.CacheDir()

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, LoadRuntime, cacheDir, log.Default())
}
