package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/typoscript/cli/cmd"
	"github.com/ardnew/typoscript/pkg"
	"github.com/ardnew/typoscript/typoscript"
)

// settingsFile is the base name of the YAML settings file.
const settingsFile = "config.yaml"

// CLI is the top-level command-line interface for typoscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string          `help:"Configuration tree file(s), merged in order, or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	Context  map[string]string `help:"Root context variable (value parsed as YAML)"                  mapsep:"none" placeholder:"KEY=VALUE" short:"c"`
	MaxDepth int               `default:"${maxDepth}"                                                help:"Maximum nested evaluation depth"`
	Catch    bool              `help:"Render errors as inline comments instead of failing"          name:"catch-runtime-exceptions"`
	Debug    bool              `help:"Wrap rendered output in comments naming the path"`
	Version  kong.VersionFlag  `help:"Print version and exit"`

	Init    cmd.Init    `cmd:"" help:"Initialize settings file"`
	Fmt     cmd.Fmt     `cmd:"" help:"Print the merged configuration tree"`
	Resolve cmd.Resolve `cmd:"" help:"Print the effective configuration of a path"`
	Eval    cmd.Eval    `cmd:"" help:"Evaluate a path"`
	Repl    cmd.Repl    `cmd:"" help:"Render paths interactively"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a path"`
}

// Run executes the typoscript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(settingsFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(typoscript.DefaultMaxDepth),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadSettings, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cmd.Settings{
		Sources:  cli.Source,
		Context:  cli.Context,
		MaxDepth: cli.MaxDepth,
		Catch:    cli.Catch,
		Debug:    cli.Debug,
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
