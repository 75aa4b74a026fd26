package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/typoscript/log"
	"github.com/ardnew/typoscript/typoscript"
	"github.com/ardnew/typoscript/typoscript/object"
	"github.com/ardnew/typoscript/typoscript/processor"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Settings are the global flags that shape every runtime.
type Settings struct {
	Sources  []string
	Context  map[string]string
	MaxDepth int
	Catch    bool
	Debug    bool
}

type (
	settingsKey struct{}
	outputKey   struct{}
)

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// WithOutput returns a new context.Context whose commands write results to w
// instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened configuration source.
type source struct {
	name string
	io.ReadCloser
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens every path once, in order. All occurrences of "-" are
// replaced with a single stdin source placed last.
func openSources(paths []string) ([]source, error) {
	srcs := make([]source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		src, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeSources(srcs)

			return nil, ErrOpenSource.Wrap(err).With(slog.String("file", path))
		}

		if ok {
			srcs = append(srcs, src)
		}
	}

	// Stdin may have been included via "-" or as a named file.
	if _, ok := seen[stdinKey]; ok {
		srcs = append(srcs, source{name: "stdin", ReadCloser: io.NopCloser(os.Stdin)})
	}

	return srcs, nil
}

// openUniqueFile opens the file at path unless it was seen before.
func openUniqueFile(path string, seen map[fileKey]struct{}) (source, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return source{}, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return source{}, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return source{}, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return source{}, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return source{}, false, err
	}

	return source{name: path, ReadCloser: file}, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// loadTree parses and merges the configured sources.
func loadTree(ctx context.Context) (typoscript.Node, error) {
	paths := settingsFrom(ctx).Sources
	if len(paths) == 0 {
		return nil, ErrNoSource
	}

	srcs, err := openSources(paths)
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	trees := make([]typoscript.Node, 0, len(srcs))

	for _, src := range srcs {
		tree, err := typoscript.ParseTree(ctx, src,
			typoscript.WithSourceName(src.name),
			typoscript.WithParseLogger(log.Default()),
		)
		if err != nil {
			return nil, err
		}

		trees = append(trees, tree)
	}

	return typoscript.MergeTrees(trees...), nil
}

// LoadRuntime loads the tree and returns a runtime over it configured by the
// global settings.
func LoadRuntime(ctx context.Context) (*typoscript.Runtime, error) {
	tree, err := loadTree(ctx)
	if err != nil {
		return nil, err
	}

	return NewRuntime(ctx, tree)
}

// NewRuntime returns a runtime over tree with the built-in objects and
// processors registered, configured by the settings stored in ctx.
func NewRuntime(ctx context.Context, tree typoscript.Node) (*typoscript.Runtime, error) {
	s := settingsFrom(ctx)

	frame, err := contextFrame(s.Context)
	if err != nil {
		return nil, err
	}

	reg := typoscript.NewRegistry()
	if err := object.Register(reg); err != nil {
		return nil, err
	}

	procs := typoscript.NewProcessors()
	if err := processor.Register(procs); err != nil {
		return nil, err
	}

	return typoscript.NewRuntime(tree,
		typoscript.WithRegistry(reg),
		typoscript.WithProcessors(procs),
		typoscript.WithLogger(log.Default()),
		typoscript.WithCatchRuntimeExceptions(s.Catch),
		typoscript.WithDebug(s.Debug),
		typoscript.WithMaxDepth(s.MaxDepth),
		typoscript.WithContext(frame),
	), nil
}

// contextFrame decodes each --context value as YAML, so numbers, booleans,
// lists and maps keep their type. Plain words stay strings.
func contextFrame(vars map[string]string) (typoscript.Frame, error) {
	frame := make(typoscript.Frame, len(vars))

	for key, src := range vars {
		v, err := typoscript.ParseValue(src)
		if err != nil {
			return nil, ErrContextValue.Wrap(err).With(slog.String("key", key))
		}

		frame[key] = v
	}

	return frame, nil
}
