package processor

import (
	"context"
	"os"

	"github.com/ardnew/mung"

	"github.com/ardnew/typoscript/typoscript"
)

// NewPathList prepends the prefix option (one entry or a list) to a
// PATH-style list value, joined by the OS list separator. With existing
// set, only entries naming existing directories are kept.
func NewPathList(options typoscript.Node) (typoscript.Processor, error) {
	prefix := listOption(options, "prefix")
	existing := boolOption(options, "existing")

	keep := func(string) bool { return true }
	if existing {
		keep = isDir
	}

	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		return mung.Make(
			mung.WithSubjectItems(text(v)),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(prefix...),
			mung.WithFilter(keep),
		).String(), nil
	}), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
