package typoscript

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Platform identifies the host operating system and architecture.
type Platform struct {
	OS   string
	Arch string
}

//nolint:gochecknoglobals
var builtinHelpers = sync.OnceValue(func() map[string]any {
	return map[string]any{
		"platform": Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		"env":      os.Getenv,

		"String": map[string]any{
			"toUpperCase": strings.ToUpper,
			"toLowerCase": strings.ToLower,
			"trim":        strings.TrimSpace,
			"split":       strings.Split,
			"join":        strings.Join,
			"startsWith":  strings.HasPrefix,
			"endsWith":    strings.HasSuffix,
		},

		"path": map[string]any{
			"abs":  pathAbs,
			"base": filepath.Base,
			"cat":  filepath.Join,
			"dir":  filepath.Dir,
			"ext":  filepath.Ext,
		},

		// PATH-like lists, joined by the OS list separator.
		"mung": map[string]any{
			"prefix": mungPrefix,
		},
	}
})

// Helpers returns a copy of the helper bindings every expression sees
// beneath the current context.
func Helpers() map[string]any { return maps.Clone(builtinHelpers()) }

// HelperKeys returns the helper namespaces and, for a dotted prefix such as
// "String", the members below it. It returns nil for unknown prefixes.
func HelperKeys(prefix string) []string {
	var current any = builtinHelpers()

	if prefix != "" {
		for seg := range strings.SplitSeq(prefix, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			if current, ok = m[seg]; !ok {
				return nil
			}
		}
	}

	m, ok := current.(map[string]any)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func mungPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
