package processor

import (
	"context"
	"strings"

	"github.com/ardnew/typoscript/typoscript"
)

// NewTrim removes leading and trailing white space.
func NewTrim(typoscript.Node) (typoscript.Processor, error) {
	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		return strings.TrimSpace(text(v)), nil
	}), nil
}

// NewWrap surrounds the value with the prefix and suffix options.
func NewWrap(options typoscript.Node) (typoscript.Processor, error) {
	prefix := stringOption(options, "prefix", "")
	suffix := stringOption(options, "suffix", "")

	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		return prefix + text(v) + suffix, nil
	}), nil
}

// NewReplace replaces every occurrence of the search option with the
// replace option.
func NewReplace(options typoscript.Node) (typoscript.Processor, error) {
	search := stringOption(options, "search", "")
	if search == "" {
		return nil, invalidOption(ReplaceName, "search", options["search"])
	}

	replace := stringOption(options, "replace", "")

	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		return strings.ReplaceAll(text(v), search, replace), nil
	}), nil
}
