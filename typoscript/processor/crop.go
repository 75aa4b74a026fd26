package processor

import (
	"context"
	"unicode/utf8"

	"github.com/ardnew/typoscript/typoscript"
)

// Crop positions.
const (
	CropEnd   = "end"
	CropStart = "start"
)

// NewCrop shortens values longer than maximumCharacters runes.
//
// With position end (the default) the value keeps its first runes and
// preOrSuffixString is appended. With position start it keeps its last
// runes and preOrSuffixString is prepended.
func NewCrop(options typoscript.Node) (typoscript.Processor, error) {
	limit, ok := intOption(options, "maximumCharacters")
	if !ok || limit < 0 {
		return nil, invalidOption(CropName, "maximumCharacters", options["maximumCharacters"])
	}

	affix := stringOption(options, "preOrSuffixString", "")

	position := stringOption(options, "position", CropEnd)
	if position != CropEnd && position != CropStart {
		return nil, invalidOption(CropName, "position", position)
	}

	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		s := text(v)
		if utf8.RuneCountInString(s) <= limit {
			return s, nil
		}

		runes := []rune(s)
		if position == CropStart {
			return affix + string(runes[len(runes)-limit:]), nil
		}

		return string(runes[:limit]) + affix, nil
	}), nil
}
