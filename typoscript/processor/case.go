package processor

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/typoscript/typoscript"
)

// NewCase converts letter case. The mode option is upper, lower or title;
// language is an optional BCP 47 tag selecting language-specific rules.
func NewCase(options typoscript.Node) (typoscript.Processor, error) {
	tag := language.Und

	if lang := stringOption(options, "language", ""); lang != "" {
		t, err := language.Parse(lang)
		if err != nil {
			return nil, invalidOption(CaseName, "language", lang)
		}

		tag = t
	}

	var caser cases.Caser

	switch mode := stringOption(options, "mode", "lower"); mode {
	case "upper":
		caser = cases.Upper(tag)
	case "lower":
		caser = cases.Lower(tag)
	case "title":
		caser = cases.Title(tag)
	default:
		return nil, invalidOption(CaseName, "mode", mode)
	}

	return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
		// A Caser keeps state between calls.
		caser.Reset()

		return caser.String(text(v)), nil
	}), nil
}
