package processor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ardnew/typoscript/typoscript"
)

// text converts a processed value to the string it renders as.
func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func stringOption(options typoscript.Node, key, fallback string) string {
	v, ok := options[key]
	if !ok || v == nil {
		return fallback
	}

	return text(v)
}

func intOption(options typoscript.Node, key string) (int, bool) {
	switch v := options[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		if v <= math.MaxInt {
			return int(v), true
		}
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}

	return 0, false
}

func boolOption(options typoscript.Node, key string) bool {
	b, _ := options[key].(bool)

	return b
}

// listOption accepts a single string or a list of strings.
func listOption(options typoscript.Node, key string) []string {
	switch v := options[key].(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, text(e))
		}

		return out
	case []string:
		return v
	default:
		return []string{text(v)}
	}
}

func invalidOption(processor, key string, value any) error {
	return typoscript.ErrInvalidValueType.With(
		slog.String("processor", processor),
		slog.String("option", key),
		slog.Any("value", value),
	)
}
