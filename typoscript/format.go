package typoscript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how [FormatResult] writes a value.
type OutputFormat string

const (
	// FormatNative writes strings verbatim, scalars in their literal form,
	// and mappings or lists as flow-style YAML.
	FormatNative OutputFormat = "native"
	FormatYAML   OutputFormat = "yaml"
	FormatJSON   OutputFormat = "json"
)

// OutputFormats lists the supported output formats.
var OutputFormats = []OutputFormat{FormatNative, FormatYAML, FormatJSON}

// ParseOutputFormat parses the name of an output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))

	switch f {
	case FormatNative, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatNative, nil
	default:
		return "", ErrInvalidValueType.With(
			slog.String("format", s),
		)
	}
}

// FormatResult writes value to w in format, followed by a newline. A
// positive indent selects block style for YAML and indented JSON.
func FormatResult(
	ctx context.Context,
	w io.Writer,
	value any,
	format OutputFormat,
	indent int,
) error {
	switch format {
	case FormatJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(value, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(value)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatYAML:
		data, err := marshalYAML(ctx, value, indent)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		s, err := formatNative(ctx, value)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, s)

		return err
	}
}

func marshalYAML(ctx context.Context, value any, indent int) ([]byte, error) {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	return yaml.MarshalContext(ctx, value, opts...)
}

func formatNative(ctx context.Context, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	data, err := marshalYAML(ctx, value, 0)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
