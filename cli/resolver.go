package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadSettings is a [kong.ConfigurationLoader] for the YAML settings file
// written by the init command. Keys are flag names; nested mappings are
// joined with hyphens, so both of these set --log-level:
//
//	log-level: debug
//	log:
//	  level: debug
//
// An empty or malformed file resolves nothing. Command-line flags override
// file values.
func loadSettings(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return settings{}, nil //nolint:nilerr
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return settings{}, nil //nolint:nilerr
	}

	out := settings{}
	out.flatten("", raw)

	return out, nil
}

// settings implements [kong.Resolver] over flattened settings.
type settings map[string]any

func (s settings) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		switch v := v.(type) {
		case map[string]any:
			s.flatten(key, v)
		case uint64, int64, float64:
			// Kong parses numbers from strings.
			s[key] = fmt.Sprint(v)
		default:
			s[key] = v
		}
	}
}

// Validate implements [kong.Resolver].
func (settings) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (s settings) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Flags use hyphens, but underscores read better in some files.
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if v, ok := s[name]; ok {
			return v, nil
		}
	}

	return nil, nil
}
