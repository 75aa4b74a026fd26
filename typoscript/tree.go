package typoscript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/typoscript/log"
)

// treeCache stores decoded trees keyed by the hash of their source.
// Cached trees are shared and read-only.
var treeCache sync.Map

// treeState tracks the one-time decoding of a source.
type treeState struct {
	once sync.Once
	tree Node
	err  error
}

type parseConfig struct {
	logger log.Logger
	name   string
	cache  bool
}

// ParseOption configures [ParseTree].
type ParseOption func(*parseConfig)

// WithParseLogger sets the logger for trace-level parse breadcrumbs.
func WithParseLogger(logger log.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

// WithSourceName names the source in errors and log records.
func WithSourceName(name string) ParseOption {
	return func(c *parseConfig) { c.name = name }
}

// WithCache controls whether decoded trees are cached by content hash.
// Caching is enabled by default.
func WithCache(enable bool) ParseOption {
	return func(c *parseConfig) { c.cache = enable }
}

// ParseTree reads a configuration tree in YAML or JSON from r.
//
// Mappings become [Node] values, sequences []any, and integers int where
// they fit. An empty document is an empty tree; any other top-level value
// that is not a mapping is an [ErrDecodeTree] error.
func ParseTree(ctx context.Context, r io.Reader, opts ...ParseOption) (Node, error) {
	cfg := parseConfig{name: "reader", cache: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	// Read-ahead prefetches the next chunks while the current one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", cfg.name))
	}

	cfg.logger.TraceContext(ctx, "read input",
		slog.String("source", cfg.name),
		slog.Int("source_bytes", len(data)),
	)

	if !cfg.cache {
		return decodeTree(data, cfg.name)
	}

	hash := xxh3.Hash(data)
	key := strconv.FormatUint(hash, 36)

	value, hit := treeCache.LoadOrStore(key, new(treeState))

	state, ok := value.(*treeState)
	if !ok {
		return nil, ErrDecodeTree.
			With(slog.String("issue", "invalid cache entry type"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	state.once.Do(func() {
		state.tree, state.err = decodeTree(data, cfg.name)
	})

	return state.tree, state.err
}

// ClearCache removes all cached trees.
func ClearCache() {
	treeCache.Range(func(key, _ any) bool {
		treeCache.Delete(key)

		return true
	})
}

func decodeTree(data []byte, name string) (Node, error) {
	var raw any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ErrDecodeTree.Wrap(err).
			With(slog.String("source", name))
	}

	if raw == nil {
		return Node{}, nil
	}

	tree, ok := normalize(raw).(Node)
	if !ok {
		return nil, ErrDecodeTree.With(
			slog.String("source", name),
			slog.String("issue", fmt.Sprintf("top-level value is %T, not a mapping", raw)),
		)
	}

	return tree, nil
}

// ParseValue decodes a single YAML or JSON value into the tree's value
// shapes. Plain words decode as strings.
func ParseValue(src string) (any, error) {
	var raw any

	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, ErrDecodeTree.Wrap(err).With(slog.String("value", src))
	}

	return normalize(raw), nil
}

// normalize converts decoded YAML values into the tree's value shapes.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		n := make(Node, len(v))
		for k, e := range v {
			n[k] = normalize(e)
		}

		return n

	case map[any]any:
		n := make(Node, len(v))
		for k, e := range v {
			n[fmt.Sprint(k)] = normalize(e)
		}

		return n

	case []any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = normalize(e)
		}

		return l

	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}

		return v

	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v)
		}

		return v

	default:
		return v
	}
}

// MergeTrees merges trees in order; later trees override earlier ones.
// The inputs are not modified.
func MergeTrees(trees ...Node) Node {
	out := Node{}

	for _, t := range trees {
		out = MergeNodes(out, t)
	}

	return out
}
