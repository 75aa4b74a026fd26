package typoscript

import (
	"log/slog"
	"regexp"
	"strings"
)

// PathSeparator separates the segments of a path.
const PathSeparator = "/"

// segmentPattern splits a segment into its name and optional <Type>.
var segmentPattern = regexp.MustCompile(`^([^<]*)(?:<([^<>]+)>)?$`)

// Segment is one element of a [Path].
type Segment struct {
	Name string
	Type string // explicit type annotation; empty if none
}

func (s Segment) String() string {
	if s.Type == "" {
		return s.Name
	}

	return s.Name + "<" + s.Type + ">"
}

// Path addresses a node of the configuration tree, for example
// "page/body<Template>/content". It always has at least one segment.
type Path []Segment

// ParsePath parses a slash-delimited path. A segment that is not a name
// optionally followed by a non-empty <Type> annotation is an
// [ErrPathMalformed] error.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, PathSeparator)
	path := make(Path, 0, len(parts))

	for _, part := range parts {
		m := segmentPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, ErrPathMalformed.With(
				slog.String("path", s),
				slog.String("segment", part),
			)
		}

		path = append(path, Segment{Name: m[1], Type: m[2]})
	}

	return path, nil
}

func (p Path) String() string {
	var b strings.Builder

	for i, seg := range p {
		if i > 0 {
			b.WriteString(PathSeparator)
		}

		b.WriteString(seg.String())
	}

	return b.String()
}

// Typed reports whether the terminal segment carries a type annotation.
func (p Path) Typed() bool { return len(p) > 0 && p[len(p)-1].Type != "" }

// WithType returns p with objectType annotated on its terminal segment,
// unless that segment is already annotated. The receiver is not modified.
func (p Path) WithType(objectType string) Path {
	if len(p) == 0 || p.Typed() || objectType == "" {
		return p
	}

	q := make(Path, len(p))
	copy(q, p)
	q[len(q)-1].Type = objectType

	return q
}

// Child returns a new path extending p with one untyped segment.
func (p Path) Child(name string) Path {
	q := make(Path, len(p), len(p)+1)
	copy(q, p)

	return append(q, Segment{Name: name})
}

// JoinPath appends name segments to a path string.
func JoinPath(path string, name ...string) string {
	return strings.Join(append([]string{path}, name...), PathSeparator)
}
