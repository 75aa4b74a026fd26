package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/typoscript/typoscript"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"clear", "context", "eval", "expr", "help", "list",
	"pop", "push", "quit", "reload", "resolve",
}

// pathCommands take a TypoScript path argument; the rest take expressions.
var pathCommands = []string{"eval", "list", "resolve"}

// grammar describes how the word under the cursor is delimited. The first
// rune of chain separates parents; all of chain may appear inside one.
type grammar struct {
	boundary func(rune) bool
	chain    string
}

var (
	pathGrammar = grammar{boundary: isPathBoundary, chain: "/<>"}
	exprGrammar = grammar{boundary: isExprBoundary, chain: "."}
)

// isPathBoundary delimits path segments. Type annotations are boundaries so
// "page<Text>/bo" completes "bo".
func isPathBoundary(r rune) bool {
	switch r {
	case '/', ' ', '\t', '<', '>':
		return true
	}

	return false
}

// isExprBoundary delimits identifiers in expressions. Hyphens are not
// boundaries.
func isExprBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func (g grammar) wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if g.boundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if g.boundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the separator-joined chain leading up to the word at
// wordStart. For the path "page/body/ti" with the word "ti", the parent is
// "page/body". Returns "" for top-level words.
func (g grammar) parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], g.chain[:1])
	if prefix == "" || len(prefix) == wordStart {
		return ""
	}

	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if g.boundary(r) && !strings.ContainsRune(g.chain, r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// pathChildren returns the property names below parent, or the top-level
// names of the tree when parent is empty.
func pathChildren(rt *typoscript.Runtime, parent string) []string {
	cfg := rt.Tree()

	if parent != "" {
		var err error
		if cfg, err = rt.Resolve(parent); err != nil {
			return nil
		}
	}

	var names []string

	for name := range cfg.Properties() {
		names = append(names, name)
	}

	slices.SortFunc(names, typoscript.CompareKeys)

	return names
}

// childCandidates is the path completion set used by list.
func childCandidates(rt *typoscript.Runtime, parent string) []string {
	return pathChildren(rt, parent)
}

// exprChildren returns the identifiers visible to an expression below
// parent: context variables, helper namespaces and builtin functions.
func exprChildren(rt *typoscript.Runtime, parent string) []string {
	if parent != "" {
		return typoscript.HelperKeys(parent)
	}

	names := rt.CurrentContext().Keys()
	names = append(names, typoscript.HelperKeys("")...)

	for name := range builtin.Index {
		names = append(names, name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy matches for the word at cursor, ranked
// best-first, and the word boundaries. An empty word only lists candidates
// after a separator, so the hint line stays visible on a fresh prompt.
func computeMatches(
	rt *typoscript.Runtime,
	mode inputMode,
	input string,
	cursor int,
) (matches fuzzy.Matches, wordStart, wordEnd int) {
	g, offset, candidates := pathGrammar, 0, func(p string) []string {
		return pathChildren(rt, p)
	}

	if mode == modeCtrl {
		name, _, hasArg := strings.Cut(input, " ")

		switch {
		case !hasArg || cursor <= len(name):
			word, start, end := exprGrammar.wordBounds(input, cursor)
			if word == "" {
				return nil, start, end
			}

			return fuzzy.Find(word, ctrlCommands), start, end

		case !slices.Contains(pathCommands, name):
			g = exprGrammar
			candidates = func(p string) []string { return exprChildren(rt, p) }
		}

		offset = len(name) + 1
	}

	arg := input[offset:]
	word, start, end := g.wordBounds(arg, cursor-offset)
	parent := g.parentPath(arg, start)
	names := candidates(parent)

	wordStart, wordEnd = start+offset, end+offset

	if len(names) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(names))
		for i, name := range names {
			matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, names), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Builtin functions get a "()" suffix for display only.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if _, ok := builtin.Index[match.Str]; ok {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
