package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/typoscript/log"
	"github.com/ardnew/typoscript/typoscript"
)

// ErrOutOfBounds is returned for a history index with no entry.
var ErrOutOfBounds = errors.New("index out of range")

// Loader builds a fresh runtime from the configured sources.
type Loader func(ctx context.Context) (*typoscript.Runtime, error)

const (
	renderPrompt = "➜ "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  list [PATH]      List the children of PATH (default: top level)
  eval PATH        Evaluate PATH without trimming
  resolve PATH     Print the effective configuration of PATH
  expr SOURCE      Evaluate an expression against the current context
  push KEY=VALUE   Push a context frame binding KEY (VALUE parsed as YAML)
  pop              Pop the last pushed context frame
  context          Print the current context
  reload           Re-read the sources
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type a path (e.g. page/body) to render it
  Completions appear automatically as you type; "/" descends into a path
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between render and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeRender inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatCommand(input string) string {
	return promptStyle.Render(renderPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	load         Loader
	rt           *typoscript.Runtime
	ev           *typoscript.ExprEvaluator
	logger       log.Logger
	history      *History
	input        textinput.Model
	matches      fuzzy.Matches // current fuzzy match results
	historyIdx   int
	pushed       int // context frames pushed by the user
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	preTabText   string
	width        int
	mode         inputMode
	renderText   string
	renderCursor int
	ctrlText     string
	ctrlCursor   int
	tabActive    bool
	quitting     bool
}

// Run loads a runtime and starts the REPL.
func Run(
	ctx context.Context,
	load Loader,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	rt, err := load(ctx)
	if err != nil {
		return err
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, load, rt, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	load Loader,
	rt *typoscript.Runtime,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(renderPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		load:       load,
		rt:         rt,
		ev:         typoscript.NewExprEvaluator(),
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeRender,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(renderPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a path to render or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, list, eval, resolve, expr, push, pop, context, reload, clear, quit"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.mode == modeRender:
		b.WriteString(hintStyle.Render(typeHint(m.rt, input)))
	}

	b.WriteString("\n")

	return b.String()
}

// typeHint names the object type path resolves to, if any.
func typeHint(rt *typoscript.Runtime, path string) string {
	cfg, err := rt.Resolve(strings.TrimSpace(path))
	if err != nil {
		return err.Error()
	}

	if typ, ok := cfg.ObjectType(); ok {
		return typ
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeRender {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeRender), nil
	}

	var cmd tea.Cmd

	// Typing confirms a tab candidate; other keys edit freely.
	typing := msg.Type == tea.KeyRunes
	if !typing || msg.String() == " " {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, typing)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	case step > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = len(m.matches) - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true and the typed word already equals the only
// candidate, the completion is confirmed.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = computeMatches(
		m.rt, m.mode, m.input.Value(), m.input.Position(),
	)

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.renderText, m.renderCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if _, err := m.history.WriteWithMode(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl render", slog.String("path", input))

	out, err := m.rt.Render(m.ctxFunc(), input)

	return m, tea.Sequence(tea.Println(formatCommand(input)), printResult(out, err))
}

// printResult prints a rendered value or the error that replaced it.
func printResult(v any, err error) tea.Cmd {
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	return tea.Println(resultStyle.Render(formatValue(v)))
}

func formatValue(v any) string {
	var b strings.Builder

	if err := typoscript.FormatResult(context.Background(), &b, v, typoscript.FormatNative, 0); err != nil {
		return err.Error()
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	ctx := m.ctxFunc()
	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(ctx, "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	var out tea.Cmd

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		out = tea.Println(helpMessage())

	case "l", "list":
		out = tea.Println(listChildren(m.rt, arg))

	case "e", "eval":
		v, ok, err := m.rt.Evaluate(ctx, arg)
		if err == nil && !ok {
			err = typoscript.ErrNotRenderable.With(slog.String("path", arg))
		}

		out = printResult(v, err)

	case "r", "resolve":
		cfg, err := m.rt.Resolve(arg)
		out = printResult(yamlString(ctx, cfg), err)

	case "x", "expr":
		env := typoscript.Helpers()
		maps.Copy(env, m.rt.CurrentContext())

		v, err := m.ev.Evaluate(ctx, arg, env)
		out = printResult(v, err)

	case "push":
		key, src, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			out = printResult(nil, errors.New("usage: push KEY=VALUE"))

			break
		}

		v, err := typoscript.ParseValue(src)
		if err == nil {
			m.rt.PushContext(strings.TrimSpace(key), v)
			m.pushed++
		}

		out = printResult(strings.Join(m.rt.CurrentContext().Keys(), ", "), err)

	case "pop":
		if m.pushed == 0 {
			out = printResult(nil, errors.New("no pushed context"))

			break
		}

		m.rt.PopContext()
		m.pushed--
		out = printResult(strings.Join(m.rt.CurrentContext().Keys(), ", "), nil)

	case "context":
		out = printResult(yamlString(ctx, m.rt.CurrentContext()), nil)

	case "reload":
		rt, err := m.load(ctx)
		if err == nil {
			m.rt, m.pushed = rt, 0
		}

		out = printResult("reloaded", err)

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}

	return m, tea.Sequence(echo, out)
}

func yamlString(ctx context.Context, v any) string {
	var b strings.Builder

	if err := typoscript.FormatResult(ctx, &b, v, typoscript.FormatYAML, 2); err != nil {
		return err.Error()
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// listChildren lists the children of path with their object types.
func listChildren(rt *typoscript.Runtime, path string) string {
	var b strings.Builder

	for _, name := range childCandidates(rt, path) {
		child := name
		if path != "" {
			child = typoscript.JoinPath(path, name)
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(typeHint(rt, child)))
	}

	return b.String()
}

// historyStep moves through history by step. Within mode, only entries of
// the current mode are visited; otherwise the mode follows the entry.
func (m model) historyStep(step int, withinMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || withinMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	// Stepping past the newest entry clears the input.
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, preserving each mode's input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeRender {
		m.renderText, m.renderCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeRender {
		m.input.Prompt = promptStyle.Render(renderPrompt)
		m.input.SetValue(m.renderText)
		m.input.SetCursor(m.renderCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
