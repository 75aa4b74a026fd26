package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v\n%s", err, buf.String())
	}

	return rec
}

func TestMake_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("Level() = %v, want %v", logger.Level(), LevelInfo)
	}

	if logger.Format() != FormatJSON {
		t.Errorf("Format() = %v, want %v", logger.Format(), FormatJSON)
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{"warn at info", LevelInfo, func(l Logger) { l.Warn("m") }, true},
		{"info at error", LevelError, func(l Logger) { l.Info("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelTrace)).TraceContext(t.Context(), "breadcrumb")

	rec := decodeLine(t, &buf)
	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["msg"] != "breadcrumb" {
		t.Errorf("msg = %v, want breadcrumb", rec["msg"])
	}
}

func TestLogger_WithAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "runtime"))
	logger.Info("hello", slog.Int("depth", 3))

	rec := decodeLine(t, &buf)
	if rec["component"] != "runtime" {
		t.Errorf("component = %v, want runtime", rec["component"])
	}

	if rec["depth"] != float64(3) {
		t.Errorf("depth = %v, want 3", rec["depth"])
	}
}

func TestLogger_WithTimeLayoutNone(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("none")).Info("no time")

	rec := decodeLine(t, &buf)
	if _, ok := rec["time"]; ok {
		t.Errorf("time present with layout none: %v", rec)
	}
}

func TestLogger_WithCaller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true)).Info("where")

	rec := decodeLine(t, &buf)

	src, ok := rec["source"].(map[string]any)
	if !ok {
		t.Fatalf("source missing: %v", rec)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestDefault_WithCaller(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithCaller(true)))
	Warn("where")

	rec := decodeLine(t, &buf)

	src, ok := rec["source"].(map[string]any)
	if !ok {
		t.Fatalf("source missing: %v", rec)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatText))

	if base.Level() != LevelError {
		t.Errorf("base level changed to %v", base.Level())
	}

	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatText {
		t.Errorf(
			"wrapped = (%v, %v), want (debug, text)",
			wrapped.Level(),
			wrapped.Format(),
		)
	}

	wrapped.Debug("text line")

	if !strings.Contains(buf.String(), "msg=\"text line\"") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"),
	).With(slog.String("path", "page/body"))

	logger.WithGroup("eval").Warn("swallowed", slog.Int("depth", 2))

	out := buf.String()
	for _, want := range []string{"WARN", "swallowed", "path=", "page/body", "eval.depth=", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output %q missing %q", out, want)
		}
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Error("discarded")

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"verbose": DefaultLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		" Text": FormatText,
		"xml":   DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if !slices.Equal(levels, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", levels)
	}

	formats := slices.Collect(Formats())
	if !slices.Equal(formats, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", formats)
	}
}

func TestConfig_DefaultLogger(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	SetDefault(Make(&buf))
	Config(WithLevel(LevelTrace))

	TraceContext(t.Context(), "package level")

	rec := decodeLine(t, &buf)
	if rec["msg"] != "package level" {
		t.Errorf("msg = %v", rec["msg"])
	}
}
