package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}

	writes := []struct {
		line string
		mode inputMode
	}{
		{"page", modeRender},
		{"list", modeCtrl},
		{"footer", modeRender},
		{"footer", modeRender},
		{"page", modeRender},
		{"  ", modeRender},
		{"page", modeCtrl},
	}

	for _, w := range writes {
		if _, err := h.WriteWithMode(w.line, w.mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", w.line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"footer", modeRender},
		{"page", modeRender},
		{"page", modeCtrl},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:list\nR:footer\nR:page\nC:page\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}

	if _, err := h.GetEntry(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry() error = %v, want ErrOutOfBounds", err)
	}

	if e, err := h.GetEntry(0); err != nil || e.Line != "list" {
		t.Errorf("GetEntry(0) = (%v, %v)", e, err)
	}
}

func TestParseEntry(t *testing.T) {
	for line, want := range map[string]HistoryEntry{
		"R:page":   {"page", modeRender},
		"C:quit":   {"quit", modeCtrl},
		"untagged": {"untagged", modeRender},
	} {
		if got := parseEntry(line); got != want {
			t.Errorf("parseEntry(%q) = %v, want %v", line, got, want)
		}
	}
}
