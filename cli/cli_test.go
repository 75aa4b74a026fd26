package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/typoscript/log"
)

func TestLoadSettings(t *testing.T) {
	src := `
log-level: debug
log:
  format: text
max_depth: 12
catch-runtime-exceptions: true
`

	r, err := loadSettings(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	s, ok := r.(settings)
	if !ok {
		t.Fatalf("loadSettings() = %T, want settings", r)
	}

	tests := map[string]any{
		"log-level":                "debug",
		"log-format":               "text",
		"max-depth":                "12",
		"catch-runtime-exceptions": true,
	}

	for name, want := range tests {
		got, err := s.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
		if err != nil || got != want {
			t.Errorf("Resolve(%q) = (%#v, %v), want %#v", name, got, err, want)
		}
	}

	if got, _ := s.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "absent"}}); got != nil {
		t.Errorf("Resolve(absent) = %#v, want nil", got)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	for _, src := range []string{"", "- a list", "a: [1,"} {
		r, err := loadSettings(strings.NewReader(src))
		if err != nil {
			t.Errorf("loadSettings(%q) error = %v", src, err)
		}

		if s, _ := r.(settings); len(s) != 0 {
			t.Errorf("loadSettings(%q) = %v, want empty", src, s)
		}
	}
}

func TestLogConfigScan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	var f logConfig

	f.scan([]string{"render", "--log-level", "debug", "--log-format=text", "--no-log-pretty", "--log-caller=true", "page"})

	if f.Level != "debug" || f.Format != "text" || f.Pretty || !f.Caller {
		t.Errorf("scan() = %+v", f)
	}

	f.scan([]string{"--log-pretty", "--no-log-caller=false"})

	if !f.Pretty || !f.Caller {
		t.Errorf("scan() booleans = %+v", f)
	}
}
