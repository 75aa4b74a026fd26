package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "typoscript"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this test.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestPrefix(t *testing.T) {
	p := Prefix()
	if p == "" {
		t.Fatal("Expected Prefix to be non-empty")
	}

	if strings.HasPrefix(p, ".") {
		t.Errorf("Expected Prefix without leading dot, got %q", p)
	}
}

func TestConfigAndCacheDir(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if !strings.HasSuffix(dir, Prefix()) {
			t.Errorf("%s dir %q does not end with prefix %q", name, dir, Prefix())
		}
	}
}
