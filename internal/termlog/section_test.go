package termlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestSectionWriterPlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSectionWriter(&out, &errOut, false)

	s.Section("Lint")
	s.Info("running %s", "mypy")
	s.Success("%d files clean", 3)
	s.Warn("tree is dirty")
	s.Error("mypy failed")
	s.Plain("Aborted.")

	got := out.String()
	for _, want := range []string{
		"── Lint ──",
		"▸ running mypy",
		"✓ 3 files clean",
		"⚠ tree is dirty",
		"Aborted.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q in:\n%s", want, got)
		}
	}
	if !strings.Contains(errOut.String(), "✗ mypy failed") {
		t.Errorf("stderr missing error line, got %q", errOut.String())
	}
}

func TestSectionWriterNoColorHasNoEscapes(t *testing.T) {
	var out bytes.Buffer
	s := NewSectionWriter(&out, &out, false)
	s.Info("hello")
	s.Error("bad")
	if strings.Contains(out.String(), "\033[") {
		t.Errorf("expected no ANSI escapes, got %q", out.String())
	}
}
