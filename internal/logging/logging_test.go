package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetupLevels(t *testing.T) {
	defer Setup(os.Stderr, false)

	var buf bytes.Buffer
	Setup(&buf, false)
	Log.Debug("hidden")
	WithFile("a.erd.json").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug suppressed, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "file=a.erd.json") {
		t.Errorf("Expected tagged warning, got %q", out)
	}

	buf.Reset()
	Setup(&buf, true)
	Log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected debug output when verbose, got %q", buf.String())
	}
}
