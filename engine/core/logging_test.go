package core

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogErrorKeepsPercentInPaths(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	LogError("%s", NewLoadError("/tmp/100%done/arm.skel", 2, "bad bone"))

	out := buf.String()
	if !strings.Contains(out, "/tmp/100%done/arm.skel") {
		t.Errorf("expected the path to be logged verbatim, got %q", out)
	}
	if strings.Contains(out, "MISSING") || strings.Contains(out, "%!") {
		t.Errorf("expected no formatting verbs in %q", out)
	}
}
