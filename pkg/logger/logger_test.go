package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetLevel("info")

	SetLevel("warn")
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorf("disk at %d%%", 100)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] disk at 100%") {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	defer SetLevel("info")
	SetLevel("debug")
	SetLevel("verbose")
	if GetLevel() != LevelDebug {
		t.Fatalf("level=%v want debug", GetLevel())
	}
}
