package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, closer, err := New(Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info().Msg("hidden")
	l.Warn().Str("stage", "scale").Msg("degenerate column")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(out, `"stage":"scale"`) || !strings.Contains(out, "degenerate column") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
