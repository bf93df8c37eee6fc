package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/dailyhabits/internal/constants"
)

func TestHelpersAreNoOpsBeforeInit(t *testing.T) {
	prev := Logger
	Logger = nil
	defer func() { Logger = prev }()

	// Must not panic
	Debug("debug")
	Info("info", "key", "value")
	Warn("warn")
	Error("error", "err", "boom")
}

func TestInitCreatesLogFile(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Config{LogDir: dir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Warn("habit store unreachable", "attempt", 1)

	data, err := os.ReadFile(filepath.Join(dir, constants.LogFileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "habit store unreachable") {
		t.Errorf("expected warning in log file, got %q", string(data))
	}
}

func TestSetOutputRespectsLevel(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel, false)

	Info("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn message in output: %q", out)
	}
}
