package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	output := buf.String()
	if !strings.Contains(output, "level=DEBUG") {
		t.Errorf("expected debug level, got %q", output)
	}
	if !strings.Contains(output, `msg="test message arg"`) {
		t.Errorf("unexpected output: %q", output)
	}
	if strings.Contains(output, "time=") {
		t.Errorf("expected no timestamp, got %q", output)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")
	Section("Heading")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingest")

	if !strings.Contains(buf.String(), "=== Ingest ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWarn_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("backend %s failed", "gemini/embedding-001")

	output := buf.String()
	if !strings.Contains(output, "level=WARN") {
		t.Errorf("expected warn level, got %q", output)
	}
	if !strings.Contains(output, "backend gemini/embedding-001 failed") {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestError_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("boom")

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSlog_UsesCurrentOutput(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Slog().Warn("structured", "key", "value")

	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
