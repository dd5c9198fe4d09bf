package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug, false)
	l.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("log output %q does not contain message", out)
	}
	if !strings.Contains(out, "value") {
		t.Errorf("log output %q does not contain attr value", out)
	}
	if !strings.Contains(out, "INFO:") {
		t.Errorf("log output %q does not contain level", out)
	}
}

func TestNewWithNilFileDiscardsButDoesNotPanic(t *testing.T) {
	l := New(nil, slog.LevelDebug, false)
	l.Info("no file configured")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, false)
	l.Info("should be filtered out")
	if buf.Len() != 0 {
		t.Errorf("buf = %q, want empty (Info below configured Warn level)", buf.String())
	}
	l.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("buf = %q, want it to contain the warn message", buf.String())
	}
}

func TestWithAttrsPropagatesOutAndDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug, false)
	child := l.With("req", "123")
	child.Info("scoped")
	if !strings.Contains(buf.String(), "123") {
		t.Errorf("buf = %q, want attr from With() to propagate to the file sink", buf.String())
	}
}
