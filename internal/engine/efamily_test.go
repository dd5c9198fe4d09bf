package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tecoengine/teco/internal/errs"
)

func TestRunExternalReplacesRange(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello\x1bHECtr a-z A-Z\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "HELLO" {
		t.Errorf("buffer = %q, want HELLO", got)
	}
}

func TestRunExternalToRegisterLeavesBufferAlone(t *testing.T) {
	e := New(nil)
	if err := e.Run(context.Background(), "Ihello\x1bHEGatr a-z A-Z\x1bQa="); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "hello" {
		t.Errorf("buffer = %q, want hello (EG must not touch the buffer)", got)
	}
}

func TestLoadMacroFileExecutesContents(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "greet.tec")
	if err := os.WriteFile(path, []byte("Iloaded\x1b"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := e.Run(context.Background(), "EM"+path+"\x1b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bufferText(t, e); got != "loaded" {
		t.Errorf("buffer = %q, want loaded", got)
	}
}

func TestUnrecognizedECommandIsSyntax(t *testing.T) {
	e := New(nil)
	err := e.Run(context.Background(), "EZ")
	if !errs.Is(err, errs.SYNTAX) {
		t.Errorf("Run(EZ) error = %v, want SYNTAX", err)
	}
}
