package main

import (
	"context"
	"testing"

	"github.com/tecoengine/teco/internal/engine"
)

func TestRunAndReportSuccess(t *testing.T) {
	e := engine.New(nil)
	if err := runAndReport(context.Background(), e, "Ihello\x1b"); err != nil {
		t.Fatalf("runAndReport: %v", err)
	}
}

func TestRunAndReportTreatsQuitAsClean(t *testing.T) {
	e := engine.New(nil)
	if err := runAndReport(context.Background(), e, "^C^C"); err != nil {
		t.Errorf("runAndReport(^C^C) = %v, want nil (QUIT is a clean exit)", err)
	}
}

func TestRunAndReportSurfacesOtherErrors(t *testing.T) {
	e := engine.New(nil)
	if err := runAndReport(context.Background(), e, "~"); err == nil {
		t.Errorf("runAndReport(~) = nil, want a surfaced SYNTAX error")
	}
}
