package memlimit

import (
	"testing"
	"time"
)

func TestStartStopIdempotent(t *testing.T) {
	var s Sampler
	s.Start(10 * time.Millisecond)
	s.Start(10 * time.Millisecond) // no-op, must not panic or replace the ticker
	s.Stop()
	s.Stop() // no-op
}

func TestRSSZeroBeforeStart(t *testing.T) {
	var s Sampler
	if s.RSS() != 0 {
		t.Errorf("RSS() before Start = %d, want 0", s.RSS())
	}
}

func TestSamplerProducesAReading(t *testing.T) {
	var s Sampler
	s.Start(5 * time.Millisecond)
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if s.RSS() > 0 {
			return
		}
		select {
		case <-deadline:
			t.Skip("no /proc/self/status VmRSS available on this platform; readRSS degrades to ok=false")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestReadRSSOnLinuxProc(t *testing.T) {
	n, ok := readRSS()
	if !ok {
		t.Skip("no /proc/self/status on this platform")
	}
	if n <= 0 {
		t.Errorf("readRSS() = %d, want > 0", n)
	}
}
