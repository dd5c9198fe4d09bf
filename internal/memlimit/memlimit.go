/*
 * teco - Background resident-set-size sampler
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package memlimit runs the one optional background actor the engine
// has: a goroutine that samples the process's resident-set size every
// few milliseconds into an atomic integer, so the parser's per-step
// memory check costs nothing more than an atomic load. Started lazily
// when a byte limit is configured, stopped when it is lifted.
package memlimit

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Sampler owns the background goroutine and the last sampled RSS, in
// bytes. A zero Sampler is safe to use; Start/Stop are idempotent.
type Sampler struct {
	rss    atomic.Int64
	stop   chan struct{}
	ticker *time.Ticker
}

// Start begins sampling at the given interval. Calling Start while
// already running is a no-op.
func (s *Sampler) Start(interval time.Duration) {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.ticker = time.NewTicker(interval)
	go s.run()
}

func (s *Sampler) run() {
	for {
		select {
		case <-s.stop:
			return
		case <-s.ticker.C:
			if n, ok := readRSS(); ok {
				s.rss.Store(n)
			}
		}
	}
}

// Stop halts sampling. Calling Stop on a Sampler that was never
// started, or stopping twice, is a no-op.
func (s *Sampler) Stop() {
	if s.stop == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.stop = nil
}

// RSS returns the most recently sampled resident-set size in bytes, or
// 0 if sampling has never run or the last read failed.
func (s *Sampler) RSS() int64 { return s.rss.Load() }

// readRSS parses VmRSS out of /proc/self/status. Non-Linux platforms,
// or any read failure, report ok == false; callers treat that as "no
// usable sample" rather than an error, since the limiter degrades to
// the undo log's own byte counter in that case.
func readRSS() (int64, bool) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}
