package server

import (
	"testing"
	"time"
)

// TestRateWindowAllowsUpToLimit verifies that attempts within the limit pass
// and the attempt after the limit is rejected.
func TestRateWindowAllowsUpToLimit(t *testing.T) {
	rw := newRateWindow(3, time.Second)

	for i := 0; i < 3; i++ {
		if !rw.allow() {
			t.Fatalf("attempt %d rejected, want allowed", i+1)
		}
	}
	if rw.allow() {
		t.Error("attempt over the limit was allowed")
	}
}

// TestRateWindowRecoversAfterWindow verifies that once the window fully
// elapses the next attempt is allowed again.
func TestRateWindowRecoversAfterWindow(t *testing.T) {
	rw := newRateWindow(2, 100*time.Millisecond)

	rw.allow()
	rw.allow()
	if rw.allow() {
		t.Fatal("third attempt within window was allowed")
	}

	time.Sleep(150 * time.Millisecond)

	if !rw.allow() {
		t.Error("attempt after window elapsed was rejected")
	}
}

// TestRateWindowClampsInvalidParameters verifies that non-positive limits and
// windows fall back to usable values instead of rejecting everything.
func TestRateWindowClampsInvalidParameters(t *testing.T) {
	rw := newRateWindow(0, 0)

	if !rw.allow() {
		t.Error("first attempt rejected with clamped parameters")
	}
}
