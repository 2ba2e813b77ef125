package kernel

import (
	"testing"
	"time"
)

func TestTimerPollSignalsAfterInitialDelay(t *testing.T) {
	tm := NewTimer(ResetOneShot, "t")
	now := time.Now()
	tm.Set(int64(10*time.Millisecond), 0)

	if tm.Poll(now) {
		t.Fatal("Poll signaled before the initial deadline elapsed")
	}
	if !tm.Poll(now.Add(11 * time.Millisecond)) {
		t.Fatal("Poll did not signal once the initial deadline elapsed")
	}
	if !tm.signaled {
		t.Fatal("timer not marked signaled after Poll returned true")
	}
	if tm.armed {
		t.Fatal("one-shot timer should disarm once fired")
	}
}

func TestTimerPeriodicRearms(t *testing.T) {
	tm := NewTimer(ResetPulse, "t")
	now := time.Now()
	tm.Set(int64(10*time.Millisecond), int64(5*time.Millisecond))

	if !tm.Poll(now.Add(11 * time.Millisecond)) {
		t.Fatal("Poll did not signal on first deadline")
	}
	if !tm.armed {
		t.Fatal("periodic timer should stay armed after firing")
	}
	tm.Clear()
	if tm.Poll(now.Add(12 * time.Millisecond)) {
		t.Fatal("Poll signaled again before the next interval elapsed")
	}
	if !tm.Poll(now.Add(17 * time.Millisecond)) {
		t.Fatal("Poll did not re-signal once the interval elapsed")
	}
}

func TestTimerOneShotAcquireClearsSignal(t *testing.T) {
	tm := NewTimer(ResetOneShot, "t")
	tm.Set(0, 0)
	tm.Poll(time.Now().Add(time.Millisecond))
	if !tm.signaled {
		t.Fatal("expected timer to be signaled before Acquire")
	}
	tm.Acquire(nil)
	if tm.signaled {
		t.Fatal("Acquire on a one-shot timer should clear the signal")
	}
}

func TestTimerCancelDisarms(t *testing.T) {
	tm := NewTimer(ResetOneShot, "t")
	tm.Set(int64(time.Millisecond), 0)
	tm.Cancel()
	if tm.Poll(time.Now().Add(time.Second)) {
		t.Fatal("Poll fired a canceled timer")
	}
}
