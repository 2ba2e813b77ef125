package kernel

import "time"

// Timer is a WaitObject that becomes signaled after an initial delay and,
// if interval is nonzero, re-signals periodically thereafter.
type Timer struct {
	baseObject
	waiterList

	reset    ResetType
	signaled bool

	initial  time.Duration
	interval time.Duration
	deadline time.Time
	armed    bool
}

// NewTimer constructs an unset Timer.
func NewTimer(reset ResetType, name string) *Timer {
	return &Timer{baseObject: newBaseObject(KindTimer, name), reset: reset}
}

func (t *Timer) ShouldWait(thread *Thread) bool { return !t.signaled }

func (t *Timer) Acquire(thread *Thread) {
	if t.reset == ResetOneShot {
		t.signaled = false
	}
}

func (t *Timer) AddWaitingThread(th *Thread)    { t.waiterList.add(th) }
func (t *Timer) RemoveWaitingThread(th *Thread) { t.waiterList.remove(th) }

// Set arms the timer: it becomes signaled after initial nanoseconds, then
// re-arms every interval nanoseconds if interval != 0. Both must be
// non-negative (enforced by the SetTimer SVC handler, not here, so this
// type stays a pure state machine).
func (t *Timer) Set(initial, interval int64) {
	t.initial = time.Duration(initial)
	t.interval = time.Duration(interval)
	t.deadline = time.Now().Add(t.initial)
	t.armed = true
	t.signaled = false
}

// Clear unsignals the timer without disarming it.
func (t *Timer) Clear() { t.signaled = false }

// Cancel disarms the timer entirely.
func (t *Timer) Cancel() {
	t.armed = false
	t.signaled = false
}

// Poll checks whether the armed deadline has passed and, if so, signals
// the timer and reschedules the next deadline when periodic. Returns
// whether the timer just transitioned to signaled (i.e. whether waiters
// should be woken).
func (t *Timer) Poll(now time.Time) bool {
	if !t.armed || t.signaled {
		return false
	}
	if now.Before(t.deadline) {
		return false
	}
	t.signaled = true
	if t.interval > 0 {
		t.deadline = now.Add(t.interval)
	} else {
		t.armed = false
	}
	return true
}
