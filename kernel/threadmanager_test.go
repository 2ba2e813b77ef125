package kernel

import (
	"testing"
	"time"
)

func parkOn(tm *ThreadManager, th *Thread, obj WaitObject) {
	th.ParkOn(ThreadWaitSynchAny, []WaitObject{obj})
	obj.AddWaitingThread(th)
	tm.Park(th, -1)
}

func TestThreadManagerEnqueuePriorityOrder(t *testing.T) {
	tm := NewThreadManager(1)
	low := NewThread(1, nil, "low")
	low.Priority = 30
	high := NewThread(2, nil, "high")
	high.Priority = 5
	mid := NewThread(3, nil, "mid")
	mid.Priority = 15

	tm.Enqueue(low)
	tm.Enqueue(high)
	tm.Enqueue(mid)

	if got := tm.Dequeue(0); got != high {
		t.Fatalf("Dequeue #1 = %v, want high", got.ThreadID)
	}
	if got := tm.Dequeue(0); got != mid {
		t.Fatalf("Dequeue #2 = %v, want mid", got.ThreadID)
	}
	if got := tm.Dequeue(0); got != low {
		t.Fatalf("Dequeue #3 = %v, want low", got.ThreadID)
	}
	if got := tm.Dequeue(0); got != nil {
		t.Fatalf("Dequeue on empty queue = %v, want nil", got)
	}
}

// TestThreadManagerWakeWaitersAcquiresExactlyOnce is the acquire-exactly-once
// invariant for a single-acquirer object (Mutex, Semaphore-of-one,
// ResetOneShot Event): signaling it must wake precisely the threads that
// can actually acquire it, one at a time, never handing the same unit of
// availability to two waiters.
func TestThreadManagerWakeWaitersAcquiresExactlyOnce(t *testing.T) {
	tm := NewThreadManager(1)
	sem := NewSemaphore(1, 10, "sem")

	a := NewThread(1, nil, "a")
	b := NewThread(2, nil, "b")
	c := NewThread(3, nil, "c")
	parkOn(tm, a, sem)
	parkOn(tm, b, sem)
	parkOn(tm, c, sem)

	sem.available = 1 // one slot to hand out
	tm.WakeWaiters(sem)

	if a.State != ThreadReady {
		t.Fatal("first FIFO waiter was not woken")
	}
	if b.State == ThreadReady || c.State == ThreadReady {
		t.Fatal("WakeWaiters woke more waiters than the object had availability for")
	}
	if sem.available != 0 {
		t.Fatalf("semaphore available = %d, want 0 after handing its one slot to a waiter", sem.available)
	}
}

func TestThreadManagerWakeAllWaiters(t *testing.T) {
	tm := NewThreadManager(1)
	ev := NewEvent(ResetSticky, "ev")
	ev.Signal()

	a := NewThread(1, nil, "a")
	b := NewThread(2, nil, "b")
	parkOn(tm, a, ev)
	parkOn(tm, b, ev)

	tm.WakeAllWaiters(ev)

	if a.State != ThreadReady || b.State != ThreadReady {
		t.Fatal("WakeAllWaiters did not wake every parked waiter")
	}
}

func TestThreadManagerPollTimeouts(t *testing.T) {
	tm := NewThreadManager(1)
	th := NewThread(1, nil, "t")
	th.ParkOn(ThreadWaitSleep, nil)
	tm.Park(th, int64(time.Millisecond))

	if due := tm.PollTimeouts(time.Now()); len(due) != 0 {
		t.Fatalf("PollTimeouts before the deadline woke %d threads, want 0", len(due))
	}

	due := tm.PollTimeouts(time.Now().Add(2 * time.Millisecond))
	if len(due) != 1 || due[0] != th {
		t.Fatalf("PollTimeouts after the deadline = %v, want [th]", due)
	}
	if th.State != ThreadReady {
		t.Fatal("thread was not transitioned back to Ready on timeout")
	}
}

func TestThreadManagerWakeTimeoutBeatsLateSignal(t *testing.T) {
	// Whichever wakeup source reaches the thread first wins; Resume tears
	// down WaitObjects so a second Wake call on the same thread from the
	// other source is simply a caller bug this layer doesn't need to guard
	// against, but a single timeout wakeup must still leave the thread
	// cleanly Ready and off the parked list, and a signal arriving after
	// it must find no waiter to wake.
	tm := NewThreadManager(1)
	ev := NewEvent(ResetSticky, "ev")
	th := NewThread(1, nil, "t")
	cb := &countingCallback{}
	th.Wakeup = cb
	parkOn(tm, th, ev)

	tm.Wake(th, WakeupTimeout, nil)

	if th.State != ThreadReady {
		t.Fatal("thread not Ready after Wake")
	}
	if len(ev.Waiters()) != 0 {
		t.Fatal("wait object still lists the woken thread as a waiter")
	}
	if cb.n != 1 {
		t.Fatalf("wakeup callback invoked %d times, want exactly 1", cb.n)
	}

	ev.Signal()
	tm.WakeAllWaiters(ev)
	if cb.n != 1 {
		t.Fatalf("late signal invoked the wakeup callback again: %d calls, want 1", cb.n)
	}
	if th.State != ThreadReady {
		t.Fatal("late signal changed the thread's state")
	}
}

type countingCallback struct{ n int }

func (c *countingCallback) WakeUp(reason WakeupReason, thread *Thread, object WaitObject) {
	c.n++
}
