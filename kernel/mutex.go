package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// Mutex is a recursive-acquire-free kernel mutex with basic priority
// inheritance bookkeeping (SetThreadPriority walks a thread's
// PendingMutexes to recompute it).
type Mutex struct {
	baseObject
	waiterList

	owner       *Thread
	lockCount   int
	priority    uint32 // highest priority among current waiters, for inheritance
}

// NewMutex constructs a Mutex, optionally already held by owner.
func NewMutex(initialLocked bool, owner *Thread, name string) *Mutex {
	m := &Mutex{baseObject: newBaseObject(KindMutex, name)}
	if initialLocked {
		m.owner = owner
		m.lockCount = 1
	}
	return m
}

func (m *Mutex) ShouldWait(thread *Thread) bool {
	return m.owner != nil && m.owner != thread
}

func (m *Mutex) Acquire(thread *Thread) {
	m.owner = thread
	m.lockCount = 1
	thread.PendingMutexes = append(thread.PendingMutexes, m)
}

func (m *Mutex) AddWaitingThread(t *Thread)    { m.waiterList.add(t) }
func (m *Mutex) RemoveWaitingThread(t *Thread) { m.waiterList.remove(t) }

// Release drops ownership, handing off to the earliest FIFO waiter if any
// (the thread manager is responsible for actually resuming that waiter).
// NotAuthorized if thread does not currently own the mutex — matching the
// 3DS kernel's refusal to let a non-owner release.
func (m *Mutex) Release(thread *Thread) result.Code {
	if m.owner != thread {
		return result.NotAuthorized
	}
	m.owner = nil
	m.lockCount = 0
	removePendingMutex(thread, m)
	return result.Success
}

// UpdatePriority recomputes the priority-inheritance boost this mutex
// grants its owner, called from SetThreadPriority after a waiter's
// priority changes. The simplified model here just tracks the highest
// waiter priority; a full implementation would boost the owner's effective
// scheduling priority, which is ThreadManager's concern (out of scope per
// spec.md §1 — kernel-object internals beyond their contracts).
func (m *Mutex) UpdatePriority() {
	best := ThreadPrioLowest
	for _, w := range m.waiterList.Waiters() {
		if w.Priority < best {
			best = w.Priority
		}
	}
	m.priority = best
}

func removePendingMutex(t *Thread, m *Mutex) {
	for i, pm := range t.PendingMutexes {
		if pm == m {
			t.PendingMutexes = append(t.PendingMutexes[:i], t.PendingMutexes[i+1:]...)
			return
		}
	}
}
