package kernel

import (
	"time"

	"github.com/alexankitty/citra-hle-kernel/result"
)

// ThreadState is a Thread's scheduling state.
type ThreadState int

const (
	ThreadReady ThreadState = iota
	ThreadRunning
	ThreadWaitSynchAny
	ThreadWaitSynchAll
	ThreadWaitSleep
	ThreadWaitIPC
	ThreadStopped
)

func (s ThreadState) String() string {
	switch s {
	case ThreadReady:
		return "Ready"
	case ThreadRunning:
		return "Running"
	case ThreadWaitSynchAny:
		return "WaitSynchAny"
	case ThreadWaitSynchAll:
		return "WaitSynchAll"
	case ThreadWaitSleep:
		return "WaitSleep"
	case ThreadWaitIPC:
		return "WaitIPC"
	case ThreadStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// WakeupReason tells a WakeupCallback why its thread transitioned back to
// Ready.
type WakeupReason int

const (
	// WakeupSignal: a wait object the thread was parked on was signaled
	// and selected it as the waiter to wake.
	WakeupSignal WakeupReason = iota
	// WakeupTimeout: the thread's wake-after-delay timer fired first.
	WakeupTimeout
)

// WakeupCallback is the continuation a ThreadManager invokes when a parked
// thread transitions back to Ready. spec.md §4.4 describes two concrete
// forms (SyncCallback, IPCCallback); both live in package svc since they
// need to reach into SVC-level state (the IPC translator) that kernel
// doesn't know about. At most one is installed on a Thread at a time and
// it is consumed (cleared) on resume.
type WakeupCallback interface {
	WakeUp(reason WakeupReason, thread *Thread, object WaitObject)
}

// Thread is a guest schedulable unit of execution.
type Thread struct {
	baseObject

	ThreadID int32

	// Owner is a non-owning back-reference to the process this thread
	// belongs to; never treated as an ownership edge so that process
	// teardown (ExitProcess) is never blocked by its own threads still
	// existing (spec.md §5, "Shared resource policy").
	Owner *Process

	State        ThreadState
	Priority     uint32
	ProcessorID  int32
	CanSchedule  bool

	// TLSAddress is the address of this thread's TLS page; its first
	// word is the IPC command buffer header.
	TLSAddress uint32

	// WakeDeadline is set by WakeAfterDelay and cleared when the thread
	// resumes for any reason (signal or timeout).
	WakeDeadline *time.Time

	// WaitObjects is the ordered set of objects this thread is parked
	// on; index order matters for WaitSynchronizationN's "earliest index
	// wins" tie-break and for *out_index on resume.
	WaitObjects []WaitObject

	// Wakeup is consumed (set back to nil) when the thread resumes.
	Wakeup WakeupCallback

	// WaitSyncResult / WaitSyncOutput are written by the wakeup callback
	// and read back by the SVC handler that parked the thread once it
	// resumes (conceptually "the SVC's return value", since the original
	// suspends and resumes inside a single C++ stack frame; here the
	// suspend point is a return from svc.Dispatch so these fields carry the
	// eventual result across that boundary for the harness/tests to
	// observe).
	WaitSyncResult result.Code
	WaitSyncOutput int32

	// PendingMutexes are the Mutex objects this thread currently holds,
	// needed so SetThreadPriority can trigger priority-inheritance
	// recomputation on each. Mutexes the thread is parked waiting for are
	// not recorded here.
	PendingMutexes []*Mutex
}

// NewThread constructs a Thread owned by proc.
func NewThread(id int32, owner *Process, name string) *Thread {
	return &Thread{
		baseObject: newBaseObject(KindThread, name),
		ThreadID:   id,
		Owner:      owner,
		State:      ThreadReady,
		CanSchedule: true,
	}
}

// WakeAfterDelay arms this thread's timeout deadline. A negative duration
// means "wait forever" (no deadline is armed); spec.md §5 calls this out
// explicitly for the handful of SVCs that accept it.
func (t *Thread) WakeAfterDelay(nanos int64) {
	if nanos < 0 {
		t.WakeDeadline = nil
		return
	}
	d := time.Now().Add(time.Duration(nanos))
	t.WakeDeadline = &d
}

// ClearWakeDeadline cancels a pending wake-after-delay timer, used by the
// thread manager when a signal resumes a thread before its timeout fires
// (spec.md §5, "Cancellation / timeouts").
func (t *Thread) ClearWakeDeadline() {
	t.WakeDeadline = nil
}

// ParkOn records that t is now waiting on objects, in order.
func (t *Thread) ParkOn(state ThreadState, objects []WaitObject) {
	t.State = state
	t.WaitObjects = objects
}

// IndexOf returns the position of obj in t.WaitObjects, or -1.
func (t *Thread) IndexOf(obj WaitObject) int32 {
	for i, o := range t.WaitObjects {
		if o == obj {
			return int32(i)
		}
	}
	return -1
}

// Resume clears parked-wait bookkeeping and transitions the thread back to
// Ready. The caller is responsible for having already consumed
// t.Wakeup/t.WaitSyncResult/t.WaitSyncOutput as needed.
func (t *Thread) Resume() {
	for _, obj := range t.WaitObjects {
		obj.RemoveWaitingThread(t)
	}
	t.WaitObjects = nil
	t.Wakeup = nil
	t.WakeDeadline = nil
	t.State = ThreadReady
}

// Stop transitions the thread to Stopped, used by ExitProcess/ExitThread.
func (t *Thread) Stop() {
	t.State = ThreadStopped
}
