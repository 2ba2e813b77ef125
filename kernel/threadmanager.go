package kernel

import (
	"sort"
	"time"
)

// ThreadManager owns the ready queues (one per emulated core) and the set
// of currently-parked threads, and is the thing that actually resumes a
// thread once a wait object signals it or its timeout fires. Grounded on
// the *shape* of gvisor's per-CPU run queue in pkg/sentry/kernel/task_run.go
// (ready threads dequeued per core, parked threads woken out of band by
// whatever signals the object they are waiting on), simplified to a single
// priority-ordered slice per core since this layer does not model
// preemption, only the wait/wake state transitions spec.md's SVCs care
// about.
type ThreadManager struct {
	ready  [][]*Thread // ready[core] is priority-sorted, FIFO within a priority
	parked []*Thread
}

// NewThreadManager returns a ThreadManager with coreCount empty ready
// queues.
func NewThreadManager(coreCount int) *ThreadManager {
	if coreCount <= 0 {
		coreCount = 1
	}
	return &ThreadManager{ready: make([][]*Thread, coreCount)}
}

// coreFor resolves a thread's processor_id affinity to a concrete core
// index, mapping the Default/All sentinels to core 0 (spec.md §4.4 leaves
// the actual load-balancing policy for ThreadProcessorIDDefault/-All
// unspecified beyond "must run somewhere valid").
func (m *ThreadManager) coreFor(t *Thread) int {
	switch {
	case t.ProcessorID >= 0 && int(t.ProcessorID) < len(m.ready):
		return int(t.ProcessorID)
	default:
		return 0
	}
}

// Enqueue makes t eligible to run, inserting it into its core's ready
// queue in priority order (lower numeric value is higher urgency, per
// ThreadPrioLowest's naming).
func (m *ThreadManager) Enqueue(t *Thread) {
	core := m.coreFor(t)
	q := m.ready[core]
	i := sort.Search(len(q), func(i int) bool { return q[i].Priority > t.Priority })
	q = append(q, nil)
	copy(q[i+1:], q[i:])
	q[i] = t
	m.ready[core] = q
}

// Dequeue pops the highest-priority ready thread for core, or nil if none
// is ready.
func (m *ThreadManager) Dequeue(core int) *Thread {
	if core < 0 || core >= len(m.ready) || len(m.ready[core]) == 0 {
		return nil
	}
	t := m.ready[core][0]
	m.ready[core] = m.ready[core][1:]
	return t
}

// Park records t as waiting (already parked on its WaitObjects by the
// caller via Thread.ParkOn) and, if nanos >= 0, arms its timeout.
func (m *ThreadManager) Park(t *Thread, nanos int64) {
	t.WakeAfterDelay(nanos)
	m.parked = append(m.parked, t)
}

// unpark removes t from the parked set without otherwise touching it.
func (m *ThreadManager) unpark(t *Thread) {
	for i, p := range m.parked {
		if p == t {
			m.parked = append(m.parked[:i], m.parked[i+1:]...)
			return
		}
	}
}

// Wake transitions a parked thread back to Ready: it clears the parking
// state (Resume), then invokes the WakeupCallback that was installed (if
// any) with the given reason and triggering object, then enqueues it to
// run. This is the one
// path by which a parked thread ever resumes, whether by signal or by
// timeout (spec.md §5, "Cancellation / timeouts": whichever comes first
// wins and the other is silently dropped).
func (m *ThreadManager) Wake(t *Thread, reason WakeupReason, obj WaitObject) {
	m.unpark(t)
	cb := t.Wakeup
	t.Resume()
	if cb != nil {
		cb.WakeUp(reason, t, obj)
	}
	m.Enqueue(t)
}

// PollTimeouts wakes every parked thread whose deadline has passed as of
// now, with WakeupReason WakeupTimeout. Returns the threads woken, so the
// caller (the harness driving svc.Dispatch) can log or assert on them.
func (m *ThreadManager) PollTimeouts(now time.Time) []*Thread {
	var due []*Thread
	for _, t := range m.parked {
		if t.WakeDeadline != nil && !now.Before(*t.WakeDeadline) {
			due = append(due, t)
		}
	}
	for _, t := range due {
		m.Wake(t, WakeupTimeout, nil)
	}
	return due
}

// WakeWaiters pops every FIFO waiter currently eligible to acquire obj
// (ShouldWait returns false after Acquire side effects are applied one at
// a time) and wakes each with WakeupSignal, stopping as soon as obj once
// again reports ShouldWait for the next candidate. This models the
// single-acquirer-per-signal semantics Mutex/Semaphore/single-shot Event
// share; ResetSticky events and ResetPulse events call this differently
// (every waiter at once) from their own Signal call sites in the SVC
// handlers rather than through this generic helper, since only the object
// itself knows its reset policy.
func (m *ThreadManager) WakeWaiters(obj WaitObject) {
	for {
		t := obj.PopWaiter()
		if t == nil {
			return
		}
		obj.Acquire(t)
		m.Wake(t, WakeupSignal, obj)
		if obj.ShouldWait(nil) {
			return
		}
	}
}

// WakeAllWaiters wakes every FIFO waiter on obj unconditionally, used for
// ResetSticky/ResetPulse events, where acquisition is not exclusive.
func (m *ThreadManager) WakeAllWaiters(obj WaitObject) {
	for {
		t := obj.PopWaiter()
		if t == nil {
			return
		}
		obj.Acquire(t)
		m.Wake(t, WakeupSignal, obj)
	}
}
