package kernel

// WaitObject is the capability shared by every kernel object a thread can
// park on: Event, Mutex, Semaphore, Timer, Thread, Process, ServerSession,
// ClientSession. It is the interface spec.md's ExternalContracts names
// directly.
type WaitObject interface {
	Object

	// ShouldWait reports whether thread must block to acquire this
	// object right now.
	ShouldWait(thread *Thread) bool

	// Acquire performs the side effect of a successful (non-blocking or
	// just-woken) wait: decrementing a semaphore, taking a mutex,
	// resetting a one-shot event, etc.
	Acquire(thread *Thread)

	// AddWaitingThread registers thread on this object's FIFO waiter
	// list. The object holds a strong reference to thread for the
	// duration of the park.
	AddWaitingThread(thread *Thread)

	// RemoveWaitingThread undoes AddWaitingThread, used when a thread
	// that was parked on several objects wakes via one of them and must
	// be removed from the others.
	RemoveWaitingThread(thread *Thread)

	// PopWaiter removes and returns the earliest-added waiting thread, or
	// nil if none is parked. Exposed (rather than kept package-private)
	// so the thread manager can drive wakeups generically across every
	// WaitObject kind without a type switch.
	PopWaiter() *Thread

	// Waiters returns every currently-parked thread, FIFO order, without
	// removing them.
	Waiters() []*Thread
}

// waiterList is the FIFO waiter-list plumbing embedded by every WaitObject
// implementation. Waiter lists are FIFO: on signal, the earliest-added
// waiter that can acquire wins (spec.md §5, "Ordering").
type waiterList struct {
	waiters []*Thread
}

func (w *waiterList) add(t *Thread) {
	w.waiters = append(w.waiters, t)
}

func (w *waiterList) remove(t *Thread) {
	for i, waiter := range w.waiters {
		if waiter == t {
			w.waiters = append(w.waiters[:i], w.waiters[i+1:]...)
			return
		}
	}
}

// PopWaiter removes and returns the earliest-added waiter, or nil if none
// are parked. Promoted to satisfy WaitObject by every type that embeds
// waiterList.
func (w *waiterList) PopWaiter() *Thread {
	if len(w.waiters) == 0 {
		return nil
	}
	t := w.waiters[0]
	w.waiters = w.waiters[1:]
	return t
}

// Waiters returns every parked thread in FIFO order without removing them.
func (w *waiterList) Waiters() []*Thread {
	return w.waiters
}
