package kernel

// ResetType controls how an Event or Timer clears itself once it wakes a
// waiter.
type ResetType uint32

const (
	// ResetOneShot: signaling wakes exactly one waiter (or stays
	// signaled for the next ShouldWait check) and then clears itself.
	ResetOneShot ResetType = iota
	// ResetSticky: once signaled, stays signaled until explicitly
	// cleared; every waiter sees it as ready.
	ResetSticky
	// ResetPulse: signaling wakes every currently-parked waiter, then
	// immediately clears, without ever being observably "ready" to a
	// ShouldWait check that arrives after the signal has been consumed.
	ResetPulse
)

// Event is a WaitObject signaled by SignalEvent and observed by
// WaitSynchronization*.
type Event struct {
	baseObject
	waiterList

	reset    ResetType
	signaled bool
}

// NewEvent constructs an unsignaled Event with the given reset behavior.
func NewEvent(reset ResetType, name string) *Event {
	return &Event{baseObject: newBaseObject(KindEvent, name), reset: reset}
}

func (e *Event) ShouldWait(thread *Thread) bool { return !e.signaled }

func (e *Event) Acquire(thread *Thread) {
	if e.reset == ResetOneShot {
		e.signaled = false
	}
}

func (e *Event) AddWaitingThread(t *Thread)    { e.waiterList.add(t) }
func (e *Event) RemoveWaitingThread(t *Thread) { e.waiterList.remove(t) }

// Signal marks the event ready. For ResetSticky/ResetOneShot it stays
// signaled until Acquire/Clear resets it; the caller (the SVC dispatch
// layer, via ThreadManager) is responsible for waking parked waiters after
// calling Signal.
func (e *Event) Signal() { e.signaled = true }

// Clear marks the event not-ready without waking anyone, used by
// ClearEvent.
func (e *Event) Clear() { e.signaled = false }

// Signaled reports the event's current readiness.
func (e *Event) Signaled() bool { return e.signaled }

// Reset reports this event's reset policy, consulted by SignalEvent's
// handler to decide whether to wake one waiter or every waiter.
func (e *Event) Reset() ResetType { return e.reset }
