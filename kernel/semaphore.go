package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// Semaphore is a counting semaphore bounded by max_count.
type Semaphore struct {
	baseObject
	waiterList

	available int32
	max       int32
}

// NewSemaphore constructs a Semaphore with the given initial count and
// cap.
func NewSemaphore(initial, max int32, name string) *Semaphore {
	return &Semaphore{
		baseObject: newBaseObject(KindSemaphore, name),
		available:  initial,
		max:        max,
	}
}

func (s *Semaphore) ShouldWait(thread *Thread) bool { return s.available <= 0 }

func (s *Semaphore) Acquire(thread *Thread) { s.available-- }

func (s *Semaphore) AddWaitingThread(t *Thread)    { s.waiterList.add(t) }
func (s *Semaphore) RemoveWaitingThread(t *Thread) { s.waiterList.remove(t) }

// Release adds releaseCount slots back and returns the count observed
// *before* the release, matching svc.cpp's ReleaseSemaphore output
// convention. OutOfRange, with the count unchanged, if the release would
// exceed max.
func (s *Semaphore) Release(releaseCount int32) (int32, result.Code) {
	previous := s.available
	if s.available+releaseCount > s.max {
		return 0, result.OutOfRange
	}
	s.available += releaseCount
	return previous, result.Success
}
