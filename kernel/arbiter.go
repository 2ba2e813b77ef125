package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// ArbitrationType is ArbitrateAddress's signal/wait mode argument.
type ArbitrationType uint32

const (
	ArbitrationSignal ArbitrationType = iota
	ArbitrationWaitIfLessThan
	ArbitrationDecrementAndWaitIfLessThan
	ArbitrationWaitIfLessThanWithTimeout
	ArbitrationDecrementAndWaitIfLessThanWithTimeout
)

// AddressArbiter has no signaled/acquired state of its own: ArbitrateAddress
// compares a guest memory word against a value and either wakes waiters
// parked at that address or parks the caller. It exists as a kernel.Object
// purely to be a handle; threads never WaitSynchronization on it directly
// (spec.md §4.9), so it does not implement WaitObject.
type AddressArbiter struct {
	baseObject

	// waiting maps an arbitration address to the FIFO of threads parked
	// there via ArbitrationWaitIfLessThan(WithTimeout).
	waiting map[uint32][]*Thread
}

// NewAddressArbiter constructs an empty arbiter.
func NewAddressArbiter(name string) *AddressArbiter {
	return &AddressArbiter{
		baseObject: newBaseObject(KindAddressArbiter, name),
		waiting:    make(map[uint32][]*Thread),
	}
}

// Park records thread as waiting at addr, in FIFO arrival order.
func (a *AddressArbiter) Park(addr uint32, thread *Thread) {
	a.waiting[addr] = append(a.waiting[addr], thread)
}

// SignalOne pops and returns the earliest thread parked at addr, or nil.
func (a *AddressArbiter) SignalOne(addr uint32) *Thread {
	q := a.waiting[addr]
	if len(q) == 0 {
		return nil
	}
	t := q[0]
	a.waiting[addr] = q[1:]
	return t
}

// SignalAll pops and returns every thread parked at addr, FIFO order, if
// count <= 0, otherwise at most count of them (ArbitrateAddress's
// num_to_wake argument semantics: <= 0 means "wake every waiter").
func (a *AddressArbiter) SignalAll(addr uint32, count int32) []*Thread {
	q := a.waiting[addr]
	if count <= 0 || int(count) >= len(q) {
		a.waiting[addr] = nil
		return q
	}
	woken := q[:count]
	a.waiting[addr] = q[count:]
	return woken
}

// RemoveParked removes thread from addr's wait queue without waking it,
// used when a timed wait's deadline fires before a signal reaches it.
func (a *AddressArbiter) RemoveParked(addr uint32, thread *Thread) {
	q := a.waiting[addr]
	for i, t := range q {
		if t == thread {
			a.waiting[addr] = append(q[:i], q[i+1:]...)
			return
		}
	}
}

// CheckWord reads the guest word at addr via read and compares it against
// value per typ, returning whether the calling thread must park. The actual
// memory read is delegated to the caller-supplied function since
// AddressArbiter has no guest memory access of its own (spec.md
// ExternalContracts: memory reads/writes belong to CPUCore).
func CheckWord(read func(addr uint32) int32, addr uint32, value int32, typ ArbitrationType) (mustWait bool, code result.Code) {
	switch typ {
	case ArbitrationSignal:
		return false, result.Success
	case ArbitrationWaitIfLessThan, ArbitrationWaitIfLessThanWithTimeout:
		return read(addr) < value, result.Success
	case ArbitrationDecrementAndWaitIfLessThan, ArbitrationDecrementAndWaitIfLessThanWithTimeout:
		return read(addr) < value, result.Success
	default:
		return false, result.InvalidEnumValue
	}
}
