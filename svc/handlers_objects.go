package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// svcCreateMutex implements CreateMutex: r0=initial_locked. Writes the
// handle to r1.
func svcCreateMutex(ctx context.Context, c *Call) result.Code {
	locked := c.CPU.Reg(0) != 0
	owner := c.Thread
	if !locked {
		owner = nil
	}
	m := kernel.NewMutex(locked, owner, "")
	h, code := c.Process.Handles.Create(m)
	if code.IsError() {
		return code
	}
	if locked {
		c.Thread.PendingMutexes = append(c.Thread.PendingMutexes, m)
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcReleaseMutex implements ReleaseMutex: r0=handle.
func svcReleaseMutex(ctx context.Context, c *Call) result.Code {
	m, code := kernel.GetAs[*kernel.Mutex](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	if code := m.Release(c.Thread); code.IsError() {
		return code
	}
	c.Sys.Threads.WakeWaiters(m)
	c.Sys.RequestReschedule()
	return result.Success
}

// svcCreateSemaphore implements CreateSemaphore: r0=initial_count,
// r1=max_count. Writes the handle to r1.
func svcCreateSemaphore(ctx context.Context, c *Call) result.Code {
	initial := int32(c.CPU.Reg(0))
	max := int32(c.CPU.Reg(1))
	if initial > max {
		return result.InvalidCombination
	}
	s := kernel.NewSemaphore(initial, max, "")
	h, code := c.Process.Handles.Create(s)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcReleaseSemaphore implements ReleaseSemaphore: r0=handle,
// r1=release_count. Writes the count observed before release to r1.
func svcReleaseSemaphore(ctx context.Context, c *Call) result.Code {
	s, code := kernel.GetAs[*kernel.Semaphore](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	previous, code := s.Release(int32(c.CPU.Reg(1)))
	if code.IsError() {
		return code
	}
	c.Sys.Threads.WakeWaiters(s)
	c.Sys.RequestReschedule()
	c.CPU.SetReg(1, uint32(previous))
	return result.Success
}

// svcCreateEvent implements CreateEvent: r0=reset_type. Writes the handle
// to r1.
func svcCreateEvent(ctx context.Context, c *Call) result.Code {
	e := kernel.NewEvent(kernel.ResetType(c.CPU.Reg(0)), "")
	h, code := c.Process.Handles.Create(e)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcSignalEvent implements SignalEvent: r0=handle. Wakes one waiter for
// ResetOneShot, every waiter for ResetSticky/ResetPulse.
func svcSignalEvent(ctx context.Context, c *Call) result.Code {
	e, code := kernel.GetAs[*kernel.Event](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	e.Signal()
	switch e.Reset() {
	case kernel.ResetOneShot:
		c.Sys.Threads.WakeWaiters(e)
	default:
		c.Sys.Threads.WakeAllWaiters(e)
		if e.Reset() == kernel.ResetPulse {
			e.Clear()
		}
	}
	c.Sys.RequestReschedule()
	return result.Success
}

// svcClearEvent implements ClearEvent: r0=handle.
func svcClearEvent(ctx context.Context, c *Call) result.Code {
	e, code := kernel.GetAs[*kernel.Event](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	e.Clear()
	return result.Success
}

// svcCreateTimer implements CreateTimer: r0=reset_type. Writes the handle
// to r1.
func svcCreateTimer(ctx context.Context, c *Call) result.Code {
	t := kernel.NewTimer(kernel.ResetType(c.CPU.Reg(0)), "")
	h, code := c.Process.Handles.Create(t)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcSetTimer implements SetTimer: r0=handle, r1=initial (low),
// r2=initial (high), r3=interval (low), r4=interval (high). Both must be
// non-negative (spec.md §4.8).
func svcSetTimer(ctx context.Context, c *Call) result.Code {
	t, code := kernel.GetAs[*kernel.Timer](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	initial := combineNanos(c.CPU.Reg(1), c.CPU.Reg(2))
	interval := combineNanos(c.CPU.Reg(3), c.CPU.Reg(4))
	if initial < 0 || interval < 0 {
		return result.OutOfRange
	}
	t.Set(initial, interval)
	return result.Success
}

// svcCancelTimer implements CancelTimer: r0=handle.
func svcCancelTimer(ctx context.Context, c *Call) result.Code {
	t, code := kernel.GetAs[*kernel.Timer](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	t.Cancel()
	return result.Success
}

// svcClearTimer implements ClearTimer: r0=handle.
func svcClearTimer(ctx context.Context, c *Call) result.Code {
	t, code := kernel.GetAs[*kernel.Timer](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	t.Clear()
	return result.Success
}

// svcCreateAddressArbiter implements CreateAddressArbiter, taking no
// arguments. Writes the handle to r1.
func svcCreateAddressArbiter(ctx context.Context, c *Call) result.Code {
	a := kernel.NewAddressArbiter("")
	h, code := c.Process.Handles.Create(a)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcArbitrateAddress implements ArbitrateAddress: r0=arbiter handle,
// r1=addr, r2=type, r3=value, r4=nanos (low), r5=nanos (high, only read
// for the *WithTimeout variants).
func svcArbitrateAddress(ctx context.Context, c *Call) result.Code {
	a, code := kernel.GetAs[*kernel.AddressArbiter](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	addr := c.CPU.Reg(1)
	typ := kernel.ArbitrationType(c.CPU.Reg(2))
	value := int32(c.CPU.Reg(3))

	switch typ {
	case kernel.ArbitrationSignal:
		count := int32(value)
		for _, t := range a.SignalAll(addr, count) {
			c.Sys.Threads.Wake(t, kernel.WakeupSignal, nil)
		}
		c.Sys.RequestReschedule()
		return result.Success

	case kernel.ArbitrationWaitIfLessThan, kernel.ArbitrationDecrementAndWaitIfLessThan,
		kernel.ArbitrationWaitIfLessThanWithTimeout, kernel.ArbitrationDecrementAndWaitIfLessThanWithTimeout:
		read := func(a uint32) int32 { return int32(c.CPU.ReadMemory32(a)) }
		mustWait, code := kernel.CheckWord(read, addr, value, typ)
		if code.IsError() {
			return code
		}
		if typ == kernel.ArbitrationDecrementAndWaitIfLessThan || typ == kernel.ArbitrationDecrementAndWaitIfLessThanWithTimeout {
			c.CPU.WriteMemory32(addr, c.CPU.ReadMemory32(addr)-1)
		}
		if !mustWait {
			return result.Success
		}
		nanos := int64(-1)
		if typ == kernel.ArbitrationWaitIfLessThanWithTimeout || typ == kernel.ArbitrationDecrementAndWaitIfLessThanWithTimeout {
			nanos = combineNanos(c.CPU.Reg(4), c.CPU.Reg(5))
		}
		if nanos == 0 {
			return result.Timeout
		}
		a.Park(addr, c.Thread)
		c.Thread.State = kernel.ThreadWaitSleep
		c.Sys.Threads.Park(c.Thread, nanos)
		c.Sys.RequestReschedule()
		return result.Success

	default:
		return result.InvalidEnumValue
	}
}
