package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// svcWaitSynchronization1 implements WaitSynchronization1: r0=handle,
// r1=nanos (low), r2=nanos (high, combined as a signed 64-bit duration;
// negative means wait forever per spec.md §5).
func svcWaitSynchronization1(ctx context.Context, c *Call) result.Code {
	h := kernel.Handle(c.CPU.Reg(0))
	nanos := combineNanos(c.CPU.Reg(1), c.CPU.Reg(2))

	obj, code := kernel.GetWaitObject(c.Process.Handles, h)
	if code.IsError() {
		return code
	}
	if !obj.ShouldWait(c.Thread) {
		obj.Acquire(c.Thread)
		return result.Success
	}
	if nanos == 0 {
		return result.Timeout
	}

	c.Thread.ParkOn(kernel.ThreadWaitSynchAny, []kernel.WaitObject{obj})
	c.Thread.Wakeup = &SyncCallback{Objects: []kernel.WaitObject{obj}}
	obj.AddWaitingThread(c.Thread)
	c.Sys.Threads.Park(c.Thread, nanos)
	c.Sys.RequestReschedule()

	return c.Thread.WaitSyncResult
}

// svcWaitSynchronizationN implements WaitSynchronizationN: r0=handles
// address, r1=handle count, r2=wait_all, r3=nanos (low), r4=nanos (high).
// Writes the acquired object's index to r1 when a wait-any call succeeds
// immediately, and -1 when the call parks or times out; a wait_all call
// that acquires every object immediately leaves r1 unchanged.
//
// wait_all=false (wait-any): if any object already doesn't require
// waiting, acquire it and return immediately, preferring the
// lowest-indexed ready object (spec.md §4.4, "Ordering").
//
// wait_all=true: every object must be simultaneously acquirable before any
// is acquired — partial acquisition followed by blocking on the rest would
// violate the "acquire exactly once" invariant (spec.md §8's testable
// atomicity property).
func svcWaitSynchronizationN(ctx context.Context, c *Call) result.Code {
	handlesAddr := c.CPU.Reg(0)
	count := int(c.CPU.Reg(1))
	waitAll := c.CPU.Reg(2) != 0
	nanos := combineNanos(c.CPU.Reg(3), c.CPU.Reg(4))

	objs := make([]kernel.WaitObject, 0, count)
	for i := 0; i < count; i++ {
		h := kernel.Handle(c.CPU.ReadMemory32(handlesAddr + uint32(i*4)))
		obj, code := kernel.GetWaitObject(c.Process.Handles, h)
		if code.IsError() {
			return code
		}
		objs = append(objs, obj)
	}

	if waitAll {
		ready := true
		for _, o := range objs {
			if o.ShouldWait(c.Thread) {
				ready = false
				break
			}
		}
		if ready {
			for _, o := range objs {
				o.Acquire(c.Thread)
			}
			return result.Success
		}
	} else {
		for i, o := range objs {
			if !o.ShouldWait(c.Thread) {
				o.Acquire(c.Thread)
				c.CPU.SetReg(1, uint32(i))
				return result.Success
			}
		}
	}

	if nanos == 0 {
		c.CPU.SetReg(1, uint32(0xFFFFFFFF))
		return result.Timeout
	}

	state := kernel.ThreadWaitSynchAny
	if waitAll {
		state = kernel.ThreadWaitSynchAll
	}
	c.Thread.ParkOn(state, objs)
	c.Thread.Wakeup = &SyncCallback{Objects: objs, WaitAll: waitAll}
	for _, o := range objs {
		o.AddWaitingThread(c.Thread)
	}
	c.Sys.Threads.Park(c.Thread, nanos)
	c.Sys.RequestReschedule()

	c.CPU.SetReg(1, uint32(0xFFFFFFFF))
	return c.Thread.WaitSyncResult
}

// combineNanos reassembles a 64-bit signed duration from two 32-bit
// registers, as svc.cpp's wrapper functions do for the timeout_low/high
// argument pair.
func combineNanos(lo, hi uint32) int64 {
	return int64(uint64(hi)<<32 | uint64(lo))
}
