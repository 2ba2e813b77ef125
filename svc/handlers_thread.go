package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// nextThreadID is a process-global counter; real hardware hands out
// kernel-wide unique thread IDs, which this package models as one
// monotonic package-level counter shared by every System and Process, to
// keep GetThreadId's uniqueness guarantee trivially true across processes
// too.
var nextThreadID int32 = 1

// svcCreateThread implements CreateThread: r0=priority, r1=entry_point,
// r2=arg, r3=stack_top, r4=processor_id. Writes the handle to r1.
func svcCreateThread(ctx context.Context, c *Call) result.Code {
	priority := c.CPU.Reg(0)
	stackTop := c.CPU.Reg(3)
	processorID := int32(c.CPU.Reg(4))

	if priority > kernel.ThreadPrioLowest {
		return result.OutOfRange
	}

	id := nextThreadID
	nextThreadID++
	t := kernel.NewThread(id, c.Process, "")
	t.Priority = priority
	t.ProcessorID = processorID
	t.TLSAddress = stackTop

	h, code := c.Process.Handles.Create(t)
	if code.IsError() {
		return code
	}
	c.Sys.Threads.Enqueue(t)
	c.Sys.RequestReschedule()

	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcExitThread implements ExitThread: stops the calling thread and
// requests a reschedule. Never returns to the guest (there is no
// "successful result" to report, since the thread is gone), but the
// dispatch layer still needs a code to write before discarding the
// thread's register state.
func svcExitThread(ctx context.Context, c *Call) result.Code {
	c.Thread.Stop()
	c.Sys.RequestReschedule()
	return result.Success
}

// svcGetThreadPriority implements GetThreadPriority: r0=thread handle.
// Writes the priority to r1.
func svcGetThreadPriority(ctx context.Context, c *Call) result.Code {
	t, code := resolveThread(c, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, t.Priority)
	return result.Success
}

// svcSetThreadPriority implements SetThreadPriority: r0=thread handle,
// r1=priority. Recomputes priority inheritance on every mutex the thread
// currently holds (its PendingMutexes), since a lowered priority may no
// longer justify boosting a mutex it owns (spec.md §4.4). Mutexes the
// thread is waiting on are not recomputed.
func svcSetThreadPriority(ctx context.Context, c *Call) result.Code {
	t, code := resolveThread(c, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	priority := c.CPU.Reg(1)
	if priority > kernel.ThreadPrioLowest {
		return result.OutOfRange
	}
	t.Priority = priority
	for _, m := range t.PendingMutexes {
		m.UpdatePriority()
	}
	return result.Success
}

// svcSleepThread implements SleepThread: r0=nanos (low), r1=nanos (high).
// A negative duration means "yield forever", used by guest idle loops;
// zero means a pure yield with no timeout armed.
func svcSleepThread(ctx context.Context, c *Call) result.Code {
	nanos := combineNanos(c.CPU.Reg(0), c.CPU.Reg(1))
	if nanos == 0 {
		c.Sys.RequestReschedule()
		return result.Success
	}
	c.Thread.State = kernel.ThreadWaitSleep
	c.Thread.Wakeup = &SyncCallback{}
	c.Sys.Threads.Park(c.Thread, nanos)
	c.Sys.RequestReschedule()
	return result.Success
}

// svcGetThreadId implements GetThreadId: r0=thread handle. Writes the
// thread's kernel-wide ID to r1.
func svcGetThreadId(ctx context.Context, c *Call) result.Code {
	t, code := resolveThread(c, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(t.ThreadID))
	return result.Success
}

// svcGetProcessIdOfThread implements GetProcessIdOfThread: r0=thread
// handle. Writes the owning process's PID to r1.
func svcGetProcessIdOfThread(ctx context.Context, c *Call) result.Code {
	t, code := resolveThread(c, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(t.Owner.ProcessID))
	return result.Success
}

func resolveThread(c *Call, h kernel.Handle) (*kernel.Thread, result.Code) {
	if h == kernel.CurrentThread {
		return c.Thread, result.Success
	}
	return kernel.GetAs[*kernel.Thread](c.Process.Handles, h)
}
