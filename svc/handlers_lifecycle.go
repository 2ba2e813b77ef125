package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// svcExitProcess implements ExitProcess, taking no arguments. Stops every
// thread the process owns before tearing the process itself down, so
// nothing is left runnable under a process marked Exited (spec.md §8's
// testable "ExitProcess stops all threads" property).
func svcExitProcess(ctx context.Context, c *Call) result.Code {
	for _, h := range c.Process.Handles.Enumerate() {
		if t, code := kernel.GetAs[*kernel.Thread](c.Process.Handles, h); !code.IsError() {
			t.Stop()
		}
	}
	c.Process.Exit()
	c.Sys.RemoveProcess(c.Process.ProcessID)
	c.Sys.RequestReschedule()
	return result.Success
}

// controlProcessOp is ControlProcess's r1 sub-operation selector.
type controlProcessOp uint32

const (
	controlProcessSetMMUToRWX controlProcessOp = 0
	// The remaining stock sub-ops (SET_MMU_TO_RW, SET_MEMORY_LAYOUT,
	// REPROTECT_MAP) are not implemented in the reference implementation
	// either (svc.cpp itself leaves most ControlProcess sub-ops as
	// `return UnimplementedFunction()`), so this handler preserves that
	// same asymmetry against KernelSetState rather than inventing
	// behavior the source never had — see DESIGN.md's Open Question
	// decisions.
)

// svcControlProcess implements ControlProcess: r0=process handle,
// r1=sub-operation, r2=arg0, r3=arg1.
func svcControlProcess(ctx context.Context, c *Call) result.Code {
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	switch controlProcessOp(c.CPU.Reg(1)) {
	case controlProcessSetMMUToRWX:
		proc.VM.ReprotectAllNonFree(kernel.PermissionReadWriteExecute)
		return result.Success
	default:
		return result.NotImplemented
	}
}

// svcKernelSetState implements KernelSetState: r0=sub-type, r1=arg0,
// r2=arg1. Only the REBOOT sub-type is modeled (SPEC_FULL.md's
// supplemented "KernelSetState reboot mapping" feature); every other
// sub-type is logged at Error level and returns Success.
func svcKernelSetState(ctx context.Context, c *Call) result.Code {
	const kernelStateReboot uint32 = 0
	if c.CPU.Reg(0) != kernelStateReboot {
		c.Sys.Log.WithField("type", c.CPU.Reg(0)).Error("unknown KernelSetState sub-type")
		return result.Success
	}
	c.Sys.Log.Info("kernel reboot requested")
	for _, pid := range c.Sys.Processes() {
		c.Sys.RemoveProcess(pid)
	}
	c.Sys.RequestReschedule()
	return result.Success
}

// svcBreak implements Break: r0=reason. Logs and always succeeds; a
// debugger-attached frontend would halt execution here, which is outside
// this package's scope.
func svcBreak(ctx context.Context, c *Call) result.Code {
	c.Sys.Log.WithField("reason", c.CPU.Reg(0)).Warn("guest break")
	return result.Success
}

// svcOutputDebugString implements OutputDebugString: r0=string address,
// r1=length.
func svcOutputDebugString(ctx context.Context, c *Call) result.Code {
	addr := c.CPU.Reg(0)
	length := int(c.CPU.Reg(1))
	c.Sys.Log.Info(readCString(c.CPU, addr, length))
	return result.Success
}

// svcCloseHandle implements CloseHandle: r0=handle.
func svcCloseHandle(ctx context.Context, c *Call) result.Code {
	return c.Process.Handles.Close(kernel.Handle(c.CPU.Reg(0)))
}

// svcDuplicateHandle implements DuplicateHandle: r0=handle. Writes the new
// handle to r1.
func svcDuplicateHandle(ctx context.Context, c *Call) result.Code {
	nh, code := c.Process.Handles.Duplicate(kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(nh))
	return result.Success
}

// svcOpenProcess implements OpenProcess: r0=process id. Writes the handle
// to r1. Returns ProcessNotFound (distinct from InvalidHandle) when the id
// doesn't resolve to a live process, per SPEC_FULL.md's supplemented
// "OpenProcess/OpenThread distinct codes" feature.
func svcOpenProcess(ctx context.Context, c *Call) result.Code {
	pid := int32(c.CPU.Reg(0))
	proc, ok := c.Sys.Process(pid)
	if !ok {
		return result.ProcessNotFound
	}
	h, code := c.Process.Handles.Create(proc)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcOpenThread implements OpenThread: r0=process handle, r1=thread id.
// Writes the handle to r1. ThreadNotFound if no thread in that process
// carries the given id.
func svcOpenThread(ctx context.Context, c *Call) result.Code {
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	id := int32(c.CPU.Reg(1))
	for _, h := range proc.Handles.Enumerate() {
		if t, code := kernel.GetAs[*kernel.Thread](proc.Handles, h); !code.IsError() && t.ThreadID == id {
			nh, code := c.Process.Handles.Create(t)
			if code.IsError() {
				return code
			}
			c.CPU.SetReg(1, uint32(nh))
			return result.Success
		}
	}
	return result.ThreadNotFound
}

// svcGetProcessId implements GetProcessId: r0=process handle. Writes the
// PID to r1.
func svcGetProcessId(ctx context.Context, c *Call) result.Code {
	if kernel.Handle(c.CPU.Reg(0)) == kernel.CurrentProcess {
		c.CPU.SetReg(1, uint32(c.Process.ProcessID))
		return result.Success
	}
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(proc.ProcessID))
	return result.Success
}
