package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// systemInfoType is GetSystemInfo's r0 selector.
type systemInfoType uint32

const (
	sysInfoRegionMemoryUsage systemInfoType = 0
	sysInfoKernelAllocated   systemInfoType = 2
	sysInfoKernelSpawnedPIDs systemInfoType = 26
	sysInfoNew3DS            systemInfoType = 0x10000
	// sysInfoEmulator is a LUMA/Citra-only extension range SPEC_FULL.md's
	// "GetSystemInfo EMULATOR_INFORMATION family" supplement adds: guest
	// code built against Citra's extra SDK can probe this to detect it is
	// running under HLE rather than hardware.
	sysInfoEmulator systemInfoType = 0x20000
)

// svcGetSystemTick implements GetSystemTick, taking no arguments. Writes
// the (low, high) halves of the advancing tick counter to r0/r1, rather
// than returning a result code — GetSystemTick is one of the handful of
// 3DS SVCs with no ResultCode return at all, so this handler returns the
// tick's low half as its Code, which makes Dispatch's r0 write store that
// same low half.
func svcGetSystemTick(ctx context.Context, c *Call) result.Code {
	tick := c.Sys.Tick(c.CPU.CoreID())
	c.CPU.SetReg(0, uint32(tick))
	c.CPU.SetReg(1, uint32(tick>>32))
	return result.Code(uint32(tick))
}

// svcGetSystemInfo implements GetSystemInfo: r0=type, r1=param. Writes the
// (low, high) halves of the result to r1/r2.
func svcGetSystemInfo(ctx context.Context, c *Call) result.Code {
	typ := systemInfoType(c.CPU.Reg(0))
	param := c.CPU.Reg(1)

	var v int64
	switch typ {
	case sysInfoRegionMemoryUsage:
		v = int64(c.Process.MemoryUsed)
	case sysInfoKernelAllocated:
		v = int64(len(c.Sys.Processes()))
	case sysInfoKernelSpawnedPIDs:
		v = c.Sys.Config.KernelSpawnedPIDs
	case sysInfoNew3DS:
		if c.Sys.Config.CoreCount == 4 {
			v = 1
		}
	case sysInfoEmulator:
		switch param {
		case 0: // EMULATOR_INFORMATION_BUILD_ID
			v = 1
		case 1: // EMULATOR_INFORMATION_IS_HLE
			v = 1
		default:
			return result.InvalidEnumValue
		}
	default:
		return result.InvalidEnumValue
	}

	c.CPU.SetReg(1, uint32(v))
	c.CPU.SetReg(2, uint32(v>>32))
	return result.Success
}

// processInfoType is GetProcessInfo's r1 selector.
type processInfoType uint32

const (
	procInfoPrivateMemUsed processInfoType = 20
	// procInfoLumaCustomBase starts SPEC_FULL.md's supplemented
	// "GetProcessInfo LUMA_CUSTOM_* range": values in this range expose
	// the process's static code-segment layout (SPEC_FULL.md's Codeset)
	// rather than anything svc.cpp's stock switch handles, mirroring a
	// well-known Luma3DS kernel patch guest homebrew relies on.
	procInfoLumaCustomBase  processInfoType = 0x10000
	procInfoLumaTitleID     processInfoType = procInfoLumaCustomBase + 0
	procInfoLumaCodeAddr    processInfoType = procInfoLumaCustomBase + 1
	procInfoLumaCodeSize    processInfoType = procInfoLumaCustomBase + 2
)

// svcGetProcessInfo implements GetProcessInfo: r0=process handle, r1=type.
// Writes the (low, high) halves of the result to r1/r2.
func svcGetProcessInfo(ctx context.Context, c *Call) result.Code {
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	typ := processInfoType(c.CPU.Reg(1))

	var v int64
	switch typ {
	case procInfoPrivateMemUsed:
		v = int64(proc.MemoryUsed)
	case procInfoLumaTitleID:
		v = int64(proc.Codeset.TitleID)
	case procInfoLumaCodeAddr:
		v = int64(proc.Codeset.CodeAddr)
	case procInfoLumaCodeSize:
		v = int64(proc.Codeset.CodeSize)
	default:
		return result.InvalidEnumValue
	}

	c.CPU.SetReg(1, uint32(v))
	c.CPU.SetReg(2, uint32(v>>32))
	return result.Success
}

// svcGetThreadInfo implements GetThreadInfo: r0=thread handle, r1=type.
// The type in r1 is not consulted: every call writes the thread's
// processor_id to r1.
func svcGetThreadInfo(ctx context.Context, c *Call) result.Code {
	t, code := resolveThread(c, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(t.ProcessorID))
	return result.Success
}

// handleInfoType is GetHandleInfo's r1 selector.
type handleInfoType uint32

const handleInfoRefCount handleInfoType = 0

// svcGetHandleInfo implements GetHandleInfo: r0=handle, r1=type.
func svcGetHandleInfo(ctx context.Context, c *Call) result.Code {
	obj, code := c.Sys.ResolveHandle(c.Process, c.Thread, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	if handleInfoType(c.CPU.Reg(1)) != handleInfoRefCount {
		return result.InvalidEnumValue
	}
	c.CPU.SetReg(1, 0)
	c.CPU.SetReg(2, 0)
	_ = obj
	return result.Success
}

// svcGetProcessList implements GetProcessList: r0=out buffer address,
// r1=max_count. Writes the number of PIDs actually written to r1.
func svcGetProcessList(ctx context.Context, c *Call) result.Code {
	addr := c.CPU.Reg(0)
	max := int(c.CPU.Reg(1))
	pids := c.Sys.Processes()
	if len(pids) > max {
		pids = pids[:max]
	}
	for i, pid := range pids {
		c.CPU.WriteMemory32(addr+uint32(i*4), uint32(pid))
	}
	c.CPU.SetReg(1, uint32(len(pids)))
	return result.Success
}

// svcGetResourceLimit implements GetResourceLimit: r0=process handle.
// Writes the resource limit handle to r1.
func svcGetResourceLimit(ctx context.Context, c *Call) result.Code {
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	h, code := c.Process.Handles.Create(proc.Limit)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcGetResourceLimitLimitValues implements GetResourceLimitLimitValues:
// r0=values out address, r1=resource limit handle, r2=names address,
// r3=name count. Writes count int64 values to the out buffer
// (SPEC_FULL.md's supplemented "resource-limit array marshaling" feature).
func svcGetResourceLimitLimitValues(ctx context.Context, c *Call) result.Code {
	return resourceLimitArray(ctx, c, func(rl *kernel.ResourceLimit, t kernel.ResourceType) int64 {
		return rl.GetMaxResourceValue(t)
	})
}

// svcGetResourceLimitCurrentValues implements GetResourceLimitCurrentValues,
// identical to GetResourceLimitLimitValues but reporting current usage.
func svcGetResourceLimitCurrentValues(ctx context.Context, c *Call) result.Code {
	return resourceLimitArray(ctx, c, func(rl *kernel.ResourceLimit, t kernel.ResourceType) int64 {
		return rl.GetCurrentResourceValue(t)
	})
}

func resourceLimitArray(ctx context.Context, c *Call, read func(*kernel.ResourceLimit, kernel.ResourceType) int64) result.Code {
	valuesAddr := c.CPU.Reg(0)
	rl, code := kernel.GetAs[*kernel.ResourceLimit](c.Process.Handles, kernel.Handle(c.CPU.Reg(1)))
	if code.IsError() {
		return code
	}
	namesAddr := c.CPU.Reg(2)
	count := int(c.CPU.Reg(3))

	for i := 0; i < count; i++ {
		t := kernel.ResourceType(c.CPU.ReadMemory32(namesAddr + uint32(i*4)))
		v := read(rl, t)
		c.CPU.WriteMemory32(valuesAddr+uint32(i*8), uint32(v))
		c.CPU.WriteMemory32(valuesAddr+uint32(i*8)+4, uint32(v>>32))
	}
	return result.Success
}
