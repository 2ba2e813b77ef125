package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// memoryOperation is ControlMemory's packed operation argument: an action
// nibble plus region/linear flag bits, matching svc.cpp's
// MemoryOperation bitfield.
type memoryOperation uint32

const (
	memOpFree      memoryOperation = 1
	memOpReserve   memoryOperation = 2
	memOpCommit    memoryOperation = 3
	memOpMap       memoryOperation = 4
	memOpUnmap     memoryOperation = 5
	memOpProtect   memoryOperation = 6
	memOpMask      memoryOperation = 0xFF
	memOpLinear    memoryOperation = 0x10000
)

// svcControlMemory implements ControlMemory: r0=operation, r1=addr0,
// r2=addr1, r3=size, r4=permissions. Writes the resulting address to r1.
func svcControlMemory(ctx context.Context, c *Call) result.Code {
	op := memoryOperation(c.CPU.Reg(0))
	addr0 := c.CPU.Reg(1)
	size := c.CPU.Reg(3)
	perm := kernel.Permission(c.CPU.Reg(4))

	if addr0%0x1000 != 0 || size%0x1000 != 0 {
		return result.MisalignedAddress
	}

	var outAddr uint32
	var code result.Code
	switch op & memOpMask {
	case memOpCommit:
		if op&memOpLinear != 0 {
			outAddr, code = c.Process.LinearAllocate(addr0, size, perm)
		} else {
			outAddr, code = c.Process.HeapAllocate(addr0, size, perm)
		}
	case memOpFree:
		code = c.Process.HeapFree(addr0, size)
		outAddr = addr0
	case memOpProtect:
		code = c.Process.VM.Reprotect(addr0, size, perm)
		outAddr = addr0
	default:
		return result.InvalidEnumValue
	}

	c.CPU.SetReg(1, outAddr)
	return code
}

// svcQueryMemory implements QueryMemory: r0=addr. Writes base/size/perm/
// state to r1-r4.
func svcQueryMemory(ctx context.Context, c *Call) result.Code {
	return queryInto(c, c.Process, c.CPU.Reg(0))
}

// svcQueryProcessMemory implements QueryProcessMemory: r0=process handle,
// r1=addr.
func svcQueryProcessMemory(ctx context.Context, c *Call) result.Code {
	proc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	return queryInto(c, proc, c.CPU.Reg(1))
}

func queryInto(c *Call, proc *kernel.Process, addr uint32) result.Code {
	q, code := proc.VM.Query(addr)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, q.Base)
	c.CPU.SetReg(2, q.Size)
	c.CPU.SetReg(3, uint32(q.Permissions))
	c.CPU.SetReg(4, uint32(q.State))
	return result.Success
}

// svcCreateMemoryBlock implements CreateMemoryBlock: r0=addr, r1=size,
// r2=my_permission, r3=other_permission. Writes the handle to r1.
func svcCreateMemoryBlock(ctx context.Context, c *Call) result.Code {
	addr := c.CPU.Reg(0)
	size := c.CPU.Reg(1)
	myPerm := kernel.Permission(c.CPU.Reg(2))
	otherPerm := kernel.Permission(c.CPU.Reg(3))

	if size%0x1000 != 0 {
		return result.MisalignedSize
	}
	block := kernel.NewSharedMemory(c.Process, addr, size, myPerm, otherPerm, "")
	if addr != 0 {
		if _, code := block.Map(c.Process, addr, myPerm); code.IsError() {
			return code
		}
	}
	h, code := c.Process.Handles.Create(block)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcMapMemoryBlock implements MapMemoryBlock: r0=handle, r1=addr,
// r2=my_permission, r3=other_permission.
func svcMapMemoryBlock(ctx context.Context, c *Call) result.Code {
	block, code := kernel.GetAs[*kernel.SharedMemory](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	addr := c.CPU.Reg(1)
	perm := kernel.Permission(c.CPU.Reg(2))
	_, code = block.Map(c.Process, addr, perm)
	return code
}

// svcUnmapMemoryBlock implements UnmapMemoryBlock: r0=handle, r1=addr.
func svcUnmapMemoryBlock(ctx context.Context, c *Call) result.Code {
	block, code := kernel.GetAs[*kernel.SharedMemory](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	return block.Unmap(c.Process)
}

// svcInvalidateInstructionCacheRange and svcInvalidateEntireInstructionCache
// are cache-maintenance passthroughs: on a real CPU backend these would
// flush icache, but HLE has no instruction cache of its own to invalidate,
// so they are accepted and no-op (SPEC_FULL.md's "cache-invalidation
// passthroughs" supplemented feature).
func svcInvalidateInstructionCacheRange(ctx context.Context, c *Call) result.Code {
	return result.Success
}

func svcInvalidateEntireInstructionCache(ctx context.Context, c *Call) result.Code {
	return result.Success
}

// roundUpPageEx rounds size up to the 3DS's 0x1000 MMU page granularity,
// matching the %0x1000 convention ControlMemory already enforces.
func roundUpPageEx(size uint32) uint32 {
	if size%0x1000 == 0 {
		return size
	}
	return (size &^ 0xFFF) + 0x1000
}

// svcMapProcessMemoryEx implements MapProcessMemoryEx: r0=dst process
// handle, r1=dst addr, r2=src process handle, r3=src addr, r4=size. Only
// linear memory is supported: the source VMA must be BackingMemory with
// state Continuous, and the mapping is always installed ReadWriteExecute
// in the destination (spec.md §4.5).
func svcMapProcessMemoryEx(ctx context.Context, c *Call) result.Code {
	dstProc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	dstAddr := c.CPU.Reg(1)
	srcProc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(2)))
	if code.IsError() {
		return code
	}
	srcAddr := c.CPU.Reg(3)
	size := roundUpPageEx(c.CPU.Reg(4))

	vma, ok := srcProc.VM.Find(srcAddr)
	if !ok || vma.Backing != kernel.BackingMemory || vma.State != kernel.VMAContinuous {
		return result.InvalidAddress
	}
	offset := srcAddr - vma.Base
	if offset+size > vma.Size {
		return result.InvalidAddress
	}

	dstProc.VM.MapBackingMemory(dstAddr, vma.PhysOffset+offset, size, kernel.VMAContinuous, kernel.PermissionReadWriteExecute)
	return result.Success
}

// svcUnmapProcessMemoryEx implements UnmapProcessMemoryEx: r0=process
// handle, r1=dst addr, r2=size. Only linear memory is supported, matching
// MapProcessMemoryEx's own restriction (spec.md §4.5).
func svcUnmapProcessMemoryEx(ctx context.Context, c *Call) result.Code {
	dstProc, code := kernel.GetAs[*kernel.Process](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	dstAddr := c.CPU.Reg(1)
	size := roundUpPageEx(c.CPU.Reg(2))

	vma, ok := dstProc.VM.Find(dstAddr)
	if !ok || vma.Backing != kernel.BackingMemory || vma.State != kernel.VMAContinuous {
		return result.InvalidAddress
	}

	dstProc.VM.UnmapRange(dstAddr, size)
	return result.Success
}

// svcConvertVaToPa implements the cache-invalidation-adjacent address
// translation SVC: r0=virtual address. Writes the physical address to r1,
// derived from the VMA's PhysOffset when backed by real memory.
func svcConvertVaToPa(ctx context.Context, c *Call) result.Code {
	vma, ok := c.Process.VM.Find(c.CPU.Reg(0))
	if !ok || vma.Backing != kernel.BackingMemory {
		return result.InvalidAddress
	}
	c.CPU.SetReg(1, vma.PhysOffset+(c.CPU.Reg(0)-vma.Base))
	return result.Success
}
