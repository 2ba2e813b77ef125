package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// SharedMemory is a block of memory two processes can each map into their
// own address space with independently chosen permissions. It is not a
// WaitObject: nothing ever WaitSynchronization's on it (spec.md §4.6).
type SharedMemory struct {
	baseObject

	Size uint32

	// owner is the process that originally called CreateMemoryBlock;
	// ownerPerm/otherPerm are the permissions that call fixed for the
	// owner and for whichever other process later maps it.
	owner     *Process
	ownerAddr uint32
	ownerPerm Permission
	otherPerm Permission

	// mappedOther records the second process's mapping, once
	// MapMemoryBlock has been called by someone other than owner.
	mappedOther *Process
	otherAddr   uint32
}

// NewSharedMemory constructs a block owned by owner, mapped at ownerAddr
// with ownerPerm, and offering otherPerm to whoever maps it next.
func NewSharedMemory(owner *Process, ownerAddr, size uint32, ownerPerm, otherPerm Permission, name string) *SharedMemory {
	return &SharedMemory{
		baseObject: newBaseObject(KindSharedMemory, name),
		Size:       size,
		owner:      owner,
		ownerAddr:  ownerAddr,
		ownerPerm:  ownerPerm,
		otherPerm:  otherPerm,
	}
}

// Map installs this block into proc's VM at addr with perm, which must be
// compatible with the permission the creator fixed for that side
// (InvalidCombination otherwise). addr == 0 lets the mapper reuse the
// address the creator originally chose.
func (s *SharedMemory) Map(proc *Process, addr uint32, perm Permission) (uint32, result.Code) {
	allowed := s.otherPerm
	if proc == s.owner {
		allowed = s.ownerPerm
	}
	if perm != PermissionDontCare && perm != allowed {
		return 0, result.InvalidCombination
	}
	if addr == 0 {
		addr = s.ownerAddr
	}
	proc.VM.MapBackingMemory(addr, 0, s.Size, VMAShared, allowed)
	if proc != s.owner {
		s.mappedOther = proc
		s.otherAddr = addr
	}
	return addr, result.Success
}

// Unmap removes this block's mapping from proc's VM.
func (s *SharedMemory) Unmap(proc *Process) result.Code {
	addr := s.ownerAddr
	if proc != s.owner {
		addr = s.otherAddr
		s.mappedOther = nil
	}
	proc.VM.UnmapRange(addr, s.Size)
	return result.Success
}
