package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// ProcessStatus is a Process's coarse lifecycle state.
type ProcessStatus int

const (
	ProcessRunning ProcessStatus = iota
	ProcessExited
)

// MemoryRegion is one of the three physical memory pools SVCs like
// GetSystemInfo's REGION_MEMORY_USAGE and CreateMemoryBlock's addr==0 path
// account against.
type MemoryRegion int

const (
	MemoryRegionApplication MemoryRegion = iota
	MemoryRegionSystem
	MemoryRegionBase
)

// ProcessorID values accepted by CreateThread's processor_id argument.
const (
	ThreadProcessorIDDefault int32 = -2
	ThreadProcessorIDAll     int32 = -1
	ThreadProcessorID0       int32 = 0
	ThreadProcessorID1       int32 = 1
	ThreadProcessorID2       int32 = 2
	ThreadProcessorID3       int32 = 3
)

// ThreadPrioLowest is the numerically-largest (lowest-urgency) priority a
// CreateThread/SetThreadPriority caller may request.
const ThreadPrioLowest uint32 = 0x3F

// ProcessFlags are the exheader-derived bits CreateThread/CreateMemoryBlock
// consult.
type ProcessFlags struct {
	IdealProcessor        int32
	MemoryRegion          MemoryRegion
	SharedDeviceMem       bool
	NoThreadRestrictions  bool
}

// Codeset describes the static code/rodata/data layout introspection SVCs
// (GetProcessInfo's LUMA_CUSTOM_* range) report.
type Codeset struct {
	Name    string
	TitleID uint64

	CodeAddr, CodeSize     uint32
	RODataAddr, RODataSize uint32
	DataAddr, DataSize     uint32
}

// Process is a guest process: identity, VM, resource limit, and handle
// table.
type Process struct {
	baseObject

	ProcessID int32
	Codeset   Codeset
	VM        *VMManager
	Limit     *ResourceLimit
	Handles   *HandleTable

	CreationTick uint64
	Status       ProcessStatus
	Flags        ProcessFlags
	MemoryUsed   uint64

	heapUsed   uint32
	linearUsed uint32
}

// NewProcess constructs a Process with a fresh handle table and the given
// VM manager / resource limit.
func NewProcess(pid int32, codeset Codeset, vm *VMManager, limit *ResourceLimit) *Process {
	return &Process{
		baseObject: newBaseObject(KindProcess, codeset.Name),
		ProcessID:  pid,
		Codeset:    codeset,
		VM:         vm,
		Limit:      limit,
		Handles:    NewHandleTable(),
		Status:     ProcessRunning,
		Flags: ProcessFlags{
			IdealProcessor: ThreadProcessorID0,
			MemoryRegion:   MemoryRegionApplication,
		},
	}
}

// InHeapRange reports whether addr lies in this process's paged heap.
func (p *Process) InHeapRange(addr uint32) bool {
	return addr >= p.VM.heapBase && addr < p.VM.heapEnd
}

// InLinearRange reports whether addr lies in this process's linear
// (physically contiguous) heap.
func (p *Process) InLinearRange(addr uint32) bool {
	return addr >= p.VM.linearBase && addr < p.VM.linearEnd
}

// HeapAllocate commits size bytes of paged heap at addr (or finds space if
// addr == 0 — not modeled here since every caller in this layer supplies an
// explicit address) with perm permissions, returning the effective address.
func (p *Process) HeapAllocate(addr, size uint32, perm Permission) (uint32, result.Code) {
	p.VM.MapBackingMemory(addr, p.heapUsed, size, VMAContinuous, perm)
	p.heapUsed += size
	p.MemoryUsed += uint64(size)
	return addr, result.Success
}

// HeapFree releases [addr, addr+size) of paged heap.
func (p *Process) HeapFree(addr, size uint32) result.Code {
	p.VM.UnmapRange(addr, size)
	if uint64(size) <= p.MemoryUsed {
		p.MemoryUsed -= uint64(size)
	}
	return result.Success
}

// LinearAllocate is HeapAllocate's counterpart for the physically
// contiguous linear heap.
func (p *Process) LinearAllocate(addr, size uint32, perm Permission) (uint32, result.Code) {
	p.VM.MapBackingMemory(addr, p.linearUsed, size, VMAContinuous, perm)
	p.linearUsed += size
	p.MemoryUsed += uint64(size)
	return addr, result.Success
}

// LinearFree is HeapFree's linear-heap counterpart.
func (p *Process) LinearFree(addr, size uint32) result.Code {
	return p.HeapFree(addr, size)
}

// Exit transitions the process to Exited. Callers (ExitProcess) are
// responsible for having already stopped every thread first.
func (p *Process) Exit() { p.Status = ProcessExited }
