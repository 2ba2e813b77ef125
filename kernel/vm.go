package kernel

import (
	"sort"

	"github.com/alexankitty/citra-hle-kernel/result"
)

// Permission is a VMA's page permission bitmask.
type Permission uint32

const (
	PermissionNone Permission = 0
	PermissionRead Permission = 1 << 0
	PermissionWrite Permission = 1 << 1
	PermissionExecute Permission = 1 << 2

	PermissionReadWrite        = PermissionRead | PermissionWrite
	PermissionReadExecute      = PermissionRead | PermissionExecute
	PermissionWriteExecute     = PermissionWrite | PermissionExecute
	PermissionReadWriteExecute = PermissionRead | PermissionWrite | PermissionExecute

	// PermissionDontCare is accepted by a handful of SVCs (CreateMemoryBlock,
	// MapMemoryBlock) as "use whatever the other side already has".
	PermissionDontCare Permission = 1 << 28
)

// VMAState is the lifecycle/classification state of a VMA, independent of
// its permissions; QueryMemory coalesces neighbors sharing both.
type VMAState uint32

const (
	VMAFree VMAState = iota
	VMAContinuous
	VMAShared
	VMACodeStatic
	VMAIO
)

// BackingKind distinguishes a VMA's physical backing.
type BackingKind uint32

const (
	BackingNone BackingKind = iota
	BackingMemory
	BackingMMIO
)

// pageSize is the 3DS's MMU page granularity; every VMA base/size and every
// ControlMemory address argument must be a multiple of this.
const pageSize = 0x1000

const pageMask = pageSize - 1

func pageAligned(v uint32) bool { return v&pageMask == 0 }

func roundUpPage(v uint32) uint32 {
	if v&pageMask == 0 {
		return v
	}
	return (v &^ pageMask) + pageSize
}

// VMA is a single contiguous virtual memory area.
type VMA struct {
	Base        uint32
	Size        uint32
	Permissions Permission
	State       VMAState
	Backing     BackingKind
	// PhysOffset is this VMA's offset into the backing FCRAM region, valid
	// only when Backing == BackingMemory.
	PhysOffset uint32
}

func (v VMA) end() uint32 { return v.Base + v.Size }

// VMManager maintains an ordered, non-overlapping set of VMAs tiling a
// fixed virtual address range, supporting the lower-bound / neighbor
// navigation QueryMemory's coalescing needs (spec.md Design Notes §9).
//
// Grounded on the *idiom* of gvisor's pkg/segment generic ordered interval
// set (lower-bound lookup + bidirectional neighbor walk over a sorted
// sequence); no third-party ordered-map library in the pack is actually
// imported anywhere in gvisor's own source (github.com/google/btree is
// listed in go.mod but never imported), so this is a hand-rolled sorted
// slice with binary search rather than an adopted dependency — see
// DESIGN.md.
type VMManager struct {
	vmas []VMA // sorted by Base, always tiling [0, addressSpaceEnd) with no gaps

	heapBase, heapEnd     uint32
	linearBase, linearEnd uint32
}

// NewVMManager returns a VMManager whose single initial VMA is Free and
// spans the entire addressable range.
func NewVMManager(addressSpaceEnd, heapBase, heapEnd, linearBase, linearEnd uint32) *VMManager {
	return &VMManager{
		vmas:       []VMA{{Base: 0, Size: addressSpaceEnd, State: VMAFree}},
		heapBase:   heapBase,
		heapEnd:    heapEnd,
		linearBase: linearBase,
		linearEnd:  linearEnd,
	}
}

// indexOf returns the index of the VMA containing addr.
func (m *VMManager) indexOf(addr uint32) int {
	i := sort.Search(len(m.vmas), func(i int) bool { return m.vmas[i].end() > addr })
	if i < len(m.vmas) {
		return i
	}
	return -1
}

// Find returns the VMA containing addr, if any.
func (m *VMManager) Find(addr uint32) (VMA, bool) {
	i := m.indexOf(addr)
	if i < 0 {
		return VMA{}, false
	}
	return m.vmas[i], true
}

// splitAt ensures a VMA boundary exists at addr, splitting the VMA that
// straddles it if needed. No-op if addr is already a boundary or outside
// the mapped range.
func (m *VMManager) splitAt(addr uint32) {
	i := m.indexOf(addr)
	if i < 0 || m.vmas[i].Base == addr {
		return
	}
	v := m.vmas[i]
	left := v
	left.Size = addr - v.Base
	right := v
	right.Base = addr
	right.Size = v.end() - addr
	if v.Backing == BackingMemory {
		right.PhysOffset = v.PhysOffset + (addr - v.Base)
	}
	m.vmas = append(m.vmas[:i], append([]VMA{left, right}, m.vmas[i+1:]...)...)
}

// setRange replaces [base, base+size) with a single VMA carrying the given
// attributes, splitting existing neighbors at the boundaries first.
func (m *VMManager) setRange(base, size uint32, vma VMA) {
	m.splitAt(base)
	m.splitAt(base + size)
	start := m.indexOf(base)
	end := start
	for end < len(m.vmas) && m.vmas[end].Base < base+size {
		end++
	}
	vma.Base = base
	vma.Size = size
	m.vmas = append(m.vmas[:start], append([]VMA{vma}, m.vmas[end:]...)...)
}

// Reprotect changes the permissions of [base, base+size) without altering
// state or backing.
func (m *VMManager) Reprotect(base, size uint32, perm Permission) result.Code {
	m.splitAt(base)
	m.splitAt(base + size)
	i := m.indexOf(base)
	for i < len(m.vmas) && m.vmas[i].Base < base+size {
		m.vmas[i].Permissions = perm
		i++
	}
	return result.Success
}

// ReprotectAllNonFree sets every non-Free VMA's permissions to perm,
// backing ControlProcess's SET_MMU_TO_RWX sub-op.
func (m *VMManager) ReprotectAllNonFree(perm Permission) {
	for i := range m.vmas {
		if m.vmas[i].State != VMAFree {
			m.vmas[i].Permissions = perm
		}
	}
}

// MapBackingMemory installs a BackingMemory VMA of the given size/state at
// base, backed by physOffset into FCRAM.
func (m *VMManager) MapBackingMemory(base, physOffset, size uint32, state VMAState, perm Permission) {
	m.setRange(base, size, VMA{Permissions: perm, State: state, Backing: BackingMemory, PhysOffset: physOffset})
}

// UnmapRange marks [base, base+size) Free.
func (m *VMManager) UnmapRange(base, size uint32) {
	m.setRange(base, size, VMA{State: VMAFree})
}

// QueryResult is the {base, size, permissions, state} tuple QueryMemory and
// QueryProcessMemory report, after coalescing with identical neighbors.
type QueryResult struct {
	Base        uint32
	Size        uint32
	Permissions Permission
	State       VMAState
}

// Query locates the VMA containing addr and coalesces it with neighbors
// sharing identical permissions and state, regardless of physical backing
// (spec.md §4.5).
func (m *VMManager) Query(addr uint32) (QueryResult, result.Code) {
	i := m.indexOf(addr)
	if i < 0 {
		return QueryResult{}, result.InvalidAddress
	}
	perm, state := m.vmas[i].Permissions, m.vmas[i].State

	lower := i
	for lower > 0 && m.vmas[lower-1].Permissions == perm && m.vmas[lower-1].State == state {
		lower--
	}
	upper := i
	for upper+1 < len(m.vmas) && m.vmas[upper+1].Permissions == perm && m.vmas[upper+1].State == state {
		upper++
	}

	return QueryResult{
		Base:        m.vmas[lower].Base,
		Size:        m.vmas[upper].end() - m.vmas[lower].Base,
		Permissions: perm,
		State:       state,
	}, result.Success
}
