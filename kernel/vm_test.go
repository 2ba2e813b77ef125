package kernel

import "testing"

func newTestVM() *VMManager {
	return NewVMManager(0x20000000, 0x08000000, 0x10000000, 0x14000000, 0x18000000)
}

func TestVMManagerMapAndQueryCoalesces(t *testing.T) {
	vm := newTestVM()
	vm.MapBackingMemory(0x100000, 0, 0x3000, VMAContinuous, PermissionReadWrite)

	q, code := vm.Query(0x100000)
	if code.IsError() {
		t.Fatalf("Query: %v", code)
	}
	if q.Base != 0x100000 || q.Size != 0x3000 {
		t.Fatalf("Query = {Base:%#x Size:%#x}, want {Base:0x100000 Size:0x3000}", q.Base, q.Size)
	}

	// Querying any page within the block must report the same coalesced
	// extent, not just the page containing the query address.
	q2, code := vm.Query(0x101000)
	if code.IsError() {
		t.Fatalf("Query(mid-block): %v", code)
	}
	if q2 != q {
		t.Fatalf("Query(mid-block) = %+v, want %+v (coalesced with neighbors)", q2, q)
	}
}

func TestVMManagerQueryDoesNotCoalesceAcrossDifferentPermissions(t *testing.T) {
	vm := newTestVM()
	vm.MapBackingMemory(0x100000, 0, 0x1000, VMAContinuous, PermissionReadWrite)
	vm.MapBackingMemory(0x101000, 0x1000, 0x1000, VMAContinuous, PermissionRead)

	q, code := vm.Query(0x100000)
	if code.IsError() {
		t.Fatalf("Query: %v", code)
	}
	if q.Base != 0x100000 || q.Size != 0x1000 {
		t.Fatalf("Query = {Base:%#x Size:%#x}, want the RW region alone ({0x100000, 0x1000})", q.Base, q.Size)
	}
}

func TestVMManagerReprotect(t *testing.T) {
	vm := newTestVM()
	vm.MapBackingMemory(0x100000, 0, 0x2000, VMAContinuous, PermissionReadWrite)
	if code := vm.Reprotect(0x100000, 0x2000, PermissionRead); code.IsError() {
		t.Fatalf("Reprotect: %v", code)
	}
	q, _ := vm.Query(0x100000)
	if q.Permissions != PermissionRead {
		t.Fatalf("Permissions after Reprotect = %v, want PermissionRead", q.Permissions)
	}
}

func TestVMManagerUnmapFreesRange(t *testing.T) {
	vm := newTestVM()
	vm.MapBackingMemory(0x100000, 0, 0x2000, VMAContinuous, PermissionReadWrite)
	vm.UnmapRange(0x100000, 0x2000)

	q, code := vm.Query(0x100000)
	if code.IsError() {
		t.Fatalf("Query after Unmap: %v", code)
	}
	if q.State != VMAFree {
		t.Fatalf("State after Unmap = %v, want VMAFree", q.State)
	}
}

func TestVMManagerQueryPastAddressSpaceEnd(t *testing.T) {
	vm := newTestVM()
	if _, code := vm.Query(0x20000000); !code.IsError() {
		t.Fatal("Query past addressSpaceEnd succeeded, want InvalidAddress")
	}
}
