package svc

import (
	"context"
	"testing"

	"github.com/alexankitty/citra-hle-kernel/result"
)

func TestControlMemoryCommitThenQueryMemoryCoalesces(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	const addr = 0x08001000
	const size = 0x2000

	cpu.SetReg(0, uint32(memOpCommit))
	cpu.SetReg(1, addr)
	cpu.SetReg(3, size)
	cpu.SetReg(4, uint32(1 /* PermissionRead */ | 2 /* PermissionWrite */))

	code := svcControlMemory(context.Background(), call)
	if code != result.Success {
		t.Fatalf("ControlMemory(commit) = %v, want Success", code)
	}
	if cpu.Reg(1) != addr {
		t.Fatalf("ControlMemory wrote addr %#x, want %#x", cpu.Reg(1), addr)
	}

	qCPU := newTestCPU()
	qCPU.SetReg(0, addr+0x500) // mid-block
	qCall := newTestCall(sys, qCPU, &testIPC{}, proc, thread)
	code = svcQueryMemory(context.Background(), qCall)
	if code != result.Success {
		t.Fatalf("QueryMemory = %v, want Success", code)
	}
	if qCPU.Reg(1) != addr || qCPU.Reg(2) != size {
		t.Fatalf("QueryMemory reported {base:%#x size:%#x}, want {%#x, %#x}", qCPU.Reg(1), qCPU.Reg(2), addr, size)
	}
}

func TestControlMemoryMisalignedAddress(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	cpu.SetReg(0, uint32(memOpCommit))
	cpu.SetReg(1, 0x08001001) // not page-aligned
	cpu.SetReg(3, 0x1000)

	code := svcControlMemory(context.Background(), call)
	if code != result.MisalignedAddress {
		t.Fatalf("ControlMemory(misaligned) = %v, want MisalignedAddress", code)
	}
}

func TestQueryMemoryInvalidAddress(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	cpu.SetReg(0, 0xFFFFFFFF)
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	if code := svcQueryMemory(context.Background(), call); code != result.InvalidAddress {
		t.Fatalf("QueryMemory(out of range) = %v, want InvalidAddress", code)
	}
}
