package svc

import (
	"context"
	"testing"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

func TestDispatchUnknownSVCNumberLeavesRegistersUntouched(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	cpu.SetReg(0, 0xCAFEF00D)
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	code := Dispatch(context.Background(), 0xFF, call)
	if code != result.NotImplemented {
		t.Fatalf("Dispatch(unknown) = %v, want NotImplemented", code)
	}
	if got := cpu.Reg(0); got != 0xCAFEF00D {
		t.Fatalf("r0 = %#x, want untouched (legacy unknown-svc behavior)", got)
	}
}

func TestDispatchWritesResultToR0(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	// CreateEvent always succeeds.
	cpu.SetReg(0, uint32(kernel.ResetOneShot))
	code := Dispatch(context.Background(), 0x17, call)
	if code != result.Success {
		t.Fatalf("Dispatch(CreateEvent) = %v, want Success", code)
	}
	if result.Code(cpu.Reg(0)) != result.Success {
		t.Fatalf("r0 = %#x, want Success", cpu.Reg(0))
	}
}
