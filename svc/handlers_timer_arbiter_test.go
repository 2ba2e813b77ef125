package svc

import (
	"context"
	"testing"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

func TestSetTimerNegativeDurationFails(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)
	svcCreateTimer(context.Background(), call)
	h := kernel.Handle(cpu.Reg(1))

	cpu.SetReg(0, uint32(h))
	cpu.SetReg(2, 0xFFFFFFFF) // negative when combined as int64
	if code := svcSetTimer(context.Background(), call); code != result.OutOfRange {
		t.Fatalf("SetTimer(negative initial) = %v, want OutOfRange", code)
	}
}

func TestCreateTimerThenCancelClearsState(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)
	svcCreateTimer(context.Background(), call)
	h := kernel.Handle(cpu.Reg(1))

	cpu.SetReg(0, uint32(h))
	cpu.SetReg(1, 1000)
	if code := svcSetTimer(context.Background(), call); code != result.Success {
		t.Fatalf("SetTimer = %v, want Success", code)
	}
	if code := svcCancelTimer(context.Background(), call); code != result.Success {
		t.Fatalf("CancelTimer = %v, want Success", code)
	}

	tm, _ := kernel.GetAs[*kernel.Timer](proc.Handles, h)
	if tm.ShouldWait(nil) != true {
		t.Fatal("canceled timer reports signaled")
	}
}

func TestArbitrateAddressSignalWakesParkedThread(t *testing.T) {
	sys, proc, owner := newTestSystem(t)
	waiter := kernel.NewThread(2, proc, "waiter")
	proc.Handles.Create(waiter)
	sys.Threads.Enqueue(waiter)

	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, owner)
	svcCreateAddressArbiter(context.Background(), call)
	h := kernel.Handle(cpu.Reg(1))

	const addr = 0x3000
	waiterCPU := newTestCPU()
	waiterCPU.WriteMemory32(addr, 0) // word stays below the threshold
	waiterCPU.SetReg(0, uint32(h))
	waiterCPU.SetReg(1, addr)
	waiterCPU.SetReg(2, uint32(kernel.ArbitrationWaitIfLessThan))
	waiterCPU.SetReg(3, 10)
	waiterCall := newTestCall(sys, waiterCPU, &testIPC{}, proc, waiter)
	if code := svcArbitrateAddress(context.Background(), waiterCall); code != result.Success {
		t.Fatalf("ArbitrateAddress(wait) = %v, want Success (parks, no error)", code)
	}
	if waiter.State != kernel.ThreadWaitSleep {
		t.Fatalf("waiter.State = %v, want ThreadWaitSleep", waiter.State)
	}

	sigCPU := newTestCPU()
	sigCPU.SetReg(0, uint32(h))
	sigCPU.SetReg(1, addr)
	sigCPU.SetReg(2, uint32(kernel.ArbitrationSignal))
	sigCPU.SetReg(3, 1) // wake at most one waiter
	sigCall := newTestCall(sys, sigCPU, &testIPC{}, proc, owner)
	if code := svcArbitrateAddress(context.Background(), sigCall); code != result.Success {
		t.Fatalf("ArbitrateAddress(signal) = %v, want Success", code)
	}
	if waiter.State != kernel.ThreadReady {
		t.Fatalf("waiter.State after signal = %v, want Ready", waiter.State)
	}
}

func TestArbitrateAddressWaitZeroNanosTimesOutWithoutParking(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)
	svcCreateAddressArbiter(context.Background(), call)
	h := kernel.Handle(cpu.Reg(1))

	waitCPU := newTestCPU()
	waitCPU.WriteMemory32(0x4000, 0)
	waitCPU.SetReg(0, uint32(h))
	waitCPU.SetReg(1, 0x4000)
	waitCPU.SetReg(2, uint32(kernel.ArbitrationWaitIfLessThanWithTimeout))
	waitCPU.SetReg(3, 10)
	waitCPU.SetReg(4, 0) // nanos == 0
	waitCall := newTestCall(sys, waitCPU, &testIPC{}, proc, thread)

	if code := svcArbitrateAddress(context.Background(), waitCall); code != result.Timeout {
		t.Fatalf("ArbitrateAddress(nanos=0, would wait) = %v, want Timeout", code)
	}
	if thread.State == kernel.ThreadWaitSleep {
		t.Fatal("nanos=0 must never park the calling thread")
	}
}
