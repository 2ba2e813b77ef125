package svc

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/alexankitty/citra-hle-kernel/config"
	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// testCPU is an in-memory CPUCore: a small register file and a sparse
// memory map, enough to drive handlers without a real translation layer.
type testCPU struct {
	regs [16]uint32
	mem  map[uint32]uint32
	core int
}

func newTestCPU() *testCPU { return &testCPU{mem: make(map[uint32]uint32)} }

func (c *testCPU) Reg(n int) uint32         { return c.regs[n] }
func (c *testCPU) SetReg(n int, v uint32)   { c.regs[n] = v }
func (c *testCPU) ReadMemory32(addr uint32) uint32    { return c.mem[addr] }
func (c *testCPU) WriteMemory32(addr uint32, v uint32) { c.mem[addr] = v }
func (c *testCPU) CoreID() int                        { return c.core }

// testIPC is a minimal IPCTranslator: TranslateRequest/TranslateReply just
// record that they ran and hand back a fixed or per-call error, enough to
// exercise SendSyncRequest/ReplyAndReceive's control flow without a real
// command-buffer codec.
type testIPC struct {
	requestErr result.Code
	replyErr   result.Code

	requests int
	replies  int
}

func (t *testIPC) TranslateRequest(ctx context.Context, thread *kernel.Thread) (uint64, result.Code) {
	t.requests++
	if t.requestErr.IsError() {
		return 0, t.requestErr
	}
	return uint64(t.requests), result.Success
}

func (t *testIPC) TranslateReply(ctx context.Context, requestID uint64, dest *kernel.Thread) result.Code {
	t.replies++
	return t.replyErr
}

// newTestSystem returns a System plus a single process/thread pair,
// registered on core 0's ready queue, ready to drive Dispatch calls
// against.
func newTestSystem(t *testing.T) (*kernel.System, *kernel.Process, *kernel.Thread) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	sys := kernel.NewSystem(config.Default(), log)
	vm := kernel.NewVMManager(0x20000000, 0x08000000, 0x10000000, 0x14000000, 0x18000000)
	proc := sys.CreateProcess(kernel.Codeset{Name: "test"}, vm, kernel.NewResourceLimit())
	thread := kernel.NewThread(1, proc, "main")
	proc.Handles.Create(thread)
	sys.Threads.Enqueue(thread)
	return sys, proc, thread
}

func newTestCall(sys *kernel.System, cpu CPUCore, ipc IPCTranslator, proc *kernel.Process, thread *kernel.Thread) *Call {
	return &Call{Sys: sys, CPU: cpu, IPC: ipc, Process: proc, Thread: thread}
}
