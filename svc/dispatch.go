package svc

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// HandlerFunc implements one SVC. It reads its arguments from c.CPU's
// registers/memory, performs the kernel-state transition, writes any
// secondary outputs (r1, r2, ...) itself, and returns the primary result
// code that Dispatch writes into r0 — mirroring svc.cpp's convention that
// every SVC wrapper's C++ return value becomes r0 while out-parameters are
// written directly into the guest's register file.
type HandlerFunc func(ctx context.Context, c *Call) result.Code

// Call bundles everything a handler needs: kernel state, the external
// contracts (CPU/IPC), and the calling process/thread.
type Call struct {
	Sys     *kernel.System
	CPU     CPUCore
	IPC     IPCTranslator
	Process *kernel.Process
	Thread  *kernel.Thread
}

// Dispatch runs svcNumber against call under the kernel lock, writing the
// resulting primary code into r0. A reserved or unmodeled svcNumber has no
// Table entry; per spec.md §4.1/§6/§7's legacy behavior, that case is
// logged and returned to the guest without touching any register, rather
// than synthesizing a result code the real firmware would never produce.
// After a handler runs, any reschedule it requested is consumed and
// logged; actually acting on it is the harness's job, since this package
// has no scheduler loop of its own beyond kernel.ThreadManager's
// bookkeeping.
func Dispatch(ctx context.Context, svcNumber uint32, call *Call) result.Code {
	call.Sys.Mu.Lock()
	defer call.Sys.Mu.Unlock()

	handler, ok := Table[svcNumber]
	if !ok {
		call.Sys.Log.WithField("svc", svcNumber).Warn("unimplemented svc")
		return result.NotImplemented
	}

	code := handler(ctx, call)
	call.CPU.SetReg(0, uint32(code))

	if call.Sys.ConsumeReschedule() {
		call.Sys.Log.WithFields(logrus.Fields{"svc": svcNumber, "thread": call.Thread.ThreadID}).
			Trace("reschedule requested")
	}
	return code
}
