// Package svc implements the SVC dispatch layer: argument marshaling,
// the fixed SVC number table, and one handler per supported SVC, all
// operating on the kernel package's object model under System.Mu.
package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// CPUCore is the narrow slice of CPU/MMU state a handler needs: reading and
// writing guest registers and guest virtual memory. Nothing in this
// package constructs one; a real frontend (or a test) supplies an
// implementation backed by whatever actually emulates the CPU.
type CPUCore interface {
	// Reg reads general-purpose register n (the ARM calling convention
	// r0-r3 carries SVC arguments and return values).
	Reg(n int) uint32
	// SetReg writes general-purpose register n.
	SetReg(n int, v uint32)

	// ReadMemory32/WriteMemory32 access a 32-bit guest virtual address,
	// used by ArbitrateAddress and the IPC command buffer.
	ReadMemory32(addr uint32) uint32
	WriteMemory32(addr uint32, v uint32)

	// CoreID identifies which emulated core is making this call, for
	// GetSystemTick and thread processor-affinity decisions.
	CoreID() int
}

// IPCTranslator owns reading a request out of a session's TLS command
// buffer and writing a reply back into it. SendSyncRequest and
// ReplyAndReceive both delegate the actual buffer walk here, keeping
// kernel's ServerSession/ClientSession types ignorant of the command
// buffer's header format (spec.md ExternalContracts).
type IPCTranslator interface {
	// TranslateRequest copies/validates the command buffer at the
	// calling thread's TLS address into a session-agnostic staging
	// buffer, returning a translation handle ReplyAndReceive later
	// passes back, or an error if the command buffer failed static
	// header buffer translation (e.g. a static buffer descriptor
	// pointing outside the process's mapped memory).
	TranslateRequest(ctx context.Context, thread *kernel.Thread) (requestID uint64, code result.Code)

	// TranslateReply writes the staged reply for requestID into the
	// destination thread's TLS command buffer.
	TranslateReply(ctx context.Context, requestID uint64, destThread *kernel.Thread) result.Code
}

// ExternalContracts bundles the two interfaces a System needs to actually
// run guest code, resolved once by the harness embedding this package.
type ExternalContracts struct {
	CPU   CPUCore
	IPC   IPCTranslator
}
