package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// SyncCallback is installed on a thread parked by WaitSynchronization1/N.
// On wakeup it records which object resumed the thread (for
// WaitSynchronizationN's *out_index) and the result to hand back from the
// original SVC call, per spec.md §4.4's "two concrete forms" design note.
type SyncCallback struct {
	// Objects is the full wait set, in the order passed to
	// WaitSynchronizationN, needed to compute out_index on a signal
	// wakeup (WakeUp only receives the one object that triggered it).
	Objects []kernel.WaitObject
	WaitAll bool
}

// WakeUp implements kernel.WakeupCallback.
func (c *SyncCallback) WakeUp(reason kernel.WakeupReason, thread *kernel.Thread, object kernel.WaitObject) {
	switch reason {
	case kernel.WakeupTimeout:
		thread.WaitSyncResult = result.Timeout
		thread.WaitSyncOutput = -1
	case kernel.WakeupSignal:
		thread.WaitSyncResult = result.Success
		thread.WaitSyncOutput = indexOf(c.Objects, object)
	}
}

func indexOf(objs []kernel.WaitObject, target kernel.WaitObject) int32 {
	for i, o := range objs {
		if o == target {
			return int32(i)
		}
	}
	return -1
}

// IPCCallback is installed on a thread parked by SendSyncRequest while
// waiting for the server side to ReplyAndReceive. On wakeup it asks the
// IPCTranslator to write the staged reply into the calling thread's TLS
// command buffer before the thread resumes execution, so the guest
// observes the reply synchronously with SendSyncRequest's return (spec.md
// §4.3).
type IPCCallback struct {
	IPC       IPCTranslator
	RequestID uint64
}

// WakeUp implements kernel.WakeupCallback. A translation failure on this,
// the reply leg, panics rather than returning an error code to the guest:
// the original kernel's ReplyAndReceive never defined what should happen
// if the *reply* side of an already-accepted request fails translation,
// and this port preserves that gap rather than inventing recovery
// behavior for it (see DESIGN.md's Open Question decisions). A failure on
// the *request* leg (TranslateRequest, in SendSyncRequest) is a normal
// error return instead, since svc.cpp is explicit that the caller should
// see it and may retry.
func (c *IPCCallback) WakeUp(reason kernel.WakeupReason, thread *kernel.Thread, object kernel.WaitObject) {
	if reason == kernel.WakeupTimeout {
		thread.WaitSyncResult = result.Timeout
		return
	}
	code := c.IPC.TranslateReply(context.Background(), c.RequestID, thread)
	if code.IsError() {
		panic("ipc: reply-direction translation failure: " + code.Error())
	}
	thread.WaitSyncResult = code
}
