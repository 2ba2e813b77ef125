package svc

import (
	"context"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// svcConnectToPort implements ConnectToPort: r0=port name address (a
// null-terminated guest string, read word-at-a-time since CPUCore only
// exposes 32-bit memory access). Writes the session handle to r1.
// PortNameTooLong mirrors svc.cpp's own cap on the name it will even
// attempt to look up (SPEC_FULL.md's supplemented "ConnectToPort
// validation" feature).
func svcConnectToPort(ctx context.Context, c *Call) result.Code {
	name := readCString(c.CPU, c.CPU.Reg(0), 12)
	if len(name) > 11 {
		return result.PortNameTooLong
	}

	port, code := c.Sys.Ports.Lookup(name)
	if code.IsError() {
		return code
	}
	session, code := port.Connect(name)
	if code.IsError() {
		return code
	}
	h, code := c.Process.Handles.Create(session)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// readCString reads up to maxLen bytes (rounded up to a whole word) from
// addr as a NUL-terminated ASCII string.
func readCString(cpu CPUCore, addr uint32, maxLen int) string {
	buf := make([]byte, 0, maxLen)
	for i := 0; i < maxLen; i += 4 {
		word := cpu.ReadMemory32(addr + uint32(i))
		for shift := 0; shift < 32 && len(buf) < maxLen; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return string(buf)
			}
			buf = append(buf, b)
		}
	}
	return string(buf)
}

// svcCreatePort implements CreatePort: r0=max_sessions, r1=name address
// (may be 0 for an anonymous port). Writes the client handle to r1 and the
// server handle to r2 (SPEC_FULL.md's supplemented "CreatePort/session
// family" feature).
func svcCreatePort(ctx context.Context, c *Call) result.Code {
	maxSessions := int32(c.CPU.Reg(0))
	name := ""
	if addr := c.CPU.Reg(1); addr != 0 {
		name = readCString(c.CPU, addr, 12)
	}
	client, server := kernel.NewPortPair(name, maxSessions)
	if name != "" {
		if code := c.Sys.Ports.Register(name, client); code.IsError() {
			return code
		}
	}
	ch, code := c.Process.Handles.Create(client)
	if code.IsError() {
		return code
	}
	sh, code := c.Process.Handles.Create(server)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(ch))
	c.CPU.SetReg(2, uint32(sh))
	return result.Success
}

// svcCreateSessionToPort implements CreateSessionToPort: r0=client port
// handle. Writes the new client session handle to r1.
func svcCreateSessionToPort(ctx context.Context, c *Call) result.Code {
	port, code := kernel.GetAs[*kernel.ClientPort](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	session, code := port.Connect(port.Name())
	if code.IsError() {
		return code
	}
	h, code := c.Process.Handles.Create(session)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcCreateSession implements CreateSession, taking no arguments: it
// creates an unnamed pair directly, used by services that hand a session
// to a client out-of-band rather than through ConnectToPort. Writes the
// server handle to r1 and the client handle to r2.
func svcCreateSession(ctx context.Context, c *Call) result.Code {
	client, server := kernel.NewSessionPair("")
	sh, code := c.Process.Handles.Create(server)
	if code.IsError() {
		return code
	}
	ch, code := c.Process.Handles.Create(client)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(sh))
	c.CPU.SetReg(2, uint32(ch))
	return result.Success
}

// svcAcceptSession implements AcceptSession: r0=server port handle. Writes
// the accepted server session handle to r1, or blocks if nothing is
// pending by the time ShouldWait would be checked (in this model,
// AcceptSession simply fails with NotFound if nothing is queued yet — a
// real implementation would WaitSynchronization1 on the port handle first,
// as svc.cpp's callers always do before calling this SVC).
func svcAcceptSession(ctx context.Context, c *Call) result.Code {
	port, code := kernel.GetAs[*kernel.ServerPort](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}
	session := port.Accept()
	if session == nil {
		return result.NotFound
	}
	h, code := c.Process.Handles.Create(session)
	if code.IsError() {
		return code
	}
	c.CPU.SetReg(1, uint32(h))
	return result.Success
}

// svcSendSyncRequest implements SendSyncRequest: r0=client session handle.
// Translates the calling thread's command buffer, queues the request on
// the server session, and parks the caller until ReplyAndReceive answers
// it (spec.md §4.3).
func svcSendSyncRequest(ctx context.Context, c *Call) result.Code {
	session, code := kernel.GetAs[*kernel.ClientSession](c.Process.Handles, kernel.Handle(c.CPU.Reg(0)))
	if code.IsError() {
		return code
	}

	requestID, code := c.IPC.TranslateRequest(ctx, c.Thread)
	if code.IsError() {
		return code
	}
	server := session.Server()
	if code := server.Enqueue(c.Thread); code.IsError() {
		return code
	}

	c.Thread.ParkOn(kernel.ThreadWaitIPC, []kernel.WaitObject{server})
	c.Thread.Wakeup = &IPCCallback{IPC: c.IPC, RequestID: requestID}
	server.QueueReply(c.Thread)
	// WakeWaiters here only resumes a server thread already blocked in
	// ReplyAndReceive's receive half waiting for a request to arrive; the
	// calling thread itself is never on server's waiterList (it's queued
	// on awaitingReply instead), so this cannot self-wake the caller.
	c.Sys.Threads.WakeWaiters(server)
	c.Sys.Threads.Park(c.Thread, -1)
	c.Sys.RequestReschedule()

	return c.Thread.WaitSyncResult
}

// svcReplyAndReceive implements ReplyAndReceive: r0=handles address,
// r1=handle count, r2=reply target session handle (0 for none), r3=nanos
// (low), r4=nanos (high). Writes the signaling session's index to r1 on a
// fresh request. Called with no handles, it writes -1 to r1 and returns
// the ReplyAndReceiveNoRendezvous sentinel (spec.md §4.3's ERR(0xE7E3FFFF)
// edge case) when no reply was sent, or Success when one was. A reply-leg
// translation failure panics inside the client's IPCCallback (see
// DESIGN.md); this handler itself does no receive-side translation.
func svcReplyAndReceive(ctx context.Context, c *Call) result.Code {
	handlesAddr := c.CPU.Reg(0)
	count := int(c.CPU.Reg(1))
	replyTarget := kernel.Handle(c.CPU.Reg(2))

	replied := false
	if replyTarget != 0 {
		server, code := kernel.GetAs[*kernel.ServerSession](c.Process.Handles, replyTarget)
		if code.IsError() {
			return code
		}
		waiter := server.PopAwaitingReply()
		if waiter == nil {
			return result.InvalidHandle
		}
		// The waiter's IPCCallback (installed by SendSyncRequest) performs
		// the actual TranslateReply call as part of waking up.
		c.Sys.Threads.Wake(waiter, kernel.WakeupSignal, server)
		c.Sys.RequestReschedule()
		replied = true
	}

	if count == 0 {
		c.CPU.SetReg(1, uint32(0xFFFFFFFF))
		if replied {
			return result.Success
		}
		return result.ReplyAndReceiveNoRendezvous
	}

	sessions := make([]*kernel.ServerSession, 0, count)
	for i := 0; i < count; i++ {
		h := kernel.Handle(c.CPU.ReadMemory32(handlesAddr + uint32(i*4)))
		s, code := kernel.GetAs[*kernel.ServerSession](c.Process.Handles, h)
		if code.IsError() {
			return code
		}
		sessions = append(sessions, s)
	}

	for i, s := range sessions {
		if !s.ShouldWait(c.Thread) {
			s.Acquire(c.Thread)
			c.CPU.SetReg(1, uint32(i))
			return result.Success
		}
	}

	objs := make([]kernel.WaitObject, len(sessions))
	for i, s := range sessions {
		objs[i] = s
	}
	c.Thread.ParkOn(kernel.ThreadWaitIPC, objs)
	c.Thread.Wakeup = &SyncCallback{Objects: objs}
	for _, o := range objs {
		o.AddWaitingThread(c.Thread)
	}
	c.Sys.Threads.Park(c.Thread, -1)
	c.Sys.RequestReschedule()

	c.CPU.SetReg(1, uint32(c.Thread.WaitSyncOutput))
	return c.Thread.WaitSyncResult
}
