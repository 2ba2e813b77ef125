package svc

import (
	"context"
	"testing"

	"github.com/alexankitty/citra-hle-kernel/kernel"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// TestSendSyncRequestThenReplyAndReceiveRoundTrip drives a full client/
// server IPC exchange: SendSyncRequest parks the client and queues the
// request, then ReplyAndReceive on the server side wakes the client,
// translating the reply exactly once.
func TestSendSyncRequestThenReplyAndReceiveRoundTrip(t *testing.T) {
	sys, proc, client := newTestSystem(t)
	server := kernel.NewThread(2, proc, "server")
	proc.Handles.Create(server)
	sys.Threads.Enqueue(server)

	clientSession, serverSession := kernel.NewSessionPair("test:1")
	chSession, _ := proc.Handles.Create(clientSession)
	shSession, _ := proc.Handles.Create(serverSession)

	ipc := &testIPC{}

	clientCPU := newTestCPU()
	clientCPU.SetReg(0, uint32(chSession))
	clientCall := newTestCall(sys, clientCPU, ipc, proc, client)

	code := svcSendSyncRequest(context.Background(), clientCall)
	if code != result.Success {
		t.Fatalf("SendSyncRequest = %v, want Success (client parked, no error yet)", code)
	}
	if client.State != kernel.ThreadWaitIPC {
		t.Fatalf("client.State = %v, want ThreadWaitIPC", client.State)
	}
	if ipc.requests != 1 {
		t.Fatalf("TranslateRequest called %d times, want 1", ipc.requests)
	}

	handlesAddr := uint32(0x2000)
	serverCPU := newTestCPU()
	serverCPU.WriteMemory32(handlesAddr, uint32(shSession))
	serverCPU.SetReg(0, handlesAddr)
	serverCPU.SetReg(1, 1)                 // receive count
	serverCPU.SetReg(2, uint32(shSession)) // reply target
	serverCall := newTestCall(sys, serverCPU, ipc, proc, server)

	code = svcReplyAndReceive(context.Background(), serverCall)
	if code != result.Success {
		t.Fatalf("ReplyAndReceive = %v, want Success", code)
	}
	if ipc.replies != 1 {
		t.Fatalf("TranslateReply called %d times, want exactly 1 (no double translation)", ipc.replies)
	}
	if client.State != kernel.ThreadReady {
		t.Fatalf("client.State after reply = %v, want Ready", client.State)
	}
	if client.WaitSyncResult != result.Success {
		t.Fatalf("client.WaitSyncResult = %v, want Success", client.WaitSyncResult)
	}
}

func TestReplyAndReceiveNoHandlesNoReplyReturnsSentinel(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	cpu.SetReg(1, 0) // count == 0
	cpu.SetReg(2, 0) // no reply target
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	code := svcReplyAndReceive(context.Background(), call)
	if code != result.ReplyAndReceiveNoRendezvous {
		t.Fatalf("ReplyAndReceive(no handles, no reply) = %#x, want ReplyAndReceiveNoRendezvous (0xE7E3FFFF)", uint32(code))
	}
}

func TestConnectToPortNameTooLong(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	name := "this-name-is-too-long"
	for i := 0; i < len(name)+1; i += 4 {
		var word uint32
		for shift := 0; shift < 32 && i+shift/8 < len(name); shift += 8 {
			word |= uint32(name[i+shift/8]) << shift
		}
		cpu.WriteMemory32(uint32(i), word)
	}
	cpu.SetReg(0, 0)
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	code := svcConnectToPort(context.Background(), call)
	if code != result.PortNameTooLong {
		t.Fatalf("ConnectToPort(long name) = %v, want PortNameTooLong", code)
	}
}

func TestConnectToPortNotFound(t *testing.T) {
	sys, proc, thread := newTestSystem(t)
	cpu := newTestCPU()
	cpu.WriteMemory32(0, 0) // empty string at addr 0
	cpu.SetReg(0, 0)
	call := newTestCall(sys, cpu, &testIPC{}, proc, thread)

	if code := svcConnectToPort(context.Background(), call); code != result.NotFound {
		t.Fatalf("ConnectToPort(unregistered) = %v, want NotFound", code)
	}
}
