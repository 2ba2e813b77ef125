package kernel

import "github.com/alexankitty/citra-hle-kernel/result"

// request is one pending SendSyncRequest, queued on a ServerSession until
// ReplyAndReceive (or the HLE service dispatch layer) picks it up. The
// translated command buffer contents are opaque to kernel: IPCTranslator
// (package svc) owns reading/writing them, so a request here is only the
// parking records ReplyAndReceive needs to resume the right caller.
type request struct {
	caller *Thread
}

// ClientSession is the handle SendSyncRequest is called on. It is a
// WaitObject purely so a session closed by the remote side becomes
// observably signaled to a thread already parked on it (spec.md §4.3,
// "ClientSession Closed").
type ClientSession struct {
	baseObject
	waiterList

	server *ServerSession
	closed bool
}

// Server returns the ServerSession half paired with this ClientSession,
// used by SendSyncRequest to find the queue to enqueue onto.
func (c *ClientSession) Server() *ServerSession { return c.server }

func (c *ClientSession) ShouldWait(thread *Thread) bool { return !c.closed }
func (c *ClientSession) Acquire(thread *Thread)          {}
func (c *ClientSession) AddWaitingThread(t *Thread)      { c.waiterList.add(t) }
func (c *ClientSession) RemoveWaitingThread(t *Thread)   { c.waiterList.remove(t) }

// ServerSession is the handle a service implementation calls
// ReplyAndReceive on to pick up the next queued request.
type ServerSession struct {
	baseObject
	waiterList

	client  *ClientSession
	pending []*request
	closed  bool

	// awaitingReply is the FIFO of callers parked in SendSyncRequest,
	// each waiting for ReplyAndReceive's reply-target branch to answer
	// their specific request. Kept separate from waiterList, which is
	// reserved for server-side threads blocked in ReplyAndReceive's
	// receive half waiting for a *new* request to arrive — the two
	// roles would otherwise collide: a client popped by WakeWaiters
	// right after enqueuing its own request would be woken before any
	// server ever looked at it.
	awaitingReply []*Thread
}

func (s *ServerSession) ShouldWait(thread *Thread) bool { return len(s.pending) == 0 && !s.closed }

func (s *ServerSession) Acquire(thread *Thread) {
	if len(s.pending) > 0 {
		s.pending = s.pending[1:]
	}
}

func (s *ServerSession) AddWaitingThread(t *Thread)    { s.waiterList.add(t) }
func (s *ServerSession) RemoveWaitingThread(t *Thread) { s.waiterList.remove(t) }

// NewSessionPair constructs a linked ClientSession/ServerSession, as
// returned together by CreateSession and by a ServerPort accepting a
// pending connection.
func NewSessionPair(name string) (*ClientSession, *ServerSession) {
	c := &ClientSession{baseObject: newBaseObject(KindClientSession, name)}
	s := &ServerSession{baseObject: newBaseObject(KindServerSession, name)}
	c.server = s
	s.client = c
	return c, s
}

// Enqueue parks a SendSyncRequest's caller on the server side's pending
// queue; the thread manager is responsible for waking the server session's
// waiters afterward.
func (s *ServerSession) Enqueue(caller *Thread) result.Code {
	if s.closed {
		return result.SessionClosedByRemote
	}
	s.pending = append(s.pending, &request{caller: caller})
	return result.Success
}

// QueueReply registers caller as waiting for ReplyAndReceive to answer the
// request it just enqueued, in FIFO order.
func (s *ServerSession) QueueReply(caller *Thread) {
	s.awaitingReply = append(s.awaitingReply, caller)
}

// PopAwaitingReply removes and returns the earliest caller still waiting
// for a reply, or nil if none is parked.
func (s *ServerSession) PopAwaitingReply() *Thread {
	if len(s.awaitingReply) == 0 {
		return nil
	}
	t := s.awaitingReply[0]
	s.awaitingReply = s.awaitingReply[1:]
	return t
}

// Close marks both ends of the pair closed. It does not wake threads
// already parked on either side.
func (s *ServerSession) Close() {
	s.closed = true
	s.client.closed = true
}

// ClientPort is the handle ConnectToPort resolves a name to; connecting
// creates a new session pair and queues the server side on the
// corresponding ServerPort for AcceptSession to pick up.
type ClientPort struct {
	baseObject

	server      *ServerPort
	maxSessions int32
	activeCount int32
}

// ServerPort is the handle a service registers under a name and calls
// AcceptSession on to pick up client connections, one at a time.
type ServerPort struct {
	baseObject
	waiterList

	name    string
	pending []*ServerSession
}

func (p *ServerPort) ShouldWait(thread *Thread) bool { return len(p.pending) == 0 }

func (p *ServerPort) Acquire(thread *Thread) {
	if len(p.pending) > 0 {
		p.pending = p.pending[1:]
	}
}

func (p *ServerPort) AddWaitingThread(t *Thread)    { p.waiterList.add(t) }
func (p *ServerPort) RemoveWaitingThread(t *Thread) { p.waiterList.remove(t) }

// NewPortPair constructs a linked ClientPort/ServerPort, as CreatePort
// returns.
func NewPortPair(name string, maxSessions int32) (*ClientPort, *ServerPort) {
	s := &ServerPort{baseObject: newBaseObject(KindServerPort, name), name: name}
	c := &ClientPort{baseObject: newBaseObject(KindClientPort, name), server: s, maxSessions: maxSessions}
	return c, s
}

// Connect creates a fresh session pair, queues the server side on this
// port for AcceptSession, and returns the client side to the caller.
// OutOfRange if the port's max_sessions has already been reached.
func (c *ClientPort) Connect(name string) (*ClientSession, result.Code) {
	if c.maxSessions > 0 && c.activeCount >= c.maxSessions {
		return nil, result.OutOfRange
	}
	client, server := NewSessionPair(name)
	c.activeCount++
	c.server.pending = append(c.server.pending, server)
	return client, result.Success
}

// Accept pops the earliest pending connection queued by Connect, or nil if
// none is waiting.
func (p *ServerPort) Accept() *ServerSession {
	if len(p.pending) == 0 {
		return nil
	}
	s := p.pending[0]
	p.pending = p.pending[1:]
	return s
}

// PortRegistry is the kernel-wide mapping from port name to ClientPort,
// backing ConnectToPort's name lookup (spec.md §4.3's "named port
// registry").
type PortRegistry struct {
	ports map[string]*ClientPort
}

// NewPortRegistry returns an empty registry.
func NewPortRegistry() *PortRegistry {
	return &PortRegistry{ports: make(map[string]*ClientPort)}
}

// Register publishes port under name, as a ServerPort-owning HLE service
// would on startup. PortNameTooLong mirrors ConnectToPort's own limit
// (svc.cpp caps port names at 11 characters plus a null terminator).
func (r *PortRegistry) Register(name string, port *ClientPort) result.Code {
	if len(name) > 11 {
		return result.PortNameTooLong
	}
	r.ports[name] = port
	return result.Success
}

// Lookup resolves name to its ClientPort, or NotFound.
func (r *PortRegistry) Lookup(name string) (*ClientPort, result.Code) {
	p, ok := r.ports[name]
	if !ok {
		return nil, result.NotFound
	}
	return p, result.Success
}
