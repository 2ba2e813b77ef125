package kernel

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alexankitty/citra-hle-kernel/config"
	"github.com/alexankitty/citra-hle-kernel/result"
)

// System is the single global kernel instance: every process, port, and
// scheduling tick flows through it under one lock. Grounded on gvisor's
// Kernel type (pkg/sentry/kernel/kernel.go), whose extMu guards exactly
// this kind of cross-process state from concurrent syscalls; here the SVC
// dispatch layer (package svc) is the sole caller and is expected to hold
// System.Mu for the duration of a single SVC (spec.md §1, "single global
// kernel lock, no per-object locks").
type System struct {
	// Mu is the global kernel lock. svc.Dispatch acquires it before looking up
	// the handler and releases it only after the handler returns (or
	// after parking the calling thread), matching spec.md's "SVCs run
	// with the kernel lock held throughout" concurrency model.
	Mu sync.Mutex

	Config config.Kernel
	Log    *logrus.Logger

	Threads *ThreadManager
	Ports   *PortRegistry

	processes map[int32]*Process
	nextPID   int32

	// coreTicks is each emulated core's free-running tick counter,
	// advanced by Config.TickAdvance on every GetSystemTick call to
	// defeat guest busy-wait loops (spec.md §9).
	coreTicks []uint64

	// pendingReschedule is set by any SVC that changed scheduling state
	// (woke a thread, changed a priority) and consumed by the dispatch
	// loop after the handler returns, rather than rescheduling
	// synchronously inside the handler (spec.md §3, RescheduleHook).
	pendingReschedule bool
}

// NewSystem constructs a System with cfg.CoreCount emulated cores and an
// empty process table.
func NewSystem(cfg config.Kernel, log *logrus.Logger) *System {
	if log == nil {
		log = logrus.New()
	}
	return &System{
		Config:    cfg,
		Log:       log,
		Threads:   NewThreadManager(cfg.CoreCount),
		Ports:     NewPortRegistry(),
		processes: make(map[int32]*Process),
		nextPID:   1,
		coreTicks: make([]uint64, cfg.CoreCount),
	}
}

// CreateProcess registers a freshly constructed Process under a new PID and
// returns it.
func (s *System) CreateProcess(codeset Codeset, vm *VMManager, limit *ResourceLimit) *Process {
	pid := s.nextPID
	s.nextPID++
	p := NewProcess(pid, codeset, vm, limit)
	s.processes[pid] = p
	s.Log.WithFields(logrus.Fields{"pid": pid, "name": codeset.Name}).Debug("process created")
	return p
}

// Process looks up a live process by PID.
func (s *System) Process(pid int32) (*Process, bool) {
	p, ok := s.processes[pid]
	return p, ok
}

// Processes returns every live PID, for GetProcessList.
func (s *System) Processes() []int32 {
	out := make([]int32, 0, len(s.processes))
	for pid := range s.processes {
		out = append(out, pid)
	}
	return out
}

// RemoveProcess drops a process from the registry once ExitProcess has
// finished tearing it down.
func (s *System) RemoveProcess(pid int32) { delete(s.processes, pid) }

// Tick returns coreID's current tick count and advances it by
// Config.TickAdvance, implementing GetSystemTick's anti-busy-wait hack
// (spec.md §9: "every read must observably advance the counter, by at
// least TickAdvance, so a guest spin loop polling the tick register
// always eventually observes forward progress").
func (s *System) Tick(coreID int) uint64 {
	if coreID < 0 || coreID >= len(s.coreTicks) {
		coreID = 0
	}
	tick := s.coreTicks[coreID]
	s.coreTicks[coreID] += s.Config.TickAdvance
	return tick
}

// RequestReschedule marks that the current core's scheduler should re-pick
// its running thread once the in-flight SVC returns, rather than doing so
// synchronously (spec.md §3).
func (s *System) RequestReschedule() { s.pendingReschedule = true }

// ConsumeReschedule reports and clears the pending-reschedule flag; called
// once by the dispatch loop after a handler returns.
func (s *System) ConsumeReschedule() bool {
	v := s.pendingReschedule
	s.pendingReschedule = false
	return v
}

// resolveSelfHandle maps the reserved CurrentProcess/CurrentThread handles
// to the caller's own objects, bypassing the handle table entirely (spec.md
// §4.1's "self-reference handles").
func resolveSelfHandle(h Handle, proc *Process, thread *Thread) (Object, bool) {
	switch h {
	case CurrentProcess:
		return proc, true
	case CurrentThread:
		return thread, true
	default:
		return nil, false
	}
}

// ResolveHandle looks up h in proc's handle table, transparently resolving
// the CurrentProcess/CurrentThread reserved values first.
func (s *System) ResolveHandle(proc *Process, thread *Thread, h Handle) (Object, result.Code) {
	if obj, ok := resolveSelfHandle(h, proc, thread); ok {
		return obj, result.Success
	}
	obj, ok := proc.Handles.Get(h)
	if !ok {
		return nil, result.InvalidHandle
	}
	return obj, result.Success
}
