package kernel

import (
	"sync"

	"github.com/alexankitty/citra-hle-kernel/result"
)

// maxHandleTableSize mirrors the 3DS kernel's per-process handle table
// capacity; handle slots beyond this are never allocated.
const maxHandleTableSize = 4096

// handleGeneration is both the shift applied to the table's counter and the
// low bit set on every issued handle, so handles are odd and never zero.
// Uniqueness comes from the counter only ever increasing (wrapping past
// zero back to 1) and from skipping values still live in the table, which
// satisfies spec.md's "Handles are never reused while live" invariant.
const handleGeneration = 1

// HandleTable is a per-process mapping from Handle to a polymorphic kernel
// Object. It holds strong references: a live table entry keeps its object
// alive regardless of other referrers.
//
// Grounded on pkg/sentry/kernel/fd_table.go's per-process descriptor table
// (small-integer handle -> refcounted kernel object, closing decrements
// refcount), adapted from file descriptors to 3DS-style opaque handles.
type HandleTable struct {
	mu      sync.Mutex
	entries map[Handle]Object
	next    uint32
}

// NewHandleTable returns an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{
		entries: make(map[Handle]Object),
		next:    1,
	}
}

// Create allocates a fresh handle bound to obj and returns it. obj's
// refcount is not touched here; callers construct objects with an initial
// refcount of one (the table's own reference) via newBaseObject.
func (t *HandleTable) Create(obj Object) (Handle, result.Code) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) >= maxHandleTableSize {
		return 0, result.OutOfRange
	}

	for {
		h := Handle(t.next<<handleGeneration | handleGeneration)
		t.next++
		if t.next == 0 {
			t.next = 1
		}
		if _, taken := t.entries[h]; taken {
			continue
		}
		t.entries[h] = obj
		return h, result.Success
	}
}

// Close removes handle's table entry and decrements the underlying
// object's refcount. InvalidHandle if the handle was never live or was
// already closed.
func (t *HandleTable) Close(h Handle) result.Code {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.entries[h]
	if !ok {
		return result.InvalidHandle
	}
	delete(t.entries, h)
	obj.decRef()
	return result.Success
}

// Get returns the object bound to h without a type check, or false if h is
// not live in this table. CurrentProcess/CurrentThread are resolved by
// callers before reaching the table (see System.ResolveHandle).
func (t *HandleTable) Get(h Handle) (Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.entries[h]
	return obj, ok
}

// Duplicate creates a second handle referring to the same object as h,
// bumping its refcount.
func (t *HandleTable) Duplicate(h Handle) (Handle, result.Code) {
	t.mu.Lock()
	obj, ok := t.entries[h]
	t.mu.Unlock()
	if !ok {
		return 0, result.InvalidHandle
	}
	nh, code := t.Create(obj)
	if code.IsError() {
		return 0, code
	}
	obj.incRef()
	return nh, result.Success
}

// Enumerate returns every live handle in the table, in no particular
// order, for introspection SVCs.
func (t *HandleTable) Enumerate() []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		out = append(out, h)
	}
	return out
}

// GetAs resolves h to an object of type *T, returning result.InvalidHandle
// if the handle is dead or bound to an object of a different Kind. This is
// the generic tag-checked accessor spec.md Design Notes §9 calls for
// ("get<T>() on a handle performs a tag check").
func GetAs[T Object](t *HandleTable, h Handle) (T, result.Code) {
	var zero T
	obj, ok := t.Get(h)
	if !ok {
		return zero, result.InvalidHandle
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, result.InvalidHandle
	}
	return typed, result.Success
}

// GetWaitObject resolves h to the WaitObject interface, used by the
// WaitSynchronization* and ReplyAndReceive family which accept any
// waitable kind rather than one specific concrete type.
func GetWaitObject(t *HandleTable, h Handle) (WaitObject, result.Code) {
	obj, ok := t.Get(h)
	if !ok {
		return nil, result.InvalidHandle
	}
	wo, ok := obj.(WaitObject)
	if !ok {
		return nil, result.InvalidHandle
	}
	return wo, result.Success
}
