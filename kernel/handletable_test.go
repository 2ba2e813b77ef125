package kernel

import (
	"testing"

	"github.com/alexankitty/citra-hle-kernel/result"
)

func TestHandleTableCreateGetClose(t *testing.T) {
	ht := NewHandleTable()
	e := NewEvent(ResetSticky, "ev")

	h, code := ht.Create(e)
	if code.IsError() {
		t.Fatalf("Create: %v", code)
	}
	if h == InvalidHandleValue {
		t.Fatal("Create returned the reserved zero handle")
	}

	got, ok := ht.Get(h)
	if !ok || got != e {
		t.Fatalf("Get(%v) = %v, %v; want %v, true", h, got, ok, e)
	}

	if code := ht.Close(h); code.IsError() {
		t.Fatalf("Close: %v", code)
	}

	// Handle-close-then-get invariant: a closed handle must never
	// resolve again, even though the underlying slot index could be
	// reissued.
	if _, ok := ht.Get(h); ok {
		t.Fatal("Get succeeded after Close")
	}
	if code := ht.Close(h); code != result.InvalidHandle {
		t.Fatalf("double Close = %v, want InvalidHandle", code)
	}
}

func TestHandleTableGetAsWrongKind(t *testing.T) {
	ht := NewHandleTable()
	m := NewMutex(false, nil, "m")
	h, _ := ht.Create(m)

	if _, code := GetAs[*Event](ht, h); code != result.InvalidHandle {
		t.Fatalf("GetAs[*Event] on a Mutex handle = %v, want InvalidHandle", code)
	}
	got, code := GetAs[*Mutex](ht, h)
	if code.IsError() || got != m {
		t.Fatalf("GetAs[*Mutex] = %v, %v; want %v, Success", got, code, m)
	}
}

func TestHandleTableDuplicate(t *testing.T) {
	ht := NewHandleTable()
	e := NewEvent(ResetOneShot, "ev")
	h1, _ := ht.Create(e)

	h2, code := ht.Duplicate(h1)
	if code.IsError() {
		t.Fatalf("Duplicate: %v", code)
	}
	if h2 == h1 {
		t.Fatal("Duplicate returned the same handle")
	}

	// Closing one handle must not invalidate the other.
	if code := ht.Close(h1); code.IsError() {
		t.Fatalf("Close(h1): %v", code)
	}
	if _, ok := ht.Get(h2); !ok {
		t.Fatal("Get(h2) failed after Close(h1); duplicate handles must be independent")
	}
}

func TestHandleTableOutOfRange(t *testing.T) {
	ht := NewHandleTable()
	for i := 0; i < maxHandleTableSize; i++ {
		if _, code := ht.Create(NewEvent(ResetSticky, "")); code.IsError() {
			t.Fatalf("Create #%d: %v", i, code)
		}
	}
	if _, code := ht.Create(NewEvent(ResetSticky, "")); code != result.OutOfRange {
		t.Fatalf("Create past capacity = %v, want OutOfRange", code)
	}
}
