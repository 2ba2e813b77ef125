package kernel

import "testing"

func TestAddressArbiterSignalOneFIFO(t *testing.T) {
	a := NewAddressArbiter("a")
	t1 := NewThread(1, nil, "t1")
	t2 := NewThread(2, nil, "t2")
	a.Park(0x1000, t1)
	a.Park(0x1000, t2)

	got := a.SignalOne(0x1000)
	if got != t1 {
		t.Fatalf("SignalOne = %v, want t1", got)
	}
	got = a.SignalOne(0x1000)
	if got != t2 {
		t.Fatalf("SignalOne = %v, want t2", got)
	}
	if a.SignalOne(0x1000) != nil {
		t.Fatal("SignalOne on an empty queue returned non-nil")
	}
}

func TestAddressArbiterSignalAllRespectsCount(t *testing.T) {
	a := NewAddressArbiter("a")
	threads := []*Thread{
		NewThread(1, nil, "t1"),
		NewThread(2, nil, "t2"),
		NewThread(3, nil, "t3"),
	}
	for _, th := range threads {
		a.Park(0x2000, th)
	}

	woken := a.SignalAll(0x2000, 2)
	if len(woken) != 2 || woken[0] != threads[0] || woken[1] != threads[1] {
		t.Fatalf("SignalAll(count=2) = %v, want first two threads", woken)
	}
	remaining := a.SignalAll(0x2000, 0) // <= 0 means wake every remaining waiter
	if len(remaining) != 1 || remaining[0] != threads[2] {
		t.Fatalf("SignalAll(count<=0) = %v, want remaining single waiter", remaining)
	}
}

func TestAddressArbiterRemoveParked(t *testing.T) {
	a := NewAddressArbiter("a")
	t1 := NewThread(1, nil, "t1")
	t2 := NewThread(2, nil, "t2")
	a.Park(0x3000, t1)
	a.Park(0x3000, t2)

	a.RemoveParked(0x3000, t1)
	if got := a.SignalOne(0x3000); got != t2 {
		t.Fatalf("SignalOne after RemoveParked = %v, want t2", got)
	}
}

func TestCheckWordWaitIfLessThan(t *testing.T) {
	mem := map[uint32]int32{0x4000: 5}
	read := func(addr uint32) int32 { return mem[addr] }

	mustWait, code := CheckWord(read, 0x4000, 10, ArbitrationWaitIfLessThan)
	if code.IsError() || !mustWait {
		t.Fatalf("CheckWord(5<10) = (%v,%v), want (true,Success)", mustWait, code)
	}
	mustWait, code = CheckWord(read, 0x4000, 1, ArbitrationWaitIfLessThan)
	if code.IsError() || mustWait {
		t.Fatalf("CheckWord(5<1) = (%v,%v), want (false,Success)", mustWait, code)
	}
}

func TestCheckWordInvalidType(t *testing.T) {
	read := func(addr uint32) int32 { return 0 }
	_, code := CheckWord(read, 0, 0, ArbitrationType(99))
	if !code.IsError() {
		t.Fatal("CheckWord(unknown type) succeeded, want InvalidEnumValue")
	}
}
