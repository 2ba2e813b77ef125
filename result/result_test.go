package result

import "testing"

func TestNewPacksAndUnpacksFields(t *testing.T) {
	c := New(123, ModuleKernel, SummaryWrongArgument, LevelUsage)
	if got := c.Description(); got != 123 {
		t.Fatalf("Description() = %d, want 123", got)
	}
	if got := c.Module(); got != ModuleKernel {
		t.Fatalf("Module() = %d, want %d", got, ModuleKernel)
	}
	if got := c.Summary(); got != SummaryWrongArgument {
		t.Fatalf("Summary() = %d, want %d", got, SummaryWrongArgument)
	}
	if got := c.Level(); got != LevelUsage {
		t.Fatalf("Level() = %d, want %d", got, LevelUsage)
	}
}

func TestSuccessIsZeroValue(t *testing.T) {
	var c Code
	if c != Success {
		t.Fatal("zero-value Code is not Success")
	}
	if !c.IsSuccess() || c.IsError() {
		t.Fatal("zero-value Code does not report as success")
	}
}

func TestNonZeroCodeIsError(t *testing.T) {
	c := New(1, ModuleOS, SummaryNotFound, LevelStatus)
	if c.IsSuccess() || !c.IsError() {
		t.Fatal("nonzero Code did not report as an error")
	}
}

func TestRawPreservesSentinelBitsVerbatim(t *testing.T) {
	c := Raw(0xE7E3FFFF)
	if uint32(c) != 0xE7E3FFFF {
		t.Fatalf("Raw round-trip = %#x, want 0xE7E3FFFF", uint32(c))
	}
}
