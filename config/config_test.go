package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesStockKernelBehavior(t *testing.T) {
	d := Default()
	if d.TickAdvance != 150 {
		t.Fatalf("TickAdvance = %d, want 150", d.TickAdvance)
	}
	if d.CoreCount != 4 {
		t.Fatalf("CoreCount = %d, want 4", d.CoreCount)
	}
	if d.KernelSpawnedPIDs != 5 {
		t.Fatalf("KernelSpawnedPIDs = %d, want 5", d.KernelSpawnedPIDs)
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.toml")
	if err := os.WriteFile(path, []byte("tick_advance = 300\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickAdvance != 300 {
		t.Fatalf("TickAdvance = %d, want 300 (overridden)", cfg.TickAdvance)
	}
	if cfg.CoreCount != 4 {
		t.Fatalf("CoreCount = %d, want 4 (default preserved)", cfg.CoreCount)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load(missing file) succeeded, want an error")
	}
}
