// Package config loads the handful of SVC-layer tunables spec.md calls out
// as implementation details that should not be hardcoded: the
// GetSystemTick anti-busy-wait advance, the emulated core count, and the
// kernel-spawned PID count GetSystemInfo reports.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Kernel holds tunables consumed by the kernel and svc packages.
type Kernel struct {
	// TickAdvance is added to the running core's tick counter on every
	// GetSystemTick call, to defeat busy-wait loops in guest code. spec.md
	// §9 fixes this at 150 but asks that it remain configurable.
	TickAdvance uint64 `toml:"tick_advance"`

	// CoreCount is the number of CPU cores the emulated system exposes.
	// GetSystemInfo's NEW_3DS_INFO probe succeeds only when this is 4.
	CoreCount int `toml:"core_count"`

	// KernelSpawnedPIDs is the constant GetSystemInfo's
	// KERNEL_SPAWNED_PIDS sub-type reports (number of processes the
	// kernel itself launches directly: sm, fs, pm, loader, pxi on
	// retail firmware).
	KernelSpawnedPIDs int64 `toml:"kernel_spawned_pids"`
}

// Default returns the tunables matching stock 3DS kernel behavior.
func Default() Kernel {
	return Kernel{
		TickAdvance:       150,
		CoreCount:         4,
		KernelSpawnedPIDs: 5,
	}
}

// Load reads a Kernel config from a TOML document at path, starting from
// Default() so an incomplete file still produces sane values.
func Load(path string) (Kernel, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Kernel{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return cfg, nil
}
