package docker

import (
	"time"
)

// Config holds the configuration for Docker execution.
type Config struct {
	// MemoryLimit is the maximum amount of memory a container can use (in bytes).
	MemoryLimit int64
	// CPULimit is the number of CPUs a container can use.
	CPULimit float64
	// Timeout is the wall-clock ceiling for one execution, shared across the
	// compile and run steps.
	Timeout time.Duration
	// PullTimeout bounds how long we wait for an image pull.
	PullTimeout time.Duration
}

// DefaultConfig provides sensible defaults for the local sandbox.
func DefaultConfig() Config {
	return Config{
		// 128 MB memory limit
		MemoryLimit: 128 * 1024 * 1024,
		// 0.5 CPU shares
		CPULimit: 0.5,
		// single 10 second ceiling per execution
		Timeout:     10 * time.Second,
		PullTimeout: 2 * time.Minute,
	}
}
