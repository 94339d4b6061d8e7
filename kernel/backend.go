package kernel

import "golang.org/x/sys/cpu"

// Backend identifies which kernel implementation family is active.
type Backend int

const (
	BackendScalar Backend = iota
	BackendLane128
	BackendLane256
)

func (b Backend) String() string {
	switch b {
	case BackendScalar:
		return "scalar"
	case BackendLane128:
		return "lane128"
	case BackendLane256:
		return "lane256"
	default:
		return "unknown"
	}
}

// DetectBackend probes the running CPU's feature flags and returns the
// widest backend it supports, mirroring init_distance_functions's
// AVX2 > SSE2 > NEON > generic fallback order.
func DetectBackend() Backend {
	if cpu.X86.HasAVX2 {
		return BackendLane256
	}
	if cpu.X86.HasSSE2 {
		return BackendLane128
	}
	if cpu.ARM64.HasASIMD {
		return BackendLane128
	}
	return BackendScalar
}
