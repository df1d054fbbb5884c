// Package cpu reports the SIMD capabilities of the host. The data-parallel
// backends use it to align their row strips with the hardware vector width,
// and the benchmark CLI prints it so results can be attributed to the
// machine they ran on.
package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features describes the vector extensions available to this process.
type Features struct {
	HasSSE2      bool
	HasAVX2      bool
	HasAVX512    bool
	HasNEON      bool
	Architecture string
}

// Detect reports the available CPU features for the current process.
func Detect() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// VectorWidth reports how many float64 values fit in the widest available
// vector register. Strip sizes rounded to a multiple of this keep the inner
// dot-product kernels on their fast path.
func (f Features) VectorWidth() int {
	switch {
	case f.HasAVX512:
		return 8
	case f.HasAVX2:
		return 4
	case f.HasSSE2, f.HasNEON:
		return 2
	default:
		return 1
	}
}

// String renders a one-line summary, e.g. "amd64 (avx2, sse2)".
func (f Features) String() string {
	ext := ""
	add := func(name string, has bool) {
		if !has {
			return
		}
		if ext != "" {
			ext += ", "
		}
		ext += name
	}
	add("avx512", f.HasAVX512)
	add("avx2", f.HasAVX2)
	add("sse2", f.HasSSE2)
	add("neon", f.HasNEON)
	if ext == "" {
		ext = "scalar"
	}
	return fmt.Sprintf("%s (%s)", f.Architecture, ext)
}
