package cpu

import (
	"runtime"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	f := Detect()
	if f.Architecture != runtime.GOARCH {
		t.Errorf("Architecture = %q, want %q", f.Architecture, runtime.GOARCH)
	}
	if w := f.VectorWidth(); w < 1 || w > 8 {
		t.Errorf("VectorWidth() = %d, want 1..8", w)
	}
	if !strings.HasPrefix(f.String(), runtime.GOARCH) {
		t.Errorf("String() = %q, want %q prefix", f.String(), runtime.GOARCH)
	}
}

func TestVectorWidthOrdering(t *testing.T) {
	t.Parallel()

	avx512 := Features{HasAVX512: true, HasAVX2: true, HasSSE2: true}
	avx2 := Features{HasAVX2: true, HasSSE2: true}
	sse2 := Features{HasSSE2: true}
	scalar := Features{}

	if avx512.VectorWidth() != 8 || avx2.VectorWidth() != 4 || sse2.VectorWidth() != 2 || scalar.VectorWidth() != 1 {
		t.Errorf("unexpected widths: %d %d %d %d",
			avx512.VectorWidth(), avx2.VectorWidth(), sse2.VectorWidth(), scalar.VectorWidth())
	}
}
