package algocg

import (
	"github.com/ajroetker/go-highway/hwy/contrib/vec"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/cwbudde/algo-cg/internal/cpu"
)

// vectorWidth is the host's float64 SIMD width, detected once. Lane spans
// are aligned to it so the inner dot kernels run on whole registers.
var vectorWidth = cpu.Detect().VectorWidth()

// laneSpan cuts [0, n) into lanes contiguous spans and returns the i-th.
// Interior boundaries are rounded down to the vector width; the last lane
// absorbs the tail.
func laneSpan(n, lanes, i int) (lo, hi int) {
	lo = i * n / lanes
	lo -= lo % vectorWidth
	if i == lanes-1 {
		return lo, n
	}
	hi = (i + 1) * n / lanes
	hi -= hi % vectorWidth
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// parallelDot computes the inner product of a and b as a two-stage
// reduction: every lane reduces its span into one slot of partials, then the
// partial sums are collapsed sequentially. len(partials) fixes the lane
// count; the caller owns the scratch so steady-state iterations do not
// allocate.
func parallelDot(pool *workerpool.Pool, partials, a, b []float64) float64 {
	n := len(a)
	lanes := len(partials)

	pool.ParallelFor(lanes, func(start, end int) {
		for i := start; i < end; i++ {
			lo, hi := laneSpan(n, lanes, i)
			partials[i] = vec.Dot(a[lo:hi], b[lo:hi])
		}
	})

	sum := 0.0
	for _, p := range partials {
		sum += p
	}
	return sum
}

// parallelAxpy computes y = a·x + y across the pool's lanes.
func parallelAxpy(pool *workerpool.Pool, a float64, x, y []float64) {
	pool.ParallelFor(len(y), func(start, end int) {
		for i := start; i < end; i++ {
			y[i] += a * x[i]
		}
	})
}

// parallelXpay computes y = x + a·y across the pool's lanes.
func parallelXpay(pool *workerpool.Pool, x []float64, a float64, y []float64) {
	pool.ParallelFor(len(y), func(start, end int) {
		for i := start; i < end; i++ {
			y[i] = x[i] + a*y[i]
		}
	})
}

// parallelJacobi computes y = x / diag across the pool's lanes.
func parallelJacobi(pool *workerpool.Pool, diag, x, y []float64) {
	pool.ParallelFor(len(y), func(start, end int) {
		for i := start; i < end; i++ {
			y[i] = x[i] / diag[i]
		}
	})
}
