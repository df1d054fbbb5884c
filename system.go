package algocg

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-cg/internal/matrix"
)

// System is one equation system Ax = k: the matrix in coordinate form plus
// the right-hand side. Backends derive their own storage from it during
// setup and never mutate it.
type System struct {
	Matrix *matrix.COO
	K      []float64

	// IOTime is how long reading and expanding the matrix file took,
	// recorded by LoadSystem for the benchmark summary.
	IOTime time.Duration
}

// NewSystem wraps a coordinate matrix with the default right-hand side
// k = A·1, so the exact solution is the all-ones vector and the forward
// error of a benchmark run is directly observable.
func NewSystem(m *matrix.COO) *System {
	ones := make([]float64, m.N)
	for i := range ones {
		ones[i] = 1
	}
	k := make([]float64, m.N)
	m.MatVec(ones, k)

	return &System{Matrix: m, K: k}
}

// LoadSystem reads the coordinate file at path and builds the system with
// the default right-hand side, recording the I/O time.
func LoadSystem(path string) (*System, error) {
	start := time.Now()
	m, err := matrix.Load(path)
	if err != nil {
		return nil, err
	}
	sys := NewSystem(m)
	sys.IOTime = time.Since(start)
	return sys, nil
}

// SetRHS replaces the right-hand side.
func (s *System) SetRHS(k []float64) error {
	if len(k) != s.Matrix.N {
		return fmt.Errorf("%w: rhs length %d, matrix dimension %d", ErrDimensionMismatch, len(k), s.Matrix.N)
	}
	s.K = k
	return nil
}

// N reports the dimension of the system.
func (s *System) N() int {
	return s.Matrix.N
}
