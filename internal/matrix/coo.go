// Package matrix holds the sparse matrix model: a coordinate (COO) source
// representation plus pure conversions into compressed-row (CRS) and padded
// ELLPACK storage, either for the full matrix or split into per-chunk
// instances along a partition.Distribution.
package matrix

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-cg/internal/mtx"
)

var (
	// ErrNotSquare is returned when a loaded matrix is not square.
	ErrNotSquare = errors.New("matrix: matrix is not square")

	// ErrBadTriplets is returned when the triplet arrays disagree in length.
	ErrBadTriplets = errors.New("matrix: triplet arrays differ in length")

	// ErrIndexRange is returned when a 1-based triplet index falls outside
	// [1, N].
	ErrIndexRange = errors.New("matrix: triplet index out of range")

	// ErrZeroDiagonal is returned when a diagonal entry needed by the
	// Jacobi preconditioner is missing or zero.
	ErrZeroDiagonal = errors.New("matrix: zero entry on the diagonal")
)

// COO is a square sparse matrix in coordinate format. Indices are 0-based;
// construction converts from the 1-based file convention. When the source is
// declared symmetric, every stored off-diagonal entry is mirrored at
// construction, so a COO always represents the full matrix.
type COO struct {
	// N is the matrix dimension, Nz the stored nonzero count (after
	// symmetric expansion).
	N  int
	Nz int

	// Parallel triplet arrays of length Nz.
	I []int
	J []int
	V []float64

	// NzPerRow counts stored entries per row; it drives CRS prefix sums and
	// ELLPACK padding widths.
	NzPerRow []int
}

// NewCOO builds a COO matrix of dimension n from 1-based triplets. With
// symmetric set, off-diagonal entries are duplicated into their transpose
// position; diagonal entries are not.
func NewCOO(n int, i, j []int, v []float64, symmetric bool) (*COO, error) {
	if len(i) != len(j) || len(i) != len(v) {
		return nil, ErrBadTriplets
	}

	nz := len(i)
	if symmetric {
		for k := range i {
			if i[k] != j[k] {
				nz++
			}
		}
	}

	m := &COO{
		N:        n,
		Nz:       nz,
		I:        make([]int, 0, nz),
		J:        make([]int, 0, nz),
		V:        make([]float64, 0, nz),
		NzPerRow: make([]int, n),
	}

	for k := range i {
		r, c := i[k], j[k]
		if r < 1 || r > n || c < 1 || c > n {
			return nil, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrIndexRange, r, c, n, n)
		}
		m.push(r-1, c-1, v[k])
		if symmetric && r != c {
			m.push(c-1, r-1, v[k])
		}
	}

	return m, nil
}

func (m *COO) push(r, c int, v float64) {
	m.I = append(m.I, r)
	m.J = append(m.J, c)
	m.V = append(m.V, v)
	m.NzPerRow[r]++
}

// FromFile converts a parsed coordinate file into a COO matrix. The file
// must be square.
func FromFile(f *mtx.File) (*COO, error) {
	if f.Rows != f.Cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, f.Rows, f.Cols)
	}
	return NewCOO(f.Rows, f.I, f.J, f.V, f.Symmetric)
}

// Load reads and converts the coordinate file at path.
func Load(path string) (*COO, error) {
	f, err := mtx.Open(path)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// MaxNz reports the maximum per-row nonzero count over rows [from, to).
func (m *COO) MaxNz(from, to int) int {
	maxNz := 0
	for r := from; r < to; r++ {
		if m.NzPerRow[r] > maxNz {
			maxNz = m.NzPerRow[r]
		}
	}
	return maxNz
}

// Diagonal extracts the main diagonal. It fails if any diagonal entry is
// absent or zero, since the Jacobi preconditioner divides by it.
func (m *COO) Diagonal() ([]float64, error) {
	diag := make([]float64, m.N)
	for k := 0; k < m.Nz; k++ {
		if m.I[k] == m.J[k] {
			diag[m.I[k]] = m.V[k]
		}
	}
	for r, d := range diag {
		if d == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroDiagonal, r)
		}
	}
	return diag, nil
}

// MatVec computes y = A*x by direct triplet accumulation. COO is the source
// format; this path exists for the reference backend and for tests, not for
// performance.
func (m *COO) MatVec(x, y []float64) {
	for r := range y {
		y[r] = 0
	}
	for k := 0; k < m.Nz; k++ {
		y[m.I[k]] += m.V[k] * x[m.J[k]]
	}
}
