package matrix

// CRS is a sparse matrix in compressed row storage. Row r's nonzeros occupy
// Index/Value slots [Ptr[r], Ptr[r+1]); Ptr is non-decreasing with
// Ptr[0] == 0 and Ptr[N] == Nz.
//
// A chunk built by SplitCRS uses chunk-local rows (N is the chunk length)
// while Index keeps global column indices.
type CRS struct {
	N  int
	Nz int

	Ptr   []int
	Index []int
	Value []float64
}

// NewCRS converts a COO matrix: one pass builds Ptr as a prefix sum over
// NzPerRow, a second scatters each triplet into its row's next free slot via
// a per-row write cursor.
func NewCRS(coo *COO) *CRS {
	m := &CRS{
		N:     coo.N,
		Nz:    coo.Nz,
		Ptr:   make([]int, coo.N+1),
		Index: make([]int, coo.Nz),
		Value: make([]float64, coo.Nz),
	}

	cursor := make([]int, coo.N)
	for r := 1; r <= coo.N; r++ {
		cursor[r-1] = m.Ptr[r-1]
		m.Ptr[r] = m.Ptr[r-1] + coo.NzPerRow[r-1]
	}

	for k := 0; k < coo.Nz; k++ {
		row := coo.I[k]
		m.Index[cursor[row]] = coo.J[k]
		m.Value[cursor[row]] = coo.V[k]
		cursor[row]++
	}

	return m
}

// MatVec computes y = A*x over all rows. x spans the full column domain;
// y has one slot per row of this matrix.
func (m *CRS) MatVec(x, y []float64) {
	m.MatVecRange(x, y, 0, m.N)
}

// MatVecRange computes rows [from, to) of y = A*x, writing only y[from:to].
// The row range is local to this matrix instance, so data-parallel callers
// can split rows across lanes without overlapping writes.
func (m *CRS) MatVecRange(x, y []float64, from, to int) {
	for r := from; r < to; r++ {
		sum := 0.0
		for k := m.Ptr[r]; k < m.Ptr[r+1]; k++ {
			sum += m.Value[k] * x[m.Index[k]]
		}
		y[r] = sum
	}
}
