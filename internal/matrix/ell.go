package matrix

// ELL is a sparse matrix in ELLPACK storage: every row is padded to a fixed
// width W (the maximum per-row nonzero count over this instance's rows), and
// Index/Data are stored column-major so that the k-th entry of row r lives
// at slot k*N+r. Same-indexed entries across rows are therefore contiguous,
// matching a data-parallel lane access pattern.
//
// Slots beyond Length[r] are left zeroed and never read; matvec bounds its
// inner loop by Length[r], not W.
type ELL struct {
	N  int
	Nz int

	// W is the padding width; Elements == N*W.
	W        int
	Elements int

	// Length holds the actual nonzero count per row.
	Length []int

	Index []int
	Data  []float64
}

// NewELL converts a COO matrix into ELLPACK form with the global padding
// width.
func NewELL(coo *COO) *ELL {
	m := newELL(coo.N, coo.Nz, coo.MaxNz(0, coo.N))
	copy(m.Length, coo.NzPerRow)

	cursor := make([]int, coo.N)
	for k := 0; k < coo.Nz; k++ {
		row := coo.I[k]
		slot := cursor[row]*m.N + row
		m.Index[slot] = coo.J[k]
		m.Data[slot] = coo.V[k]
		cursor[row]++
	}

	return m
}

func newELL(n, nz, w int) *ELL {
	return &ELL{
		N:        n,
		Nz:       nz,
		W:        w,
		Elements: n * w,
		Length:   make([]int, n),
		Index:    make([]int, n*w),
		Data:     make([]float64, n*w),
	}
}

// MatVec computes y = A*x over all rows.
func (m *ELL) MatVec(x, y []float64) {
	m.MatVecRange(x, y, 0, m.N)
}

// MatVecRange computes rows [from, to) of y = A*x, writing only y[from:to].
func (m *ELL) MatVecRange(x, y []float64, from, to int) {
	for r := from; r < to; r++ {
		sum := 0.0
		for k := 0; k < m.Length[r]; k++ {
			slot := k*m.N + r
			sum += m.Data[slot] * x[m.Index[slot]]
		}
		y[r] = sum
	}
}
