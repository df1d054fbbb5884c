package algocg_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	algocg "github.com/cwbudde/algo-cg"
	"github.com/cwbudde/algo-cg/internal/matrix"
)

// tridiagonal builds the SPD matrix with 4 on the diagonal and -1 on the
// first off-diagonals, stored the way a symmetric file would be: lower
// triangle plus the symmetric flag.
func tridiagonal(t *testing.T, n int) *algocg.System {
	t.Helper()

	var i, j []int
	var v []float64
	for r := 1; r <= n; r++ {
		i = append(i, r)
		j = append(j, r)
		v = append(v, 4)
		if r > 1 {
			i = append(i, r)
			j = append(j, r-1)
			v = append(v, -1)
		}
	}

	coo, err := matrix.NewCOO(n, i, j, v, true)
	require.NoError(t, err)
	return algocg.NewSystem(coo)
}

// randomSPD builds a random diagonally dominant symmetric matrix: random
// lower-triangle entries plus a diagonal exceeding each row's absolute sum.
func randomSPD(t *testing.T, rnd *rand.Rand, n, offDiag int) *algocg.System {
	t.Helper()

	var i, j []int
	var v []float64
	rowAbs := make([]float64, n)

	seen := make(map[[2]int]bool)
	for len(i) < offDiag {
		r := rnd.Intn(n-1) + 2 // rows 2..n
		c := rnd.Intn(r-1) + 1 // strictly below the diagonal
		if seen[[2]int{r, c}] {
			continue
		}
		seen[[2]int{r, c}] = true

		val := rnd.Float64()*2 - 1
		i = append(i, r)
		j = append(j, c)
		v = append(v, val)
		if val < 0 {
			val = -val
		}
		rowAbs[r-1] += val
		rowAbs[c-1] += val
	}

	for r := 1; r <= n; r++ {
		i = append(i, r)
		j = append(j, r)
		v = append(v, rowAbs[r-1]+1)
	}

	coo, err := matrix.NewCOO(n, i, j, v, true)
	require.NoError(t, err)
	return algocg.NewSystem(coo)
}

// denseSolve computes the reference solution with a gonum dense solve.
func denseSolve(t *testing.T, sys *algocg.System) []float64 {
	t.Helper()

	n := sys.N()
	coo := sys.Matrix
	d := mat.NewDense(n, n, nil)
	for k := 0; k < coo.Nz; k++ {
		d.Set(coo.I[k], coo.J[k], d.At(coo.I[k], coo.J[k])+coo.V[k])
	}

	var x mat.VecDense
	require.NoError(t, x.SolveVec(d, mat.NewVecDense(n, sys.K)))

	out := make([]float64, n)
	for r := 0; r < n; r++ {
		out[r] = x.AtVec(r)
	}
	return out
}

// relDiff returns the maximum relative difference between two vectors.
func relDiff(a, b []float64) float64 {
	maxDiff := 0.0
	for k := range a {
		diff := a[k] - b[k]
		if diff < 0 {
			diff = -diff
		}
		scale := 1.0
		if s := a[k]; s > 1 || s < -1 {
			if s < 0 {
				s = -s
			}
			scale = s
		}
		if diff/scale > maxDiff {
			maxDiff = diff / scale
		}
	}
	return maxDiff
}
