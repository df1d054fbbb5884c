package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-cg/internal/matrix"
)

func TestCRSInvariants(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(2))
	for _, tc := range []struct{ n, nz int }{{1, 1}, {8, 20}, {50, 400}} {
		i, j, v := randomTriplets(rnd, tc.n, tc.nz)
		coo, err := matrix.NewCOO(tc.n, i, j, v, false)
		require.NoError(t, err)

		crs := matrix.NewCRS(coo)
		require.Equal(t, coo.N, crs.N)
		require.Equal(t, coo.Nz, crs.Nz)
		require.Len(t, crs.Ptr, crs.N+1)
		require.Equal(t, 0, crs.Ptr[0])
		require.Equal(t, crs.Nz, crs.Ptr[crs.N])

		for r := 0; r < crs.N; r++ {
			require.LessOrEqual(t, crs.Ptr[r], crs.Ptr[r+1], "ptr not non-decreasing at %d", r)
			require.Equal(t, coo.NzPerRow[r], crs.Ptr[r+1]-crs.Ptr[r])
		}
	}
}

// Per-row value sums survive the conversion: the CRS slots of row r hold
// exactly the COO entries with row r.
func TestCRSRowSums(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(3))
	i, j, v := randomTriplets(rnd, 30, 180)
	coo, err := matrix.NewCOO(30, i, j, v, false)
	require.NoError(t, err)
	crs := matrix.NewCRS(coo)

	cooSum := make([]float64, coo.N)
	for k := 0; k < coo.Nz; k++ {
		cooSum[coo.I[k]] += coo.V[k]
	}

	for r := 0; r < crs.N; r++ {
		sum := 0.0
		for k := crs.Ptr[r]; k < crs.Ptr[r+1]; k++ {
			sum += crs.Value[k]
		}
		require.InDelta(t, cooSum[r], sum, 1e-12, "row %d", r)
	}
}

func TestCRSMatVecMatchesCOO(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(4))
	n := 64
	i, j, v := randomTriplets(rnd, n, 512)
	coo, err := matrix.NewCOO(n, i, j, v, false)
	require.NoError(t, err)
	crs := matrix.NewCRS(coo)

	x := make([]float64, n)
	for k := range x {
		x[k] = rnd.Float64()*2 - 1
	}

	want := make([]float64, n)
	coo.MatVec(x, want)
	got := make([]float64, n)
	crs.MatVec(x, got)

	for r := 0; r < n; r++ {
		require.InDelta(t, want[r], got[r], 1e-12)
	}
}

func TestCRSMatVecRange(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(5))
	n := 32
	i, j, v := randomTriplets(rnd, n, 128)
	coo, err := matrix.NewCOO(n, i, j, v, false)
	require.NoError(t, err)
	crs := matrix.NewCRS(coo)

	x := make([]float64, n)
	for k := range x {
		x[k] = rnd.Float64()
	}

	want := make([]float64, n)
	crs.MatVec(x, want)

	// Piecewise ranges assemble the same product and never write outside
	// their rows.
	got := make([]float64, n)
	for r := range got {
		got[r] = -99
	}
	crs.MatVecRange(x, got, 0, 10)
	crs.MatVecRange(x, got, 10, 25)
	crs.MatVecRange(x, got, 25, n)

	for r := 0; r < n; r++ {
		require.InDelta(t, want[r], got[r], 1e-12)
	}
}
