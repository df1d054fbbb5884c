package algocg_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	algocg "github.com/cwbudde/algo-cg"
)

// All backends solve the same SPD system; solutions must agree to 1e-6
// relative error and iteration counts must stay within a small band of the
// serial reference (cross-unit sums reorder floating point, so exact
// iteration equality is not guaranteed).
func TestBackendParity(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(21))
	sys := randomSPD(t, rnd, 150, 600)

	reference := denseSolve(t, sys)

	type variant struct {
		name    string
		format  algocg.MatrixFormat
		precond algocg.Preconditioner
		build   func() (algocg.Backend, error)
	}
	variants := []variant{
		{"serial/crs", algocg.FormatCRS, algocg.PreconditionerNone,
			func() (algocg.Backend, error) { return algocg.NewSerial(), nil }},
		{"parallel/crs", algocg.FormatCRS, algocg.PreconditionerNone,
			func() (algocg.Backend, error) { return algocg.NewParallel(4), nil }},
		{"parallel/ell", algocg.FormatELL, algocg.PreconditionerNone,
			func() (algocg.Backend, error) { return algocg.NewParallel(3), nil }},
		{"multi/crs", algocg.FormatCRS, algocg.PreconditionerNone,
			func() (algocg.Backend, error) { return algocg.NewMulti(3, 2) }},
		{"multi/ell", algocg.FormatELL, algocg.PreconditionerNone,
			func() (algocg.Backend, error) { return algocg.NewMulti(4, 1) }},
		{"multi/crs/jacobi", algocg.FormatCRS, algocg.PreconditionerJacobi,
			func() (algocg.Backend, error) { return algocg.NewMulti(2, 2) }},
		{"parallel/crs/jacobi", algocg.FormatCRS, algocg.PreconditionerJacobi,
			func() (algocg.Backend, error) { return algocg.NewParallel(0), nil }},
	}

	serialIters := 0
	for _, vt := range variants {
		vt := vt
		t.Run(vt.name, func(t *testing.T) {
			backend, err := vt.build()
			require.NoError(t, err)

			cfg := algocg.DefaultConfig()
			cfg.Format = vt.format
			cfg.Preconditioner = vt.precond

			solver, err := algocg.NewSolver(sys, backend, cfg)
			require.NoError(t, err)
			res, err := solver.Solve()
			require.NoError(t, err)

			require.True(t, res.Converged)
			require.Less(t, relDiff(reference, res.X), 1e-6)

			if vt.name == "serial/crs" {
				serialIters = res.Iterations
			} else if vt.precond == algocg.PreconditionerNone {
				require.InDelta(t, serialIters, res.Iterations, 2)
			}
		})
	}
}

func TestMultiBalancePolicies(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(22))
	sys := randomSPD(t, rnd, 90, 500)
	reference := denseSolve(t, sys)

	for _, balance := range []algocg.Balance{algocg.BalanceNonzeros, algocg.BalanceRows} {
		backend, err := algocg.NewMulti(3, 2)
		require.NoError(t, err)

		cfg := algocg.DefaultConfig()
		cfg.Balance = balance

		solver, err := algocg.NewSolver(sys, backend, cfg)
		require.NoError(t, err)
		res, err := solver.Solve()
		require.NoError(t, err)
		require.True(t, res.Converged, "balance %s", balance)
		require.Less(t, relDiff(reference, res.X), 1e-6)
	}
}

func TestMultiNeedsTwoUnits(t *testing.T) {
	t.Parallel()

	_, err := algocg.NewMulti(1, 0)
	require.ErrorIs(t, err, algocg.ErrTooFewUnits)

	_, err = algocg.NewMulti(0, 0)
	require.ErrorIs(t, err, algocg.ErrTooFewUnits)
}

func TestUnsupportedFormatCombinations(t *testing.T) {
	t.Parallel()

	sys := tridiagonal(t, 16)
	cfg := algocg.DefaultConfig()
	cfg.Format = algocg.FormatCOO

	multi, err := algocg.NewMulti(2, 1)
	require.NoError(t, err)
	_, err = algocg.NewSolver(sys, multi, cfg)
	require.ErrorIs(t, err, algocg.ErrUnsupportedFormat)

	_, err = algocg.NewSolver(sys, algocg.NewParallel(2), cfg)
	require.ErrorIs(t, err, algocg.ErrUnsupportedFormat)

	// The serial reference still takes plain COO.
	solver, err := algocg.NewSolver(sys, algocg.NewSerial(), cfg)
	require.NoError(t, err)
	res, err := solver.Solve()
	require.NoError(t, err)
	require.True(t, res.Converged)
}

// More units than the host has CPUs must still partition and solve; lanes
// default to a per-unit share.
func TestMultiManyUnits(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(23))
	sys := randomSPD(t, rnd, 64, 200)

	backend, err := algocg.NewMulti(8, 0)
	require.NoError(t, err)

	solver, err := algocg.NewSolver(sys, backend, algocg.DefaultConfig())
	require.NoError(t, err)
	res, err := solver.Solve()
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Less(t, relDiff(denseSolve(t, sys), res.X), 1e-6)
}
