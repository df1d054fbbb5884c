package algocg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	algocg "github.com/cwbudde/algo-cg"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := algocg.DefaultConfig()
	require.Equal(t, 1000, cfg.MaxIterations)
	require.Equal(t, 1e-9, cfg.Tolerance)
	require.Equal(t, algocg.FormatCRS, cfg.Format)
	require.Equal(t, algocg.PreconditionerNone, cfg.Preconditioner)
	require.Equal(t, algocg.BalanceNonzeros, cfg.Balance)
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CG_MAX_ITERATIONS", "250")
	t.Setenv("CG_TOLERANCE", "1e-6")
	t.Setenv("CG_MATRIX_FORMAT", "ell")
	t.Setenv("CG_PRECONDITIONER", "jacobi")
	t.Setenv("CG_UNITS", "4")
	t.Setenv("CG_LANES", "3")
	t.Setenv("CG_BALANCE", "rows")

	cfg, err := algocg.ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, 250, cfg.MaxIterations)
	require.Equal(t, 1e-6, cfg.Tolerance)
	require.Equal(t, algocg.FormatELL, cfg.Format)
	require.Equal(t, algocg.PreconditionerJacobi, cfg.Preconditioner)
	require.Equal(t, 4, cfg.Units)
	require.Equal(t, 3, cfg.Lanes)
	require.Equal(t, algocg.BalanceRows, cfg.Balance)
}

func TestConfigFromEnvErrors(t *testing.T) {
	cases := []struct{ key, value string }{
		{"CG_MAX_ITERATIONS", "many"},
		{"CG_MAX_ITERATIONS", "0"},
		{"CG_TOLERANCE", "tiny"},
		{"CG_TOLERANCE", "-1"},
		{"CG_MATRIX_FORMAT", "csr"},
		{"CG_PRECONDITIONER", "ssor"},
		{"CG_UNITS", "two"},
		{"CG_BALANCE", "columns"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := algocg.ConfigFromEnv()
			require.ErrorIs(t, err, algocg.ErrBadConfig, "%s=%s", tc.key, tc.value)
		})
	}
}

func TestParsers(t *testing.T) {
	t.Parallel()

	f, err := algocg.ParseMatrixFormat("crs")
	require.NoError(t, err)
	require.Equal(t, algocg.FormatCRS, f)
	require.Equal(t, "crs", f.String())

	p, err := algocg.ParsePreconditioner("jacobi")
	require.NoError(t, err)
	require.Equal(t, algocg.PreconditionerJacobi, p)
	require.Equal(t, "jacobi", p.String())

	b, err := algocg.ParseBalance("nnz")
	require.NoError(t, err)
	require.Equal(t, algocg.BalanceNonzeros, b)
}
