package algocg

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults used when neither environment nor flags override them.
const (
	DefaultMaxIterations = 1000
	DefaultTolerance     = 1e-9
)

// Config carries the solver parameters. It is constructed once, validated
// before any solve work begins, and never mutated afterwards.
type Config struct {
	// MaxIterations caps the iteration count; reaching it is a defined
	// terminal state, not an error.
	MaxIterations int

	// Tolerance is the convergence threshold on the residual norm.
	Tolerance float64

	// Format selects the matrix storage format handed to the backend.
	Format MatrixFormat

	// Preconditioner selects the preconditioner, if any.
	Preconditioner Preconditioner

	// Units is the execution unit count for the multi-unit backend.
	Units int

	// Lanes is the number of data-parallel lanes per unit; 0 lets the
	// worker pool size itself to the host.
	Lanes int

	// Balance selects the row partitioning policy across units.
	Balance Balance
}

// DefaultConfig returns the documented defaults: 1000 iterations, 1e-9
// tolerance, CRS storage, no preconditioner, two units.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  DefaultMaxIterations,
		Tolerance:      DefaultTolerance,
		Format:         FormatCRS,
		Preconditioner: PreconditionerNone,
		Units:          2,
		Lanes:          0,
		Balance:        BalanceNonzeros,
	}
}

// ConfigFromEnv builds a Config from the defaults overridden by the
// CG_* environment variables:
//
//	CG_MAX_ITERATIONS  positive integer
//	CG_TOLERANCE       positive float
//	CG_MATRIX_FORMAT   coo | crs | ell
//	CG_PRECONDITIONER  none | jacobi
//	CG_UNITS           execution units for the multi-unit backend
//	CG_LANES           data-parallel lanes per unit
//	CG_BALANCE         nonzeros | rows
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if s, ok := os.LookupEnv("CG_MAX_ITERATIONS"); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("%w: CG_MAX_ITERATIONS=%q", ErrBadConfig, s)
		}
		cfg.MaxIterations = v
	}
	if s, ok := os.LookupEnv("CG_TOLERANCE"); ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: CG_TOLERANCE=%q", ErrBadConfig, s)
		}
		cfg.Tolerance = v
	}
	if s, ok := os.LookupEnv("CG_MATRIX_FORMAT"); ok {
		v, err := ParseMatrixFormat(s)
		if err != nil {
			return cfg, err
		}
		cfg.Format = v
	}
	if s, ok := os.LookupEnv("CG_PRECONDITIONER"); ok {
		v, err := ParsePreconditioner(s)
		if err != nil {
			return cfg, err
		}
		cfg.Preconditioner = v
	}
	if s, ok := os.LookupEnv("CG_UNITS"); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("%w: CG_UNITS=%q", ErrBadConfig, s)
		}
		cfg.Units = v
	}
	if s, ok := os.LookupEnv("CG_LANES"); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("%w: CG_LANES=%q", ErrBadConfig, s)
		}
		cfg.Lanes = v
	}
	if s, ok := os.LookupEnv("CG_BALANCE"); ok {
		v, err := ParseBalance(s)
		if err != nil {
			return cfg, err
		}
		cfg.Balance = v
	}

	return cfg, cfg.Validate()
}

// Validate checks the numeric ranges. Format and preconditioner support is
// backend-specific and checked by NewSolver.
func (c *Config) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d < 1", ErrBadConfig, c.MaxIterations)
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance %g must be positive", ErrBadConfig, c.Tolerance)
	}
	if c.Lanes < 0 {
		return fmt.Errorf("%w: lanes %d < 0", ErrBadConfig, c.Lanes)
	}
	return nil
}
