package algocg

import "errors"

// Sentinel errors reported during solver construction and setup. All of
// them are fatal for a benchmark run: the CLI prints the diagnostic and
// exits, there is no retry path.
var (
	// ErrUnsupportedFormat is returned when the selected backend does not
	// support the configured matrix storage format.
	ErrUnsupportedFormat = errors.New("algocg: matrix format not supported by backend")

	// ErrUnsupportedPreconditioner is returned when the selected backend
	// does not support the configured preconditioner.
	ErrUnsupportedPreconditioner = errors.New("algocg: preconditioner not supported by backend")

	// ErrTooFewUnits is returned when the multi-unit backend is constructed
	// with fewer than two execution units.
	ErrTooFewUnits = errors.New("algocg: multi-unit backend needs at least two units")

	// ErrBadConfig is returned when a configuration value cannot be parsed
	// or is out of range.
	ErrBadConfig = errors.New("algocg: invalid configuration")

	// ErrDimensionMismatch is returned when a right-hand side does not
	// match the matrix dimension.
	ErrDimensionMismatch = errors.New("algocg: dimension mismatch")
)
