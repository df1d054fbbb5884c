package algocg

// Backend implements the six-kernel contract over backend-owned storage.
// It is the only interface crossing from the backend-agnostic iteration
// into backend-specific code; the Solver selects one implementation at
// startup and never re-dispatches per call.
//
// Kernels operate on logical vectors (see Vector) bound to backend storage
// by Setup. They carry no error returns: capability mismatches are rejected
// by NewSolver before any solve work, so a kernel call that cannot be
// served is a programmer error and panics.
type Backend interface {
	// Name identifies the backend in summaries.
	Name() string

	// SupportsMatrixFormat reports whether the backend can run its kernels
	// on the given storage format.
	SupportsMatrixFormat(MatrixFormat) bool

	// SupportsPreconditioner reports whether the backend implements the
	// given preconditioner.
	SupportsPreconditioner(Preconditioner) bool

	// Setup converts the system matrix into backend storage, allocates the
	// logical vectors and transfers the right-hand side. It must be called
	// exactly once before any kernel.
	Setup(sys *System, cfg *Config) error

	// Cpy copies src into dst.
	Cpy(dst, src Vector)

	// MatVec computes y = A·x over the full vector domain.
	MatVec(x, y Vector)

	// Axpy computes y = a·x + y.
	Axpy(a float64, x, y Vector)

	// Xpay computes y = x + a·y.
	Xpay(x Vector, a float64, y Vector)

	// Dot returns the inner product of a and b.
	Dot(a, b Vector) float64

	// ApplyPreconditioner computes y = B⁻¹·x. Backends that report no
	// preconditioner support panic if this is invoked.
	ApplyPreconditioner(x, y Vector)

	// Solution copies the solution vector back into host memory.
	Solution() []float64

	// Close releases backend resources. The backend is single-shot: it is
	// not reusable after Close.
	Close() error
}
