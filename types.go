package algocg

import "fmt"

// Vector names the logical vectors of the equation system. Each backend
// binds these roles to its own physical storage; in the multi-unit backend
// K, Q, R and Z are partitioned across units while X and P are fully
// replicated on every unit.
type Vector uint8

const (
	// VectorK is the right-hand side of the equation system.
	VectorK Vector = iota
	// VectorX is the computed solution.
	VectorX
	// VectorP is the search direction.
	VectorP
	// VectorQ holds the result of the matrix-vector product.
	VectorQ
	// VectorR is the residual.
	VectorR
	// VectorZ is the preconditioned residual.
	VectorZ

	numVectors int = iota
)

// MatrixFormat selects the storage format used for the kernels.
type MatrixFormat uint8

const (
	// FormatCOO keeps the matrix in coordinate form.
	FormatCOO MatrixFormat = iota
	// FormatCRS converts to compressed row storage.
	FormatCRS
	// FormatELL converts to padded ELLPACK storage.
	FormatELL
)

// ParseMatrixFormat maps the textual names used by CG_MATRIX_FORMAT and the
// CLI onto a MatrixFormat.
func ParseMatrixFormat(s string) (MatrixFormat, error) {
	switch s {
	case "coo", "COO":
		return FormatCOO, nil
	case "crs", "CRS":
		return FormatCRS, nil
	case "ell", "ELL":
		return FormatELL, nil
	default:
		return 0, fmt.Errorf("%w: unknown matrix format %q", ErrBadConfig, s)
	}
}

func (f MatrixFormat) String() string {
	switch f {
	case FormatCOO:
		return "coo"
	case FormatCRS:
		return "crs"
	case FormatELL:
		return "ell"
	default:
		return fmt.Sprintf("MatrixFormat(%d)", uint8(f))
	}
}

// Preconditioner selects the preconditioner applied each iteration.
type Preconditioner uint8

const (
	// PreconditionerNone runs plain conjugate gradients.
	PreconditionerNone Preconditioner = iota
	// PreconditionerJacobi scales the residual by the inverse diagonal.
	PreconditionerJacobi
)

// ParsePreconditioner maps the textual names used by CG_PRECONDITIONER and
// the CLI onto a Preconditioner.
func ParsePreconditioner(s string) (Preconditioner, error) {
	switch s {
	case "none", "":
		return PreconditionerNone, nil
	case "jacobi":
		return PreconditionerJacobi, nil
	default:
		return 0, fmt.Errorf("%w: unknown preconditioner %q", ErrBadConfig, s)
	}
}

func (p Preconditioner) String() string {
	switch p {
	case PreconditionerNone:
		return "none"
	case PreconditionerJacobi:
		return "jacobi"
	default:
		return fmt.Sprintf("Preconditioner(%d)", uint8(p))
	}
}

// Balance selects how the multi-unit backend cuts matrix rows into chunks.
type Balance uint8

const (
	// BalanceNonzeros targets an equal nonzero count per chunk. Matvec cost
	// is proportional to nonzeros, not rows, so this is the default.
	BalanceNonzeros Balance = iota
	// BalanceRows gives every chunk the same number of rows.
	BalanceRows
)

// ParseBalance maps the textual names used by CG_BALANCE and the CLI onto a
// Balance policy.
func ParseBalance(s string) (Balance, error) {
	switch s {
	case "nonzeros", "nnz", "":
		return BalanceNonzeros, nil
	case "rows":
		return BalanceRows, nil
	default:
		return 0, fmt.Errorf("%w: unknown balance policy %q", ErrBadConfig, s)
	}
}

func (b Balance) String() string {
	switch b {
	case BalanceNonzeros:
		return "nonzeros"
	case BalanceRows:
		return "rows"
	default:
		return fmt.Sprintf("Balance(%d)", uint8(b))
	}
}
