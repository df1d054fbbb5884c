package algocg

import (
	"github.com/cwbudde/algo-cg/internal/matrix"
)

// Serial is the single-threaded reference backend. It supports every matrix
// format, including plain COO, and exists as the baseline the data-parallel
// backends are measured against.
type Serial struct {
	n      int
	format MatrixFormat

	coo *matrix.COO
	crs *matrix.CRS
	ell *matrix.ELL

	// diag is the Jacobi diagonal; nil when no preconditioner is set up.
	diag []float64

	vec [numVectors][]float64
}

// NewSerial returns an unconfigured serial backend.
func NewSerial() *Serial {
	return &Serial{}
}

func (b *Serial) Name() string { return "serial" }

func (b *Serial) SupportsMatrixFormat(f MatrixFormat) bool {
	switch f {
	case FormatCOO, FormatCRS, FormatELL:
		return true
	}
	return false
}

func (b *Serial) SupportsPreconditioner(p Preconditioner) bool {
	return p == PreconditionerJacobi
}

func (b *Serial) Setup(sys *System, cfg *Config) error {
	b.n = sys.N()
	b.format = cfg.Format

	switch cfg.Format {
	case FormatCOO:
		b.coo = sys.Matrix
	case FormatCRS:
		b.crs = matrix.NewCRS(sys.Matrix)
	case FormatELL:
		b.ell = matrix.NewELL(sys.Matrix)
	}

	if cfg.Preconditioner == PreconditionerJacobi {
		diag, err := sys.Matrix.Diagonal()
		if err != nil {
			return err
		}
		b.diag = diag
	}

	for v := range b.vec {
		if Vector(v) == VectorZ && b.diag == nil {
			continue
		}
		b.vec[v] = make([]float64, b.n)
	}
	copy(b.vec[VectorK], sys.K)

	return nil
}

func (b *Serial) Cpy(dst, src Vector) {
	copy(b.vec[dst], b.vec[src])
}

func (b *Serial) MatVec(x, y Vector) {
	xs, ys := b.vec[x], b.vec[y]
	switch b.format {
	case FormatCOO:
		b.coo.MatVec(xs, ys)
	case FormatCRS:
		b.crs.MatVec(xs, ys)
	case FormatELL:
		b.ell.MatVec(xs, ys)
	}
}

func (b *Serial) Axpy(a float64, x, y Vector) {
	xs, ys := b.vec[x], b.vec[y]
	for i := range ys {
		ys[i] += a * xs[i]
	}
}

func (b *Serial) Xpay(x Vector, a float64, y Vector) {
	xs, ys := b.vec[x], b.vec[y]
	for i := range ys {
		ys[i] = xs[i] + a*ys[i]
	}
}

func (b *Serial) Dot(x, y Vector) float64 {
	xs, ys := b.vec[x], b.vec[y]
	sum := 0.0
	for i := range xs {
		sum += xs[i] * ys[i]
	}
	return sum
}

func (b *Serial) ApplyPreconditioner(x, y Vector) {
	if b.diag == nil {
		panic("algocg: serial backend has no preconditioner configured")
	}
	xs, ys := b.vec[x], b.vec[y]
	for i := range ys {
		ys[i] = xs[i] / b.diag[i]
	}
}

func (b *Serial) Solution() []float64 {
	x := make([]float64, b.n)
	copy(x, b.vec[VectorX])
	return x
}

func (b *Serial) Close() error {
	b.coo, b.crs, b.ell, b.diag = nil, nil, nil, nil
	for v := range b.vec {
		b.vec[v] = nil
	}
	return nil
}
