package algocg

import (
	"runtime"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/cwbudde/algo-cg/internal/matrix"
)

// Parallel is the single-unit data-parallel backend: one address space, all
// kernels split into row strips across a persistent worker pool.
//
// COO is not supported (triplet scatter would race across lanes), so the
// backend requires a row-organized format (CRS or ELLPACK).
type Parallel struct {
	n      int
	lanes  int
	pool   *workerpool.Pool
	format MatrixFormat

	crs *matrix.CRS
	ell *matrix.ELL

	diag []float64

	vec      [numVectors][]float64
	partials []float64
}

// NewParallel returns a backend running the given number of lanes; zero or
// negative sizes the pool to the host's CPU count.
func NewParallel(lanes int) *Parallel {
	if lanes <= 0 {
		lanes = runtime.NumCPU()
	}
	return &Parallel{lanes: lanes}
}

func (b *Parallel) Name() string { return "parallel" }

func (b *Parallel) SupportsMatrixFormat(f MatrixFormat) bool {
	return f == FormatCRS || f == FormatELL
}

func (b *Parallel) SupportsPreconditioner(p Preconditioner) bool {
	return p == PreconditionerJacobi
}

func (b *Parallel) Setup(sys *System, cfg *Config) error {
	b.n = sys.N()
	b.format = cfg.Format

	switch cfg.Format {
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

	b.pool = workerpool.New(b.lanes)
	b.partials = make([]float64, b.lanes)

	return nil
}

func (b *Parallel) Cpy(dst, src Vector) {
	copy(b.vec[dst], b.vec[src])
}

func (b *Parallel) MatVec(x, y Vector) {
	xs, ys := b.vec[x], b.vec[y]
	b.pool.ParallelFor(b.n, func(start, end int) {
		switch b.format {
		case FormatCRS:
			b.crs.MatVecRange(xs, ys, start, end)
		case FormatELL:
			b.ell.MatVecRange(xs, ys, start, end)
		}
	})
}

func (b *Parallel) Axpy(a float64, x, y Vector) {
	parallelAxpy(b.pool, a, b.vec[x], b.vec[y])
}

func (b *Parallel) Xpay(x Vector, a float64, y Vector) {
	parallelXpay(b.pool, b.vec[x], a, b.vec[y])
}

func (b *Parallel) Dot(x, y Vector) float64 {
	return parallelDot(b.pool, b.partials, b.vec[x], b.vec[y])
}

func (b *Parallel) ApplyPreconditioner(x, y Vector) {
	if b.diag == nil {
		panic("algocg: parallel backend has no preconditioner configured")
	}
	parallelJacobi(b.pool, b.diag, b.vec[x], b.vec[y])
}

func (b *Parallel) Solution() []float64 {
	x := make([]float64, b.n)
	copy(x, b.vec[VectorX])
	return x
}

func (b *Parallel) Close() error {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
	b.crs, b.ell, b.diag, b.partials = nil, nil, nil, nil
	for v := range b.vec {
		b.vec[v] = nil
	}
	return nil
}
