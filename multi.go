package algocg

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-cg/internal/matrix"
	"github.com/cwbudde/algo-cg/internal/partition"
)

// Multi implements the kernel contract across C independent execution
// units with no direct peer-to-peer access: every cross-unit exchange goes
// through a host staging buffer.
//
// Data placement: K, Q, R and Z are partitioned, so each unit stores only
// its owned row range. X and P are fully replicated per unit, because a
// unit's matvec rows may reference any global column. The replicas are only
// guaranteed coherent over each unit's owned range; MatVec restores full
// coherence of its input with a gather-then-broadcast exchange before
// computing.
//
// Every kernel is issued asynchronously to all units and followed by a full
// barrier before any result is read. Operations within one unit execute in
// issue order; nothing orders units against each other except the barrier.
type Multi struct {
	n        int
	numUnits int
	lanes    int

	units   []*unit
	dist    *partition.Distribution
	staging []float64

	// partials collects one local dot result per unit; the cross-unit sum
	// runs sequentially on the host after the barrier.
	partials []float64

	precond bool
}

// NewMulti returns a backend fanning work across the given number of units,
// each running the given number of lanes (zero picks a per-unit share of
// the host CPUs). Fewer than two units is refused: a single unit has
// nothing to exchange and belongs on the Parallel backend.
func NewMulti(units, lanes int) (*Multi, error) {
	if units < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewUnits, units)
	}
	return &Multi{numUnits: units, lanes: lanes}, nil
}

func (b *Multi) Name() string { return "multi" }

func (b *Multi) SupportsMatrixFormat(f MatrixFormat) bool {
	return f == FormatCRS || f == FormatELL
}

func (b *Multi) SupportsPreconditioner(p Preconditioner) bool {
	return p == PreconditionerJacobi
}

func (b *Multi) Setup(sys *System, cfg *Config) error {
	b.n = sys.N()
	b.precond = cfg.Preconditioner == PreconditionerJacobi

	balance := partition.BalanceRows
	var weights []int
	if cfg.Balance == BalanceNonzeros {
		balance = partition.BalanceNonzeros
		weights = sys.Matrix.NzPerRow
	}
	dist, err := partition.New(b.n, b.numUnits, balance, weights)
	if err != nil {
		return err
	}
	b.dist = dist

	var diag []float64
	if b.precond {
		if diag, err = sys.Matrix.Diagonal(); err != nil {
			return err
		}
	}

	var crs []*matrix.CRS
	var ell []*matrix.ELL
	switch cfg.Format {
	case FormatCRS:
		crs = matrix.SplitCRS(sys.Matrix, dist)
	case FormatELL:
		ell = matrix.SplitELL(sys.Matrix, dist)
	}

	lanes := b.lanes
	if lanes <= 0 {
		lanes = runtime.NumCPU() / b.numUnits
		if lanes < 1 {
			lanes = 1
		}
	}

	b.units = make([]*unit, b.numUnits)
	for c := 0; c < b.numUnits; c++ {
		b.units[c] = newUnit(c, dist.Offsets[c], dist.Lengths[c], lanes)
	}
	b.staging = make([]float64, b.n)
	b.partials = make([]float64, b.numUnits)

	// Transfer phase: each unit allocates its device-side storage and
	// copies in its matrix chunk, K slice and diagonal slice. Issued
	// asynchronously per unit, barrier before Setup returns.
	b.each(func(u *unit) {
		if crs != nil {
			u.crs = crs[u.id]
		} else {
			u.ell = ell[u.id]
		}

		for v := range u.part {
			switch Vector(v) {
			case VectorX, VectorP:
				u.repl[v] = make([]float64, b.n)
			case VectorZ:
				if b.precond {
					u.part[v] = make([]float64, u.length)
				}
			default:
				u.part[v] = make([]float64, u.length)
			}
		}
		copy(u.part[VectorK], sys.K[u.offset:u.offset+u.length])

		if diag != nil {
			u.diag = make([]float64, u.length)
			copy(u.diag, diag[u.offset:u.offset+u.length])
		}
	})

	return nil
}

// each issues f asynchronously to every unit and waits for all of them: the
// fan-out-then-barrier superstep every kernel is built from.
func (b *Multi) each(f func(u *unit)) {
	var wg sync.WaitGroup
	wg.Add(len(b.units))
	for _, u := range b.units {
		u := u
		u.cmds <- func() {
			defer wg.Done()
			f(u)
		}
	}
	wg.Wait()
}

func (b *Multi) Cpy(dst, src Vector) {
	b.each(func(u *unit) {
		copy(u.owned(dst), u.owned(src))
	})
}

// MatVec runs the two-phase exchange and then the local products:
//
//  1. Gather: every unit stages its owned slice of the replicated input
//     into the host buffer; barrier.
//  2. Broadcast: every unit copies the other units' slices from the host
//     buffer into its replica (its own slice is already resident); barrier.
//  3. Compute: every unit multiplies its chunk against the now-coherent
//     input, writing its owned slice of y; barrier.
//
// Trading one extra host round trip for the absence of any peer-to-peer
// path keeps the exchange simple; iteration counts amortize the overhead.
func (b *Multi) MatVec(x, y Vector) {
	if b.units[0].repl[x] == nil {
		panic("algocg: matvec input must be a replicated vector")
	}

	b.each(func(u *unit) {
		copy(b.staging[u.offset:u.offset+u.length], u.repl[x][u.offset:u.offset+u.length])
	})

	b.each(func(u *unit) {
		for _, o := range b.units {
			if o.id == u.id {
				continue
			}
			copy(u.repl[x][o.offset:o.offset+o.length], b.staging[o.offset:o.offset+o.length])
		}
	})

	b.each(func(u *unit) {
		u.matvec(u.repl[x], u.owned(y))
	})
}

func (b *Multi) Axpy(a float64, x, y Vector) {
	b.each(func(u *unit) {
		parallelAxpy(u.pool, a, u.owned(x), u.owned(y))
	})
}

func (b *Multi) Xpay(x Vector, a float64, y Vector) {
	b.each(func(u *unit) {
		parallelXpay(u.pool, u.owned(x), a, u.owned(y))
	})
}

// Dot reduces in two stages per unit (lane partials, then one scalar per
// unit) and sums the per-unit scalars sequentially on the host. The final
// sum is order-independent; all that matters is that it runs after the
// barrier.
func (b *Multi) Dot(x, y Vector) float64 {
	b.each(func(u *unit) {
		b.partials[u.id] = parallelDot(u.pool, u.partials, u.owned(x), u.owned(y))
	})

	sum := 0.0
	for _, p := range b.partials {
		sum += p
	}
	return sum
}

func (b *Multi) ApplyPreconditioner(x, y Vector) {
	if !b.precond {
		panic("algocg: multi-unit backend has no preconditioner configured")
	}
	b.each(func(u *unit) {
		parallelJacobi(u.pool, u.diag, u.owned(x), u.owned(y))
	})
}

// Solution gathers every unit's owned X slice back into host memory.
func (b *Multi) Solution() []float64 {
	x := make([]float64, b.n)
	b.each(func(u *unit) {
		copy(x[u.offset:u.offset+u.length], u.repl[VectorX][u.offset:u.offset+u.length])
	})
	return x
}

func (b *Multi) Close() error {
	for _, u := range b.units {
		u.close()
	}
	b.units, b.dist, b.staging, b.partials = nil, nil, nil, nil
	return nil
}
