package algocg

import (
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/cwbudde/algo-cg/internal/matrix"
)

// unit is one execution unit of the multi-unit backend. It owns a private
// copy of its matrix chunk and vector slices, which no other unit ever
// touches, and executes commands from its queue in issue order. Internally a
// command fans out across the unit's worker-pool lanes.
type unit struct {
	id     int
	offset int
	length int

	// cmds serializes work on this unit. The controller sends asynchronously
	// and synchronizes through an explicit barrier, never through the queue.
	cmds chan func()

	pool     *workerpool.Pool
	partials []float64

	// Exactly one of crs/ell is set, holding the chunk covering rows
	// [offset, offset+length).
	crs *matrix.CRS
	ell *matrix.ELL

	// diag is the unit's slice of the Jacobi diagonal; nil without a
	// preconditioner.
	diag []float64

	// part holds the partitioned vectors (K, Q, R, Z), length rows each.
	// repl holds the fully replicated vectors (X, P), n rows each.
	part [numVectors][]float64
	repl [numVectors][]float64
}

func newUnit(id, offset, length, lanes int) *unit {
	u := &unit{
		id:       id,
		offset:   offset,
		length:   length,
		cmds:     make(chan func(), 1),
		pool:     workerpool.New(lanes),
		partials: make([]float64, lanes),
	}
	go u.run()
	return u
}

func (u *unit) run() {
	for f := range u.cmds {
		f()
	}
}

// owned returns the unit's view of v restricted to its owned row range.
func (u *unit) owned(v Vector) []float64 {
	if r := u.repl[v]; r != nil {
		return r[u.offset : u.offset+u.length]
	}
	return u.part[v]
}

// matvec multiplies the unit's matrix chunk against the full input vector,
// writing the unit's owned rows of y.
func (u *unit) matvec(x, y []float64) {
	u.pool.ParallelFor(u.length, func(start, end int) {
		if u.crs != nil {
			u.crs.MatVecRange(x, y, start, end)
		} else {
			u.ell.MatVecRange(x, y, start, end)
		}
	})
}

// close stops the command loop and releases the unit's resources. Must only
// be called after a full barrier.
func (u *unit) close() {
	close(u.cmds)
	u.pool.Close()
	u.crs, u.ell, u.diag = nil, nil, nil
	for v := range u.part {
		u.part[v], u.repl[v] = nil, nil
	}
}
