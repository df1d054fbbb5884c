package algocg

import (
	"fmt"
	"math"
	"time"
)

// Timing aggregates wall-clock time per phase and per kernel category.
type Timing struct {
	IO      time.Duration
	Convert time.Duration
	Solve   time.Duration

	MatVec         time.Duration
	Axpy           time.Duration
	Xpay           time.Duration
	Dot            time.Duration
	Preconditioner time.Duration
}

// Result reports the outcome of one solve.
type Result struct {
	// X is the solution vector, gathered into host memory.
	X []float64

	// Iterations is the number of completed iterations.
	Iterations int

	// Residual is the final residual norm ‖k - A·x‖.
	Residual float64

	// Converged reports whether the residual fell below the tolerance.
	// False means the iteration cap was reached, which is a defined
	// terminal state, not an error: the caller judges the run by the
	// reported residual.
	Converged bool

	Timing Timing
}

// Solver drives preconditioned conjugate-gradient iteration against one
// backend. It is independent of the matrix storage format and of how the
// backend parallelizes the kernels.
type Solver struct {
	cfg     Config
	sys     *System
	backend Backend
	timing  Timing
}

// NewSolver validates the configuration against the backend's capabilities.
// A format or preconditioner the backend does not support is rejected here,
// before any conversion or allocation happens.
func NewSolver(sys *System, b Backend, cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !b.SupportsMatrixFormat(cfg.Format) {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedFormat, b.Name(), cfg.Format)
	}
	if cfg.Preconditioner != PreconditionerNone && !b.SupportsPreconditioner(cfg.Preconditioner) {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedPreconditioner, b.Name(), cfg.Preconditioner)
	}

	return &Solver{cfg: cfg, sys: sys, backend: b}, nil
}

// Solve runs setup, the iteration, and teardown, and returns the gathered
// solution with timing and convergence data. The backend is closed before
// Solve returns.
func (s *Solver) Solve() (*Result, error) {
	s.timing.IO = s.sys.IOTime

	start := time.Now()
	if err := s.backend.Setup(s.sys, &s.cfg); err != nil {
		return nil, err
	}
	s.timing.Convert = time.Since(start)

	start = time.Now()
	iterations, residual := s.iterate()
	s.timing.Solve = time.Since(start)

	x := s.backend.Solution()
	err := s.backend.Close()
	if err != nil {
		return nil, err
	}

	return &Result{
		X:          x,
		Iterations: iterations,
		Residual:   residual,
		Converged:  residual < s.cfg.Tolerance,
		Timing:     s.timing,
	}, nil
}

// iterate runs the PCG loop with x₀ = 0:
//
//	r ← k; z ← B⁻¹r (or z ← r); p ← z; ρ ← ⟨r,z⟩
//	repeat until ‖r‖ < tolerance or the iteration cap:
//	  q ← A·p
//	  α ← ρ / ⟨p,q⟩
//	  x ← x + α·p
//	  r ← r − α·q
//	  stop if ‖r‖ < tolerance
//	  z ← B⁻¹r (or z ← r)
//	  ρ' ← ⟨r,z⟩;  p ← z + (ρ'/ρ)·p;  ρ ← ρ'
func (s *Solver) iterate() (iterations int, residual float64) {
	precond := s.cfg.Preconditioner != PreconditionerNone

	s.cpy(VectorR, VectorK)

	// Without a preconditioner z is r itself; the Z vector is never bound.
	zed := VectorR
	if precond {
		zed = VectorZ
		s.applyPreconditioner(VectorR, VectorZ)
	}
	s.cpy(VectorP, zed)
	rho := s.dot(VectorR, zed)

	residual = math.Sqrt(s.dot(VectorR, VectorR))

	for iterations < s.cfg.MaxIterations && residual >= s.cfg.Tolerance {
		iterations++

		s.matvec(VectorP, VectorQ)
		alpha := rho / s.dot(VectorP, VectorQ)
		s.axpy(alpha, VectorP, VectorX)
		s.axpy(-alpha, VectorQ, VectorR)

		residual = math.Sqrt(s.dot(VectorR, VectorR))
		if residual < s.cfg.Tolerance {
			break
		}

		if precond {
			s.applyPreconditioner(VectorR, VectorZ)
		}
		rhoNew := s.dot(VectorR, zed)
		s.xpay(zed, rhoNew/rho, VectorP)
		rho = rhoNew
	}

	return iterations, residual
}

// Timed kernel wrappers. Every backend call is wrapped with wall-clock
// timing accumulated per kernel category.

func (s *Solver) cpy(dst, src Vector) {
	s.backend.Cpy(dst, src)
}

func (s *Solver) matvec(x, y Vector) {
	start := time.Now()
	s.backend.MatVec(x, y)
	s.timing.MatVec += time.Since(start)
}

func (s *Solver) axpy(a float64, x, y Vector) {
	start := time.Now()
	s.backend.Axpy(a, x, y)
	s.timing.Axpy += time.Since(start)
}

func (s *Solver) xpay(x Vector, a float64, y Vector) {
	start := time.Now()
	s.backend.Xpay(x, a, y)
	s.timing.Xpay += time.Since(start)
}

func (s *Solver) dot(a, b Vector) float64 {
	start := time.Now()
	v := s.backend.Dot(a, b)
	s.timing.Dot += time.Since(start)
	return v
}

func (s *Solver) applyPreconditioner(x, y Vector) {
	start := time.Now()
	s.backend.ApplyPreconditioner(x, y)
	s.timing.Preconditioner += time.Since(start)
}
