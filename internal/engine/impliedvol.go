package engine

import (
	"math"

	apperrors "github.com/seanpizarro/antigravity-trading-system/internal/errors"
)

const (
	// DefaultIVIterations is the fixed Newton-Raphson iteration count. The
	// solver always returns a value after this many steps; convergence is
	// only checked in strict mode.
	DefaultIVIterations = 10

	// DefaultIVGuess is the initial volatility guess.
	DefaultIVGuess = 0.30

	// StrictIVTolerance is the maximum acceptable price residual for a
	// strict-mode solve.
	StrictIVTolerance = 1e-4
)

// IVSolver recovers implied volatility from an observed market price by
// Newton-Raphson on the pricing kernel. The default mode reproduces the
// fixed-iteration behavior callers may rely on: it always returns a value,
// converged or not. SolveStrict reports non-convergence instead.
type IVSolver struct {
	Iterations   int
	InitialGuess float64
}

// NewIVSolver creates a solver with default iteration count and guess.
func NewIVSolver() IVSolver {
	return IVSolver{
		Iterations:   DefaultIVIterations,
		InitialGuess: DefaultIVGuess,
	}
}

// Solve runs the fixed number of Newton iterations and returns the final
// sigma, whatever it is. The contract's Vol field is ignored.
func (s IVSolver) Solve(marketPrice float64, c Contract) float64 {
	sigma, _ := s.iterate(marketPrice, c)
	return sigma
}

// SolveStrict runs the same iteration but returns a SolverError when the
// final price residual exceeds StrictIVTolerance.
func (s IVSolver) SolveStrict(marketPrice float64, c Contract) (float64, error) {
	sigma, residual := s.iterate(marketPrice, c)
	if math.IsNaN(sigma) || math.Abs(residual) > StrictIVTolerance {
		return 0, apperrors.NewSolverError(sigma, residual, s.iterations())
	}
	return sigma, nil
}

func (s IVSolver) iterations() int {
	if s.Iterations > 0 {
		return s.Iterations
	}
	return DefaultIVIterations
}

func (s IVSolver) iterate(marketPrice float64, c Contract) (sigma, residual float64) {
	sigma = s.InitialGuess
	if sigma <= 0 {
		sigma = DefaultIVGuess
	}

	for i := 0; i < s.iterations(); i++ {
		c.Vol = sigma
		residual = PriceContract(c).Price - marketPrice
		vega := rawVega(c)
		if vega == 0 {
			// A flat objective gives the Newton step nothing to work
			// with; stop early rather than divide by zero.
			break
		}
		sigma -= residual / vega
	}

	c.Vol = sigma
	residual = PriceContract(c).Price - marketPrice
	return sigma, residual
}
