package engine

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
	"github.com/seanpizarro/antigravity-trading-system/internal/performance"
)

// Calculator produces PositionMetrics by orchestrating the pricing kernel,
// spread aggregation, and probability estimation. It owns every failure
// fallback: callers always get a metrics value, never an error. A position
// that cannot be evaluated yields the documented neutral result with its
// Outcome naming why.
type Calculator struct {
	estimator *Estimator
	solver    IVSolver
	workers   int
	logger    zerolog.Logger
}

// NewCalculator creates a calculator. workers bounds batch parallelism;
// zero selects one goroutine per CPU.
func NewCalculator(estimator *Estimator, workers int, logger zerolog.Logger) *Calculator {
	if estimator == nil {
		estimator = NewEstimator(0, DefaultSeed, logger)
	}
	return &Calculator{
		estimator: estimator,
		solver:    NewIVSolver(),
		workers:   workers,
		logger:    logger,
	}
}

// WithSolver replaces the implied volatility solver, letting callers carry
// configured iteration counts and initial guesses into strict solves.
func (c *Calculator) WithSolver(solver IVSolver) *Calculator {
	c.solver = solver
	return c
}

// Estimator returns the probability estimator in use.
func (c *Calculator) Estimator() *Estimator {
	return c.estimator
}

// Solver returns the implied volatility solver in use.
func (c *Calculator) Solver() IVSolver {
	return c.solver
}

// PositionMetrics computes the full metrics summary for one position.
// Availability wins over precision here: any evaluation failure is logged
// and converted into the neutral default so that one bad position cannot
// halt a portfolio-wide pass.
func (c *Calculator) PositionMetrics(pos models.Position) (metrics models.PositionMetrics) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("position", pos.ID).
				Interface("panic", r).
				Msg("Position evaluation failed, returning neutral metrics")
			metrics = models.NeutralPositionMetrics(models.MetricsFallback)
		}
	}()

	if len(pos.Legs) == 0 {
		c.logger.Warn().Str("position", pos.ID).Msg("Position has no legs, returning neutral metrics")
		return models.NeutralPositionMetrics(models.MetricsNoLegs)
	}

	agg := AggregateLegsAt(pos.Legs, c.estimator.defaultRate())
	if err := checkFinite(agg); err != nil {
		c.logger.Error().
			Str("position", pos.ID).
			Err(err).
			Msg("Position evaluation produced non-finite values, returning neutral metrics")
		return models.NeutralPositionMetrics(models.MetricsFallback)
	}

	pop := c.estimator.PositionPOP(pos)
	expectedValue := agg.Value*pop - pos.MaxLoss*(1-pop)

	return models.PositionMetrics{
		TheoreticalValue:  agg.Value,
		ProbabilityProfit: pop,
		ExpectedValue:     expectedValue,
		Greeks:            agg.Greeks,
		Outcome:           models.MetricsComputed,
	}
}

// BatchMetrics evaluates many positions concurrently. Results are returned
// in input order; evaluation of each position is independent.
func (c *Calculator) BatchMetrics(positions []models.Position) []models.PositionMetrics {
	return performance.ParallelMap(len(positions), c.workers, func(i int) models.PositionMetrics {
		return c.PositionMetrics(positions[i])
	})
}

func checkFinite(agg SpreadResult) error {
	for name, v := range map[string]float64{
		"value": agg.Value,
		"delta": agg.Greeks.Delta,
		"gamma": agg.Greeks.Gamma,
		"theta": agg.Greeks.Theta,
		"vega":  agg.Greeks.Vega,
		"rho":   agg.Greeks.Rho,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite %s: %v", name, v)
		}
	}
	return nil
}
