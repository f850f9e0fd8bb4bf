package engine

import (
	"math"
	"testing"

	"github.com/seanpizarro/antigravity-trading-system/internal/errors"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func TestIVSolver_RoundTrip(t *testing.T) {
	solver := NewIVSolver()

	for _, trueVol := range []float64{0.1, 0.2, 0.3, 0.5, 0.8} {
		c := Contract{Spot: 100, Strike: 105, Expiry: 0.5, Rate: 0.05, Kind: models.Call}
		priced := c
		priced.Vol = trueVol
		marketPrice := PriceContract(priced).Price

		got := solver.Solve(marketPrice, c)
		if math.Abs(got-trueVol) > 1e-3 {
			t.Errorf("Solve recovered vol %.5f, want %.5f", got, trueVol)
		}
	}
}

func TestIVSolver_AlwaysReturns(t *testing.T) {
	solver := NewIVSolver()

	// Price below intrinsic value has no consistent volatility.
	c := Contract{Spot: 100, Strike: 50, Expiry: 0.5, Rate: 0.05, Kind: models.Call}
	sigma := solver.Solve(1.0, c)
	if math.IsNaN(sigma) {
		// Solve's contract is to always hand back a number; NaN is the
		// one value downstream consumers cannot clamp.
		t.Errorf("Solve returned NaN")
	}
}

func TestIVSolver_StrictRejectsNonConverged(t *testing.T) {
	solver := NewIVSolver()

	c := Contract{Spot: 100, Strike: 50, Expiry: 0.5, Rate: 0.05, Kind: models.Call}
	_, err := solver.SolveStrict(1.0, c)
	if err == nil {
		t.Fatal("SolveStrict accepted an unreachable price")
	}
	if !errors.Is(err, errors.ErrNoConvergence) {
		t.Errorf("error = %v, want ErrNoConvergence", err)
	}
}

func TestIVSolver_StrictAcceptsConverged(t *testing.T) {
	solver := NewIVSolver()

	c := Contract{Spot: 100, Strike: 100, Expiry: 1, Rate: 0.05, Kind: models.Call}
	priced := c
	priced.Vol = 0.25
	marketPrice := PriceContract(priced).Price

	sigma, err := solver.SolveStrict(marketPrice, c)
	if err != nil {
		t.Fatalf("SolveStrict failed: %v", err)
	}
	if math.Abs(sigma-0.25) > 1e-3 {
		t.Errorf("sigma = %.5f, want 0.25", sigma)
	}
}
