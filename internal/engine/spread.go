package engine

import (
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// SpreadResult holds the aggregated value and Greeks of a multi-leg position.
// No share/contract multiplier is applied; converting Greek and value units
// into account currency is the caller's concern.
type SpreadResult struct {
	Value  float64
	Greeks models.Greeks
}

// contractFromLeg builds a pricing input from a leg, substituting
// defaultRate when the leg carries no rate of its own.
func contractFromLegAt(leg models.Leg, defaultRate float64) Contract {
	rate := leg.Rate
	if rate == 0 {
		rate = defaultRate
	}
	return Contract{
		Spot:   leg.Underlying,
		Strike: leg.Strike,
		Expiry: leg.TimeToExpiry,
		Rate:   rate,
		Vol:    leg.Volatility,
		Kind:   leg.Kind,
	}
}

func contractFromLeg(leg models.Leg) Contract {
	return contractFromLegAt(leg, DefaultRiskFreeRate)
}

// AggregateLegs prices every leg independently and combines the results
// weighted by signed quantities. Legs are summed in index order so that
// floating-point totals are reproducible across runs.
func AggregateLegs(legs []models.Leg) SpreadResult {
	return AggregateLegsAt(legs, DefaultRiskFreeRate)
}

// AggregateLegsAt is AggregateLegs with a caller-supplied fallback rate for
// legs that carry none.
func AggregateLegsAt(legs []models.Leg, defaultRate float64) SpreadResult {
	contracts := make([]Contract, len(legs))
	for i, leg := range legs {
		contracts[i] = contractFromLegAt(leg, defaultRate)
	}
	return aggregateResults(legs, PriceBatch(contracts))
}

// aggregateResults combines per-leg pricing output with the legs' signed
// quantities in leg index order.
func aggregateResults(legs []models.Leg, results []ContractResult) SpreadResult {
	var agg SpreadResult
	for i := range legs {
		qty := legs[i].Quantity
		agg.Value += results[i].Price * qty
		agg.Greeks.AddWeighted(results[i].Greeks, qty)
	}
	return agg
}
