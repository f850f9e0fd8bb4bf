// Package engine implements the derivatives analytics core: closed-form
// option pricing with Greeks, spread aggregation, Monte Carlo probability
// estimation, implied volatility solving, and position metrics.
package engine

import (
	"math"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

const (
	// clampEpsilon is the floor applied to time-to-expiry and volatility
	// before pricing. At-expiration and zero-vol inputs are valid domain
	// edges, not errors.
	clampEpsilon = 1e-5

	// DefaultRiskFreeRate is assumed when a leg carries no rate.
	DefaultRiskFreeRate = 0.05

	daysPerYear = 365.0
)

// Contract holds the pricing inputs for one European option.
type Contract struct {
	Spot   float64
	Strike float64
	Expiry float64 // years
	Rate   float64
	Vol    float64
	Kind   models.OptionKind
}

// ContractResult holds the price and sensitivity set for one contract.
type ContractResult struct {
	Price  float64
	Greeks models.Greeks
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// PriceContract prices a single contract under Black-Scholes and returns its
// Greeks. Theta is reported per day, vega per 1 vol-point, rho per 1% rate
// move.
func PriceContract(c Contract) ContractResult {
	t := math.Max(c.Expiry, clampEpsilon)
	vol := math.Max(c.Vol, clampEpsilon)

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(c.Spot/c.Strike) + (c.Rate+0.5*vol*vol)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT

	discount := math.Exp(-c.Rate * t)
	pdfD1 := normPDF(d1)

	var price, delta, theta, rho float64
	if c.Kind == models.Put {
		price = c.Strike*discount*normCDF(-d2) - c.Spot*normCDF(-d1)
		delta = normCDF(d1) - 1
		theta = -(c.Spot*pdfD1*vol/(2*sqrtT) - c.Rate*c.Strike*discount*normCDF(-d2))
		rho = -c.Strike * t * discount * normCDF(-d2)
	} else {
		price = c.Spot*normCDF(d1) - c.Strike*discount*normCDF(d2)
		delta = normCDF(d1)
		theta = -(c.Spot*pdfD1*vol/(2*sqrtT) + c.Rate*c.Strike*discount*normCDF(d2))
		rho = c.Strike * t * discount * normCDF(d2)
	}

	gamma := pdfD1 / (c.Spot * vol * sqrtT)
	vega := c.Spot * pdfD1 * sqrtT

	return ContractResult{
		Price: price,
		Greeks: models.Greeks{
			Delta: delta,
			Gamma: gamma,
			Theta: theta / daysPerYear,
			Vega:  vega / 100,
			Rho:   rho / 100,
		},
	}
}

// PriceBatch evaluates N independent contracts. The result at index i is
// identical to PriceContract(contracts[i]); there is no cross-contract
// coupling, so callers may split batches across workers freely.
func PriceBatch(contracts []Contract) []ContractResult {
	results := make([]ContractResult, len(contracts))
	for i, c := range contracts {
		results[i] = PriceContract(c)
	}
	return results
}

// rawVega returns the unscaled Black-Scholes vega used by the implied
// volatility Newton step.
func rawVega(c Contract) float64 {
	t := math.Max(c.Expiry, clampEpsilon)
	vol := math.Max(c.Vol, clampEpsilon)
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(c.Spot/c.Strike) + (c.Rate+0.5*vol*vol)*t) / (vol * sqrtT)
	return c.Spot * normPDF(d1) * sqrtT
}
