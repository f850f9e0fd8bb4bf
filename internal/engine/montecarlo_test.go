package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func newTestEstimator() *Estimator {
	return NewEstimator(0, DefaultSeed, zerolog.Nop())
}

func TestNewEstimator_SeedZeroSelectable(t *testing.T) {
	zeroSeed := NewEstimator(10, 0, zerolog.Nop())
	if zeroSeed.Seed != 0 {
		t.Fatalf("Seed = %d, want 0", zeroSeed.Seed)
	}

	stock := NewEstimator(10, DefaultSeed, zerolog.Nop())
	if zeroSeed.TerminalPrices(100, 0.25, 0.3, 0.05)[0] == stock.TerminalPrices(100, 0.25, 0.3, 0.05)[0] {
		t.Error("seed 0 draws the same sample as the stock seed")
	}
}

func TestEstimator_Deterministic(t *testing.T) {
	e := newTestEstimator()

	first := e.TerminalPrices(100, 0.25, 0.3, 0.05)
	second := e.TerminalPrices(100, 0.25, 0.3, 0.05)

	if len(first) != DefaultSimulations {
		t.Fatalf("sample size = %d, want %d", len(first), DefaultSimulations)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample diverged at %d: %v != %v", i, first[i], second[i])
		}
	}
}

func TestEstimator_ProbAboveBounds(t *testing.T) {
	e := newTestEstimator()

	cases := []struct {
		spot, level float64
	}{
		{100, 1},    // almost surely above
		{100, 100},  // at the money
		{100, 1000}, // almost surely below
	}
	for _, tc := range cases {
		p := e.ProbAbove(tc.spot, tc.level, 0.25, 0.3, 0.05)
		if p < 0 || p > 1 {
			t.Errorf("ProbAbove(%v, %v) = %v, out of [0, 1]", tc.spot, tc.level, p)
		}
	}

	if p := e.ProbAbove(100, 1, 0.25, 0.3, 0.05); p < 0.99 {
		t.Errorf("P(S_T > 1) = %v, want ~1", p)
	}
	if p := e.ProbAbove(100, 1000, 0.25, 0.3, 0.05); p > 0.01 {
		t.Errorf("P(S_T > 1000) = %v, want ~0", p)
	}
}

func TestPositionPOP_NoLegs(t *testing.T) {
	e := newTestEstimator()
	pos := models.Position{ID: "p1", Symbol: "SPY"}

	if pop := e.PositionPOP(pos); pop != NeutralPOP {
		t.Errorf("POP with no legs = %v, want %v", pop, NeutralPOP)
	}
}

func TestPositionPOP_CreditSpreadTooFewLegs(t *testing.T) {
	e := newTestEstimator()
	pos := models.Position{
		ID:       "p2",
		Symbol:   "SPY",
		Strategy: models.StrategyCreditSpread,
		Legs: []models.Leg{
			{Underlying: 450, Strike: 440, TimeToExpiry: 0.1, Volatility: 0.2, Kind: models.Put, Quantity: -1},
		},
	}

	if pop := e.PositionPOP(pos); pop != NeutralPOP {
		t.Errorf("credit spread POP with one leg = %v, want %v", pop, NeutralPOP)
	}
}

func TestPositionPOP_CreditSpreadInRange(t *testing.T) {
	e := newTestEstimator()
	pos := models.Position{
		ID:       "p3",
		Symbol:   "SPY",
		Strategy: models.StrategyCreditSpread,
		Legs: []models.Leg{
			{Underlying: 450, Strike: 440, TimeToExpiry: 0.1, Volatility: 0.2, Kind: models.Put, Quantity: -1},
			{Underlying: 450, Strike: 430, TimeToExpiry: 0.1, Volatility: 0.2, Kind: models.Put, Quantity: 1},
		},
	}

	pop := e.PositionPOP(pos)
	if pop < 0 || pop > 1 {
		t.Fatalf("credit spread POP = %v, out of [0, 1]", pop)
	}
	// Short 440 put with spot at 450 should usually expire worthless.
	if pop < 0.5 {
		t.Errorf("OTM put credit spread POP = %v, want > 0.5", pop)
	}
}

func TestPositionPOP_DirectionalInversion(t *testing.T) {
	e := newTestEstimator()

	bullish := models.Position{
		ID: "p4", Symbol: "SPY", Strategy: models.StrategyDebitSpread,
		BreakEven: 455,
		Legs: []models.Leg{
			{Underlying: 450, Strike: 450, TimeToExpiry: 0.1, Volatility: 0.2, Kind: models.Call, Quantity: 1},
		},
	}
	bearish := models.Position{
		ID: "p5", Symbol: "SPY", Strategy: models.StrategyDebitSpread,
		BreakEven: 445,
		Legs: []models.Leg{
			{Underlying: 450, Strike: 450, TimeToExpiry: 0.1, Volatility: 0.2, Kind: models.Put, Quantity: 1},
		},
	}

	pBull := e.PositionPOP(bullish)
	pBear := e.PositionPOP(bearish)

	pAboveBear := e.ProbAbove(450, 445, 0.1, 0.2, DefaultRiskFreeRate)
	if pBear != clamp01(1-pAboveBear) {
		t.Errorf("bearish POP = %v, want inverted %v", pBear, clamp01(1-pAboveBear))
	}
	if pBull < 0 || pBull > 1 {
		t.Errorf("bullish POP = %v, out of [0, 1]", pBull)
	}
}
