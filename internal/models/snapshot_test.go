package models

import (
	"os"
	"path/filepath"
	"testing"
)

const validSnapshot = `{
  "as_of": "2026-08-01T15:30:00Z",
  "account": {
    "total_value": 100000,
    "buying_power": 60000,
    "margin_used": 20000,
    "max_drawdown": 0.05
  },
  "market": {"vix": 18.5, "trend": "bullish"},
  "positions": [
    {
      "id": "pos-1",
      "symbol": "SPY",
      "sector": "index",
      "strategy": "CREDIT_SPREAD",
      "max_loss": 450,
      "break_even": 443.5,
      "entry_value": 550,
      "legs": [
        {"underlying": 450, "strike": 440, "time_to_expiry": 0.08, "volatility": 0.22, "kind": "PUT", "quantity": -1},
        {"underlying": 450, "strike": 435, "time_to_expiry": 0.08, "volatility": 0.24, "kind": "PUT", "quantity": 1}
      ]
    },
    {
      "id": "pos-2",
      "symbol": "QQQ",
      "legs": []
    }
  ]
}`

func TestParseSnapshot_Valid(t *testing.T) {
	snapshot, err := ParseSnapshot("test.json", []byte(validSnapshot))
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}

	if snapshot.Account.TotalValue != 100000 {
		t.Errorf("total value = %v", snapshot.Account.TotalValue)
	}
	if snapshot.Market.Trend != TrendBullish {
		t.Errorf("trend = %q", snapshot.Market.Trend)
	}
	if len(snapshot.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(snapshot.Positions))
	}

	pos := snapshot.Positions[0]
	if pos.Strategy != StrategyCreditSpread {
		t.Errorf("strategy = %q", pos.Strategy)
	}
	if len(pos.Legs) != 2 || pos.Legs[0].Quantity != -1 {
		t.Errorf("legs = %+v", pos.Legs)
	}

	// A position without legs is valid input; the engine degrades it later.
	if snapshot.Positions[1].Strategy != StrategyOther {
		t.Errorf("empty strategy should default to %q, got %q", StrategyOther, snapshot.Positions[1].Strategy)
	}
}

func TestParseSnapshot_RejectsBadLegs(t *testing.T) {
	cases := []string{
		// zero underlying
		`{"account":{},"positions":[{"id":"x","symbol":"SPY","legs":[{"underlying":0,"strike":100,"time_to_expiry":0.1,"volatility":0.2,"kind":"CALL","quantity":1}]}]}`,
		// unknown kind
		`{"account":{},"positions":[{"id":"x","symbol":"SPY","legs":[{"underlying":100,"strike":100,"time_to_expiry":0.1,"volatility":0.2,"kind":"STRADDLE","quantity":1}]}]}`,
		// zero quantity
		`{"account":{},"positions":[{"id":"x","symbol":"SPY","legs":[{"underlying":100,"strike":100,"time_to_expiry":0.1,"volatility":0.2,"kind":"CALL","quantity":0}]}]}`,
		// negative account value
		`{"account":{"total_value":-5},"positions":[]}`,
	}
	for i, body := range cases {
		if _, err := ParseSnapshot("test.json", []byte(body)); err == nil {
			t.Errorf("case %d: invalid snapshot accepted", i)
		}
	}
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(validSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snapshot.Positions[0].Symbol != "SPY" {
		t.Errorf("symbol = %q", snapshot.Positions[0].Symbol)
	}
}

func TestMarketCondition_Classify(t *testing.T) {
	cases := []struct {
		market MarketCondition
		want   MarketTrend
	}{
		{MarketCondition{VIX: 15, Trend: TrendBullish}, TrendBullish},
		{MarketCondition{VIX: 28, Trend: TrendBullish}, TrendNeutral},
		{MarketCondition{VIX: 35, Trend: TrendBullish}, TrendBearish},
		{MarketCondition{VIX: 15, Trend: TrendBearish}, TrendBearish},
		{MarketCondition{VIX: 20, Trend: TrendNeutral}, TrendNeutral},
		{MarketCondition{VIX: 32, Trend: TrendNeutral}, TrendBearish},
	}
	for _, tc := range cases {
		if got := tc.market.Classify(); got != tc.want {
			t.Errorf("Classify(%+v) = %q, want %q", tc.market, got, tc.want)
		}
	}
}

func TestPosition_InvestedValue(t *testing.T) {
	credit := Position{EntryValue: -550}
	if v := credit.InvestedValue(); v != 550 {
		t.Errorf("InvestedValue = %v, want 550", v)
	}
	debit := Position{EntryValue: 300}
	if v := debit.InvestedValue(); v != 300 {
		t.Errorf("InvestedValue = %v, want 300", v)
	}
}
