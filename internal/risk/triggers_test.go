package risk

import (
	"reflect"
	"testing"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func alertsByTrigger(alerts []models.RiskAlert) map[string]models.RiskAlert {
	byTrigger := make(map[string]models.RiskAlert, len(alerts))
	for _, alert := range alerts {
		byTrigger[alert.TriggeredBy] = alert
	}
	return byTrigger
}

func TestCheckTriggers_QuietPortfolio(t *testing.T) {
	s := newTestScorer()

	metrics := models.PortfolioMetrics{
		TotalValue:  100000,
		BuyingPower: 80000,
		MarginUsage: 0.1,
	}
	alerts := s.CheckTriggers(metrics, nil)
	if len(alerts) != 0 {
		t.Errorf("alerts = %v, want none", alerts)
	}
}

func TestCheckTriggers_BuyingPowerAndMargin(t *testing.T) {
	s := newTestScorer()

	metrics := models.PortfolioMetrics{
		TotalValue:  100000,
		BuyingPower: 10000, // 90% usage
		MarginUsage: 0.8,
	}
	byTrigger := alertsByTrigger(s.CheckTriggers(metrics, nil))

	bp, ok := byTrigger["buying_power_usage"]
	if !ok {
		t.Fatal("buying power alert not raised")
	}
	if bp.Severity != models.SeverityWarning {
		t.Errorf("buying power severity = %s, want WARNING", bp.Severity)
	}
	if bp.Confidence != 0.9 {
		t.Errorf("buying power confidence = %v, want 0.9", bp.Confidence)
	}

	margin, ok := byTrigger["margin_usage"]
	if !ok {
		t.Fatal("margin alert not raised")
	}
	if margin.Severity != models.SeverityCritical {
		t.Errorf("margin severity = %s, want CRITICAL", margin.Severity)
	}
	if len(margin.Actions) == 0 {
		t.Error("margin alert has no suggested actions")
	}
}

func TestCheckTriggers_GreekLimits(t *testing.T) {
	s := newTestScorer()

	metrics := models.PortfolioMetrics{
		TotalValue:  100000,
		BuyingPower: 90000,
		Greeks:      models.Greeks{Delta: -150, Gamma: 60, Vega: 250},
	}
	byTrigger := alertsByTrigger(s.CheckTriggers(metrics, nil))

	if _, ok := byTrigger["portfolio_delta"]; !ok {
		t.Error("delta alert not raised for |delta| > 100")
	}
	if alert, ok := byTrigger["portfolio_gamma"]; !ok {
		t.Error("gamma alert not raised for |gamma| > 50")
	} else if alert.Severity != models.SeverityCaution {
		t.Errorf("gamma severity = %s, want CAUTION", alert.Severity)
	}
	if _, ok := byTrigger["portfolio_vega"]; !ok {
		t.Error("vega alert not raised for |vega| > 200")
	}
}

func TestCheckTriggers_Concentration(t *testing.T) {
	s := newTestScorer()

	metrics := models.PortfolioMetrics{
		TotalValue:          100000,
		BuyingPower:         90000,
		SectorConcentration: map[string]float64{"tech": 0.5, "energy": 0.1},
	}
	positions := []models.Position{
		testPosition("big", "tech", models.StrategyCreditSpread, 5000),
		testPosition("small", "energy", models.StrategyCreditSpread, 1000),
	}
	byTrigger := alertsByTrigger(s.CheckTriggers(metrics, positions))

	if _, ok := byTrigger["sector_concentration"]; !ok {
		t.Error("sector concentration alert not raised for 50% sector")
	}
	// big is 5000/6000 = 83% of invested value.
	if _, ok := byTrigger["position_concentration"]; !ok {
		t.Error("position concentration alert not raised")
	}
}

func TestCheckTriggers_SectorAlertOrderStable(t *testing.T) {
	s := newTestScorer()

	metrics := models.PortfolioMetrics{
		TotalValue:  100000,
		BuyingPower: 90000,
		SectorConcentration: map[string]float64{
			"tech":      0.45,
			"energy":    0.40,
			"financial": 0.35,
		},
	}

	sectorMessages := func() []string {
		var msgs []string
		for _, alert := range s.CheckTriggers(metrics, nil) {
			if alert.TriggeredBy == "sector_concentration" {
				msgs = append(msgs, alert.Message)
			}
		}
		return msgs
	}

	first := sectorMessages()
	if len(first) != 3 {
		t.Fatalf("sector alerts = %d, want 3", len(first))
	}
	for run := 0; run < 10; run++ {
		got := sectorMessages()
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d order %v differs from %v", run, got, first)
		}
	}
}

func TestCheckTriggers_MaxPositions(t *testing.T) {
	s := newTestScorer()

	positions := make([]models.Position, 6)
	for i := range positions {
		positions[i] = testPosition("p", "tech", models.StrategyCreditSpread, 1000)
	}
	metrics := models.PortfolioMetrics{TotalValue: 100000, BuyingPower: 90000}
	byTrigger := alertsByTrigger(s.CheckTriggers(metrics, positions))

	if _, ok := byTrigger["max_open_positions"]; !ok {
		t.Error("max positions alert not raised for 6 > 5")
	}
}
