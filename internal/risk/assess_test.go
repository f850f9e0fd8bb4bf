package risk

import (
	"strings"
	"testing"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func TestAssessConcentration_CriticalTier(t *testing.T) {
	s := newTestScorer()

	positions := make([]models.Position, 5)
	for i := range positions {
		positions[i] = testPosition("p", "tech", models.StrategyKind("THETA_DECAY"), 1000)
	}

	assessment := s.AssessConcentration(models.MarketCondition{}, positions)
	if assessment.AlertLevel < 8 {
		t.Errorf("alert level = %d, want >= 8 for 100%% concentration", assessment.AlertLevel)
	}
	if assessment.Message != "Critical concentration risk" {
		t.Errorf("message = %q", assessment.Message)
	}

	found := false
	for _, concern := range assessment.Concerns {
		if strings.Contains(concern, "THETA_DECAY") && strings.Contains(concern, "100.0%") {
			found = true
		}
	}
	if !found {
		t.Errorf("concerns %v do not name the concentrated strategy and share", assessment.Concerns)
	}
	if len(assessment.Recommendations) == 0 {
		t.Error("critical assessment has no recommendations")
	}
}

func TestAssessConcentration_Tiers(t *testing.T) {
	s := newTestScorer()

	// 60% in one strategy, 40% in another: max concentration 60% -> level 5.
	positions := []models.Position{
		testPosition("a", "tech", models.StrategyCreditSpread, 6000),
		testPosition("b", "tech", models.StrategyDebitSpread, 4000),
	}
	assessment := s.AssessConcentration(models.MarketCondition{}, positions)
	if assessment.AlertLevel != 5 {
		t.Errorf("alert level = %d, want 5 for 60%% concentration", assessment.AlertLevel)
	}

	// 35% max concentration -> level 3.
	positions = []models.Position{
		testPosition("a", "tech", models.StrategyCreditSpread, 35),
		testPosition("b", "tech", models.StrategyDebitSpread, 33),
		testPosition("c", "tech", models.StrategySingleLeg, 32),
	}
	assessment = s.AssessConcentration(models.MarketCondition{}, positions)
	if assessment.AlertLevel != 3 {
		t.Errorf("alert level = %d, want 3 for 35%% concentration", assessment.AlertLevel)
	}
	if len(assessment.Concerns) != 0 {
		t.Errorf("concerns = %v, want none below the 40%% concern threshold", assessment.Concerns)
	}
}

func TestAssessConcentration_LowRisk(t *testing.T) {
	s := newTestScorer()

	positions := []models.Position{
		testPosition("a", "tech", models.StrategyCreditSpread, 25),
		testPosition("b", "tech", models.StrategyDebitSpread, 25),
		testPosition("c", "tech", models.StrategySingleLeg, 25),
		testPosition("d", "tech", models.StrategyOther, 25),
	}
	assessment := s.AssessConcentration(models.MarketCondition{}, positions)
	if assessment.AlertLevel != 0 {
		t.Errorf("alert level = %d, want 0 for 25%% concentration", assessment.AlertLevel)
	}
	if assessment.Message != "Low risk portfolio" {
		t.Errorf("message = %q", assessment.Message)
	}
}

func TestAssessConcentration_EmptyBullish(t *testing.T) {
	s := newTestScorer()

	market := models.MarketCondition{VIX: 15, Trend: models.TrendBullish}
	assessment := s.AssessConcentration(market, nil)

	if assessment.AlertLevel != 1 {
		t.Errorf("alert level = %d, want 1 for empty portfolio in bullish market", assessment.AlertLevel)
	}
	if len(assessment.Concerns) == 0 || len(assessment.Recommendations) == 0 {
		t.Error("bullish empty assessment should flag the missed opportunity")
	}
}

func TestAssessConcentration_EmptyNotBullish(t *testing.T) {
	s := newTestScorer()

	cases := []models.MarketCondition{
		{VIX: 35, Trend: models.TrendBullish}, // high VIX suppresses the bullish read
		{VIX: 15, Trend: models.TrendBearish},
		{VIX: 20, Trend: models.TrendNeutral},
	}
	for _, market := range cases {
		assessment := s.AssessConcentration(market, nil)
		if assessment.AlertLevel != 0 {
			t.Errorf("alert level = %d for %+v, want 0", assessment.AlertLevel, market)
		}
		if len(assessment.Concerns) != 0 || len(assessment.Recommendations) != 0 {
			t.Errorf("empty non-bullish assessment carries content: %+v", assessment)
		}
	}
}
