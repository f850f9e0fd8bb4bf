package risk

import (
	"reflect"
	"testing"
	"time"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func TestCombine_TakesMaxLevel(t *testing.T) {
	qualitative := &models.RiskAssessment{
		AlertLevel:      1,
		Message:         "Mostly fine",
		Concerns:        []string{"slightly concentrated"},
		Recommendations: []string{"diversify"},
	}
	alerts := []models.RiskAlert{
		{Severity: models.SeverityCritical, Message: "Margin breach", Actions: []string{"close positions"}},
		{Severity: models.SeverityCaution, Message: "Gamma high", Actions: []string{"reduce short-dated exposure"}},
	}

	final := Combine(qualitative, alerts)
	if final.AlertLevel != int(models.SeverityCritical) {
		t.Errorf("alert level = %d, want %d", final.AlertLevel, int(models.SeverityCritical))
	}
	if final.Message != "Mostly fine" {
		t.Errorf("message = %q, want the qualitative message", final.Message)
	}

	wantConcerns := []string{"slightly concentrated", "Margin breach", "Gamma high"}
	if !reflect.DeepEqual(final.Concerns, wantConcerns) {
		t.Errorf("concerns = %v, want %v", final.Concerns, wantConcerns)
	}
	wantRecs := []string{"diversify", "close positions", "reduce short-dated exposure"}
	if !reflect.DeepEqual(final.Recommendations, wantRecs) {
		t.Errorf("recommendations = %v, want %v", final.Recommendations, wantRecs)
	}
}

func TestCombine_QualitativeLevelWins(t *testing.T) {
	qualitative := &models.RiskAssessment{AlertLevel: 8, Message: "Critical concentration risk"}
	alerts := []models.RiskAlert{
		{Severity: models.SeverityWarning, Message: "Delta high"},
	}

	final := Combine(qualitative, alerts)
	if final.AlertLevel != 8 {
		t.Errorf("alert level = %d, want 8", final.AlertLevel)
	}
}

func TestCombine_DeduplicatesPreservingOrder(t *testing.T) {
	qualitative := &models.RiskAssessment{
		AlertLevel:      2,
		Message:         "watch",
		Concerns:        []string{"Margin breach"},
		Recommendations: []string{"close positions", "close positions"},
	}
	alerts := []models.RiskAlert{
		{Severity: models.SeverityWarning, Message: "Margin breach", Actions: []string{"close positions"}},
	}

	final := Combine(qualitative, alerts)
	if !reflect.DeepEqual(final.Concerns, []string{"Margin breach"}) {
		t.Errorf("concerns = %v, want deduplicated", final.Concerns)
	}
	if !reflect.DeepEqual(final.Recommendations, []string{"close positions"}) {
		t.Errorf("recommendations = %v, want deduplicated", final.Recommendations)
	}
}

func TestCombine_NilQualitative(t *testing.T) {
	now := time.Now()
	alerts := []models.RiskAlert{
		{Severity: models.SeverityWarning, Message: "Delta high", Timestamp: now, Actions: []string{"hedge"}},
	}

	final := Combine(nil, alerts)
	if final.AlertLevel != int(models.SeverityWarning) {
		t.Errorf("alert level = %d, want %d", final.AlertLevel, int(models.SeverityWarning))
	}
	if final.Message == "" {
		t.Error("automated-only assessment has no message")
	}
	if !reflect.DeepEqual(final.Concerns, []string{"Delta high"}) {
		t.Errorf("concerns = %v", final.Concerns)
	}
}

func TestCombine_EmptyEverything(t *testing.T) {
	final := Combine(nil, nil)
	if final.AlertLevel != 0 {
		t.Errorf("alert level = %d, want 0", final.AlertLevel)
	}
	if final.Concerns == nil || final.Recommendations == nil {
		t.Error("concern and recommendation slices should be empty, not nil")
	}
}
