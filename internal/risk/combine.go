package risk

import (
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// Combine merges a qualitative assessment with automated trigger alerts into
// one final assessment. The final alert level is the maximum of the
// qualitative level and the highest alert severity; alert messages join the
// concerns and alert actions join the recommendations. Duplicates are dropped
// while preserving first-seen order, so the output is deterministic for a
// given input sequence.
//
// A nil qualitative assessment (the advisor is disabled or failed) degrades
// to an automated-only result instead of an error.
func Combine(qualitative *models.RiskAssessment, alerts []models.RiskAlert) models.RiskAssessment {
	final := models.RiskAssessment{
		Message:         "Automated risk assessment",
		Concerns:        []string{},
		Recommendations: []string{},
	}
	if qualitative != nil {
		final.AlertLevel = qualitative.AlertLevel
		if qualitative.Message != "" {
			final.Message = qualitative.Message
		}
		final.Concerns = append(final.Concerns, qualitative.Concerns...)
		final.Recommendations = append(final.Recommendations, qualitative.Recommendations...)
	}

	for _, alert := range alerts {
		if int(alert.Severity) > final.AlertLevel {
			final.AlertLevel = int(alert.Severity)
		}
		final.Concerns = append(final.Concerns, alert.Message)
		final.Recommendations = append(final.Recommendations, alert.Actions...)
	}

	final.AlertLevel = models.ClampAlertLevel(final.AlertLevel)
	final.Concerns = dedupe(final.Concerns)
	final.Recommendations = dedupe(final.Recommendations)
	return final
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
