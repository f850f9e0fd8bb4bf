package advisor

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/errors"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, zerolog.Nop())
	if !errors.Is(err, errors.ErrAdvisorDisabled) {
		t.Errorf("err = %v, want ErrAdvisorDisabled", err)
	}
}

func TestParseAssessment_PlainJSON(t *testing.T) {
	content := `{"alert_level": 6, "message": "Elevated margin pressure",
		"concerns": ["margin usage high"], "recommendations": ["free margin"]}`

	assessment, err := parseAssessment(content)
	if err != nil {
		t.Fatalf("parseAssessment failed: %v", err)
	}
	if assessment.AlertLevel != 6 {
		t.Errorf("alert level = %d, want 6", assessment.AlertLevel)
	}
	if assessment.Message != "Elevated margin pressure" {
		t.Errorf("message = %q", assessment.Message)
	}
	if len(assessment.Concerns) != 1 || len(assessment.Recommendations) != 1 {
		t.Errorf("lists = %+v", assessment)
	}
}

func TestParseAssessment_ToleratesFencesAndProse(t *testing.T) {
	content := "Here is my assessment:\n```json\n" +
		`{"alert_level": 3, "message": "Moderate risk", "concerns": [], "recommendations": []}` +
		"\n```\nLet me know if you need more."

	assessment, err := parseAssessment(content)
	if err != nil {
		t.Fatalf("parseAssessment failed: %v", err)
	}
	if assessment.AlertLevel != 3 || assessment.Message != "Moderate risk" {
		t.Errorf("assessment = %+v", assessment)
	}
}

func TestParseAssessment_ClampsLevel(t *testing.T) {
	assessment, err := parseAssessment(`{"alert_level": 42, "message": "panic"}`)
	if err != nil {
		t.Fatalf("parseAssessment failed: %v", err)
	}
	if assessment.AlertLevel != 10 {
		t.Errorf("alert level = %d, want clamped to 10", assessment.AlertLevel)
	}

	assessment, err = parseAssessment(`{"alert_level": -3, "message": "calm"}`)
	if err != nil {
		t.Fatal(err)
	}
	if assessment.AlertLevel != 0 {
		t.Errorf("alert level = %d, want clamped to 0", assessment.AlertLevel)
	}
	if assessment.Concerns == nil || assessment.Recommendations == nil {
		t.Error("missing lists should decode to empty slices, not nil")
	}
}

func TestParseAssessment_Rejections(t *testing.T) {
	cases := []string{
		"no json here",
		`{"alert_level": "high"}`,
		`{"alert_level": 2}`, // missing message
	}
	for i, content := range cases {
		if _, err := parseAssessment(content); err == nil {
			t.Errorf("case %d: bad content accepted", i)
		}
	}
}

func TestClient_ImplementsAdvisorAssess(t *testing.T) {
	// Compile-time style check that the prompt builder accepts the full
	// portfolio state.
	prompt, err := buildPrompt(models.PortfolioMetrics{RiskScore: 0.4},
		[]models.RiskAlert{{Severity: models.SeverityWarning, Message: "delta"}},
		models.MarketCondition{VIX: 22, Trend: models.TrendNeutral})
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	if prompt == "" {
		t.Error("empty prompt")
	}
}
