package models

import "time"

// Severity represents the discrete severity of an automated risk alert.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityCaution
	SeverityWarning
	SeverityCritical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "NORMAL"
	case SeverityCaution:
		return "CAUTION"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// RiskAlert is a discrete automated trigger produced by threshold checks.
// Alerts are generated and consumed within one evaluation cycle.
type RiskAlert struct {
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	TriggeredBy string    `json:"triggered_by"`
	Timestamp   time.Time `json:"timestamp"`
	Actions     []string  `json:"actions"`
	Confidence  float64   `json:"confidence"`
}

// RiskAssessment is the combined portfolio risk verdict.
// AlertLevel is always in [0, 10].
type RiskAssessment struct {
	AlertLevel      int      `json:"alert_level"`
	Message         string   `json:"message"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

// ClampAlertLevel bounds a level to the documented [0, 10] range.
func ClampAlertLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 10 {
		return 10
	}
	return level
}
