package risk

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/seanpizarro/antigravity-trading-system/internal/errors"
	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// Advisor produces a qualitative portfolio assessment. Implementations may
// call an external model; Evaluate treats any error as "no qualitative input"
// and continues with the automated path.
type Advisor interface {
	Assess(ctx context.Context, metrics models.PortfolioMetrics, alerts []models.RiskAlert, market models.MarketCondition) (*models.RiskAssessment, error)
}

// HistoryStore persists evaluations for trend reporting.
type HistoryStore interface {
	SaveAssessment(assessment models.RiskAssessment, riskScore float64, asOf time.Time) (int64, error)
	SaveAlerts(assessmentID int64, alerts []models.RiskAlert) error
	AverageAlertLevel(since time.Time) (float64, int, error)
}

// SnapshotSource supplies the current portfolio state for each cycle.
type SnapshotSource func() (*models.PortfolioSnapshot, error)

// Evaluation is the output of one monitoring cycle.
type Evaluation struct {
	AsOf       time.Time
	Metrics    models.PortfolioMetrics
	Alerts     []models.RiskAlert
	Assessment models.RiskAssessment
}

// Monitor runs periodic risk evaluations over a snapshot source. The advisor
// and history store are optional; a monitor with neither degrades to pure
// automated scoring.
type Monitor struct {
	scorer   *Scorer
	advisor  Advisor
	history  HistoryStore
	source   SnapshotSource
	interval time.Duration
	logger   zerolog.Logger
}

// NewMonitor creates a monitor. A non-positive interval defaults to five
// minutes.
func NewMonitor(scorer *Scorer, source SnapshotSource, interval time.Duration, logger zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Monitor{
		scorer:   scorer,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// WithAdvisor attaches a qualitative advisor.
func (m *Monitor) WithAdvisor(advisor Advisor) *Monitor {
	m.advisor = advisor
	return m
}

// WithHistory attaches an assessment history store.
func (m *Monitor) WithHistory(history HistoryStore) *Monitor {
	m.history = history
	return m
}

// Evaluate runs one full cycle: load the snapshot, score the portfolio,
// check triggers, obtain the qualitative assessment, combine, and persist.
func (m *Monitor) Evaluate(ctx context.Context) (*Evaluation, error) {
	snapshot, err := m.source()
	if err != nil {
		return nil, errors.Wrap(err, "load portfolio snapshot")
	}

	metrics := m.scorer.PortfolioMetrics(snapshot.Account, snapshot.Positions)
	alerts := m.scorer.CheckTriggers(metrics, snapshot.Positions)

	qualitative := m.qualitative(ctx, snapshot, metrics, alerts)
	assessment := Combine(qualitative, alerts)

	m.logger.Info().
		Int("alert_level", assessment.AlertLevel).
		Int("alerts", len(alerts)).
		Float64("risk_score", metrics.RiskScore).
		Msg("risk evaluation complete")

	m.persist(assessment, metrics, alerts, snapshot.AsOf)

	return &Evaluation{
		AsOf:       snapshot.AsOf,
		Metrics:    metrics,
		Alerts:     alerts,
		Assessment: assessment,
	}, nil
}

func (m *Monitor) qualitative(ctx context.Context, snapshot *models.PortfolioSnapshot, metrics models.PortfolioMetrics, alerts []models.RiskAlert) *models.RiskAssessment {
	if m.advisor == nil {
		fast := m.scorer.AssessConcentration(snapshot.Market, snapshot.Positions)
		return &fast
	}
	assessment, err := m.advisor.Assess(ctx, metrics, alerts, snapshot.Market)
	if err != nil {
		m.logger.Warn().Err(err).Msg("advisor unavailable, using concentration assessment")
		fast := m.scorer.AssessConcentration(snapshot.Market, snapshot.Positions)
		return &fast
	}
	return assessment
}

func (m *Monitor) persist(assessment models.RiskAssessment, metrics models.PortfolioMetrics, alerts []models.RiskAlert, asOf time.Time) {
	if m.history == nil {
		return
	}
	id, err := m.history.SaveAssessment(assessment, metrics.RiskScore, asOf)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to save assessment")
		return
	}
	if len(alerts) > 0 {
		if err := m.history.SaveAlerts(id, alerts); err != nil {
			m.logger.Error().Err(err).Msg("failed to save alerts")
		}
	}
}

// WeeklyTrend reports the average alert level and evaluation count over the
// trailing seven days. It requires a history store.
func (m *Monitor) WeeklyTrend() (float64, int, error) {
	if m.history == nil {
		return 0, 0, errors.ErrHistoryUnavailable
	}
	return m.history.AverageAlertLevel(time.Now().UTC().AddDate(0, 0, -7))
}

// Run evaluates immediately and then on every interval tick until the
// context is cancelled. Evaluation errors are logged, not fatal.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	if _, err := m.Evaluate(ctx); err != nil {
		m.logger.Error().Err(err).Msg("risk evaluation failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Evaluate(ctx); err != nil {
				m.logger.Error().Err(err).Msg("risk evaluation failed")
			}
		}
	}
}
