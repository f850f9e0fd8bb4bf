// Package store persists risk assessments and alerts for trend reporting.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/seanpizarro/antigravity-trading-system/internal/models"
)

// SQLiteStore keeps assessment history in a local SQLite database. It
// implements risk.HistoryStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the history database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS risk_assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		as_of DATETIME NOT NULL,
		alert_level INTEGER NOT NULL,
		risk_score REAL NOT NULL,
		message TEXT NOT NULL,
		concerns TEXT,
		recommendations TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS risk_alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		assessment_id INTEGER NOT NULL REFERENCES risk_assessments(id),
		severity INTEGER NOT NULL,
		triggered_by TEXT NOT NULL,
		message TEXT NOT NULL,
		actions TEXT,
		confidence REAL,
		triggered_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_as_of ON risk_assessments(as_of);
	CREATE INDEX IF NOT EXISTS idx_alerts_assessment ON risk_alerts(assessment_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveAssessment inserts one assessment row and returns its id.
func (s *SQLiteStore) SaveAssessment(assessment models.RiskAssessment, riskScore float64, asOf time.Time) (int64, error) {
	concerns, err := json.Marshal(assessment.Concerns)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal concerns: %w", err)
	}
	recommendations, err := json.Marshal(assessment.Recommendations)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO risk_assessments (as_of, alert_level, risk_score, message, concerns, recommendations)
		VALUES (?, ?, ?, ?, ?, ?)`,
		asOf.UTC(), assessment.AlertLevel, riskScore, assessment.Message,
		string(concerns), string(recommendations),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save assessment: %w", err)
	}
	return result.LastInsertId()
}

// SaveAlerts inserts the alerts attached to one assessment.
func (s *SQLiteStore) SaveAlerts(assessmentID int64, alerts []models.RiskAlert) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO risk_alerts (assessment_id, severity, triggered_by, message, actions, confidence, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, alert := range alerts {
		actions, err := json.Marshal(alert.Actions)
		if err != nil {
			return fmt.Errorf("failed to marshal actions: %w", err)
		}
		if _, err := stmt.Exec(
			assessmentID, int(alert.Severity), alert.TriggeredBy, alert.Message,
			string(actions), alert.Confidence, alert.Timestamp.UTC(),
		); err != nil {
			return fmt.Errorf("failed to save alert: %w", err)
		}
	}
	return tx.Commit()
}

// AssessmentRecord is one stored evaluation.
type AssessmentRecord struct {
	ID         int64
	AsOf       time.Time
	RiskScore  float64
	Assessment models.RiskAssessment
}

// Assessments returns evaluations since the given time, newest first.
func (s *SQLiteStore) Assessments(since time.Time, limit int) ([]AssessmentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, as_of, alert_level, risk_score, message, concerns, recommendations
		FROM risk_assessments
		WHERE as_of >= ?
		ORDER BY as_of DESC
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		var concerns, recommendations string
		if err := rows.Scan(&rec.ID, &rec.AsOf, &rec.Assessment.AlertLevel, &rec.RiskScore,
			&rec.Assessment.Message, &concerns, &recommendations); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		if err := json.Unmarshal([]byte(concerns), &rec.Assessment.Concerns); err != nil {
			rec.Assessment.Concerns = nil
		}
		if err := json.Unmarshal([]byte(recommendations), &rec.Assessment.Recommendations); err != nil {
			rec.Assessment.Recommendations = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecentAlerts returns alerts triggered since the given time, newest first.
func (s *SQLiteStore) RecentAlerts(since time.Time, limit int) ([]models.RiskAlert, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT severity, triggered_by, message, actions, confidence, triggered_at
		FROM risk_alerts
		WHERE triggered_at >= ?
		ORDER BY triggered_at DESC
		LIMIT ?`, since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.RiskAlert
	for rows.Next() {
		var alert models.RiskAlert
		var severity int
		var actions string
		if err := rows.Scan(&severity, &alert.TriggeredBy, &alert.Message,
			&actions, &alert.Confidence, &alert.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alert.Severity = models.Severity(severity)
		if err := json.Unmarshal([]byte(actions), &alert.Actions); err != nil {
			alert.Actions = nil
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// AverageAlertLevel reports the mean alert level and evaluation count since
// the given time.
func (s *SQLiteStore) AverageAlertLevel(since time.Time) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := s.db.QueryRow(`
		SELECT AVG(alert_level), COUNT(*)
		FROM risk_assessments
		WHERE as_of >= ?`, since.UTC()).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query alert trend: %w", err)
	}
	return avg.Float64, count, nil
}

// Prune deletes assessments and their alerts older than the given time.
func (s *SQLiteStore) Prune(olderThan time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM risk_alerts
		WHERE assessment_id IN (SELECT id FROM risk_assessments WHERE as_of < ?)`,
		olderThan.UTC()); err != nil {
		return 0, fmt.Errorf("failed to prune alerts: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM risk_assessments WHERE as_of < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune assessments: %w", err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
