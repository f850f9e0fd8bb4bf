package models

import (
	"encoding/json"
	"os"
	"time"

	apperrors "github.com/seanpizarro/antigravity-trading-system/internal/errors"
)

// PortfolioSnapshot is an immutable view of the account, its open positions,
// and the market condition at one instant. Snapshots are the only way
// external position data enters the engine; callers refresh them on their
// own cadence instead of sharing mutable position state.
type PortfolioSnapshot struct {
	AsOf      time.Time       `json:"as_of"`
	Account   AccountData     `json:"account"`
	Market    MarketCondition `json:"market"`
	Positions []Position      `json:"positions"`
}

// LoadSnapshot reads and validates a portfolio snapshot from a JSON file.
// Validation happens once here; downstream components assume well-formed
// records and degrade rather than re-validate.
func LoadSnapshot(path string) (*PortfolioSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewSnapshotError(path, "file not found", apperrors.ErrSnapshotNotFound)
		}
		return nil, apperrors.NewSnapshotError(path, "reading file", err)
	}
	return ParseSnapshot(path, data)
}

// ParseSnapshot decodes and validates snapshot JSON. The path is used only
// for error reporting.
func ParseSnapshot(path string, data []byte) (*PortfolioSnapshot, error) {
	var snap PortfolioSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperrors.NewSnapshotError(path, "decoding JSON", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, apperrors.NewSnapshotError(path, "validating snapshot", err)
	}
	return &snap, nil
}

// Validate checks the snapshot against the documented input contract.
// A position with zero legs is valid input (the engine degrades it to a
// neutral result), but a leg with nonsensical fields is rejected here.
func (s *PortfolioSnapshot) Validate() error {
	if s.Account.TotalValue < 0 {
		return apperrors.NewValidationError("account.total_value", s.Account.TotalValue, "must be non-negative")
	}
	if s.Account.MarginUsed < 0 {
		return apperrors.NewValidationError("account.margin_used", s.Account.MarginUsed, "must be non-negative")
	}
	if s.Market.VIX < 0 {
		return apperrors.NewValidationError("market.vix", s.Market.VIX, "must be non-negative")
	}

	for i := range s.Positions {
		if err := s.Positions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a position's legs and metadata.
func (p *Position) Validate() error {
	if p.Strategy == "" {
		p.Strategy = StrategyOther
	}
	switch p.Strategy {
	case StrategyCreditSpread, StrategyDebitSpread, StrategySingleLeg, StrategyOther:
	default:
		return apperrors.NewValidationError("position.strategy", p.Strategy, "unknown strategy kind")
	}

	for _, leg := range p.Legs {
		if leg.Underlying <= 0 {
			return apperrors.NewValidationError("leg.underlying", leg.Underlying, "must be positive")
		}
		if leg.Strike <= 0 {
			return apperrors.NewValidationError("leg.strike", leg.Strike, "must be positive")
		}
		if leg.TimeToExpiry < 0 {
			return apperrors.NewValidationError("leg.time_to_expiry", leg.TimeToExpiry, "must be non-negative")
		}
		if leg.Volatility < 0 {
			return apperrors.NewValidationError("leg.volatility", leg.Volatility, "must be non-negative")
		}
		if leg.Kind != Call && leg.Kind != Put {
			return apperrors.NewValidationError("leg.kind", leg.Kind, "must be CALL or PUT")
		}
		if leg.Quantity == 0 {
			return apperrors.NewValidationError("leg.quantity", leg.Quantity, "must be non-zero")
		}
	}
	return nil
}

// InvestedValue returns the absolute account-currency value committed to the
// position, used for concentration calculations.
func (p *Position) InvestedValue() float64 {
	if p.EntryValue < 0 {
		return -p.EntryValue
	}
	return p.EntryValue
}
