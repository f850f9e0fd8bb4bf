// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrNoPositions        = errors.New("no positions in snapshot")
	ErrNoConvergence      = errors.New("solver did not converge")
	ErrAdvisorDisabled    = errors.New("advisor not configured")
	ErrHistoryUnavailable = errors.New("history store unavailable")
)

// ValidationError represents a validation error at the snapshot boundary.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// SnapshotError represents an error loading or decoding a portfolio snapshot.
type SnapshotError struct {
	Path    string
	Message string
	Err     error
}

func (e *SnapshotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("snapshot error [%s]: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("snapshot error [%s]: %s", e.Path, e.Message)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(path, message string, err error) *SnapshotError {
	return &SnapshotError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// SolverError reports a non-converged implied volatility solve in strict mode.
type SolverError struct {
	Sigma      float64
	Residual   float64
	Iterations int
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver error: no convergence after %d iterations (sigma: %.6f, residual: %.6f)",
		e.Iterations, e.Sigma, e.Residual)
}

func (e *SolverError) Unwrap() error {
	return ErrNoConvergence
}

// NewSolverError creates a new SolverError.
func NewSolverError(sigma, residual float64, iterations int) *SolverError {
	return &SolverError{
		Sigma:      sigma,
		Residual:   residual,
		Iterations: iterations,
	}
}

// AdvisorError represents an error from the language-model advisory client.
type AdvisorError struct {
	Operation string
	Err       error
}

func (e *AdvisorError) Error() string {
	return fmt.Sprintf("advisor error [%s]: %v", e.Operation, e.Err)
}

func (e *AdvisorError) Unwrap() error {
	return e.Err
}

// NewAdvisorError creates a new AdvisorError.
func NewAdvisorError(operation string, err error) *AdvisorError {
	return &AdvisorError{
		Operation: operation,
		Err:       err,
	}
}

// RiskError represents a risk threshold violation.
type RiskError struct {
	Rule    string
	Current float64
	Limit   float64
	Message string
}

func (e *RiskError) Error() string {
	return fmt.Sprintf("risk violation [%s]: %s (current: %.2f, limit: %.2f)", e.Rule, e.Message, e.Current, e.Limit)
}

// NewRiskError creates a new RiskError.
func NewRiskError(rule string, current, limit float64, message string) *RiskError {
	return &RiskError{
		Rule:    rule,
		Current: current,
		Limit:   limit,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
