package audits

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrExists is returned by Repo.Create when an audit with the same id is
	// already stored. Submit treats it as a replay.
	ErrExists = errors.New("already exists")
	// ErrConflict is returned when a retry is requested for an audit whose
	// generation has not failed.
	ErrConflict = errors.New("report generation not in a retryable state")
)

// Failure codes stored alongside a failed status so clients can pick the
// right affordance: provider failures get retry/skip controls, persistence
// failures route straight to the template report.
const (
	FailureCodeProvider    = "provider_error"
	FailureCodePersistence = "persistence_error"
	FailureCodeInternal    = "internal_error"
)

// ValidationError carries per-field issues back to the handler.
type ValidationError struct {
	Fields []FieldIssue
}

// FieldIssue names one invalid submission field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %d field(s)", len(e.Fields))
}

// RateLimitedError signals a rejected submission. HoursRemaining reflects
// the later of the tripped windows; the error never says which limit hit.
type RateLimitedError struct {
	HoursRemaining int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited for another %dh", e.HoursRemaining)
}
