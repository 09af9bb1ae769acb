package audits

import "context"

// Repo defines persistence operations for audits.
type Repo interface {
	// Create inserts a new audit. A duplicate id returns ErrExists so
	// client-retried submissions stay idempotent.
	Create(ctx context.Context, audit Audit) error
	GetByID(ctx context.Context, auditID string) (Audit, error)
	UpdateStatus(ctx context.Context, auditID, status, failureCode, failureReason string) error
}
