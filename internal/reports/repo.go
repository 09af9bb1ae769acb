package reports

import "context"

// Repo defines persistence operations for reports.
type Repo interface {
	// Upsert stores the report, replacing any existing report for the same
	// audit. Replays of the same completion must be idempotent.
	Upsert(ctx context.Context, report Report) error
	GetByAuditID(ctx context.Context, auditID string) (Report, error)
}
