package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert stores the report, replacing the content on conflict so replays of
// the same completion are idempotent.
func (r *PGRepo) Upsert(ctx context.Context, report Report) error {
	const query = `
INSERT INTO audit_reports (audit_id, source, model, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (audit_id) DO UPDATE
SET source = EXCLUDED.source,
    model = EXCLUDED.model,
    content = EXCLUDED.content,
    updated_at = now()`

	payload, err := json.Marshal(report.Content)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, report.AuditID, report.Source, report.Model, payload)
	return err
}

// GetByAuditID returns the report for an audit.
func (r *PGRepo) GetByAuditID(ctx context.Context, auditID string) (Report, error) {
	const query = `
SELECT audit_id, source, model, content, created_at, updated_at
FROM audit_reports
WHERE audit_id = $1`

	var report Report
	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, auditID).Scan(
		&report.AuditID,
		&report.Source,
		&report.Model,
		&payload,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	if err := json.Unmarshal(payload, &report.Content); err != nil {
		return Report{}, err
	}
	return report, nil
}

var _ Repo = (*PGRepo)(nil)
