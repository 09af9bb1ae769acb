package audits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"bizaudit-backend/internal/scoring"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new audit. ON CONFLICT DO NOTHING plus the affected-row
// count turns client replays of the same id into ErrExists instead of a
// constraint error.
func (r *PGRepo) Create(ctx context.Context, audit Audit) error {
	const query = `
INSERT INTO audits (
	id, vertical, sub_vertical, business_name, contact_name, contact_email,
	contact_phone, partner_code, language, profile, answers, scores, status,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
ON CONFLICT (id) DO NOTHING`

	profile, err := json.Marshal(audit.Profile)
	if err != nil {
		return err
	}
	answers, err := json.Marshal(audit.Answers)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(audit.Scores)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		audit.ID,
		string(audit.Vertical),
		audit.SubVertical,
		audit.BusinessName,
		audit.ContactName,
		audit.ContactEmail,
		audit.ContactPhone,
		audit.PartnerCode,
		audit.Language,
		profile,
		answers,
		scores,
		audit.Status,
		audit.CreatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrExists
	}
	return nil
}

// GetByID returns an audit by ID.
func (r *PGRepo) GetByID(ctx context.Context, auditID string) (Audit, error) {
	const query = `
SELECT id, vertical, sub_vertical, business_name, contact_name, contact_email,
       contact_phone, partner_code, language, profile, answers, scores, status,
       failure_code, failure_reason, created_at, updated_at
FROM audits
WHERE id = $1`

	var audit Audit
	var vertical string
	var profile, answers, scores []byte
	err := r.DB.QueryRowContext(ctx, query, auditID).Scan(
		&audit.ID,
		&vertical,
		&audit.SubVertical,
		&audit.BusinessName,
		&audit.ContactName,
		&audit.ContactEmail,
		&audit.ContactPhone,
		&audit.PartnerCode,
		&audit.Language,
		&profile,
		&answers,
		&scores,
		&audit.Status,
		&audit.FailureCode,
		&audit.FailureReason,
		&audit.CreatedAt,
		&audit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Audit{}, ErrNotFound
	}
	if err != nil {
		return Audit{}, err
	}

	audit.Vertical = scoring.Vertical(vertical)
	if err := json.Unmarshal(profile, &audit.Profile); err != nil {
		return Audit{}, err
	}
	if err := json.Unmarshal(answers, &audit.Answers); err != nil {
		return Audit{}, err
	}
	if err := json.Unmarshal(scores, &audit.Scores); err != nil {
		return Audit{}, err
	}
	return audit, nil
}

// UpdateStatus updates status and failure details.
func (r *PGRepo) UpdateStatus(ctx context.Context, auditID, status, failureCode, failureReason string) error {
	const query = `
UPDATE audits
SET status = $2, failure_code = $3, failure_reason = $4, updated_at = now()
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, auditID, status, failureCode, failureReason)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
