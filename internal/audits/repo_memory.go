package audits

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores audits in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Audit
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Audit)}
}

// Create stores the audit, rejecting duplicate ids.
func (r *MemoryRepo) Create(ctx context.Context, audit Audit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[audit.ID]; ok {
		return ErrExists
	}
	r.byID[audit.ID] = audit
	return nil
}

// GetByID returns an audit by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, auditID string) (Audit, error) {
	if err := ctx.Err(); err != nil {
		return Audit{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	audit, ok := r.byID[auditID]
	if !ok {
		return Audit{}, ErrNotFound
	}
	return audit, nil
}

// UpdateStatus updates status and failure details for an existing audit.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, auditID, status, failureCode, failureReason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	audit, ok := r.byID[auditID]
	if !ok {
		return ErrNotFound
	}
	audit.Status = status
	audit.FailureCode = failureCode
	audit.FailureReason = failureReason
	audit.UpdatedAt = time.Now().UTC()
	r.byID[auditID] = audit
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
