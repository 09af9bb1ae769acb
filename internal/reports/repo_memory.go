package reports

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byAudit map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byAudit: make(map[string]Report)}
}

// Upsert stores or replaces the report for an audit.
func (r *MemoryRepo) Upsert(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byAudit[report.AuditID]; ok {
		report.CreatedAt = existing.CreatedAt
	} else if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	r.byAudit[report.AuditID] = report
	return nil
}

// GetByAuditID returns the report for an audit.
func (r *MemoryRepo) GetByAuditID(ctx context.Context, auditID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byAudit[auditID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}
