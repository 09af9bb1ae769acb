package audits

import (
	"context"
	"errors"
	"time"

	"bizaudit-backend/internal/reports"
)

// ErrPollTimeout is returned when an audit stays pending past the poll
// deadline.
var ErrPollTimeout = errors.New("report generation timed out")

// Poller waits for a report to reach a terminal state by periodic lookup.
// The read path is polling only; there is no push channel to the client.
type Poller struct {
	Fetch    func(ctx context.Context, auditID string) (Audit, *reports.Report, error)
	Interval time.Duration
	Timeout  time.Duration
}

// Wait polls until the audit completes, fails, or the deadline passes.
// A completed audit is returned with its report; a failed audit is returned
// with a nil report so the caller can decide on a fallback.
func (p Poller) Wait(ctx context.Context, auditID string) (Audit, *reports.Report, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = 4 * time.Second
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		audit, report, err := p.Fetch(ctx, auditID)
		if err != nil {
			// ErrNotFound passes through: an unknown audit will never
			// resolve, so waiting on it is pointless
			return Audit{}, nil, err
		}
		switch audit.Status {
		case StatusCompleted:
			return audit, report, nil
		case StatusFailed:
			return audit, nil, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return audit, nil, ErrPollTimeout
			}
			return Audit{}, nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
