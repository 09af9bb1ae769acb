package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

const retryBaseDelay = 300 * time.Millisecond

// Retrying wraps a Client with a single retry on transient failures. One
// retry is deliberate: the submission path already has a user-facing retry,
// so stacking more attempts here only delays the failure signal.
type Retrying struct {
	Base    Client
	AuditID string
	Log     *zap.Logger
}

// NewRetrying wraps base; a nil base stays nil so callers can pass the
// result straight through.
func NewRetrying(base Client, auditID string, log *zap.Logger) Client {
	if base == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return Retrying{Base: base, AuditID: auditID, Log: log}
}

func (r Retrying) GenerateReport(ctx context.Context, input PromptInput) (string, error) {
	out, err := r.Base.GenerateReport(ctx, input)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}

	r.Log.Warn("llm retry",
		zap.String("audit_id", r.AuditID),
		zap.String("error", err.Error()),
	)
	select {
	case <-time.After(retryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.Base.GenerateReport(ctx, input)
}

// ShouldRetry classifies an error as transient. Truncation is explicitly
// not transient here: retrying the identical request would truncate again.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTruncated) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "client.timeout") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
