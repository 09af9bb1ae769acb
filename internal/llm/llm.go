package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts report generation providers.
type Client interface {
	GenerateReport(ctx context.Context, input PromptInput) (string, error)
}

// ErrTruncated is returned when the model ran out of output tokens before
// finishing the report. The output is unusable; callers should retry rather
// than attempt to parse it.
var ErrTruncated = errors.New("model output truncated")

// ProviderError is a non-2xx answer from the provider API.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: status=%d type=%s message=%s", e.StatusCode, e.Type, e.Message)
}

// Transient reports whether the failure is worth retrying: rate limiting,
// server errors, and the overloaded status.
func (e *ProviderError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
