package reports

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no report exists for an audit.
var ErrNotFound = errors.New("not found")

// Report sources.
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// Item priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Report is a generated audit report keyed one-to-one by audit id.
type Report struct {
	AuditID   string    `json:"auditId"`
	Source    string    `json:"source"`
	Model     string    `json:"model,omitempty"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Content is the report body. Gaps carry an impact statement, quick wins a
// timeframe, and strategic recommendations an ROI estimate; the shared Item
// shape keeps the unused field empty.
type Content struct {
	ExecutiveSummary         string `json:"executiveSummary"`
	Gaps                     []Item `json:"gaps"`
	QuickWins                []Item `json:"quickWins"`
	StrategicRecommendations []Item `json:"strategicRecommendations"`
}

// Item is one finding or recommendation.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
	Timeframe   string `json:"timeframe,omitempty"`
	ROI         string `json:"roi,omitempty"`
	Priority    string `json:"priority"`
	CTA         string `json:"cta"`
}
