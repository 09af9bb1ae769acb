package audits

import (
	"strings"
	"time"

	"bizaudit-backend/internal/scoring"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Audit is one submitted business assessment together with its computed
// scores and report generation status.
type Audit struct {
	ID            string          `json:"id"`
	Vertical      scoring.Vertical `json:"vertical"`
	SubVertical   string          `json:"subVertical,omitempty"`
	BusinessName  string          `json:"businessName"`
	ContactName   string          `json:"contactName,omitempty"`
	ContactEmail  string          `json:"contactEmail"`
	ContactPhone  string          `json:"contactPhone,omitempty"`
	PartnerCode   string          `json:"partnerCode,omitempty"`
	Language      string          `json:"language,omitempty"`
	Profile       Profile         `json:"profile"`
	Answers       scoring.Answers `json:"answers"`
	Scores        scoring.Scores  `json:"scores"`
	Status        string          `json:"status"`
	FailureCode   string          `json:"failureCode,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Profile is non-scored business context. Home services and real estate
// share the struct; unused fields stay empty.
type Profile struct {
	Industry        string `json:"industry,omitempty"`
	EmployeeCount   string `json:"employeeCount,omitempty"`
	AnnualRevenue   string `json:"annualRevenue,omitempty"`
	YearsInBusiness string `json:"yearsInBusiness,omitempty"`
	ServiceArea     string `json:"serviceArea,omitempty"`

	Role              string `json:"role,omitempty"`
	TeamSize          string `json:"teamSize,omitempty"`
	TransactionVolume string `json:"transactionVolume,omitempty"`
	AnnualGCI         string `json:"annualGci,omitempty"`
	PrimaryMarket     string `json:"primaryMarket,omitempty"`
}

// SubVerticalLabel turns a sub-vertical code into display copy, e.g.
// "property_management" into "Property Management".
func SubVerticalLabel(code string) string {
	if code == "" {
		return ""
	}
	words := strings.Split(code, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if w == "hvac" {
			words[i] = "HVAC"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
