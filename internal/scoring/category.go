package scoring

import "math"

// Category identifies one of the seven scored areas of a business audit.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryLeads         Category = "leads"
	CategoryScheduling    Category = "scheduling"
	CategoryCommunication Category = "communication"
	CategoryFollowUp      Category = "followUp"
	CategoryOperations    Category = "operations"
	CategoryFinancial     Category = "financial"
)

// Categories lists all scored categories in presentation order.
var Categories = []Category{
	CategoryTechnology,
	CategoryLeads,
	CategoryScheduling,
	CategoryCommunication,
	CategoryFollowUp,
	CategoryOperations,
	CategoryFinancial,
}

// categoryTitles are the reader-facing names. The Category values themselves
// are wire identifiers and never shown directly.
var categoryTitles = map[Category]string{
	CategoryTechnology:    "Technology & Systems",
	CategoryLeads:         "Lead Generation & Response",
	CategoryScheduling:    "Scheduling & Pipeline",
	CategoryCommunication: "Communication",
	CategoryFollowUp:      "Follow-Up & Retention",
	CategoryOperations:    "Operations & Accountability",
	CategoryFinancial:     "Financial Management",
}

// Title returns the display name for a category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

const maxSubScore = 3

// aggregate converts a slice of 0-3 sub-scores into a 0-100 category score.
// A category with no scoreable answers lands on 50, neutral rather than
// failing, so a skipped section does not tank the overall number.
func aggregate(subs []int) int {
	if len(subs) == 0 {
		return 50
	}
	sum := 0
	for _, s := range subs {
		sum += s
	}
	pct := float64(sum) / float64(len(subs)*maxSubScore) * 100
	return int(math.Round(pct))
}

// ScoreLabel buckets a 0-100 score into the band shown next to it.
func ScoreLabel(score int) string {
	switch {
	case score >= 75:
		return "Strong"
	case score >= 50:
		return "Moderate"
	case score >= 25:
		return "Needs Work"
	default:
		return "Critical Gap"
	}
}

// Benchmark positions a score against typical businesses in the vertical.
func Benchmark(score int) string {
	switch {
	case score >= 65:
		return "above average"
	case score >= 40:
		return "average"
	default:
		return "below average"
	}
}
