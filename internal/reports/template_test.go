package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizaudit-backend/internal/scoring"
)

func TestTemplateHasAllSections(t *testing.T) {
	scores := scoring.Scores{
		Technology: 80, Leads: 20, Scheduling: 35, Communication: 60,
		FollowUp: 25, Operations: 70, Financial: 55, Overall: 44,
	}
	weights := scoring.ResolveWeights(scoring.VerticalHomeServices, "plumbing")

	content := Template(scoring.VerticalHomeServices, "Apex Plumbing", scores, weights)

	assert.NotEmpty(t, content.ExecutiveSummary)
	assert.Contains(t, content.ExecutiveSummary, "Apex Plumbing")
	require.Len(t, content.Gaps, 3)
	require.Len(t, content.QuickWins, 3)
	require.Len(t, content.StrategicRecommendations, 3)

	// weakest category leads and carries the high priority
	assert.Equal(t, PriorityHigh, content.Gaps[0].Priority)
	assert.Contains(t, content.Gaps[0].Title, "lead")
}

func TestTemplatePicksThreeWeakest(t *testing.T) {
	scores := scoring.Scores{
		Technology: 10, Leads: 90, Scheduling: 15, Communication: 90,
		FollowUp: 20, Operations: 90, Financial: 90, Overall: 60,
	}
	weights := scoring.ResolveWeights(scoring.VerticalRealEstate, "residential_sales")

	content := Template(scoring.VerticalRealEstate, "Summit Realty", scores, weights)

	assert.Contains(t, content.ExecutiveSummary, scoring.CategoryTechnology.Title())
	assert.Contains(t, content.ExecutiveSummary, scoring.CategoryScheduling.Title())
	assert.Contains(t, content.ExecutiveSummary, scoring.CategoryFollowUp.Title())
	assert.NotContains(t, content.ExecutiveSummary, scoring.CategoryOperations.Title())
}

func TestTemplateIsValidContent(t *testing.T) {
	scores := scoring.Scores{Overall: 50}
	weights := scoring.ResolveWeights(scoring.VerticalHomeServices, "")
	content := Template(scoring.VerticalHomeServices, "Test Co", scores, weights)

	require.NoError(t, validate(content))
}
