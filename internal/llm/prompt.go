package llm

import (
	"fmt"
	"strings"

	"bizaudit-backend/internal/scoring"
)

// PromptVersion identifies the report prompt revision for logging.
const PromptVersion = "audit-report:v2"

// ContextLine is one labeled fact about the business included in the
// prompt, e.g. "Employees: 11-25".
type ContextLine struct {
	Label string
	Value string
}

// PromptInput carries everything the report prompt needs. Contact details
// never belong here: the caller strips PII and sanitizes free text before
// building the input.
type PromptInput struct {
	BusinessName     string
	Vertical         scoring.Vertical
	SubVerticalLabel string
	Scores           scoring.Scores
	Weights          scoring.Weights
	Context          []ContextLine
	TechFrustrations string
	BiggestChallenge string
}

// ItemCounts returns how many gaps, quick wins, and strategic
// recommendations the report should contain for a given overall score.
// Weaker businesses get more material. Gaps is a range expression because
// the model may merge closely related findings.
func ItemCounts(overall int) (gaps string, quickWins, strategic int) {
	switch {
	case overall < 40:
		return "4-5", 3, 3
	case overall <= 65:
		return "3", 3, 3
	default:
		return "2", 2, 2
	}
}

func verticalLabel(v scoring.Vertical) string {
	if v == scoring.VerticalRealEstate {
		return "real estate"
	}
	return "home services"
}

// BuildPrompt renders the system and user prompts for one audit.
func BuildPrompt(in PromptInput) (system, user string) {
	gaps, quickWins, strategic := ItemCounts(in.Scores.Overall)

	var sys strings.Builder
	fmt.Fprintf(&sys, "You are a senior operations consultant who audits %s businesses. ", verticalLabel(in.Vertical))
	sys.WriteString("You receive category scores from a structured self-assessment and write a direct, specific report. ")
	sys.WriteString("Ground every finding in the scores and context provided. Do not invent facts about the business.\n\n")
	sys.WriteString("Respond with a single JSON object and nothing else. Schema:\n")
	sys.WriteString(`{
  "executiveSummary": "2-3 sentences on the overall state of the business",
  "gaps": [{"title": "...", "description": "...", "impact": "...", "priority": "high|medium|low", "cta": "..."}],
  "quickWins": [{"title": "...", "description": "...", "timeframe": "...", "priority": "high|medium|low", "cta": "..."}],
  "strategicRecommendations": [{"title": "...", "description": "...", "roi": "...", "priority": "high|medium|low", "cta": "..."}]
}`)
	fmt.Fprintf(&sys, "\n\nInclude exactly %s gaps, %d quick wins, and %d strategic recommendations.", gaps, quickWins, strategic)

	var usr strings.Builder
	fmt.Fprintf(&usr, "Business: %s\n", in.BusinessName)
	fmt.Fprintf(&usr, "Vertical: %s", verticalLabel(in.Vertical))
	if in.SubVerticalLabel != "" {
		fmt.Fprintf(&usr, " (%s)", in.SubVerticalLabel)
	}
	usr.WriteString("\n")
	for _, line := range in.Context {
		fmt.Fprintf(&usr, "%s: %s\n", line.Label, line.Value)
	}

	fmt.Fprintf(&usr, "\nOverall score: %d/100 (%s, %s for the vertical)\n",
		in.Scores.Overall, scoring.ScoreLabel(in.Scores.Overall), scoring.Benchmark(in.Scores.Overall))
	usr.WriteString("Category scores, weakest first:\n")
	for _, cs := range scoring.RankedCategories(in.Scores, in.Weights) {
		fmt.Fprintf(&usr, "- %s: %d/100 (%s, weight %.0f%%)\n",
			cs.Category.Title(), cs.Score, scoring.ScoreLabel(cs.Score), cs.Weight*100)
	}

	if in.TechFrustrations != "" {
		fmt.Fprintf(&usr, "\nIn their own words, their technology frustrations: %s\n", in.TechFrustrations)
	}
	if in.BiggestChallenge != "" {
		fmt.Fprintf(&usr, "\nIn their own words, their biggest challenge: %s\n", in.BiggestChallenge)
	}

	usr.WriteString("\nFocus the gaps on the weakest, highest-weight categories.")
	return sys.String(), usr.String()
}
