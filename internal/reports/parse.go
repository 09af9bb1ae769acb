package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseModelOutput turns raw model text into report content. Models
// sometimes wrap the JSON in markdown fences or emit literal newlines
// inside string values; both are repaired here before giving up.
func ParseModelOutput(raw string) (Content, error) {
	cleaned := stripFences(raw)

	var content Content
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		// second chance: raw newlines inside strings break the parser
		collapsed := strings.NewReplacer("\r", " ", "\n", " ").Replace(cleaned)
		if retryErr := json.Unmarshal([]byte(collapsed), &content); retryErr != nil {
			return Content{}, fmt.Errorf("parse report JSON: %w", err)
		}
	}

	if err := validate(content); err != nil {
		return Content{}, err
	}
	return content, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func validate(c Content) error {
	if strings.TrimSpace(c.ExecutiveSummary) == "" {
		return fmt.Errorf("report missing executive summary")
	}
	if len(c.Gaps) == 0 {
		return fmt.Errorf("report missing gaps")
	}
	if len(c.QuickWins) == 0 {
		return fmt.Errorf("report missing quick wins")
	}
	if len(c.StrategicRecommendations) == 0 {
		return fmt.Errorf("report missing strategic recommendations")
	}
	for _, section := range [][]Item{c.Gaps, c.QuickWins, c.StrategicRecommendations} {
		for _, item := range section {
			if strings.TrimSpace(item.Title) == "" {
				return fmt.Errorf("report item missing title")
			}
			switch item.Priority {
			case PriorityHigh, PriorityMedium, PriorityLow:
			default:
				return fmt.Errorf("report item %q has invalid priority %q", item.Title, item.Priority)
			}
		}
	}
	return nil
}
