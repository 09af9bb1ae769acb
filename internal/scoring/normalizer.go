package scoring

import "strings"

// Multi-select questions are scored on how many options were chosen rather
// than which ones. Breakpoints differ per question.

func leadSourcesScore(sources []string) int {
	switch n := len(sources); {
	case n >= 4:
		return 3
	case n == 3:
		return 2
	case n == 2:
		return 1
	default:
		return 0
	}
}

func toolCoverageScore(tools []string) int {
	switch n := len(tools); {
	case n >= 8:
		return 3
	case n >= 5:
		return 2
	case n >= 2:
		return 1
	default:
		return 0
	}
}

// kpiTrackingScore treats an explicit "don't track" selection as zero no
// matter what else was checked alongside it.
func kpiTrackingScore(kpis []string) int {
	for _, k := range kpis {
		if strings.Contains(strings.ToLower(k), "don't track") {
			return 0
		}
	}
	switch n := len(kpis); {
	case n >= 6:
		return 3
	case n >= 4:
		return 2
	case n >= 2:
		return 1
	default:
		return 0
	}
}

func paymentMethodsScore(methods []string) int {
	switch n := len(methods); {
	case n >= 4:
		return 3
	case n == 3:
		return 2
	case n == 2:
		return 1
	default:
		return 0
	}
}

// crmSatisfactionScore maps a 1-5 rating onto the 0-3 scale, clamping both
// ends. Out-of-range ratings fall back to the default sub-score.
func crmSatisfactionScore(rating int) int {
	if rating < 1 || rating > 5 {
		return defaultSubScore
	}
	v := rating - 1
	if v > 3 {
		v = 3
	}
	return v
}
