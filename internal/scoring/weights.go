package scoring

import (
	"fmt"
	"math"
)

// Vertical selects which question set and weight profiles apply.
type Vertical string

const (
	VerticalHomeServices Vertical = "home_services"
	VerticalRealEstate   Vertical = "real_estate"
)

// Valid reports whether v is a known vertical.
func (v Vertical) Valid() bool {
	return v == VerticalHomeServices || v == VerticalRealEstate
}

// Weights assigns each category its share of the overall score. A resolved
// profile always sums to 1.0.
type Weights map[Category]float64

// Sum returns the total of all category weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks the profile covers every category and sums to 1.0 within
// floating point tolerance.
func (w Weights) Validate() error {
	for _, c := range Categories {
		if _, ok := w[c]; !ok {
			return fmt.Errorf("weights missing category %q", c)
		}
	}
	if s := w.Sum(); math.Abs(s-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, want 1.0", s)
	}
	return nil
}

var baseWeights = Weights{
	CategoryTechnology:    0.10,
	CategoryLeads:         0.20,
	CategoryScheduling:    0.15,
	CategoryCommunication: 0.10,
	CategoryFollowUp:      0.15,
	CategoryOperations:    0.15,
	CategoryFinancial:     0.15,
}

// Home-services sub-verticals share weight profiles by business model rather
// than trade: emergency trades behave alike regardless of whether the truck
// says plumbing or electrical.
var homeServicesGroups = map[string]string{
	"plumbing":     "reactive",
	"hvac":         "reactive",
	"electrical":   "reactive",
	"garage_door":  "reactive",
	"appliance":    "reactive",
	"locksmith":    "reactive",
	"restoration":  "reactive",
	"pest_control": "recurring",
	"lawn_care":    "recurring",
	"cleaning":     "recurring",
	"pool_service": "recurring",
	"landscaping":  "project_based",
	"roofing":      "project_based",
	"painting":     "project_based",
	"flooring":     "project_based",
	"remodeling":   "project_based",
	"fencing":      "project_based",
	"concrete":     "project_based",
}

var weightOverrides = map[string]Weights{
	"reactive": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.20,
		CategoryScheduling:    0.20,
		CategoryCommunication: 0.10,
		CategoryFollowUp:      0.10,
		CategoryOperations:    0.15,
		CategoryFinancial:     0.15,
	},
	"recurring": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.15,
		CategoryScheduling:    0.15,
		CategoryCommunication: 0.10,
		CategoryFollowUp:      0.20,
		CategoryOperations:    0.15,
		CategoryFinancial:     0.15,
	},
	"project_based": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.15,
		CategoryScheduling:    0.10,
		CategoryCommunication: 0.10,
		CategoryFollowUp:      0.15,
		CategoryOperations:    0.20,
		CategoryFinancial:     0.20,
	},
	"commercial": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.15,
		CategoryScheduling:    0.20,
		CategoryCommunication: 0.10,
		CategoryFollowUp:      0.10,
		CategoryOperations:    0.20,
		CategoryFinancial:     0.15,
	},
	"property_management": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.10,
		CategoryScheduling:    0.10,
		CategoryCommunication: 0.15,
		CategoryFollowUp:      0.15,
		CategoryOperations:    0.20,
		CategoryFinancial:     0.20,
	},
	"new_construction": {
		CategoryTechnology:    0.10,
		CategoryLeads:         0.20,
		CategoryScheduling:    0.20,
		CategoryCommunication: 0.10,
		CategoryFollowUp:      0.15,
		CategoryOperations:    0.10,
		CategoryFinancial:     0.15,
	},
	"luxury_resort": {
		CategoryTechnology:    0.15,
		CategoryLeads:         0.15,
		CategoryScheduling:    0.10,
		CategoryCommunication: 0.15,
		CategoryFollowUp:      0.20,
		CategoryOperations:    0.10,
		CategoryFinancial:     0.15,
	},
}

// ResolveWeights picks the weight profile for a vertical and sub-vertical.
// Home-services sub-verticals map through their business-model group;
// real-estate sub-verticals resolve directly. Anything unrecognized,
// including residential_sales, gets the base profile.
func ResolveWeights(vertical Vertical, subVertical string) Weights {
	key := subVertical
	if vertical == VerticalHomeServices {
		if group, ok := homeServicesGroups[subVertical]; ok {
			key = group
		}
	}
	if w, ok := weightOverrides[key]; ok {
		return w
	}
	return baseWeights
}
