package scoring

import (
	"math"
	"sort"
)

// Scores is the computed result for one audit: seven 0-100 category scores
// plus the weighted overall.
type Scores struct {
	Technology    int `json:"technology"`
	Leads         int `json:"leads"`
	Scheduling    int `json:"scheduling"`
	Communication int `json:"communication"`
	FollowUp      int `json:"followUp"`
	Operations    int `json:"operations"`
	Financial     int `json:"financial"`
	Overall       int `json:"overall"`
}

// ForCategory returns the score for a single category.
func (s Scores) ForCategory(c Category) int {
	switch c {
	case CategoryTechnology:
		return s.Technology
	case CategoryLeads:
		return s.Leads
	case CategoryScheduling:
		return s.Scheduling
	case CategoryCommunication:
		return s.Communication
	case CategoryFollowUp:
		return s.FollowUp
	case CategoryOperations:
		return s.Operations
	case CategoryFinancial:
		return s.Financial
	}
	return 0
}

// CategoryScore pairs a category with its score and resolved weight.
type CategoryScore struct {
	Category Category
	Score    int
	Weight   float64
}

// RankedCategories returns all categories sorted weakest first, breaking
// ties by presentation order.
func RankedCategories(s Scores, w Weights) []CategoryScore {
	out := make([]CategoryScore, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryScore{Category: c, Score: s.ForCategory(c), Weight: w[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// Compute scores a completed questionnaire. Answers the tables do not
// recognize score the neutral default, and a category with no answers at
// all scores 50, so partial submissions still produce a usable result.
func Compute(vertical Vertical, subVertical string, a Answers) Scores {
	var subs map[Category][]int
	if vertical == VerticalRealEstate {
		subs = realEstateSubScores(a)
	} else {
		subs = homeServicesSubScores(a)
	}

	s := Scores{
		Technology:    aggregate(subs[CategoryTechnology]),
		Leads:         aggregate(subs[CategoryLeads]),
		Scheduling:    aggregate(subs[CategoryScheduling]),
		Communication: aggregate(subs[CategoryCommunication]),
		FollowUp:      aggregate(subs[CategoryFollowUp]),
		Operations:    aggregate(subs[CategoryOperations]),
		Financial:     aggregate(subs[CategoryFinancial]),
	}

	weights := ResolveWeights(vertical, subVertical)
	total := 0.0
	for _, c := range Categories {
		total += float64(s.ForCategory(c)) * weights[c]
	}
	s.Overall = int(math.Round(total))
	return s
}

func homeServicesSubScores(a Answers) map[Category][]int {
	return map[Category][]int{
		CategoryTechnology: {
			crmSatisfactionScore(a.Technology.CRMSatisfaction),
			toolCoverageScore(a.Technology.ToolsUsed),
		},
		CategoryLeads: {
			leadSourcesScore(a.Leads.LeadSources),
			responseSpeedTable.Score(a.Leads.ResponseSpeed),
			leadTrackingTable.Score(a.Leads.LeadTracking),
			conversionRateTable.Score(a.Leads.ConversionRate),
			reviewsTable.Score(a.Leads.GoogleReviews),
			automationTable.Score(a.Leads.ReviewAutomation),
			missedCallTable.Score(a.Leads.MissedCallHandling),
		},
		CategoryScheduling: {
			schedulingMethodTable.Score(a.Pipeline.SchedulingMethod),
			dispatchMethodTable.Score(a.Pipeline.DispatchMethod),
			routeOptimizationTable.Score(a.Pipeline.RouteOptimization),
			realTimeTrackingTable.Score(a.Pipeline.RealTimeTracking),
			capacityPlanningTable.Score(a.Pipeline.CapacityPlanning),
			emergencyHandlingTable.Score(a.Pipeline.EmergencyHandling),
		},
		CategoryCommunication: {
			internalCommsTable.Score(a.Communication.InternalComms),
			afterHoursTable.Score(a.Communication.AfterHours),
			clientPortalTable.Score(a.Communication.ClientPortal),
			clientMessagingTable.Score(a.Communication.AppointmentReminders),
			clientMessagingTable.Score(a.Communication.OnTheWayNotifications),
			jobCompletionTable.Score(a.Communication.JobCompletionComms),
		},
		CategoryFollowUp: {
			repeatBusinessTable.Score(a.Retention.RepeatBusiness),
			postJobFollowUpTable.Score(a.Retention.PostJobFollowUp),
			automationTable.Score(a.Retention.MaintenanceReminders),
			serviceAgreementsTable.Score(a.Retention.ServiceAgreements),
			estimateFollowUpTable.Score(a.Retention.EstimateFollowUp),
			warrantyTrackingTable.Score(a.Retention.WarrantyTracking),
		},
		CategoryOperations: {
			kpiTrackingScore(a.Operations.KPIsTracked),
			performanceTable.Score(a.Operations.PerformanceMeasurement),
			jobCostingTable.Score(a.Operations.JobCosting),
			inventoryTable.Score(a.Operations.InventoryManagement),
			timeTrackingTable.Score(a.Operations.TimeTracking),
			qualityControlTable.Score(a.Operations.QualityControl),
		},
		CategoryFinancial: {
			paymentMethodsScore(a.Financial.PaymentMethods),
			financialReviewTable.Score(a.Financial.FinancialReview),
			estimateProcessTable.Score(a.Financial.EstimateProcess),
			pricingModelTable.Score(a.Financial.PricingModel),
			invoiceTimingTable.Score(a.Financial.InvoiceTiming),
			collectionsTable.Score(a.Financial.Collections),
		},
	}
}

func realEstateSubScores(a Answers) map[Category][]int {
	return map[Category][]int{
		CategoryTechnology: {
			crmSatisfactionScore(a.Technology.CRMSatisfaction),
			toolCoverageScore(a.Technology.ToolsUsed),
		},
		CategoryLeads: {
			leadSourcesScore(a.Leads.LeadSources),
			responseSpeedTable.Score(a.Leads.ResponseSpeed),
			leadTrackingTable.Score(a.Leads.LeadTracking),
			conversionRateTable.Score(a.Leads.ConversionRate),
			reviewsTable.Score(a.Leads.GoogleReviews),
			automationTable.Score(a.Leads.ReviewAutomation),
			touchesIn7DaysTable.Score(a.Leads.TouchesIn7Days),
			leadDistributionTable.Score(a.Leads.LeadDistribution),
		},
		CategoryScheduling: {
			followUpPlanTable.Score(a.Pipeline.FollowUpPlan),
			nurtureDurationTable.Score(a.Pipeline.NurtureDuration),
			automatedDripTable.Score(a.Pipeline.AutomatedDrip),
			leadTemperatureTable.Score(a.Pipeline.LeadTemperature),
			activityLoggingTable.Score(a.Pipeline.ActivityLogging),
			coldLeadHandlingTable.Score(a.Pipeline.ColdLeadHandling),
		},
		CategoryCommunication: {
			internalCommsTable.Score(a.Communication.InternalComms),
			afterHoursTable.Score(a.Communication.AfterHours),
			clientPortalTable.Score(a.Communication.ClientPortal),
			clientMessagingTable.Score(a.Communication.AgentClientComms),
			transactionUpdatesTable.Score(a.Communication.TransactionUpdates),
			pastClientEngagementTable.Score(a.Communication.PastClientEngagement),
		},
		CategoryFollowUp: {
			repeatBusinessTable.Score(a.Retention.RepeatBusiness),
			postCloseFollowUpTable.Score(a.Retention.PostCloseFollowUp),
			pastClientContactTable.Score(a.Retention.PastClientContact),
			referralProcessTable.Score(a.Retention.ReferralProcess),
			lostLeadFollowUpTable.Score(a.Retention.LostLeadFollowUp),
			anniversaryTrackingTable.Score(a.Retention.AnniversaryTracking),
		},
		CategoryOperations: {
			kpiTrackingScore(a.Operations.KPIsTracked),
			performanceTable.Score(a.Operations.PerformanceMeasurement),
			agentAccountabilityTable.Score(a.Operations.AgentAccountability),
			transactionWorkflowTable.Score(a.Operations.TransactionWorkflow),
			agentOnboardingTable.Score(a.Operations.AgentOnboarding),
		},
		CategoryFinancial: {
			paymentMethodsScore(a.Financial.PaymentMethods),
			financialReviewTable.Score(a.Financial.FinancialReview),
			expenseTrackingTable.Score(a.Financial.ExpenseTracking),
			financialReviewTable.Score(a.Financial.TeamPnL),
			commissionTable.Score(a.Financial.CommissionDisbursement),
			marketingBudgetTable.Score(a.Financial.MarketingBudget),
		},
	}
}
