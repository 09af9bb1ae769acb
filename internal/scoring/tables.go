package scoring

import "fmt"

// TableVersion identifies the current revision of the answer score tables.
// Bump when answer options or their scores change so stored audits can be
// traced back to the tables that produced them.
const TableVersion = "v3"

// defaultSubScore is used for answers with no table entry. Tables are
// hand-curated and can lag behind the live option lists; the middle value
// avoids zeroing a category because of table drift.
const defaultSubScore = 1

// Table maps canonical answer values for one question to a 0-3 sub-score.
// Canonical values double as the stable answer codes: localized display copy
// is translated to these values at the API boundary, so translation edits
// can never silently change scoring.
type Table struct {
	Question string
	Values   map[string]int
}

// Score returns the sub-score for an answer, defaulting unmapped values to 1.
func (t Table) Score(answer string) int {
	if v, ok := t.Values[answer]; ok {
		return v
	}
	return defaultSubScore
}

// Covers reports whether every option has an explicit table entry. Intended
// for startup or test-time drift checks between option lists and tables.
func (t Table) Covers(options []string) error {
	for _, opt := range options {
		if _, ok := t.Values[opt]; !ok {
			return fmt.Errorf("table %q has no entry for option %q", t.Question, opt)
		}
	}
	return nil
}

var responseSpeedTable = Table{
	Question: "leads.response_speed",
	Values: map[string]int{
		"Under 5 minutes":             3,
		"5–30 minutes":                2,
		"30–60 minutes":               2,
		"1–4 hours":                   1,
		"Same business day":           1,
		"Next business day or later":  0,
		"No consistent process":       0,
		"It depends on the agent":     1,
	},
}

var leadTrackingTable = Table{
	Question: "leads.tracking",
	Values: map[string]int{
		"CRM with pipeline stages":      3,
		"Spreadsheet/Google Sheets":     1,
		"Notebook/whiteboard":           0,
		"Software but not consistently": 1,
		"We don't really track this":    0,
	},
}

var conversionRateTable = Table{
	Question: "leads.conversion_rate",
	Values: map[string]int{
		"Yes - above 50%":          3,
		"Yes - 30–50%":             2,
		"Yes - under 30%":          1,
		"No - we don't track this": 0,
		"Above 10%":                3,
		"5–10%":                    2,
		"2–5%":                     1,
		"Under 2%":                 0,
		"We don't track this":      0,
	},
}

var reviewsTable = Table{
	Question: "leads.google_reviews",
	Values: map[string]int{
		"0–25":    0,
		"26–50":   1,
		"51–100":  2,
		"101–250": 3,
		"250+":    3,
	},
}

var automationTable = Table{
	Question: "shared.automation",
	Values: map[string]int{
		"Yes - automated via software":  3,
		"Yes - automated":               3,
		"Yes - manual/sometimes":        1,
		"Yes - manually ask sometimes":  1,
		"No":                            0,
	},
}

var missedCallTable = Table{
	Question: "leads.missed_call_handling",
	Values: map[string]int{
		"Auto text-back within seconds":              3,
		"Voicemail - we call back ASAP":              2,
		"Voicemail - we call back when we can":       1,
		"Answering service":                          2,
		"We probably miss some and never follow up":  0,
	},
}

var touchesIn7DaysTable = Table{
	Question: "leads.touches_in_7_days",
	Values: map[string]int{
		"8+ touches":                  3,
		"5–7 touches":                 2,
		"2–4 touches":                 1,
		"1 touch":                     0,
		"No consistent follow-up plan": 0,
	},
}

var leadDistributionTable = Table{
	Question: "leads.distribution",
	Values: map[string]int{
		"Round robin - automated":    3,
		"Round robin - manual":       2,
		"Pond/claim system":          1,
		"Assigned by source or area": 2,
		"First to grab it":           1,
		"No formal system":           0,
	},
}

var schedulingMethodTable = Table{
	Question: "scheduling.method",
	Values: map[string]int{
		"Software with drag-and-drop board": 3,
		"Google/Outlook Calendar":           1,
		"Phone calls and a whiteboard":      0,
		"Paper schedule":                    0,
		"No real system":                    0,
	},
}

var dispatchMethodTable = Table{
	Question: "scheduling.dispatch",
	Values: map[string]int{
		"Automated through software":       3,
		"Manual - office calls/texts techs": 1,
		"Techs check a shared calendar":    1,
		"Mixed approach":                   1,
	},
}

var routeOptimizationTable = Table{
	Question: "scheduling.route_optimization",
	Values: map[string]int{
		"Yes - software optimized":        3,
		"We try to cluster jobs manually": 1,
		"No":                              0,
	},
}

var realTimeTrackingTable = Table{
	Question: "scheduling.real_time_tracking",
	Values: map[string]int{
		"Yes - GPS tracking": 3,
		"No":                 0,
	},
}

var capacityPlanningTable = Table{
	Question: "scheduling.capacity_planning",
	Values: map[string]int{
		"Software manages availability":    3,
		"We eyeball it":                    1,
		"We often overbook or underbook":   0,
	},
}

var emergencyHandlingTable = Table{
	Question: "scheduling.emergency_handling",
	Values: map[string]int{
		"Dedicated slots held open":       3,
		"We shuffle the schedule":         1,
		"We usually can't accommodate them": 0,
		"It's chaotic":                    0,
	},
}

var followUpPlanTable = Table{
	Question: "pipeline.follow_up_plan",
	Values: map[string]int{
		"Yes - automated drip campaigns":      3,
		"Yes - manual but documented":         2,
		"Sort of - agents do their own thing": 1,
		"No formal plan":                      0,
	},
}

var nurtureDurationTable = Table{
	Question: "pipeline.nurture_duration",
	Values: map[string]int{
		"30 days or less":             0,
		"1–3 months":                  1,
		"3–6 months":                  2,
		"6–12 months":                 3,
		"We nurture indefinitely":     3,
		"Agents decide for themselves": 0,
	},
}

var automatedDripTable = Table{
	Question: "pipeline.automated_drip",
	Values: map[string]int{
		"Yes - fully automated":     3,
		"Yes - partially automated": 1,
		"No":                        0,
	},
}

var leadTemperatureTable = Table{
	Question: "pipeline.lead_temperature",
	Values: map[string]int{
		"CRM lead scoring":           3,
		"Manual tags/labels in CRM":  2,
		"Agents keep mental notes":   0,
		"We don't differentiate":     0,
	},
}

var activityLoggingTable = Table{
	Question: "pipeline.activity_logging",
	Values: map[string]int{
		"Yes - consistently":   3,
		"Sometimes":            1,
		"Rarely":               0,
		"We don't require it":  0,
	},
}

var coldLeadHandlingTable = Table{
	Question: "pipeline.cold_lead_handling",
	Values: map[string]int{
		"Long-term automated nurture":  3,
		"Manual follow-up for 2+ weeks": 1,
		"A few attempts then move on":  0,
		"We mostly give up":            0,
	},
}

var internalCommsTable = Table{
	Question: "communication.internal",
	Values: map[string]int{
		"Field service app/software":    3,
		"Team app (Slack, Teams, etc.)": 3,
		"Group text/chat app":           2,
		"Group text":                    1,
		"Phone calls":                   1,
		"Email":                         1,
		"Mixed/inconsistent":            0,
		"In-person meetings only":       0,
	},
}

var afterHoursTable = Table{
	Question: "communication.after_hours",
	Values: map[string]int{
		"AI chatbot or auto-responder":     3,
		"Auto-responder with info":         3,
		"AI chatbot":                       3,
		"Answering service":                2,
		"Voicemail with next-day callback": 1,
		"After-hours calls go unanswered":  0,
		"Goes unanswered until next day":   0,
		"Agents handle on personal phones": 1,
	},
}

var clientPortalTable = Table{
	Question: "communication.client_portal",
	Values: map[string]int{
		"Yes":                        3,
		"Yes - through our software": 3,
		"No but we want one":         1,
		"No and not a priority":      0,
	},
}

var clientMessagingTable = Table{
	Question: "communication.client_messaging",
	Values: map[string]int{
		"Yes - text and email":             3,
		"Yes - email only":                 2,
		"Yes - text only":                  2,
		"No - we call manually":            1,
		"No reminders sent":                0,
		"Yes - automated":                  3,
		"Sometimes manually":               1,
		"No":                               0,
		"CRM-based communication (logged)": 3,
		"Personal phone/text (not logged)": 0,
		"Mix of both":                      1,
		"Varies by agent":                  0,
	},
}

var jobCompletionTable = Table{
	Question: "communication.job_completion",
	Values: map[string]int{
		"Digital summary/invoice sent immediately": 3,
		"We explain verbally":                      1,
		"Paper invoice left behind":                0,
		"No formal communication":                  0,
	},
}

var transactionUpdatesTable = Table{
	Question: "communication.transaction_updates",
	Values: map[string]int{
		"Yes - key milestones automated":  3,
		"Some manual updates":             1,
		"No - agents handle individually": 0,
	},
}

var pastClientEngagementTable = Table{
	Question: "communication.past_client_engagement",
	Values: map[string]int{
		"Automated long-term drip":               3,
		"Annual check-ins/market updates":        2,
		"Holiday cards/occasional emails":        1,
		"We don't maintain contact consistently": 0,
	},
}

var repeatBusinessTable = Table{
	Question: "retention.repeat_business",
	Values: map[string]int{
		"Over 50%":            3,
		"30–50%":              2,
		"10–30%":              1,
		"Under 10%":           0,
		"We don't know":       0,
		"We don't track this": 0,
	},
}

var postJobFollowUpTable = Table{
	Question: "retention.post_job_follow_up",
	Values: map[string]int{
		"Automated follow-up sequence (thank you + review request + maintenance reminder)": 3,
		"We send a review request": 1,
		"Nothing formal":           0,
		"Depends on the tech":      0,
	},
}

var serviceAgreementsTable = Table{
	Question: "retention.service_agreements",
	Values: map[string]int{
		"Yes - actively sold":        3,
		"Yes - but rarely sell them": 1,
		"No":                         0,
	},
}

var estimateFollowUpTable = Table{
	Question: "retention.estimate_follow_up",
	Values: map[string]int{
		"Automated follow-up sequence":  3,
		"Manual follow-up within a week": 1,
		"We follow up if we remember":   0,
		"We don't follow up":            0,
	},
}

var warrantyTrackingTable = Table{
	Question: "retention.warranty_tracking",
	Values: map[string]int{
		"Tracked in software":     3,
		"Tracked in spreadsheets": 1,
		"We don't track this":     0,
	},
}

var postCloseFollowUpTable = Table{
	Question: "retention.post_close_follow_up",
	Values: map[string]int{
		"Automated post-close nurture sequence": 3,
		"Manual thank-you and check-in":         1,
		"Closing gift and that's about it":      0,
		"Nothing formal":                        0,
	},
}

var pastClientContactTable = Table{
	Question: "retention.past_client_contact",
	Values: map[string]int{
		"CRM-based annual touchpoint plan": 3,
		"Occasional emails/newsletters":    1,
		"Social media only":                0,
		"We don't have a system":           0,
	},
}

var referralProcessTable = Table{
	Question: "retention.referral_process",
	Values: map[string]int{
		"Yes - automated asks at key milestones": 3,
		"Yes - manual but consistent":            2,
		"We ask occasionally":                    1,
		"No formal process":                      0,
	},
}

var lostLeadFollowUpTable = Table{
	Question: "retention.lost_lead_follow_up",
	Values: map[string]int{
		"Automated long-term nurture":      3,
		"Manual follow-up for a few weeks": 1,
		"We mostly move on":                0,
		"No process":                       0,
	},
}

var anniversaryTrackingTable = Table{
	Question: "retention.anniversary_tracking",
	Values: map[string]int{
		"Yes - automated": 3,
		"Yes - manual":    1,
		"No":              0,
	},
}

var performanceTable = Table{
	Question: "operations.performance",
	Values: map[string]int{
		"KPIs tracked in software (revenue per tech, callback rate, etc.)": 3,
		"CRM dashboards with KPIs":     3,
		"We review numbers quarterly":  1,
		"Spreadsheet tracking":         1,
		"Monthly production reports":   2,
		"Manager observation":          0,
		"No formal measurement":        0,
	},
}

var jobCostingTable = Table{
	Question: "operations.job_costing",
	Values: map[string]int{
		"Tracked per job in software":         3,
		"Estimated but not tracked precisely": 1,
		"We mostly guess":                     0,
		"We don't track job costs":            0,
	},
}

var inventoryTable = Table{
	Question: "operations.inventory",
	Values: map[string]int{
		"Inventory management software": 3,
		"Spreadsheet tracking":          1,
		"Techs manage their own trucks": 0,
		"No formal tracking":            0,
	},
}

var timeTrackingTable = Table{
	Question: "operations.time_tracking",
	Values: map[string]int{
		"GPS + software time tracking": 3,
		"Manual time sheets":           1,
		"Clock in/clock out":           1,
		"They don't log time":          0,
	},
}

var qualityControlTable = Table{
	Question: "operations.quality_control",
	Values: map[string]int{
		"QA checklist + customer survey":        3,
		"Customer feedback reviewed regularly":  2,
		"Handle complaints as they come":        0,
		"No formal process":                     0,
	},
}

var agentAccountabilityTable = Table{
	Question: "operations.agent_accountability",
	Values: map[string]int{
		"Daily/weekly activity minimums tracked in CRM": 3,
		"Weekly team meetings with accountability":      2,
		"Informal check-ins":                            1,
		"No accountability system":                      0,
	},
}

var transactionWorkflowTable = Table{
	Question: "operations.transaction_workflow",
	Values: map[string]int{
		"Transaction management software (Dotloop, SkySlope, etc.)": 3,
		"Checklists in CRM":       2,
		"Spreadsheet/Google Docs": 1,
		"No standardized process": 0,
	},
}

var agentOnboardingTable = Table{
	Question: "operations.agent_onboarding",
	Values: map[string]int{
		"Documented training program + mentorship": 3,
		"Informal training":                        1,
		"Shadow other agents":                      1,
		"Figure it out yourself":                   0,
	},
}

var financialReviewTable = Table{
	Question: "financial.review",
	Values: map[string]int{
		"Monthly P&L and KPI review":                          3,
		"Monthly financial review with bookkeeper/accountant": 3,
		"Quarterly review":          2,
		"Annual with accountant":    1,
		"Annual review":             1,
		"We check the bank account": 0,
		"We don't track team P&L":   0,
	},
}

var estimateProcessTable = Table{
	Question: "financial.estimate_process",
	Values: map[string]int{
		"Software-generated with digital approval": 3,
		"PDF/email quotes":        2,
		"Paper/verbal estimates":  0,
		"No standard process":     0,
	},
}

var pricingModelTable = Table{
	Question: "financial.pricing_model",
	Values: map[string]int{
		"Flat rate pricing":       3,
		"Time & materials":        1,
		"Mix of both":             2,
		"No standardized pricing": 0,
	},
}

var invoiceTimingTable = Table{
	Question: "financial.invoice_timing",
	Values: map[string]int{
		"Immediately on-site (digital)": 3,
		"Same day":                      2,
		"Within a few days":             1,
		"It varies a lot":               0,
	},
}

var collectionsTable = Table{
	Question: "financial.collections",
	Values: map[string]int{
		"Automated reminders + escalation":    3,
		"Manual follow-up":                    1,
		"We chase when we remember":           0,
		"We write off a lot of receivables":   0,
	},
}

var expenseTrackingTable = Table{
	Question: "financial.expense_tracking",
	Values: map[string]int{
		"Team/brokerage software": 3,
		"Spreadsheet":             1,
		"Accounting software":     2,
		"Agents handle their own": 0,
		"No system":               0,
	},
}

var commissionTable = Table{
	Question: "financial.commission_disbursement",
	Values: map[string]int{
		"Automated through transaction management software": 3,
		"Manual but systematic": 1,
		"Ad hoc":                0,
	},
}

var marketingBudgetTable = Table{
	Question: "financial.marketing_budget",
	Values: map[string]int{
		"Yes - detailed per-channel tracking": 3,
		"Yes - total spend tracked":           2,
		"We spend but don't track ROI":        1,
		"No formal marketing budget":          0,
	},
}

// registry holds every score table keyed by question id. New tables must be
// added here so coverage checks see them.
var registry = map[string]Table{}

func register(tables ...Table) {
	for _, t := range tables {
		registry[t.Question] = t
	}
}

func init() {
	register(
		responseSpeedTable, leadTrackingTable, conversionRateTable, reviewsTable,
		automationTable, missedCallTable, touchesIn7DaysTable, leadDistributionTable,
		schedulingMethodTable, dispatchMethodTable, routeOptimizationTable,
		realTimeTrackingTable, capacityPlanningTable, emergencyHandlingTable,
		followUpPlanTable, nurtureDurationTable, automatedDripTable,
		leadTemperatureTable, activityLoggingTable, coldLeadHandlingTable,
		internalCommsTable, afterHoursTable, clientPortalTable, clientMessagingTable,
		jobCompletionTable, transactionUpdatesTable, pastClientEngagementTable,
		repeatBusinessTable, postJobFollowUpTable, serviceAgreementsTable,
		estimateFollowUpTable, warrantyTrackingTable, postCloseFollowUpTable,
		pastClientContactTable, referralProcessTable, lostLeadFollowUpTable,
		anniversaryTrackingTable, performanceTable, jobCostingTable, inventoryTable,
		timeTrackingTable, qualityControlTable, agentAccountabilityTable,
		transactionWorkflowTable, agentOnboardingTable, financialReviewTable,
		estimateProcessTable, pricingModelTable, invoiceTimingTable, collectionsTable,
		expenseTrackingTable, commissionTable, marketingBudgetTable,
	)
}

// TableFor returns the registered table for a question id.
func TableFor(question string) (Table, bool) {
	t, ok := registry[question]
	return t, ok
}

// Questions lists all registered question ids.
func Questions() []string {
	out := make([]string, 0, len(registry))
	for q := range registry {
		out = append(out, q)
	}
	return out
}
