package scoring

// Answers holds the full questionnaire for one audit. Both verticals share
// the struct; fields that only apply to one vertical are simply empty for
// the other. String answers are canonical values (see Table).
type Answers struct {
	Technology    TechnologyAnswers    `json:"technology"`
	Leads         LeadAnswers          `json:"leads"`
	Pipeline      PipelineAnswers      `json:"pipeline"`
	Communication CommunicationAnswers `json:"communication"`
	Retention     RetentionAnswers     `json:"retention"`
	Operations    OperationsAnswers    `json:"operations"`
	Financial     FinancialAnswers     `json:"financial"`
}

type TechnologyAnswers struct {
	PrimaryCRM       string   `json:"primaryCrm,omitempty"`
	CRMSatisfaction  int      `json:"crmSatisfaction,omitempty"`
	ToolsUsed        []string `json:"toolsUsed,omitempty"`
	TechFrustrations string   `json:"techFrustrations,omitempty"`
}

type LeadAnswers struct {
	LeadSources      []string `json:"leadSources,omitempty"`
	ResponseSpeed    string   `json:"responseSpeed,omitempty"`
	LeadTracking     string   `json:"leadTracking,omitempty"`
	ConversionRate   string   `json:"conversionRate,omitempty"`
	GoogleReviews    string   `json:"googleReviews,omitempty"`
	ReviewAutomation string   `json:"reviewAutomation,omitempty"`

	// home services
	MissedCallHandling string `json:"missedCallHandling,omitempty"`

	// real estate
	TouchesIn7Days   string `json:"touchesIn7Days,omitempty"`
	LeadDistribution string `json:"leadDistribution,omitempty"`
}

// PipelineAnswers covers job scheduling for home services and lead pipeline
// management for real estate. Both feed the scheduling category.
type PipelineAnswers struct {
	// home services
	SchedulingMethod  string `json:"schedulingMethod,omitempty"`
	DispatchMethod    string `json:"dispatchMethod,omitempty"`
	RouteOptimization string `json:"routeOptimization,omitempty"`
	RealTimeTracking  string `json:"realTimeTracking,omitempty"`
	CapacityPlanning  string `json:"capacityPlanning,omitempty"`
	EmergencyHandling string `json:"emergencyHandling,omitempty"`

	// real estate
	FollowUpPlan         string `json:"followUpPlan,omitempty"`
	NurtureDuration      string `json:"nurtureDuration,omitempty"`
	AutomatedDrip        string `json:"automatedDrip,omitempty"`
	LeadTemperature      string `json:"leadTemperature,omitempty"`
	ActivityLogging      string `json:"activityLogging,omitempty"`
	ColdLeadHandling     string `json:"coldLeadHandling,omitempty"`
}

type CommunicationAnswers struct {
	InternalComms string `json:"internalComms,omitempty"`
	AfterHours    string `json:"afterHours,omitempty"`
	ClientPortal  string `json:"clientPortal,omitempty"`

	// home services
	AppointmentReminders  string `json:"appointmentReminders,omitempty"`
	OnTheWayNotifications string `json:"onTheWayNotifications,omitempty"`
	JobCompletionComms    string `json:"jobCompletionComms,omitempty"`

	// real estate
	AgentClientComms     string `json:"agentClientComms,omitempty"`
	TransactionUpdates   string `json:"transactionUpdates,omitempty"`
	PastClientEngagement string `json:"pastClientEngagement,omitempty"`
}

type RetentionAnswers struct {
	RepeatBusiness string `json:"repeatBusiness,omitempty"`

	// home services
	PostJobFollowUp      string `json:"postJobFollowUp,omitempty"`
	MaintenanceReminders string `json:"maintenanceReminders,omitempty"`
	ServiceAgreements    string `json:"serviceAgreements,omitempty"`
	EstimateFollowUp     string `json:"estimateFollowUp,omitempty"`
	WarrantyTracking     string `json:"warrantyTracking,omitempty"`

	// real estate
	PostCloseFollowUp   string `json:"postCloseFollowUp,omitempty"`
	PastClientContact   string `json:"pastClientContact,omitempty"`
	ReferralProcess     string `json:"referralProcess,omitempty"`
	LostLeadFollowUp    string `json:"lostLeadFollowUp,omitempty"`
	AnniversaryTracking string `json:"anniversaryTracking,omitempty"`
}

type OperationsAnswers struct {
	KPIsTracked            []string `json:"kpisTracked,omitempty"`
	PerformanceMeasurement string   `json:"performanceMeasurement,omitempty"`

	// home services
	JobCosting          string `json:"jobCosting,omitempty"`
	InventoryManagement string `json:"inventoryManagement,omitempty"`
	TimeTracking        string `json:"timeTracking,omitempty"`
	QualityControl      string `json:"qualityControl,omitempty"`

	// real estate
	AgentAccountability string `json:"agentAccountability,omitempty"`
	TransactionWorkflow string `json:"transactionWorkflow,omitempty"`
	AgentOnboarding     string `json:"agentOnboarding,omitempty"`
}

type FinancialAnswers struct {
	PaymentMethods  []string `json:"paymentMethods,omitempty"`
	FinancialReview string   `json:"financialReview,omitempty"`

	// home services
	EstimateProcess string `json:"estimateProcess,omitempty"`
	PricingModel    string `json:"pricingModel,omitempty"`
	InvoiceTiming   string `json:"invoiceTiming,omitempty"`
	Collections     string `json:"collections,omitempty"`

	// real estate
	ExpenseTracking        string `json:"expenseTracking,omitempty"`
	TeamPnL                string `json:"teamPnl,omitempty"`
	CommissionDisbursement string `json:"commissionDisbursement,omitempty"`
	MarketingBudget        string `json:"marketingBudget,omitempty"`

	BiggestChallenge string `json:"biggestChallenge,omitempty"`
}
