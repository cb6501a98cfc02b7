package models

// GoalInput is a goal as submitted to the planning engine, with its
// generated positional id.
type GoalInput struct {
	Timeline  int     `json:"timeline"`
	Goal      string  `json:"goal"`
	GoalID    string  `json:"goal_id"`
	GoalValue float64 `json:"goal_value"`
	Priority  int     `json:"priority"`
}

// PlanRequest is the strict request schema of the planning engine.
type PlanRequest struct {
	Tag          string       `json:"tag"`
	Name         string       `json:"name"`
	Demographics Demographics `json:"demographics"`
	Financials   Financials   `json:"financials"`
	GoalsInput   []GoalInput  `json:"goals_input"`
}

// Position is the placement hint the engine attaches to each allocation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AllocationExplanation carries the engine's prose for one allocation.
type AllocationExplanation struct {
	Description string `json:"description"`
	Risk        string `json:"risk"`
	Illiquidity string `json:"illiquidity"`
}

// AssetAllocation is one allocation record of the response. Name is a
// snake_case category key; riskiness and illiquidity are 0-2 scales.
type AssetAllocation struct {
	Name        string                `json:"name"`
	Position    Position              `json:"position"`
	Riskiness   int                   `json:"riskiness"`
	Illiquidity int                   `json:"illiquidity"`
	Amount      float64               `json:"amount"`
	Currency    string                `json:"currency"`
	Percentage  float64               `json:"percentage"`
	Explanation AllocationExplanation `json:"explanation"`
	Assets      []any                 `json:"assets,omitempty"`
}

// GoalFundingRequirement is part of the optional monthly action plan.
type GoalFundingRequirement struct {
	GoalID         string  `json:"goal_id"`
	GoalName       string  `json:"goal_name"`
	FundingAmount  float64 `json:"funding_amount"`
	Priority       int     `json:"priority"`
	TimelineMonths int     `json:"timeline_months"`
	TargetAmount   float64 `json:"target_amount"`
}

// SavingsAllocation is part of the optional monthly action plan.
type SavingsAllocation struct {
	GoalID               string  `json:"goal_id"`
	GoalName             string  `json:"goal_name"`
	Amount               float64 `json:"amount"`
	Purpose              string  `json:"purpose"`
	AllocationPercentage float64 `json:"allocation_percentage"`
}

// MonthlyActionPlan is the optional month-by-month breakdown the engine
// may return alongside the allocations.
type MonthlyActionPlan struct {
	GoalFundingRequirements     []GoalFundingRequirement `json:"goal_funding_requirements"`
	SavingsAllocation           []SavingsAllocation      `json:"savings_allocation"`
	TotalGoalLiquidation        float64                  `json:"total_goal_liquidation"`
	GoalLiquidationTaxImpact    float64                  `json:"goal_liquidation_tax_impact"`
	TotalMonthlySavings         float64                  `json:"total_monthly_savings"`
	RemainingSavings            float64                  `json:"remaining_savings"`
	PortfolioDriftPercentage    float64                  `json:"portfolio_drift_percentage"`
	MonthlyLiquidationPercent   float64                  `json:"monthly_liquidation_percentage"`
	EmergencyFundRatio          float64                  `json:"emergency_fund_ratio"`
	PortfolioValueStart         float64                  `json:"portfolio_value_start"`
	PortfolioValueEnd           float64                  `json:"portfolio_value_end"`
	FundConservationVerified    bool                     `json:"fund_conservation_verified"`
	ConstraintsSatisfied        bool                     `json:"constraints_satisfied"`
	ConservationError           float64                  `json:"conservation_error"`
	Month                       int                      `json:"month"`
	NextReviewDate              string                   `json:"next_review_date"`
	ActionItems                 []string                 `json:"action_items"`
	Warnings                    []string                 `json:"warnings"`
	ExecutiveSummary            string                   `json:"executive_summary"`
	RetirementProjectionSummary *RetirementSummary       `json:"retirement_projection,omitempty"`
}

// RetirementSummary is the condensed projection embedded in the monthly
// action plan.
type RetirementSummary struct {
	ProjectedCorpusAvailable float64 `json:"projected_corpus_available"`
	CorpusNeeded             float64 `json:"corpus_needed"`
	ReadinessPercentage      float64 `json:"readiness_percentage"`
	SurplusDeficit           float64 `json:"surplus_deficit"`
}

// RetirementProjection is the optional top-level retirement analysis.
type RetirementProjection struct {
	ReadinessPercentage float64 `json:"readiness_percentage"`
	TargetCorpus        float64 `json:"target_corpus"`
	CurrentCorpus       float64 `json:"current_corpus"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	YearsToRetirement   float64 `json:"years_to_retirement"`
	SurplusDeficit      float64 `json:"surplus_deficit"`
	RetirementAge       int     `json:"retirement_age"`
	AgeAtCalculation    int     `json:"age_at_calculation"`
}

// PlanResponse is the planning engine's reply.
type PlanResponse struct {
	Success              bool                  `json:"success"`
	Message              string                `json:"message"`
	MonthlyActionPlan    *MonthlyActionPlan    `json:"monthly_action_plan,omitempty"`
	AssetAllocations     []AssetAllocation     `json:"asset_allocations"`
	RetirementProjection *RetirementProjection `json:"retirement_projection,omitempty"`
	EmergencyFund        *float64              `json:"emergency_fund,omitempty"`
	Timestamp            string                `json:"timestamp"`
}
