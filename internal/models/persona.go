package models

// Employment types accepted by the planning engine.
const (
	EmploymentSalaried      = "salaried"
	EmploymentBusinessOwner = "business_owner"
	EmploymentSelfEmployed  = "self_employed"
)

// Health status values.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthModerate  = "moderate"
	HealthPoor      = "poor"
)

// Market outlook values.
const (
	OutlookBullish = "bullish"
	OutlookNeutral = "neutral"
	OutlookBearish = "bearish"
)

// Location tiers.
const (
	LocationTier1 = "tier_1"
	LocationTier2 = "tier_2"
	LocationTier3 = "tier_3"
)

// Tri-state scales used for risk appetite and financial maturity:
// -1 low/beginner, 0 moderate/intermediate, 1 high/advanced.
const (
	ScaleLow  = -1
	ScaleMid  = 0
	ScaleHigh = 1
)

// Demographics describes the household in planning-engine terms.
type Demographics struct {
	Age               int    `json:"age"`
	EmploymentType    string `json:"employment_type"`
	Dependents        int    `json:"dependents"`
	HealthStatus      string `json:"health_status"`
	RiskAppetite      int    `json:"risk_appetite"`
	FinancialMaturity int    `json:"financial_maturity"`
	MarketOutlook     string `json:"market_outlook"`
	Location          string `json:"location"`
}

// Financials describes the household balance sheet.
type Financials struct {
	MonthlyExpenses              float64 `json:"monthly_expenses"`
	SavingsPercentage            float64 `json:"savings_percentage"`
	RealEstateValue              float64 `json:"real_estate_value"`
	IsHousingLoan                bool    `json:"is_housing_loan"`
	RealEstateType               string  `json:"real_estate_type"`
	CurrentSavingsAndInvestments float64 `json:"current_savings_and_investments"`
	Debts                        float64 `json:"debts"`
	BusinessValue                float64 `json:"business_value"`
}

// Persona is a catalog template used to pre-fill the profile form.
// Loaded once at startup and never mutated.
type Persona struct {
	Tag          string       `json:"tag"`
	Name         string       `json:"name"`
	Demographics Demographics `json:"demographics"`
	Financials   Financials   `json:"financials"`
}
