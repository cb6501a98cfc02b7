package models

import "strings"

// ProfileDraft is the mutable working copy of one household's profile.
// Field names mirror the form fields, not the wire schema; the normalizer
// maps a draft into a PlanRequest.
type ProfileDraft struct {
	Age               int     `json:"age"`
	EmploymentType    string  `json:"employment_type"`
	Dependents        int     `json:"dependents"`
	HealthStatus      string  `json:"health_status"`
	RiskAppetite      int     `json:"risk_appetite"`
	FinancialMaturity int     `json:"financial_maturity"`
	MarketOutlook     string  `json:"market_outlook"`
	Location          string  `json:"location"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	SavingsPercentage float64 `json:"savings_percentage"`
	RealEstateValue   float64 `json:"real_estate_value"`
	IsHousingLoan     bool    `json:"is_housing_loan"`
	RealEstateType    string  `json:"real_estate_type"`
	CurrentSavings    float64 `json:"current_savings"`
	Debts             float64 `json:"debts"`
	BusinessValue     float64 `json:"business_value"`
}

// DraftFromPersona copies a catalog persona into a draft.
func DraftFromPersona(p Persona) ProfileDraft {
	return ProfileDraft{
		Age:               p.Demographics.Age,
		EmploymentType:    p.Demographics.EmploymentType,
		Dependents:        p.Demographics.Dependents,
		HealthStatus:      p.Demographics.HealthStatus,
		RiskAppetite:      p.Demographics.RiskAppetite,
		FinancialMaturity: p.Demographics.FinancialMaturity,
		MarketOutlook:     p.Demographics.MarketOutlook,
		Location:          p.Demographics.Location,
		MonthlyExpenses:   p.Financials.MonthlyExpenses,
		SavingsPercentage: p.Financials.SavingsPercentage,
		RealEstateValue:   p.Financials.RealEstateValue,
		IsHousingLoan:     p.Financials.IsHousingLoan,
		RealEstateType:    p.Financials.RealEstateType,
		CurrentSavings:    p.Financials.CurrentSavingsAndInvestments,
		Debts:             p.Financials.Debts,
		BusinessValue:     p.Financials.BusinessValue,
	}
}

// Goal is one entry of the ordered goal list. Goals have no identity until
// normalization assigns positional ids.
type Goal struct {
	Timeline  int     `json:"timeline"`
	Goal      string  `json:"goal"`
	GoalValue float64 `json:"goal_value"`
	Priority  int     `json:"priority"`
}

// ClientInfo identifies the client a plan is generated for.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Valid reports whether both fields are non-empty after trimming.
// This is the only validity rule gating submission.
func (c ClientInfo) Valid() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Email) != ""
}
