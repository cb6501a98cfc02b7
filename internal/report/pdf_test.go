package report

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/advisor-service/internal/models"
	"github.com/finplan/advisor-service/internal/present"
)

func TestGenerateMinimal(t *testing.T) {
	pdf, err := Generate(Params{ClientName: "Ravi Kumar", ClientEmail: "ravi@example.com"})

	require.NoError(t, err)
	require.Greater(t, len(pdf), 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateFull(t *testing.T) {
	form := models.ProfileDraft{
		Age:               34,
		EmploymentType:    models.EmploymentSalaried,
		Dependents:        2,
		HealthStatus:      models.HealthGood,
		RiskAppetite:      models.ScaleHigh,
		FinancialMaturity: models.ScaleMid,
		MarketOutlook:     models.OutlookNeutral,
		Location:          models.LocationTier1,
		MonthlyExpenses:   60000,
		SavingsPercentage: 25,
		RealEstateValue:   9000000,
		IsHousingLoan:     true,
		RealEstateType:    "residential",
		CurrentSavings:    1500000,
		Debts:             400000,
	}
	plan := &models.PlanResponse{
		Success:   true,
		Timestamp: "2026-08-28T10:15:00Z",
		AssetAllocations: []models.AssetAllocation{
			{Name: "large_cap_equity", Amount: 250000, Currency: "INR", Percentage: 25},
			{Name: "debt", Amount: 150000, Currency: "INR", Percentage: 15},
		},
		RetirementProjection: &models.RetirementProjection{
			ReadinessPercentage: 72.5,
			TargetCorpus:        30000000,
			CurrentCorpus:       4500000,
			MonthlyContribution: 35000,
			YearsToRetirement:   26,
			SurplusDeficit:      -1200000,
		},
	}

	pdf, err := Generate(Params{
		ClientName:  "Ravi Kumar",
		ClientEmail: "ravi@example.com",
		Rows:        present.Rows(plan.AssetAllocations),
		Total:       present.TotalAmount(plan.AssetAllocations),
		Plan:        plan,
		Form:        &form,
		Goals: []models.Goal{
			{Goal: "House", GoalValue: 8000000, Timeline: 10, Priority: 8},
			{Goal: "Retirement", GoalValue: 30000000, Timeline: 26, Priority: 9},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFilenamePattern(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^asset-allocation-report-\d+\.pdf$`), Filename())
}

func TestFormatIndian(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		123:        "123",
		1000:       "1,000",
		100000:     "1,00,000",
		1234567.89: "12,34,567.89",
		10000000:   "1,00,00,000",
		-4500.5:    "-4,500.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatIndian(in), "input %v", in)
	}
}

func TestScaleLabel(t *testing.T) {
	assert.Equal(t, "Conservative", scaleLabel(models.ScaleLow, "Conservative", "Moderate", "Aggressive"))
	assert.Equal(t, "Moderate", scaleLabel(models.ScaleMid, "Conservative", "Moderate", "Aggressive"))
	assert.Equal(t, "Aggressive", scaleLabel(models.ScaleHigh, "Conservative", "Moderate", "Aggressive"))
}

func TestGeneratedDateFallsBackOnBadTimestamp(t *testing.T) {
	c := &composer{params: Params{Plan: &models.PlanResponse{Timestamp: "yesterday-ish"}}}
	assert.NotEmpty(t, c.generatedDate())

	c = &composer{params: Params{Plan: &models.PlanResponse{Timestamp: "2026-08-28T10:15:00Z"}}}
	assert.Equal(t, "28 August 2026", c.generatedDate())
}
