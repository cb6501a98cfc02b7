package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/advisor-service/internal/models"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"large_cap_equity": "Large Cap Equity",
		"real_estate":      "Real Estate",
		"debt":             "Debt",
		"gold":             "Gold",
		"reit_and_invit":   "Reit And Invit",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), "input %q", in)
	}
}

func TestDisplayNameLeavesInnerCaseAlone(t *testing.T) {
	// Only the first letter of each word changes; the rest passes through.
	assert.Equal(t, "NPS Tier1", DisplayName("NPS_tier1"))
}

func TestRows(t *testing.T) {
	allocs := []models.AssetAllocation{
		{Name: "large_cap_equity", Amount: 250000, Currency: "INR", Percentage: 25.5},
		{Name: "debt", Amount: 150000, Currency: "INR", Percentage: 15},
	}

	rows := Rows(allocs)

	require.Len(t, rows, 2)
	assert.Equal(t, "Large Cap Equity", rows[0].Name)
	assert.Equal(t, "large_cap_equity", rows[0].Category)
	assert.Equal(t, 250000.0, rows[0].Amount)
	assert.Equal(t, 25.5, rows[0].Percentage, "percentages pass through unrenormalized")
	assert.NotEmpty(t, rows[0].DisplayAmount)
}

func TestTotalAmountIsRecomputed(t *testing.T) {
	allocs := []models.AssetAllocation{
		{Name: "a", Amount: 100000.10},
		{Name: "b", Amount: 200000.20},
		{Name: "c", Amount: 300000.30},
	}
	assert.InDelta(t, 600000.60, TotalAmount(allocs), 0.001)
	assert.Zero(t, TotalAmount(nil))
}

func TestDisplayAmountUnknownCurrencyFallsBackToINR(t *testing.T) {
	assert.Equal(t, DisplayAmount(100000, "INR"), DisplayAmount(100000, "XYZ"))
	assert.Equal(t, DisplayAmount(100000, "INR"), DisplayAmount(100000, ""))
	assert.Equal(t, DisplayAmount(100000, "INR"), DisplayAmount(100000, " inr "))
}
