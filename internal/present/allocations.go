// Package present turns raw plan responses into display-ready rows.
package present

import (
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"

	"github.com/finplan/advisor-service/internal/models"
)

// AllocationRow is one display-ready allocation: human-readable name, the
// raw category key, amounts and the server-computed percentage passed
// through unmodified.
type AllocationRow struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	DisplayAmount string  `json:"display_amount"`
	Percentage    float64 `json:"percentage"`
}

// Rows maps allocation records to display rows in order. Percentages are
// not renormalized; the displayed values may not sum to exactly 100 and
// that is expected.
func Rows(allocs []models.AssetAllocation) []AllocationRow {
	rows := make([]AllocationRow, 0, len(allocs))
	for _, a := range allocs {
		rows = append(rows, AllocationRow{
			Name:          DisplayName(a.Name),
			Category:      a.Name,
			Amount:        a.Amount,
			DisplayAmount: DisplayAmount(a.Amount, a.Currency),
			Percentage:    a.Percentage,
		})
	}
	return rows
}

// TotalAmount is the sum of the allocation amounts. The total is always
// recomputed here, never read from a server field, since the upstream
// total is not reliably present.
func TotalAmount(allocs []models.AssetAllocation) float64 {
	var total float64
	for _, a := range allocs {
		total += a.Amount
	}
	return total
}

// DisplayName converts a snake_case category key into a title:
// "large_cap_equity" becomes "Large Cap Equity". Underscores become
// spaces and the first letter of every word is upper-cased; the rest of
// each word is left untouched.
func DisplayName(category string) string {
	var b strings.Builder
	b.Grow(len(category))
	startOfWord := true
	for _, r := range category {
		if r == '_' {
			r = ' '
		}
		if r == ' ' {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			r = unicode.ToUpper(r)
			startOfWord = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DisplayAmount formats an amount in the record's currency, falling back
// to INR when the engine sends an unknown code.
func DisplayAmount(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if money.GetCurrency(code) == nil {
		code = money.INR
	}
	return money.NewFromFloat(amount, code).Display()
}
