package profile

import (
	"fmt"
	"math"

	"github.com/finplan/advisor-service/internal/catalog"
	"github.com/finplan/advisor-service/internal/models"
)

// BuildPlanRequest maps a draft, its ordered goal list and the client
// identity into the engine's strict request schema. It is a pure
// transformation and never fails: every field degrades to its default
// (numbers 0, strings empty) so a partially filled draft still submits.
//
// Goal ids are positional (goal_1, goal_2, ...) and recomputed on every
// call; they are stable only within one submission.
func BuildPlanRequest(d models.ProfileDraft, goals []models.Goal, client models.ClientInfo, sel Selection, cat *catalog.Catalog) models.PlanRequest {
	tag, name := resolveIdentity(sel, client, cat)

	req := models.PlanRequest{
		Tag:  tag,
		Name: name,
		Demographics: models.Demographics{
			Age:               int(finite(float64(d.Age))),
			EmploymentType:    d.EmploymentType,
			Dependents:        int(finite(float64(d.Dependents))),
			HealthStatus:      d.HealthStatus,
			RiskAppetite:      d.RiskAppetite,
			FinancialMaturity: d.FinancialMaturity,
			MarketOutlook:     d.MarketOutlook,
			Location:          d.Location,
		},
		Financials: models.Financials{
			MonthlyExpenses:              finite(d.MonthlyExpenses),
			SavingsPercentage:            finite(d.SavingsPercentage),
			RealEstateValue:              finite(d.RealEstateValue),
			IsHousingLoan:                d.IsHousingLoan,
			RealEstateType:               d.RealEstateType,
			CurrentSavingsAndInvestments: finite(d.CurrentSavings),
			Debts:                        finite(d.Debts),
			BusinessValue:                finite(d.BusinessValue),
		},
		GoalsInput: make([]models.GoalInput, 0, len(goals)),
	}

	for i, g := range goals {
		timeline := int(finite(float64(g.Timeline)))
		if timeline == 0 {
			timeline = 1
		}
		priority := int(finite(float64(g.Priority)))
		if priority == 0 {
			priority = 5
		}
		req.GoalsInput = append(req.GoalsInput, models.GoalInput{
			GoalID:    fmt.Sprintf("goal_%d", i+1),
			Goal:      g.Goal,
			GoalValue: finite(g.GoalValue),
			Timeline:  timeline,
			Priority:  priority,
		})
	}

	return req
}

// resolveIdentity picks the request's tag and display name. A selected (or
// detached) persona submits under the persona's identity; everything else
// submits as a custom profile named after the client.
func resolveIdentity(sel Selection, client models.ClientInfo, cat *catalog.Catalog) (tag, name string) {
	if sel.Kind != SelectionNone && sel.Tag != "" {
		if p, ok := cat.FindByTag(sel.Tag); ok {
			return p.Tag, p.Name
		}
		return catalog.FallbackTag, fmt.Sprintf("%s - %s", client.Name, catalog.FallbackNameSuffix)
	}
	return "custom", fmt.Sprintf("%s (%s) - Custom Profile", client.Name, client.Email)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
