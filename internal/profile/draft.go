package profile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/finplan/advisor-service/internal/models"
)

// SelectionKind distinguishes the three draft states: nothing selected, a
// catalog persona mirrored verbatim, or a persona draft detached by edits.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionPersona
	SelectionCustom
)

// Selection is the draft's selection state. Tag carries the persona tag
// for SelectionPersona and the originating tag for SelectionCustom; a
// detached draft still submits under its origin's identity.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	Tag  string        `json:"tag,omitempty"`
}

// Model is the mutable form state for one session: the profile draft, its
// selection state, the ordered goal list and the client identity. Not safe
// for concurrent use; the Store serializes access per session.
type Model struct {
	draft   models.ProfileDraft
	sel     Selection
	pending *models.Persona
	goals   []models.Goal
	client  models.ClientInfo
}

// NewModel returns a blank draft with nothing selected.
func NewModel() *Model {
	return &Model{}
}

// Draft returns a copy of the current draft fields.
func (m *Model) Draft() models.ProfileDraft { return m.draft }

// Selection returns the current selection state.
func (m *Model) Selection() Selection { return m.sel }

// Pending returns the staged persona awaiting confirmation, if any.
func (m *Model) Pending() *models.Persona { return m.pending }

// Goals returns a copy of the goal list in order.
func (m *Model) Goals() []models.Goal {
	out := make([]models.Goal, len(m.goals))
	copy(out, m.goals)
	return out
}

// Client returns the client identity entered so far.
func (m *Model) Client() models.ClientInfo { return m.client }

// SetClient replaces the client identity.
func (m *Model) SetClient(c models.ClientInfo) { m.client = c }

// SetField replaces exactly one draft field, preserving all others.
// Mismatched value types degrade to the field's default rather than fail.
// Editing while a persona is selected detaches the draft to a custom one
// that keeps the originating tag.
func (m *Model) SetField(field string, value any) error {
	d := &m.draft
	switch field {
	case "age":
		d.Age = toInt(value)
	case "employment_type":
		d.EmploymentType = toString(value)
	case "dependents":
		d.Dependents = toInt(value)
	case "health_status":
		d.HealthStatus = toString(value)
	case "risk_appetite":
		d.RiskAppetite = toInt(value)
	case "financial_maturity":
		d.FinancialMaturity = toInt(value)
	case "market_outlook":
		d.MarketOutlook = toString(value)
	case "location":
		d.Location = toString(value)
	case "monthly_expenses":
		d.MonthlyExpenses = toFloat(value)
	case "savings_percentage":
		d.SavingsPercentage = toFloat(value)
	case "real_estate_value":
		d.RealEstateValue = toFloat(value)
	case "is_housing_loan":
		d.IsHousingLoan = toBool(value)
	case "real_estate_type":
		d.RealEstateType = toString(value)
	case "current_savings":
		d.CurrentSavings = toFloat(value)
	case "debts":
		d.Debts = toFloat(value)
	case "business_value":
		d.BusinessValue = toFloat(value)
	default:
		return fmt.Errorf("unknown profile field %q", field)
	}

	if m.sel.Kind == SelectionPersona {
		m.sel.Kind = SelectionCustom
	}
	return nil
}

// HasAnyData reports whether the draft holds anything worth warning about:
// any numeric field strictly greater than zero, or any string field
// non-empty. Boolean fields never count, so a lone toggle does not block a
// persona switch.
func (m *Model) HasAnyData() bool {
	d := m.draft
	switch {
	case d.Age > 0, d.Dependents > 0, d.RiskAppetite > 0, d.FinancialMaturity > 0:
		return true
	case d.MonthlyExpenses > 0, d.SavingsPercentage > 0, d.RealEstateValue > 0,
		d.CurrentSavings > 0, d.Debts > 0, d.BusinessValue > 0:
		return true
	case d.EmploymentType != "", d.HealthStatus != "", d.MarketOutlook != "",
		d.Location != "", d.RealEstateType != "":
		return true
	}
	return false
}

// SelectPersona requests a selection change. A nil persona means "none".
// It returns true when the change is destructive and was staged pending
// explicit confirmation; resolve with ConfirmPending or CancelPending.
//
// Clearing to "none" never asks for confirmation; switching onto a persona
// always does when the draft holds data or another persona is selected.
func (m *Model) SelectPersona(p *models.Persona) bool {
	if p == nil {
		if m.sel.Kind == SelectionNone {
			return false
		}
		m.draft = models.ProfileDraft{}
		m.sel = Selection{Kind: SelectionNone}
		m.pending = nil
		return false
	}

	switch {
	case m.sel.Kind != SelectionNone && m.sel.Tag == p.Tag:
		return false
	case m.sel.Kind == SelectionNone && !m.HasAnyData():
		m.apply(*p)
		return false
	default:
		m.pending = p
		return true
	}
}

// ConfirmPending applies the staged persona, replacing every draft field.
func (m *Model) ConfirmPending() {
	if m.pending == nil {
		return
	}
	m.apply(*m.pending)
}

// CancelPending discards the staged persona and keeps the current draft.
func (m *Model) CancelPending() {
	m.pending = nil
}

func (m *Model) apply(p models.Persona) {
	m.draft = models.DraftFromPersona(p)
	m.sel = Selection{Kind: SelectionPersona, Tag: p.Tag}
	m.pending = nil
}

// AddGoal appends a goal with the form's defaults.
func (m *Model) AddGoal() {
	m.goals = append(m.goals, models.Goal{Timeline: 1, Priority: 5})
}

// UpdateGoal replaces one field of the goal at index i.
func (m *Model) UpdateGoal(i int, field string, value any) error {
	if i < 0 || i >= len(m.goals) {
		return fmt.Errorf("goal index %d out of range", i)
	}
	g := &m.goals[i]
	switch field {
	case "goal":
		g.Goal = toString(value)
	case "goal_value":
		g.GoalValue = toFloat(value)
	case "timeline":
		g.Timeline = toInt(value)
	case "priority":
		g.Priority = toInt(value)
	default:
		return fmt.Errorf("unknown goal field %q", field)
	}
	return nil
}

// RemoveGoal deletes the goal at index i, preserving order.
func (m *Model) RemoveGoal(i int) error {
	if i < 0 || i >= len(m.goals) {
		return fmt.Errorf("goal index %d out of range", i)
	}
	m.goals = append(m.goals[:i], m.goals[i+1:]...)
	return nil
}

// Coercions: numbers default to 0, strings to "", booleans to false.
// JSON decoding hands us float64 for every number.

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case float32:
		return toFloat(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toInt(v any) int {
	return int(toFloat(v))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
