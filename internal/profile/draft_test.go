package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/advisor-service/internal/models"
)

func personaFixture(tag, name string) models.Persona {
	return models.Persona{
		Tag:  tag,
		Name: name,
		Demographics: models.Demographics{
			Age:            30,
			EmploymentType: models.EmploymentSalaried,
			HealthStatus:   models.HealthGood,
			MarketOutlook:  models.OutlookNeutral,
			Location:       models.LocationTier1,
		},
		Financials: models.Financials{
			MonthlyExpenses:              40000,
			SavingsPercentage:            20,
			CurrentSavingsAndInvestments: 500000,
		},
	}
}

func TestSetFieldUpdatesOneField(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("age", float64(34)))
	require.NoError(t, m.SetField("monthly_expenses", float64(55000)))
	require.NoError(t, m.SetField("employment_type", models.EmploymentSelfEmployed))
	require.NoError(t, m.SetField("is_housing_loan", true))

	d := m.Draft()
	assert.Equal(t, 34, d.Age)
	assert.Equal(t, 55000.0, d.MonthlyExpenses)
	assert.Equal(t, models.EmploymentSelfEmployed, d.EmploymentType)
	assert.True(t, d.IsHousingLoan)
	assert.Zero(t, d.Dependents, "untouched fields stay at their defaults")
}

func TestSetFieldUnknownField(t *testing.T) {
	m := NewModel()
	assert.Error(t, m.SetField("favorite_color", "blue"))
}

func TestSetFieldCoercesMismatchedTypes(t *testing.T) {
	m := NewModel()

	// Wrong types degrade to the field default instead of failing.
	require.NoError(t, m.SetField("age", "not a number"))
	require.NoError(t, m.SetField("monthly_expenses", true))
	require.NoError(t, m.SetField("employment_type", float64(12)))
	require.NoError(t, m.SetField("is_housing_loan", "yes"))

	d := m.Draft()
	assert.Zero(t, d.Age)
	assert.Zero(t, d.MonthlyExpenses)
	assert.Empty(t, d.EmploymentType)
	assert.False(t, d.IsHousingLoan)
}

func TestSetFieldNumericStrings(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("debts", "120000.5"))
	require.NoError(t, m.SetField("dependents", "2"))
	require.NoError(t, m.SetField("business_value", "NaN"))

	d := m.Draft()
	assert.Equal(t, 120000.5, d.Debts)
	assert.Equal(t, 2, d.Dependents)
	assert.Zero(t, d.BusinessValue, "non-finite values collapse to zero")
}

func TestHasAnyData(t *testing.T) {
	t.Run("blank draft has none", func(t *testing.T) {
		assert.False(t, NewModel().HasAnyData())
	})

	t.Run("any positive number counts", func(t *testing.T) {
		m := NewModel()
		require.NoError(t, m.SetField("debts", float64(1)))
		assert.True(t, m.HasAnyData())
	})

	t.Run("any non-empty string counts", func(t *testing.T) {
		m := NewModel()
		require.NoError(t, m.SetField("location", models.LocationTier2))
		assert.True(t, m.HasAnyData())
	})

	t.Run("a lone boolean toggle does not count", func(t *testing.T) {
		m := NewModel()
		require.NoError(t, m.SetField("is_housing_loan", true))
		assert.False(t, m.HasAnyData())
	})
}

func TestSelectPersonaOnBlankDraftAppliesImmediately(t *testing.T) {
	m := NewModel()
	p := personaFixture("steady_saver", "Meera - The Steady Saver")

	staged := m.SelectPersona(&p)

	assert.False(t, staged)
	assert.Equal(t, Selection{Kind: SelectionPersona, Tag: "steady_saver"}, m.Selection())
	assert.Equal(t, models.DraftFromPersona(p), m.Draft())
	assert.Nil(t, m.Pending())
}

func TestSelectPersonaOverDataIsStaged(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("age", float64(40)))
	p := personaFixture("steady_saver", "Meera - The Steady Saver")

	staged := m.SelectPersona(&p)

	require.True(t, staged)
	assert.Equal(t, 40, m.Draft().Age, "nothing changes until confirmed")
	assert.Equal(t, SelectionNone, m.Selection().Kind)
	require.NotNil(t, m.Pending())
	assert.Equal(t, "steady_saver", m.Pending().Tag)
}

func TestConfirmPendingReplacesEveryField(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("age", float64(40)))
	require.NoError(t, m.SetField("debts", float64(99999)))
	p := personaFixture("steady_saver", "Meera - The Steady Saver")

	require.True(t, m.SelectPersona(&p))
	m.ConfirmPending()

	assert.Equal(t, models.DraftFromPersona(p), m.Draft())
	assert.Equal(t, Selection{Kind: SelectionPersona, Tag: "steady_saver"}, m.Selection())
	assert.Nil(t, m.Pending())
}

func TestCancelPendingKeepsDraft(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("age", float64(40)))
	p := personaFixture("steady_saver", "Meera - The Steady Saver")

	require.True(t, m.SelectPersona(&p))
	m.CancelPending()

	assert.Equal(t, 40, m.Draft().Age)
	assert.Equal(t, SelectionNone, m.Selection().Kind)
	assert.Nil(t, m.Pending())
}

func TestSwitchBetweenPersonasIsStaged(t *testing.T) {
	m := NewModel()
	first := personaFixture("steady_saver", "Meera - The Steady Saver")
	second := personaFixture("fresh_start", "Aarav - The Fresh Start")

	require.False(t, m.SelectPersona(&first))
	require.True(t, m.SelectPersona(&second), "switching personas always asks")

	m.ConfirmPending()
	assert.Equal(t, Selection{Kind: SelectionPersona, Tag: "fresh_start"}, m.Selection())
}

func TestReselectingSamePersonaIsNoop(t *testing.T) {
	m := NewModel()
	p := personaFixture("steady_saver", "Meera - The Steady Saver")

	require.False(t, m.SelectPersona(&p))
	require.NoError(t, m.SetField("age", float64(99)))

	staged := m.SelectPersona(&p)

	assert.False(t, staged)
	assert.Equal(t, 99, m.Draft().Age, "edits survive a same-tag reselect")
	assert.Nil(t, m.Pending())
}

func TestClearSelectionNeverAsks(t *testing.T) {
	m := NewModel()
	p := personaFixture("steady_saver", "Meera - The Steady Saver")
	require.False(t, m.SelectPersona(&p))

	staged := m.SelectPersona(nil)

	assert.False(t, staged)
	assert.Equal(t, models.ProfileDraft{}, m.Draft())
	assert.Equal(t, SelectionNone, m.Selection().Kind)
}

func TestClearOnEmptySelectionIsNoop(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField("age", float64(40)))

	assert.False(t, m.SelectPersona(nil))
	assert.Equal(t, 40, m.Draft().Age, "clearing nothing leaves the draft alone")
}

func TestEditDetachesPersonaKeepingOrigin(t *testing.T) {
	m := NewModel()
	p := personaFixture("steady_saver", "Meera - The Steady Saver")
	require.False(t, m.SelectPersona(&p))

	require.NoError(t, m.SetField("age", float64(41)))

	sel := m.Selection()
	assert.Equal(t, SelectionCustom, sel.Kind)
	assert.Equal(t, "steady_saver", sel.Tag, "detached drafts remember their origin")
	assert.Equal(t, 41, m.Draft().Age)
	assert.Equal(t, p.Financials.MonthlyExpenses, m.Draft().MonthlyExpenses, "other fields keep persona values")
}

func TestGoalLifecycle(t *testing.T) {
	m := NewModel()

	m.AddGoal()
	m.AddGoal()
	require.Len(t, m.Goals(), 2)
	assert.Equal(t, models.Goal{Timeline: 1, Priority: 5}, m.Goals()[0], "new goals carry form defaults")

	require.NoError(t, m.UpdateGoal(0, "goal", "Retirement"))
	require.NoError(t, m.UpdateGoal(0, "goal_value", float64(5000000)))
	require.NoError(t, m.UpdateGoal(1, "timeline", float64(7)))

	goals := m.Goals()
	assert.Equal(t, "Retirement", goals[0].Goal)
	assert.Equal(t, 5000000.0, goals[0].GoalValue)
	assert.Equal(t, 7, goals[1].Timeline)

	require.NoError(t, m.RemoveGoal(0))
	goals = m.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, 7, goals[0].Timeline, "order is preserved after removal")

	assert.Error(t, m.UpdateGoal(5, "goal", "x"))
	assert.Error(t, m.RemoveGoal(-1))
	assert.Error(t, m.UpdateGoal(0, "deadline", "x"))
}

func TestGoalEditsDoNotDetachSelection(t *testing.T) {
	m := NewModel()
	p := personaFixture("steady_saver", "Meera - The Steady Saver")
	require.False(t, m.SelectPersona(&p))

	m.AddGoal()
	require.NoError(t, m.UpdateGoal(0, "goal", "House"))

	assert.Equal(t, SelectionPersona, m.Selection().Kind, "goals live outside the persona draft")
}
