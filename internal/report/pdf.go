// Package report builds the downloadable asset-allocation PDF and mails it.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/finplan/advisor-service/internal/models"
	"github.com/finplan/advisor-service/internal/present"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// Params is everything the composer may render. Plan, Form and Goals are
// each optional; their sections are omitted independently.
type Params struct {
	ClientName  string
	ClientEmail string
	Rows        []present.AllocationRow
	Total       float64
	Plan        *models.PlanResponse
	Form        *models.ProfileDraft
	Goals       []models.Goal
}

// Filename returns a download name unique across repeated downloads in the
// same session.
func Filename() string {
	return fmt.Sprintf("asset-allocation-report-%d.pdf", time.Now().UnixMilli())
}

type composer struct {
	pdf    *fpdf.Fpdf
	params Params
}

// Generate renders the two-section report: client/profile overview first,
// then one card per allocation.
func Generate(p Params) ([]byte, error) {
	c := &composer{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		params: p,
	}
	c.pdf.SetMargins(marginLeft, marginTop, marginRight)
	c.pdf.SetAutoPageBreak(true, marginBottom)

	c.addOverviewPage()
	c.addAllocationsPage()

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *composer) addOverviewPage() {
	c.pdf.AddPage()

	// Header
	c.pdf.SetFont("Arial", "B", 24)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(contentWidth, 12, "Personal Finance Report", "", 1, "L", false, 0, "")

	c.pdf.SetFont("Arial", "", 11)
	c.pdf.SetTextColor(75, 85, 99)
	c.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Name: %s", c.params.ClientName), "", 1, "L", false, 0, "")
	c.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Email: %s", c.params.ClientEmail), "", 1, "L", false, 0, "")
	c.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", c.generatedDate()), "", 1, "L", false, 0, "")
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.Line(marginLeft, c.pdf.GetY()+2, marginLeft+contentWidth, c.pdf.GetY()+2)
	c.pdf.Ln(8)

	// Total summary box
	c.pdf.SetFillColor(249, 250, 251)
	c.pdf.SetDrawColor(229, 231, 235)
	c.pdf.SetFont("Arial", "", 11)
	c.pdf.SetTextColor(75, 85, 99)
	c.pdf.CellFormat(contentWidth, 7, "Total Investment Amount", "LTR", 1, "L", true, 0, "")
	c.pdf.SetFont("Arial", "B", 20)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(contentWidth, 11, formatIndian(c.params.Total), "LBR", 1, "L", true, 0, "")
	c.pdf.Ln(8)

	if c.params.Form != nil {
		c.addProfileSection(*c.params.Form)
	}
	if len(c.params.Goals) > 0 {
		c.addGoalsSection(c.params.Goals)
	}

	c.addFooter()
}

func (c *composer) addProfileSection(form models.ProfileDraft) {
	c.sectionTitle("Personal Information & Financial Details")

	rows := [][2]string{
		{"Age:", fmt.Sprintf("%d years", form.Age)},
		{"Employment Type:", present.DisplayName(form.EmploymentType)},
		{"Dependents:", strconv.Itoa(form.Dependents)},
		{"Health Status:", present.DisplayName(form.HealthStatus)},
		{"Risk Appetite:", scaleLabel(form.RiskAppetite, "Conservative", "Moderate", "Aggressive")},
		{"Financial Maturity:", scaleLabel(form.FinancialMaturity, "Beginner", "Intermediate", "Advanced")},
		{"Market Outlook:", present.DisplayName(form.MarketOutlook)},
		{"Location:", present.DisplayName(form.Location)},
		{"Monthly Expenses:", formatIndian(form.MonthlyExpenses)},
		{"Savings Percentage:", fmt.Sprintf("%g%%", form.SavingsPercentage)},
		{"Real Estate Value:", formatIndian(form.RealEstateValue)},
		{"Housing Loan:", yesNo(form.IsHousingLoan)},
		{"Real Estate Type:", present.DisplayName(form.RealEstateType)},
		{"Current Savings:", formatIndian(form.CurrentSavings)},
		{"Debts:", formatIndian(form.Debts)},
		{"Business Value:", formatIndian(form.BusinessValue)},
	}

	for _, row := range rows {
		c.pdf.SetFont("Arial", "", 10)
		c.pdf.SetTextColor(107, 114, 128)
		c.pdf.CellFormat(contentWidth/2, 5, row[0], "", 0, "L", false, 0, "")
		c.pdf.SetFont("Arial", "B", 10)
		c.pdf.SetTextColor(0, 0, 0)
		c.pdf.CellFormat(contentWidth/2, 5, row[1], "", 1, "R", false, 0, "")
	}
	c.pdf.Ln(5)
}

func (c *composer) addGoalsSection(goals []models.Goal) {
	c.sectionTitle("Financial Goals")

	c.pdf.SetFont("Arial", "", 9)
	c.pdf.SetTextColor(55, 65, 81)
	for _, g := range goals {
		line := fmt.Sprintf("- %s - %s (Timeline: %d years, Priority: %d/10)",
			g.Goal, formatIndian(g.GoalValue), g.Timeline, g.Priority)
		c.pdf.CellFormat(contentWidth, 5, line, "", 1, "L", false, 0, "")
	}
	c.pdf.Ln(5)
}

func (c *composer) addAllocationsPage() {
	c.pdf.AddPage()

	title := "Asset Allocations"
	if n := len(c.params.Rows); n > 0 {
		title = fmt.Sprintf("Asset Allocations (%d categories)", n)
	}
	c.sectionTitle(title)

	for _, row := range c.params.Rows {
		// One bordered card per allocation: name, rounded percentage,
		// amount underneath.
		c.pdf.SetDrawColor(209, 213, 219)
		c.pdf.SetFont("Arial", "B", 13)
		c.pdf.SetTextColor(0, 0, 0)
		c.pdf.CellFormat(contentWidth-30, 8, row.Name, "LT", 0, "L", false, 0, "")
		c.pdf.SetFont("Arial", "B", 16)
		c.pdf.SetTextColor(55, 65, 81)
		c.pdf.CellFormat(30, 8, fmt.Sprintf("%d%%", int(math.Round(row.Percentage))), "TR", 1, "R", false, 0, "")
		c.pdf.SetFont("Arial", "", 12)
		c.pdf.SetTextColor(75, 85, 99)
		c.pdf.CellFormat(contentWidth, 7, formatIndian(row.Amount), "LBR", 1, "L", false, 0, "")
		c.pdf.Ln(3)
	}

	if c.params.Plan != nil && c.params.Plan.RetirementProjection != nil {
		c.addRetirementSection(*c.params.Plan.RetirementProjection)
	}

	c.addFooter()
}

func (c *composer) addRetirementSection(rp models.RetirementProjection) {
	c.pdf.Ln(4)
	c.sectionTitle("Retirement Projection")

	rows := [][2]string{
		{"Readiness:", fmt.Sprintf("%.1f%%", rp.ReadinessPercentage)},
		{"Target Corpus:", formatIndian(rp.TargetCorpus)},
		{"Current Corpus:", formatIndian(rp.CurrentCorpus)},
		{"Monthly Contribution:", formatIndian(rp.MonthlyContribution)},
		{"Years to Retirement:", fmt.Sprintf("%.0f", rp.YearsToRetirement)},
		{"Surplus / Deficit:", formatIndian(rp.SurplusDeficit)},
	}
	for _, row := range rows {
		c.pdf.SetFont("Arial", "", 10)
		c.pdf.SetTextColor(107, 114, 128)
		c.pdf.CellFormat(60, 5, row[0], "", 0, "L", false, 0, "")
		c.pdf.SetFont("Arial", "B", 10)
		c.pdf.SetTextColor(0, 0, 0)
		c.pdf.CellFormat(60, 5, row[1], "", 1, "L", false, 0, "")
	}
}

func (c *composer) sectionTitle(title string) {
	c.pdf.SetFont("Arial", "B", 14)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(contentWidth, 8, title, "", 1, "L", false, 0, "")
	c.pdf.SetDrawColor(229, 231, 235)
	c.pdf.Line(marginLeft, c.pdf.GetY(), marginLeft+contentWidth, c.pdf.GetY())
	c.pdf.Ln(4)
}

func (c *composer) addFooter() {
	c.pdf.SetY(-28)
	c.pdf.SetFont("Arial", "I", 9)
	c.pdf.SetTextColor(156, 163, 175)
	c.pdf.CellFormat(contentWidth, 4, "This report is generated by Personal Finance App", "", 1, "C", false, 0, "")
	c.pdf.CellFormat(contentWidth, 4, "For informational purposes only. Please consult a financial advisor for personalized advice.", "", 1, "C", false, 0, "")
}

// generatedDate prefers the engine's timestamp; a missing or unparsable
// one falls back to now.
func (c *composer) generatedDate() string {
	t := time.Now()
	if c.params.Plan != nil && c.params.Plan.Timestamp != "" {
		if parsed, err := parseTimestamp(c.params.Plan.Timestamp); err == nil {
			t = parsed
		}
	}
	return t.Format("2 January 2006")
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func scaleLabel(v int, low, mid, high string) string {
	switch {
	case v < 0:
		return low
	case v > 0:
		return high
	default:
		return mid
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// formatIndian renders an amount with en-IN digit grouping (12,34,567.89).
// The standard PDF fonts are Latin-1, so the report sticks to bare numbers
// the way the original did rather than a rupee glyph.
func formatIndian(n float64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	cents := int64(math.Round(n * 100))
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(groups, ",") + "," + tail
	}

	out := whole
	if frac != 0 {
		out = fmt.Sprintf("%s.%02d", whole, frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}
