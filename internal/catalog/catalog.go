package catalog

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/finplan/advisor-service/internal/models"
)

//go:embed personas.xml
var personasXML []byte

// Fallback identity used when a selected tag is missing from the catalog.
const (
	FallbackTag        = "fresh_start"
	FallbackNameSuffix = "The Fresh Start"
)

// Catalog is the fixed, read-only persona set. Loaded once at startup.
type Catalog struct {
	personas []models.Persona
	byTag    map[string]models.Persona
}

// Load parses the embedded persona document.
func Load() (*Catalog, error) {
	return parse(personasXML)
}

func parse(raw []byte) (*Catalog, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse persona catalog: %w", err)
	}

	elems := doc.FindElements("//personas/persona")
	if len(elems) == 0 {
		return nil, fmt.Errorf("persona catalog is empty")
	}

	c := &Catalog{byTag: make(map[string]models.Persona, len(elems))}
	for _, el := range elems {
		p, err := parsePersona(el)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byTag[p.Tag]; dup {
			return nil, fmt.Errorf("duplicate persona tag %q", p.Tag)
		}
		c.personas = append(c.personas, p)
		c.byTag[p.Tag] = p
	}
	return c, nil
}

func parsePersona(el *etree.Element) (models.Persona, error) {
	p := models.Persona{
		Tag:  el.SelectAttrValue("tag", ""),
		Name: el.SelectAttrValue("name", ""),
	}
	if p.Tag == "" || p.Name == "" {
		return p, fmt.Errorf("persona is missing tag or name")
	}

	demo := el.FindElement("./demographics")
	fin := el.FindElement("./financials")
	if demo == nil || fin == nil {
		return p, fmt.Errorf("persona %q is missing demographics or financials", p.Tag)
	}

	p.Demographics = models.Demographics{
		Age:               attrInt(demo, "age"),
		EmploymentType:    demo.SelectAttrValue("employment_type", ""),
		Dependents:        attrInt(demo, "dependents"),
		HealthStatus:      demo.SelectAttrValue("health_status", ""),
		RiskAppetite:      attrInt(demo, "risk_appetite"),
		FinancialMaturity: attrInt(demo, "financial_maturity"),
		MarketOutlook:     demo.SelectAttrValue("market_outlook", ""),
		Location:          demo.SelectAttrValue("location", ""),
	}
	p.Financials = models.Financials{
		MonthlyExpenses:              attrFloat(fin, "monthly_expenses"),
		SavingsPercentage:            attrFloat(fin, "savings_percentage"),
		RealEstateValue:              attrFloat(fin, "real_estate_value"),
		IsHousingLoan:                attrBool(fin, "is_housing_loan"),
		RealEstateType:               fin.SelectAttrValue("real_estate_type", ""),
		CurrentSavingsAndInvestments: attrFloat(fin, "current_savings_and_investments"),
		Debts:                        attrFloat(fin, "debts"),
		BusinessValue:                attrFloat(fin, "business_value"),
	}
	return p, nil
}

func attrInt(el *etree.Element, name string) int {
	v, _ := strconv.Atoi(el.SelectAttrValue(name, "0"))
	return v
}

func attrFloat(el *etree.Element, name string) float64 {
	v, _ := strconv.ParseFloat(el.SelectAttrValue(name, "0"), 64)
	return v
}

func attrBool(el *etree.Element, name string) bool {
	v, _ := strconv.ParseBool(el.SelectAttrValue(name, "false"))
	return v
}

// Personas returns the catalog in document order.
func (c *Catalog) Personas() []models.Persona {
	return c.personas
}

// FindByTag looks a persona up by its unique tag.
func (c *Catalog) FindByTag(tag string) (models.Persona, bool) {
	p, ok := c.byTag[tag]
	return p, ok
}
