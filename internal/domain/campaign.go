package domain

import (
	"fmt"
	"strings"
)

const (
	visitsSingle   = "unica"
	visitsMultiple = "multiple"
)

// CampaignKey identifies a (year, month) slot.
type CampaignKey struct {
	Year  int
	Month string
}

func (k CampaignKey) String() string {
	return fmt.Sprintf("%d-%s", k.Year, k.Month)
}

// YearRange is the inclusive span of observed years.
type YearRange struct {
	Min int
	Max int
}

// Years returns the number of years in the range.
func (r YearRange) Years() int { return r.Max - r.Min + 1 }

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ObservedYears returns the span of years across all rows, placeholders
// included. It fails with ErrNoRows when rows is empty.
func ObservedYears(rows []Row) (YearRange, error) {
	if len(rows) == 0 {
		return YearRange{}, ErrNoRows
	}
	r := YearRange{Min: rows[0].Year, Max: rows[0].Year}
	for _, row := range rows[1:] {
		r.Min = min(r.Min, row.Year)
		r.Max = max(r.Max, row.Year)
	}
	return r, nil
}

// GroupVisits partitions the rows' visits by (year, month key), keeping
// input order within each slot. Placeholder rows contribute nothing.
func GroupVisits(rows []Row) map[CampaignKey][]Visit {
	groups := make(map[CampaignKey][]Visit)
	for _, row := range rows {
		visit, ok := row.Visit()
		if !ok {
			continue
		}
		key := CampaignKey{Year: row.Year, Month: row.MonthKey}
		groups[key] = append(groups[key], visit)
	}
	return groups
}

// BuildCampaigns emits one campaign per year in years and month in
// MonthCycle, years ascending, months in cycle order.
func BuildCampaigns(groups map[CampaignKey][]Visit, years YearRange) []Campaign {
	campaigns := make([]Campaign, 0, years.Years()*len(MonthCycle))
	for year := years.Min; year <= years.Max; year++ {
		for _, month := range MonthCycle {
			campaigns = append(campaigns, NewCampaign(year, month, groups[CampaignKey{Year: year, Month: month}]))
		}
	}
	return campaigns
}

// NewCampaign summarizes the visits of one slot. With no visits it returns
// the empty placeholder.
func NewCampaign(year int, month string, visits []Visit) Campaign {
	c := Campaign{
		Year:      year,
		Month:     month,
		Tipo:      NA,
		Barcos:    []Ship{},
		Variables: []string{},
		Visitas:   []VisitDetail{},
	}
	if len(visits) == 0 {
		return c
	}

	count := visitsMultiple
	if len(visits) == 1 {
		count = visitsSingle
	}
	c.NroVisitas = &count
	c.Tipo = campaignTipo(visits)

	measured := make(map[string]bool)
	for _, v := range visits {
		ship := Ship{Code: v.BarcoCode, Tipo: v.Tipo}
		vars := v.Variables
		if vars == nil {
			vars = []string{}
		}
		c.Barcos = append(c.Barcos, ship)
		c.Visitas = append(c.Visitas, VisitDetail{Barco: ship, Variables: vars})
		for _, name := range vars {
			measured[name] = true
		}
	}
	for _, name := range VariableOrder {
		if measured[name] {
			c.Variables = append(c.Variables, name)
		}
	}
	return c
}

// campaignTipo joins the distinct visit types in first-seen order.
func campaignTipo(visits []Visit) string {
	seen := make(map[string]bool, len(visits))
	var tipos []string
	for _, v := range visits {
		if seen[v.Tipo] {
			continue
		}
		seen[v.Tipo] = true
		tipos = append(tipos, v.Tipo)
	}
	return strings.Join(tipos, "_")
}

// Coverage counts campaigns with and without measured variables.
type Coverage struct {
	Total       int
	WithData    int
	WithoutData int
}

// CoverageOf tallies the campaigns.
func CoverageOf(campaigns []Campaign) Coverage {
	cov := Coverage{Total: len(campaigns)}
	for _, c := range campaigns {
		if c.HasData() {
			cov.WithData++
		}
	}
	cov.WithoutData = cov.Total - cov.WithData
	return cov
}
