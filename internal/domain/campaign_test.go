package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func visitRow(year int, month, epea, barco, tipo string, vars ...string) Row {
	if vars == nil {
		vars = []string{}
	}
	return Row{Year: year, MonthKey: month, EPEANro: epea, Barco: barco, Tipo: tipo, Variables: vars}
}

func TestBuildCampaigns_TwoVisitExample(t *testing.T) {
	rows := []Row{
		visitRow(2020, "ene", "E1", "B1", testTipo, "Temp"),
		visitRow(2020, "ene", "E2", "B2", testTipo, "Sal"),
	}
	years, err := ObservedYears(rows)
	require.NoError(t, err)

	campaigns := BuildCampaigns(GroupVisits(rows), years)
	require.Len(t, campaigns, 12)

	want := Campaign{
		Year:       2020,
		Month:      "ene",
		NroVisitas: strPtr("multiple"),
		Tipo:       testTipo,
		Barcos:     []Ship{{Code: "B1", Tipo: testTipo}, {Code: "B2", Tipo: testTipo}},
		Variables:  []string{"Temp", "Sal"},
		Visitas: []VisitDetail{
			{Barco: Ship{Code: "B1", Tipo: testTipo}, Variables: []string{"Temp"}},
			{Barco: Ship{Code: "B2", Tipo: testTipo}, Variables: []string{"Sal"}},
		},
	}
	if diff := cmp.Diff(want, campaigns[0]); diff != "" {
		t.Errorf("campaign mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCampaigns_Completeness(t *testing.T) {
	rows := []Row{
		visitRow(2019, "mar", "E1", "B1", testTipo, "Temp"),
		visitRow(2022, "dic", NA, NA, NA),
	}
	years, err := ObservedYears(rows)
	require.NoError(t, err)
	assert.Equal(t, YearRange{Min: 2019, Max: 2022}, years)

	campaigns := BuildCampaigns(GroupVisits(rows), years)
	require.Len(t, campaigns, 4*12)

	for i, c := range campaigns {
		assert.Equal(t, 2019+i/12, c.Year, "campaign %d", i)
		assert.Equal(t, MonthCycle[i%12], c.Month, "campaign %d", i)
	}
	assert.Equal(t, "2019-mar", campaigns[2].Key())
	assert.True(t, campaigns[2].HasData())
}

func TestBuildCampaigns_UnobservedYearInsideRange(t *testing.T) {
	rows := []Row{
		visitRow(2018, "ene", "E1", "B1", testTipo, "Temp"),
		visitRow(2020, "ene", "E2", "B1", testTipo, "Temp"),
	}
	years, err := ObservedYears(rows)
	require.NoError(t, err)

	campaigns := BuildCampaigns(GroupVisits(rows), years)
	require.Len(t, campaigns, 36)
	for _, c := range campaigns[12:24] {
		assert.Equal(t, 2019, c.Year)
		assert.Nil(t, c.NroVisitas)
	}
}

func TestNewCampaign_EmptyPlaceholder(t *testing.T) {
	c := NewCampaign(2021, "jul", nil)

	assert.Nil(t, c.NroVisitas)
	assert.Equal(t, NA, c.Tipo)
	assert.NotNil(t, c.Barcos)
	assert.NotNil(t, c.Variables)
	assert.NotNil(t, c.Visitas)
	assert.Empty(t, c.Barcos)
	assert.Empty(t, c.Variables)
	assert.Empty(t, c.Visitas)
	assert.False(t, c.HasData())
}

func TestNewCampaign_VisitCount(t *testing.T) {
	one := []Visit{{BarcoCode: "B1", Tipo: testTipo}}
	two := append(one, Visit{BarcoCode: "B2", Tipo: testTipo})
	three := append(two, Visit{BarcoCode: "B1", Tipo: testTipo})

	tests := []struct {
		name     string
		visits   []Visit
		expected *string
	}{
		{"none", nil, nil},
		{"one", one, strPtr("unica")},
		{"two", two, strPtr("multiple")},
		{"three", three, strPtr("multiple")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCampaign(2020, "feb", tt.visits)
			assert.Equal(t, tt.expected, c.NroVisitas)
			assert.Len(t, c.Barcos, len(tt.visits))
			assert.Len(t, c.Visitas, len(tt.visits))
		})
	}
}

func TestNewCampaign_Tipo(t *testing.T) {
	tests := []struct {
		name     string
		tipos    []string
		expected string
	}{
		{"single", []string{"rutina"}, "rutina"},
		{"shared", []string{"rutina", "rutina"}, "rutina"},
		{"distinct", []string{"rutina", "extra"}, "rutina_extra"},
		{"first seen order", []string{"extra", "rutina", "extra", "piloto"}, "extra_rutina_piloto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visits := make([]Visit, len(tt.tipos))
			for i, tipo := range tt.tipos {
				visits[i] = Visit{BarcoCode: "B", Tipo: tipo}
			}
			assert.Equal(t, tt.expected, NewCampaign(2020, "abr", visits).Tipo)
		})
	}
}

func TestNewCampaign_VariableUnionIsCanonical(t *testing.T) {
	visits := []Visit{
		{BarcoCode: "B1", Tipo: testTipo, Variables: []string{"ZOO", "ICTIO"}},
		{BarcoCode: "B2", Tipo: testTipo, Variables: []string{"Temp", "ZOO"}},
		{BarcoCode: "B3", Tipo: testTipo, Variables: []string{"pH"}},
	}

	c := NewCampaign(2020, "may", visits)

	assert.Equal(t, []string{"Temp", "pH", "ZOO", "ICTIO"}, c.Variables)
	assert.Equal(t, []string{"ZOO", "ICTIO"}, c.Visitas[0].Variables)
	assert.Equal(t, []string{"Temp", "ZOO"}, c.Visitas[1].Variables)
	for i := range c.Barcos {
		assert.Equal(t, c.Barcos[i], c.Visitas[i].Barco)
	}
}

func TestNewCampaign_VisitWithoutVariables(t *testing.T) {
	c := NewCampaign(2020, "jun", []Visit{{BarcoCode: "B1", Tipo: testTipo}})

	assert.Equal(t, strPtr("unica"), c.NroVisitas)
	assert.NotNil(t, c.Visitas[0].Variables)
	assert.Empty(t, c.Variables)
	assert.False(t, c.HasData())
}

func TestGroupVisits(t *testing.T) {
	rows := []Row{
		visitRow(2020, "ene", "E1", "B1", testTipo),
		visitRow(2020, "ene", NA, "B2", testTipo),
		visitRow(2020, "ene", "E3", "B3", "extra"),
		visitRow(2021, "ene", "E4", "B4", testTipo),
	}

	groups := GroupVisits(rows)

	require.Len(t, groups[CampaignKey{2020, "ene"}], 2)
	assert.Equal(t, "B1", groups[CampaignKey{2020, "ene"}][0].BarcoCode)
	assert.Equal(t, "B3", groups[CampaignKey{2020, "ene"}][1].BarcoCode)
	assert.Len(t, groups[CampaignKey{2021, "ene"}], 1)
}

func TestGroupVisits_UnknownMonthKeyIsNeverEmitted(t *testing.T) {
	rows := []Row{visitRow(2020, "january", "E1", "B1", testTipo, "Temp")}
	years, err := ObservedYears(rows)
	require.NoError(t, err)

	for _, c := range BuildCampaigns(GroupVisits(rows), years) {
		assert.False(t, c.HasData())
	}
}

func TestObservedYears_NoRows(t *testing.T) {
	_, err := ObservedYears(nil)
	require.ErrorIs(t, err, ErrNoRows)
}

func TestCoverageOf(t *testing.T) {
	campaigns := []Campaign{
		NewCampaign(2020, "ene", []Visit{{BarcoCode: "B1", Tipo: testTipo, Variables: []string{"Temp"}}}),
		NewCampaign(2020, "feb", []Visit{{BarcoCode: "B1", Tipo: testTipo}}),
		NewCampaign(2020, "mar", nil),
	}

	assert.Equal(t, Coverage{Total: 3, WithData: 1, WithoutData: 2}, CoverageOf(campaigns))
}
