package domain

// NA is the table's sentinel for a missing value.
const NA = "NA"

// Source column names.
const (
	ColEPEANro    = "EPEA_Nro"
	ColCruise     = "Cruise"
	ColYear       = "Year"
	ColMonth      = "Month"
	ColDay        = "Day"
	ColTipoVisita = "Tipo_visita"
	ColMonthKey   = "Month_"
	ColBarco      = "Barco"
)

// VariableOrder is the canonical order of the measured-variable columns.
var VariableOrder = []string{
	"Temp", "Sal", "NTS", "OD", "pH", "AT", "Cla",
	"ABSO", "CDOM", "PP", "BACT", "FITO", "ZOO", "ICTIO",
}

// MonthCycle is the fixed month iteration order.
var MonthCycle = []string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// Row is one record of the visit table, trimmed.
type Row struct {
	Line      int // 1-based line in the source file, header is line 1
	EPEANro   string
	Cruise    string
	Year      int
	MonthNum  string
	Day       string
	Tipo      string
	MonthKey  string
	Barco     string
	Variables []string // measured variables, in VariableOrder
}

// Visit is a ship visit extracted from a non-placeholder row.
type Visit struct {
	BarcoCode string
	Tipo      string
	Variables []string
}

// Visit returns the row's visit, or false for placeholder rows.
func (r Row) Visit() (Visit, bool) {
	if r.EPEANro == NA || r.Barco == NA {
		return Visit{}, false
	}
	return Visit{BarcoCode: r.Barco, Tipo: r.Tipo, Variables: r.Variables}, true
}

// Ship identifies the vessel of a visit.
type Ship struct {
	Code string `json:"code"`
	Tipo string `json:"tipo"`
}

// VisitDetail is a single visit as rendered in a campaign.
type VisitDetail struct {
	Barco     Ship     `json:"barco"`
	Variables []string `json:"variables"`
}

// Campaign summarizes one (year, month) slot.
type Campaign struct {
	Year       int           `json:"year"`
	Month      string        `json:"month"`
	NroVisitas *string       `json:"nro_visitas"`
	Tipo       string        `json:"tipo"`
	Barcos     []Ship        `json:"barcos"`
	Variables  []string      `json:"variables"`
	Visitas    []VisitDetail `json:"visitas"`
}

// Key returns the campaign's "<year>-<month>" identifier.
func (c Campaign) Key() string {
	return CampaignKey{Year: c.Year, Month: c.Month}.String()
}

// HasData reports whether any variable was measured in the slot.
func (c Campaign) HasData() bool { return len(c.Variables) > 0 }
