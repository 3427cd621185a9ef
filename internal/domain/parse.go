package domain

import (
	"strconv"
	"strings"
)

// ParseRow converts a header-keyed table record into a Row. Absent columns
// read as "NA". Only the Year column is typed; a non-integer year fails with
// a *ParseError.
func ParseRow(line int, fields map[string]string) (Row, error) {
	get := func(col string) string {
		v, ok := fields[col]
		if !ok {
			v = NA
		}
		return strings.TrimSpace(v)
	}

	yearStr := get(ColYear)
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Row{}, &ParseError{Line: line, Column: ColYear, Value: yearStr, Err: err}
	}

	return Row{
		Line:      line,
		EPEANro:   get(ColEPEANro),
		Cruise:    get(ColCruise),
		Year:      year,
		MonthNum:  get(ColMonth),
		Day:       get(ColDay),
		Tipo:      get(ColTipoVisita),
		MonthKey:  get(ColMonthKey),
		Barco:     get(ColBarco),
		Variables: measuredVariables(fields),
	}, nil
}

// measuredVariables lists the variable columns holding a value, in
// VariableOrder regardless of the file's column order.
func measuredVariables(fields map[string]string) []string {
	vars := make([]string, 0, len(VariableOrder))
	for _, name := range VariableOrder {
		if isMeasured(fields[name]) {
			vars = append(vars, name)
		}
	}
	return vars
}

func isMeasured(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && value != NA
}
