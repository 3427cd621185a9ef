// Command validate checks a written campaign document against the
// invariants the front end relies on, and optionally verifies that
// rebuilding it from the source table reproduces the same campaigns.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -json data/epea_data.json \
//	  -csv data/tablita_V2.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/epea-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/epea-data-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/epea-data-etl/internal/domain"
	"github.com/couchcryptid/epea-data-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	jsonPath := flag.String("json", "", "path to the campaign document")
	csvPath := flag.String("csv", "", "optional path to the source visit table")
	delimiter := flag.String("delimiter", ",", "source table delimiter")
	flag.Parse()

	if *jsonPath == "" || utf8.RuneCountInString(*delimiter) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*jsonPath, *csvPath, []rune(*delimiter)[0]); code != 0 {
		os.Exit(code)
	}
}

func run(jsonPath, csvPath string, delimiter rune) int {
	fmt.Println("=== EPEA Campaign Document Validation ===")
	fmt.Println()

	doc, err := jsonfile.LoadDocument(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load document: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCalendar(doc),
		validateCampaigns(doc.Campaigns),
	}

	if csvPath != "" {
		rows, err := csvfile.NewReader(csvPath, delimiter, discardLogger()).ReadRows(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load source table: %v\n", err)
			return 1
		}
		phases = append(phases, validateRebuild(doc, rows))
	}

	return report(phases, doc)
}

func report(phases []*phase, doc domain.Document) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	cov := domain.CoverageOf(doc.Campaigns)
	fmt.Println()
	fmt.Printf("Campaigns: %d total, %d with data, %d without data (years %d-%d, updated %s)\n",
		cov.Total, cov.WithData, cov.WithoutData,
		doc.Metadata.YearRange[0], doc.Metadata.YearRange[1], doc.Metadata.LastUpdated)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Calendar ──
// One campaign per (year, month), years ascending, months in cycle order.

func validateCalendar(doc domain.Document) *phase {
	p := &phase{name: "Phase 1: Calendar completeness"}

	if !slices.Equal(doc.Metadata.Months, domain.MonthCycle) {
		p.errorf("metadata.months = %v, want %v", doc.Metadata.Months, domain.MonthCycle)
	}

	minYear, maxYear := doc.Metadata.YearRange[0], doc.Metadata.YearRange[1]
	if minYear > maxYear {
		p.errorf("yearRange [%d, %d] is inverted", minYear, maxYear)
		return p
	}

	want := (maxYear - minYear + 1) * len(domain.MonthCycle)
	if len(doc.Campaigns) != want {
		p.errorf("campañas has %d entries, want %d for years %d-%d", len(doc.Campaigns), want, minYear, maxYear)
	}

	for i, c := range doc.Campaigns {
		year := minYear + i/len(domain.MonthCycle)
		month := domain.MonthCycle[i%len(domain.MonthCycle)]
		if c.Year != year || c.Month != month {
			p.errorf("campaign %d is %s, want %d-%s", i, c.Key(), year, month)
		}
	}
	return p
}

// ── Phase 2: Campaign invariants ──
// Derived fields agree with the campaign's own visits.

func validateCampaigns(campaigns []domain.Campaign) *phase {
	p := &phase{name: "Phase 2: Campaign invariants"}

	for _, c := range campaigns {
		key := c.Key()

		if c.Barcos == nil || c.Variables == nil || c.Visitas == nil {
			p.errorf("%s: barcos, variables and visitas must be lists", key)
			continue
		}
		if len(c.Barcos) != len(c.Visitas) {
			p.errorf("%s: %d barcos but %d visitas", key, len(c.Barcos), len(c.Visitas))
			continue
		}
		for i := range c.Barcos {
			if c.Barcos[i] != c.Visitas[i].Barco {
				p.errorf("%s: barcos[%d]=%v differs from visitas[%d].barco=%v", key, i, c.Barcos[i], i, c.Visitas[i].Barco)
			}
		}

		visits := make([]domain.Visit, len(c.Visitas))
		for i, v := range c.Visitas {
			visits[i] = domain.Visit{BarcoCode: v.Barco.Code, Tipo: v.Barco.Tipo, Variables: v.Variables}
		}
		want := domain.NewCampaign(c.Year, c.Month, visits)

		if got, exp := visitCount(c.NroVisitas), visitCount(want.NroVisitas); got != exp {
			p.errorf("%s: nro_visitas=%s with %d visits, want %s", key, got, len(c.Visitas), exp)
		}
		if c.Tipo != want.Tipo {
			p.errorf("%s: tipo=%q, want %q", key, c.Tipo, want.Tipo)
		}
		if !slices.Equal(c.Variables, want.Variables) {
			p.errorf("%s: variables=%v, want canonical union %v", key, c.Variables, want.Variables)
		}
		for _, name := range c.Variables {
			if !slices.Contains(domain.VariableOrder, name) {
				p.errorf("%s: unknown variable %q", key, name)
			}
		}
	}
	return p
}

func visitCount(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

// ── Phase 3: Source rebuild ──
// Rebuilding from the table must reproduce the document's campaigns.

func validateRebuild(doc domain.Document, rows []domain.Row) *phase {
	p := &phase{name: "Phase 3: Rebuild from source table"}

	build, err := pipeline.Transform(rows)
	if err != nil {
		p.errorf("rebuild: %v", err)
		return p
	}

	if got := [2]int{build.Years.Min, build.Years.Max}; got != doc.Metadata.YearRange {
		p.errorf("source years %v, document yearRange %v", got, doc.Metadata.YearRange)
	}
	if diff := cmp.Diff(build.Campaigns, doc.Campaigns); diff != "" {
		for _, line := range strings.Split(strings.TrimSpace(diff), "\n") {
			p.errorf("%s", line)
		}
	}
	return p
}
