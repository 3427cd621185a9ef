// Command genmock writes a deterministic sample visit table and, when none
// exists yet, a seed campaign document, so the converter can be run locally
// without the station's real spreadsheet.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -from 2015 -to 2024 -seed 7
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/epea-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/epea-data-etl/internal/domain"
	"github.com/couchcryptid/epea-data-etl/internal/pipeline"
)

const seedDocument = `{
  "metadata": {},
  "config": {},
  "campañas": []
}
`

var (
	ships = []string{"BO", "CE", "PD"}
	tipos = []string{"rutina", "rutina", "rutina", "extra"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/mock", "directory for tablita_V2.csv and epea_data.json")
	from := flag.Int("from", 2015, "first year")
	to := flag.Int("to", 2024, "last year")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *from > *to {
		flag.Usage()
		return fmt.Errorf("-from %d is after -to %d", *from, *to)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5eed))
	records := generate(rng, *from, *to)

	csvPath := filepath.Join(*outDir, "tablita_V2.csv")
	if err := writeTable(csvPath, records); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	log.Printf("wrote table: %s (%d rows)", csvPath, len(records)-1)

	docPath := filepath.Join(*outDir, "epea_data.json")
	if err := writeSeedDocument(docPath); err != nil {
		return fmt.Errorf("writing seed document: %w", err)
	}

	return printStats(csvPath)
}

// generate builds the header plus one or more rows per month. Months without
// a visit get a single "NA" placeholder row, as in the station's sheet.
func generate(rng *rand.Rand, from, to int) [][]string {
	header := []string{
		domain.ColEPEANro, domain.ColCruise, domain.ColYear, domain.ColMonth,
		domain.ColDay, domain.ColTipoVisita, domain.ColMonthKey, domain.ColBarco,
	}
	header = append(header, domain.VariableOrder...)
	records := [][]string{header}

	nro := 1
	for year := from; year <= to; year++ {
		for m, month := range domain.MonthCycle {
			visits := rng.IntN(3)
			if visits == 0 {
				records = append(records, placeholder(year, m+1, month))
				continue
			}
			for range visits {
				records = append(records, visitRecord(rng, nro, year, m+1, month))
				nro++
			}
		}
	}
	return records
}

func placeholder(year, monthNum int, month string) []string {
	rec := []string{domain.NA, domain.NA, strconv.Itoa(year), strconv.Itoa(monthNum), domain.NA, domain.NA, month, domain.NA}
	for range domain.VariableOrder {
		rec = append(rec, domain.NA)
	}
	return rec
}

func visitRecord(rng *rand.Rand, nro, year, monthNum int, month string) []string {
	ship := ships[rng.IntN(len(ships))]
	rec := []string{
		strconv.Itoa(nro),
		fmt.Sprintf("%s-%02d/%02d", ship, monthNum, year%100),
		strconv.Itoa(year),
		strconv.Itoa(monthNum),
		strconv.Itoa(1 + rng.IntN(28)),
		tipos[rng.IntN(len(tipos))],
		month,
		ship,
	}
	for range domain.VariableOrder {
		switch rng.IntN(4) {
		case 0:
			rec = append(rec, domain.NA)
		case 1:
			rec = append(rec, "")
		default:
			rec = append(rec, strconv.FormatFloat(rng.Float64()*40, 'f', 2, 64))
		}
	}
	return rec
}

func writeTable(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString("\ufeff"); err != nil {
		return err
	}
	w := csv.NewWriter(bw)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return bw.Flush()
}

// writeSeedDocument creates the document only if it does not exist yet,
// so an operator-authored config is never overwritten.
func writeSeedDocument(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		log.Printf("kept existing document: %s", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(seedDocument); err != nil {
		return err
	}
	log.Printf("wrote seed document: %s", path)
	return nil
}

// readBack decodes the written table the same way the converter does.
func readBack(path string) (pipeline.Build, error) {
	rows, err := csvfile.NewReader(path, ',', slog.Default()).ReadRows(context.Background())
	if err != nil {
		return pipeline.Build{}, err
	}
	return pipeline.Transform(rows)
}

func printStats(path string) error {
	build, err := readBack(path)
	if err != nil {
		return fmt.Errorf("reading back table: %w", err)
	}
	cov := domain.CoverageOf(build.Campaigns)
	fmt.Printf("Years: %s\n", build.Years)
	fmt.Printf("Visits: %d\n", build.Visits)
	fmt.Printf("Campaigns: %d (with data %d, without data %d)\n", cov.Total, cov.WithData, cov.WithoutData)
	return nil
}
