package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/epea-data-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedTableReadsBack(t *testing.T) {
	records := generate(rand.New(rand.NewPCG(7, 7^0x5eed)), 2019, 2021)
	path := filepath.Join(t.TempDir(), "tablita_V2.csv")
	require.NoError(t, writeTable(path, records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\ufeff", string(raw[:3]), "table starts with a byte order mark")

	visits := 0
	for _, rec := range records[1:] {
		if rec[0] != domain.NA {
			visits++
		}
	}

	build, err := readBack(path)
	require.NoError(t, err)
	assert.Equal(t, domain.YearRange{Min: 2019, Max: 2021}, build.Years)
	assert.Len(t, build.Campaigns, 3*len(domain.MonthCycle))
	assert.Equal(t, visits, build.Visits)
}

func TestWriteSeedDocumentKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epea_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"config":{"titulo":"EPEA"}}`), 0o644))

	require.NoError(t, writeSeedDocument(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"config":{"titulo":"EPEA"}}`, string(data))
}
