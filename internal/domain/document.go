package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Metadata describes the document as a whole.
type Metadata struct {
	LastUpdated string   `json:"lastUpdated"`
	YearRange   [2]int   `json:"yearRange"`
	Months      []string `json:"months"`
}

// Document is the JSON file consumed by the front end. Config is opaque and
// copied from the previous document.
type Document struct {
	Metadata  Metadata        `json:"metadata"`
	Config    json.RawMessage `json:"config"`
	Campaigns []Campaign      `json:"campañas"`
}

// NewDocument stamps the campaigns with today's date and the year range.
func NewDocument(campaigns []Campaign, years YearRange, config json.RawMessage) Document {
	return Document{
		Metadata: Metadata{
			LastUpdated: Today(),
			YearRange:   [2]int{years.Min, years.Max},
			Months:      slices.Clone(MonthCycle),
		},
		Config:    config,
		Campaigns: campaigns,
	}
}

// Encode writes the document as two-space indented JSON with non-ASCII and
// HTML characters left literal, followed by a newline.
func (d Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
