package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound means the visit table does not exist.
	ErrInputNotFound = errors.New("input table not found")

	// ErrOutputMissingOrInvalid means the previous document is absent,
	// unreadable, or has no "config" key. The config cannot be regenerated.
	ErrOutputMissingOrInvalid = errors.New("existing output missing or invalid")

	// ErrNoRows means the table has a header but no data rows.
	ErrNoRows = errors.New("input table has no data rows")
)

// ParseError reports a field that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s on line %d: invalid value %q: %v", e.Column, e.Line, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
