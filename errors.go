package schwab

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAmount is returned when a monetary value cannot be parsed.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrInvalidDate is returned when a date does not match the source format.
	ErrInvalidDate = errors.New("invalid date")
	// ErrOrphanLotRow is returned when a lot detail row is not preceded by a sale.
	ErrOrphanLotRow = errors.New("lot row without a preceding sale")
	// ErrMissingColumn is returned when a required column is absent from a source header.
	ErrMissingColumn = errors.New("missing column")
)

// Source names a broker export.
type Source string

const (
	IndividualSource Source = "individual transactions"
	PlanSource       Source = "equity award transactions"
	RealizedSource   Source = "individual realized gains"
)

// RowError locates an error in a source export.
//
// Row is the 1-based line number in the source file (header included), or 0 when the error
// is not bound to a row.
type RowError struct {
	Source Source
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	switch {
	case e.Row == 0:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	case e.Column == "":
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Row, e.Err)
	default:
		return fmt.Sprintf("%s:%d: column %q: %v", e.Source, e.Row, e.Column, e.Err)
	}
}

func (e *RowError) Unwrap() error { return e.Err }
