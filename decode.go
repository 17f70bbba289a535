package schwab

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// this file contains the decoders of the three broker exports.
// Each export is validated once here: the rest of the package works on typed rows.

// Column names of the broker exports.
const (
	colDate                    = "Date"
	colAction                  = "Action"
	colSymbol                  = "Symbol"
	colQuantity                = "Quantity"
	colAmount                  = "Amount"
	colType                    = "Type"
	colShares                  = "Shares"
	colSalePrice               = "SalePrice"
	colPurchaseFairMarketValue = "PurchaseFairMarketValue"
	colVestFairMarketValue     = "VestFairMarketValue"
	colPurchaseDate            = "PurchaseDate"
	colVestDate                = "VestDate"
	colClosedDate              = "Closed Date"
	colOpenedDate              = "Opened Date"
	colProceeds                = "Proceeds"
	colCostBasisCB             = "Cost Basis (CB)"
)

// DecodeIndividual decodes the individual account transactions export.
//
// Required columns are Date, Action, Symbol and Amount. Quantity is optional.
// The "Transactions Total" trailer is ignored.
func DecodeIndividual(r io.Reader) ([]IndividualRow, error) {
	var rows []IndividualRow
	err := decodeCSV(IndividualSource, r, 0, []string{colDate, colAction, colSymbol, colAmount}, func(c cells) error {
		if strings.HasPrefix(c.get(colDate), "Transactions Total") {
			return nil
		}
		on, err := c.date(colDate)
		if err != nil {
			return err
		}
		quantity, err := c.optionalDecimal(colQuantity)
		if err != nil {
			return err
		}
		amount, err := c.optionalDecimal(colAmount)
		if err != nil {
			return err
		}
		rows = append(rows, IndividualRow{
			Line:     c.line,
			Date:     on,
			Action:   c.get(colAction),
			Symbol:   c.get(colSymbol),
			Quantity: quantity,
			Amount:   amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecodePlan decodes the equity award account transactions export.
//
// Required columns are Date, Action, Symbol and Amount. Rows with an empty Date are lot
// detail rows, decoded with their lot columns (Type, Shares, SalePrice,
// PurchaseFairMarketValue, VestFairMarketValue, PurchaseDate, VestDate).
func DecodePlan(r io.Reader) ([]PlanRow, error) {
	var rows []PlanRow
	err := decodeCSV(PlanSource, r, 0, []string{colDate, colAction, colSymbol, colAmount}, func(c cells) error {
		var row PlanRow
		row.Line = c.line
		if c.get(colDate) != "" {
			on, err := c.date(colDate)
			if err != nil {
				return err
			}
			row.Date = on
		}
		row.Action = c.get(colAction)
		row.Symbol = c.get(colSymbol)
		row.Type = c.get(colType)

		var err error
		for _, f := range []struct {
			col string
			dst *decimal.NullDecimal
		}{
			{colQuantity, &row.Quantity},
			{colAmount, &row.Amount},
			{colShares, &row.Shares},
			{colSalePrice, &row.SalePrice},
			{colPurchaseFairMarketValue, &row.PurchaseFairMarketValue},
			{colVestFairMarketValue, &row.VestFairMarketValue},
		} {
			if *f.dst, err = c.optionalDecimal(f.col); err != nil {
				return err
			}
		}
		if row.PurchaseDate, err = c.optionalDate(colPurchaseDate); err != nil {
			return err
		}
		if row.VestDate, err = c.optionalDate(colVestDate); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecodeRealizedGains decodes the individual account realized gains export.
//
// The export starts with a title line that is skipped, then a header with at least
// Closed Date, Symbol, Quantity, Proceeds, Cost Basis (CB) and Opened Date.
// An Opened Date of "Various" (lots bought on several days) decodes as the zero date.
func DecodeRealizedGains(r io.Reader) ([]RealizedGainRow, error) {
	br := bufio.NewReader(r)
	if _, err := br.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil // title only, or empty
		}
		return nil, fmt.Errorf("decode error: %s: %w", RealizedSource, err)
	}

	var rows []RealizedGainRow
	required := []string{colClosedDate, colSymbol, colQuantity, colProceeds, colCostBasisCB, colOpenedDate}
	err := decodeCSV(RealizedSource, br, 1, required, func(c cells) error {
		if strings.HasPrefix(c.get(colSymbol), "Total") {
			return nil
		}
		closed, err := c.date(colClosedDate)
		if err != nil {
			return err
		}
		var opened date.Date
		if !strings.EqualFold(c.get(colOpenedDate), "Various") {
			if opened, err = c.optionalDate(colOpenedDate); err != nil {
				return err
			}
		}
		quantity, err := c.optionalDecimal(colQuantity)
		if err != nil {
			return err
		}
		proceeds, err := c.decimal(colProceeds)
		if err != nil {
			return err
		}
		basis, err := c.decimal(colCostBasisCB)
		if err != nil {
			return err
		}
		rows = append(rows, RealizedGainRow{
			Line:       c.line,
			ClosedDate: closed,
			OpenedDate: opened,
			Symbol:     c.get(colSymbol),
			Quantity:   quantity,
			Proceeds:   proceeds,
			CostBasis:  basis,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// decodeCSV reads a CSV document with a header line and calls fn for each record.
// skipped is the number of lines already consumed from the source, to report accurate lines.
func decodeCSV(src Source, r io.Reader, skipped int, required []string, fn func(cells) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil // an empty export has no rows
	}
	if err != nil {
		return fmt.Errorf("decode error: %s: %w", src, err)
	}
	h := make(map[string]int, len(rec))
	for i, name := range rec {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return &RowError{Source: src, Row: skipped + 1, Column: col, Err: ErrMissingColumn}
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode error: %s: %w", src, err)
		}
		line, _ := cr.FieldPos(0)
		c := cells{src: src, line: skipped + line, rec: rec, header: h}
		if c.blank() {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
}

// cells gives access by column name to one record.
type cells struct {
	src    Source
	line   int
	rec    []string
	header map[string]int
}

// get returns the trimmed cell of column col, or "" if the column or the cell is missing.
func (c cells) get(col string) string {
	i, ok := c.header[col]
	if !ok || i >= len(c.rec) {
		return ""
	}
	return strings.TrimSpace(c.rec[i])
}

func (c cells) blank() bool {
	for _, v := range c.rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (c cells) errorf(col string, err error) error {
	return &RowError{Source: c.src, Row: c.line, Column: col, Err: err}
}

func (c cells) date(col string) (date.Date, error) {
	on, err := date.ParseUS(c.get(col))
	if err != nil {
		return date.Date{}, c.errorf(col, fmt.Errorf("%w: %v", ErrInvalidDate, err))
	}
	return on, nil
}

func (c cells) optionalDate(col string) (date.Date, error) {
	if c.get(col) == "" {
		return date.Date{}, nil
	}
	return c.date(col)
}

func (c cells) decimal(col string) (decimal.Decimal, error) {
	d, err := parseDecimal(c.get(col))
	if err != nil {
		return decimal.Zero, c.errorf(col, err)
	}
	return d, nil
}

func (c cells) optionalDecimal(col string) (decimal.NullDecimal, error) {
	d, err := parseOptionalDecimal(c.get(col))
	if err != nil {
		return decimal.NullDecimal{}, c.errorf(col, err)
	}
	return d, nil
}
