package schwab

import (
	"fmt"

	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// StockSplit is a forward split of every share held before Date by Ratio.
// The zero StockSplit never applies.
type StockSplit struct {
	Date  date.Date
	Ratio decimal.Decimal
}

// NewStockSplit returns a split on the given day.
func NewStockSplit(on date.Date, ratio decimal.Decimal) (StockSplit, error) {
	if !ratio.IsPositive() {
		return StockSplit{}, fmt.Errorf("invalid split ratio %v: must be positive", ratio)
	}
	return StockSplit{Date: on, Ratio: ratio}, nil
}

// IsZero reports whether s is the absence of split.
func (s StockSplit) IsZero() bool { return s.Date.IsZero() }

// Applies reports whether a quantity recorded on day 'on' predates the split.
// The split day itself is already expressed in post split shares.
func (s StockSplit) Applies(on date.Date) bool {
	return !s.IsZero() && on.Before(s.Date)
}

// Factor returns the multiplier of quantities recorded on day 'on'.
func (s StockSplit) Factor(on date.Date) decimal.Decimal {
	if s.Applies(on) {
		return s.Ratio
	}
	return decimal.NewFromInt(1)
}

// Adjust returns q expressed in post split shares. An absent quantity stays absent.
func (s StockSplit) Adjust(on date.Date, q decimal.NullDecimal) decimal.NullDecimal {
	if !q.Valid || !s.Applies(on) {
		return q
	}
	return decimal.NewNullDecimal(q.Decimal.Mul(s.Ratio))
}

// AdjustIndividual returns a copy of rows with quantities in post split shares.
func (s StockSplit) AdjustIndividual(rows []IndividualRow) []IndividualRow {
	if rows == nil {
		return nil
	}
	out := make([]IndividualRow, len(rows))
	for i, r := range rows {
		r.Quantity = s.Adjust(r.Date, r.Quantity)
		out[i] = r
	}
	return out
}

// AdjustPlan returns a copy of rows with quantities in post split shares.
//
// Lot detail rows carry no date: their shares are adjusted when they are folded into
// their sale, see ReconstructSales.
func (s StockSplit) AdjustPlan(rows []PlanRow) []PlanRow {
	if rows == nil {
		return nil
	}
	out := make([]PlanRow, len(rows))
	for i, r := range rows {
		if !r.IsLot() {
			r.Quantity = s.Adjust(r.Date, r.Quantity)
		}
		out[i] = r
	}
	return out
}

// AdjustRealized returns a copy of rows with quantities in post split shares, by closing date.
func (s StockSplit) AdjustRealized(rows []RealizedGainRow) []RealizedGainRow {
	if rows == nil {
		return nil
	}
	out := make([]RealizedGainRow, len(rows))
	for i, r := range rows {
		r.Quantity = s.Adjust(r.ClosedDate, r.Quantity)
		out[i] = r
	}
	return out
}
