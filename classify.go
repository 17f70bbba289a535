package schwab

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Actions lists, per category, the actions of each account that belong to it.
type Actions struct {
	Dividend        []string // individual account
	Interest        []string // individual account
	TaxDeducted     []string // individual account
	PlanDividend    []string // equity award account
	PlanTaxDeducted []string // equity award account
	Ignored         []string // individual account actions dropped before classification
}

// DefaultActions returns the actions used by the broker exports.
func DefaultActions() Actions {
	return Actions{
		Dividend:        []string{ActionReinvestDividend, ActionQualDivReinvest},
		Interest:        []string{ActionCreditInterest},
		TaxDeducted:     []string{ActionNRATaxAdj},
		PlanDividend:    []string{ActionDividend},
		PlanTaxDeducted: []string{ActionTaxWithholding},
		Ignored:         []string{ActionReinvestShares},
	}
}

// Extend returns the union of a and extra, in that order, without duplicates.
func (a Actions) Extend(extra Actions) Actions {
	union := func(x, y []string) []string {
		out := slices.Clone(x)
		for _, v := range y {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
		return out
	}
	return Actions{
		Dividend:        union(a.Dividend, extra.Dividend),
		Interest:        union(a.Interest, extra.Interest),
		TaxDeducted:     union(a.TaxDeducted, extra.TaxDeducted),
		PlanDividend:    union(a.PlanDividend, extra.PlanDividend),
		PlanTaxDeducted: union(a.PlanTaxDeducted, extra.PlanTaxDeducted),
		Ignored:         union(a.Ignored, extra.Ignored),
	}
}

// individualTables are the rows of the individual account, by category.
type individualTables struct {
	dividends   []DividendRow
	interest    []InterestRow
	taxDeducted []TaxDeductedRow
	ignored     int
}

// classifyIndividual routes the individual account rows into their categories.
// Rows of other actions are not reported.
func classifyIndividual(rows []IndividualRow, actions Actions) (individualTables, error) {
	var t individualTables
	for _, r := range rows {
		var err error
		switch {
		case slices.Contains(actions.Ignored, r.Action):
			t.ignored++
		case slices.Contains(actions.Dividend, r.Action):
			var amount float64
			if amount, err = requireAmount(IndividualSource, r.Line, r.Amount); err == nil {
				t.dividends = append(t.dividends, DividendRow{Date: r.Date, Action: r.Action, Symbol: r.Symbol, Amount: amount})
			}
		case slices.Contains(actions.Interest, r.Action):
			var amount float64
			if amount, err = requireAmount(IndividualSource, r.Line, r.Amount); err == nil {
				t.interest = append(t.interest, InterestRow{Date: r.Date, Action: r.Action, Amount: amount})
			}
		case slices.Contains(actions.TaxDeducted, r.Action):
			var amount float64
			if amount, err = requireAmount(IndividualSource, r.Line, r.Amount); err == nil {
				t.taxDeducted = append(t.taxDeducted, TaxDeductedRow{Date: r.Date, Symbol: r.Symbol, Amount: amount})
			}
		}
		if err != nil {
			return individualTables{}, err
		}
	}
	return t, nil
}

// classifyPlan routes the dated equity award account rows into their categories.
// Sales are handled by ReconstructSales.
func classifyPlan(rows []PlanRow, actions Actions) ([]DividendRow, []TaxDeductedRow, error) {
	var dividends []DividendRow
	var taxDeducted []TaxDeductedRow
	for _, r := range rows {
		if r.IsLot() {
			continue
		}
		switch {
		case slices.Contains(actions.PlanDividend, r.Action):
			amount, err := requireAmount(PlanSource, r.Line, r.Amount)
			if err != nil {
				return nil, nil, err
			}
			dividends = append(dividends, DividendRow{Date: r.Date, Action: r.Action, Symbol: r.Symbol, Amount: amount})
		case slices.Contains(actions.PlanTaxDeducted, r.Action):
			amount, err := requireAmount(PlanSource, r.Line, r.Amount)
			if err != nil {
				return nil, nil, err
			}
			taxDeducted = append(taxDeducted, TaxDeductedRow{Date: r.Date, Symbol: r.Symbol, Amount: amount})
		}
	}
	return dividends, taxDeducted, nil
}

// saleRows returns the rows reported for a sale: one per lot, or the sale itself when
// the export has no lot detail for it.
func saleRows(sale SaleEvent) []SaleRow {
	if len(sale.Lots) == 0 {
		return []SaleRow{{
			Date:         sale.Date,
			Symbol:       sale.Symbol,
			Quantity:     decimal.NewNullDecimal(sale.Quantity),
			Amount:       sale.Amount.InexactFloat64(),
			CostBasis:    sale.CostBasis.InexactFloat64(),
			PurchaseDate: sale.PurchaseDate,
		}}
	}
	rows := make([]SaleRow, 0, len(sale.Lots))
	for _, lot := range sale.Lots {
		rows = append(rows, SaleRow{
			Date:         lot.Date,
			Symbol:       lot.Symbol,
			Quantity:     decimal.NewNullDecimal(lot.Quantity),
			Amount:       lot.Amount.InexactFloat64(),
			CostBasis:    lot.CostBasis.InexactFloat64(),
			PurchaseDate: lot.PurchaseDate,
		})
	}
	return rows
}

// realizedSaleRows renames the realized gains rows into sale rows.
func realizedSaleRows(rows []RealizedGainRow) []SaleRow {
	out := make([]SaleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SaleRow{
			Date:         r.ClosedDate,
			Symbol:       r.Symbol,
			Quantity:     r.Quantity,
			Amount:       r.Proceeds.InexactFloat64(),
			CostBasis:    r.CostBasis.InexactFloat64(),
			PurchaseDate: r.OpenedDate,
		})
	}
	return out
}

// requireAmount returns the amount of a categorized row, which cannot be absent.
func requireAmount(src Source, line int, amount decimal.NullDecimal) (float64, error) {
	if !amount.Valid {
		return 0, &RowError{Source: src, Row: line, Column: colAmount, Err: ErrMalformedAmount}
	}
	return amount.Decimal.InexactFloat64(), nil
}
