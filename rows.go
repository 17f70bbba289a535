package schwab

import (
	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// Actions found in the broker exports.
const (
	ActionSale             = "Sale"
	ActionDividend         = "Dividend"
	ActionTaxWithholding   = "Tax Withholding"
	ActionReinvestDividend = "Reinvest Dividend"
	ActionQualDivReinvest  = "Qual Div Reinvest"
	ActionCreditInterest   = "Credit Interest"
	ActionNRATaxAdj        = "NRA Tax Adj"
	ActionReinvestShares   = "Reinvest Shares"
)

// LotTypeRS marks a restricted stock lot. Any other lot type is a purchase plan lot.
const LotTypeRS = "RS"

// IndividualRow is a row of the individual brokerage account history.
type IndividualRow struct {
	Line     int // line in the source file
	Date     date.Date
	Action   string
	Symbol   string
	Quantity decimal.NullDecimal
	Amount   decimal.NullDecimal
}

// PlanRow is a row of the equity award account history.
//
// A row without Date is a lot detail row: it belongs to the nearest preceding "Sale" row and
// only its lot fields are meaningful.
type PlanRow struct {
	Line     int // line in the source file
	Date     date.Date
	Action   string
	Symbol   string
	Quantity decimal.NullDecimal
	Amount   decimal.NullDecimal

	// lot detail fields
	Type                    string
	Shares                  decimal.NullDecimal
	SalePrice               decimal.NullDecimal
	PurchaseFairMarketValue decimal.NullDecimal
	VestFairMarketValue     decimal.NullDecimal
	PurchaseDate            date.Date
	VestDate                date.Date
}

// IsLot reports whether r is a lot detail row.
func (r PlanRow) IsLot() bool { return r.Date.IsZero() }

// IsRestricted reports whether the lot comes from a restricted stock vesting.
func (r PlanRow) IsRestricted() bool { return r.Type == LotTypeRS }

// fairMarketValue returns the per share value of the lot: the vest value for restricted
// stock, the purchase value otherwise.
func (r PlanRow) fairMarketValue() decimal.NullDecimal {
	if r.IsRestricted() {
		return r.VestFairMarketValue
	}
	return r.PurchaseFairMarketValue
}

// acquired returns the acquisition date of the lot, possibly zero.
func (r PlanRow) acquired() date.Date {
	if r.IsRestricted() {
		return r.VestDate
	}
	return r.PurchaseDate
}

// RealizedGainRow is a closed position of the individual account realized gains export.
type RealizedGainRow struct {
	Line       int // line in the source file
	ClosedDate date.Date
	OpenedDate date.Date // zero when the broker reports "Various"
	Symbol     string
	Quantity   decimal.NullDecimal
	Proceeds   decimal.Decimal
	CostBasis  decimal.Decimal
}
