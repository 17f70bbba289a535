package schwab

import (
	"slices"

	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// Column names of the reports.
const (
	ColumnDate         = "Date"
	ColumnAction       = "Action"
	ColumnSymbol       = "Symbol"
	ColumnQuantity     = "Quantity"
	ColumnAmount       = "Amount"
	ColumnCostBasis    = "Cost Basis"
	ColumnPurchaseDate = "PurchaseDate"
)

var (
	DividendColumns    = []string{ColumnDate, ColumnAction, ColumnSymbol, ColumnAmount}
	InterestColumns    = []string{ColumnDate, ColumnAction, ColumnAmount}
	TaxDeductedColumns = []string{ColumnDate, ColumnSymbol, ColumnAmount}
	SaleColumns        = []string{ColumnDate, ColumnSymbol, ColumnQuantity, ColumnAmount, ColumnCostBasis, ColumnPurchaseDate}
)

// Record is a row of a report table.
//
// Columns and Values have the same length, Values are the text cells in column order.
type Record interface {
	When() date.Date
	Columns() []string
	Values() []string
}

// DividendRow is a dividend received, in cash or reinvested.
type DividendRow struct {
	Date   date.Date
	Action string
	Symbol string
	Amount float64
}

func (r DividendRow) When() date.Date   { return r.Date }
func (r DividendRow) Columns() []string { return DividendColumns }
func (r DividendRow) Values() []string {
	return []string{r.Date.Format(date.ReportFormat), r.Action, r.Symbol, FormatAmount(r.Amount)}
}

func (r DividendRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append(ColumnDate, r.Date).
		Append(ColumnAction, r.Action).
		Append(ColumnSymbol, r.Symbol).
		Append(ColumnAmount, r.Amount)
	return w.MarshalJSON()
}

// InterestRow is an interest credit.
type InterestRow struct {
	Date   date.Date
	Action string
	Amount float64
}

func (r InterestRow) When() date.Date   { return r.Date }
func (r InterestRow) Columns() []string { return InterestColumns }
func (r InterestRow) Values() []string {
	return []string{r.Date.Format(date.ReportFormat), r.Action, FormatAmount(r.Amount)}
}

func (r InterestRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append(ColumnDate, r.Date).
		Append(ColumnAction, r.Action).
		Append(ColumnAmount, r.Amount)
	return w.MarshalJSON()
}

// TaxDeductedRow is a tax withheld at source, or its adjustment.
type TaxDeductedRow struct {
	Date   date.Date
	Symbol string
	Amount float64
}

func (r TaxDeductedRow) When() date.Date   { return r.Date }
func (r TaxDeductedRow) Columns() []string { return TaxDeductedColumns }
func (r TaxDeductedRow) Values() []string {
	return []string{r.Date.Format(date.ReportFormat), r.Symbol, FormatAmount(r.Amount)}
}

func (r TaxDeductedRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append(ColumnDate, r.Date).
		Append(ColumnSymbol, r.Symbol).
		Append(ColumnAmount, r.Amount)
	return w.MarshalJSON()
}

// SaleRow is the sale of shares from a single acquisition.
type SaleRow struct {
	Date         date.Date
	Symbol       string
	Quantity     decimal.NullDecimal // absent when the broker does not report it
	Amount       float64
	CostBasis    float64
	PurchaseDate date.Date // zero when unknown
}

func (r SaleRow) When() date.Date   { return r.Date }
func (r SaleRow) Columns() []string { return SaleColumns }
func (r SaleRow) Values() []string {
	return []string{
		r.Date.Format(date.ReportFormat),
		r.Symbol,
		formatQuantity(r.Quantity),
		FormatAmount(r.Amount),
		FormatAmount(r.CostBasis),
		r.PurchaseDate.Format(date.ReportFormat),
	}
}

func (r SaleRow) MarshalJSON() ([]byte, error) {
	var quantity any
	if r.Quantity.Valid {
		quantity = r.Quantity.Decimal.InexactFloat64()
	}
	var w jsonObjectWriter
	w.Append(ColumnDate, r.Date).
		Append(ColumnSymbol, r.Symbol).
		Append(ColumnQuantity, quantity).
		Append(ColumnAmount, r.Amount).
		Append(ColumnCostBasis, r.CostBasis).
		Append(ColumnPurchaseDate, r.PurchaseDate)
	return w.MarshalJSON()
}

// Table is a report table: rows of a single kind, with a fixed column schema.
type Table[T Record] []T

// Columns returns the declared columns of the table, even when it is empty.
func (t Table[T]) Columns() []string {
	var zero T
	return zero.Columns()
}

// IsSorted reports whether rows are in ascending date order.
func (t Table[T]) IsSorted() bool {
	return slices.IsSortedFunc(t, byDate[T])
}

// sortByDate sorts rows ascending by date, keeping the merge order of rows of the same day.
func sortByDate[T Record](t Table[T]) {
	slices.SortStableFunc(t, byDate[T])
}

func byDate[T Record](a, b T) int { return a.When().Compare(b.When()) }
