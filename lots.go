package schwab

import (
	"iter"

	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// SaleEvent is one broker sale, rebuilt from a "Sale" row and the lot detail rows that follow it.
type SaleEvent struct {
	Line         int // line of the "Sale" row in the source
	Date         date.Date
	Symbol       string
	Quantity     decimal.Decimal // post split shares, as reported by the "Sale" row
	Amount       decimal.Decimal // proceeds
	CostBasis    decimal.Decimal
	PurchaseDate date.Date // earliest acquisition among the lots, zero if unknown
	Lots         []LotSale
}

// LotSale is the part of a sale drawn from a single acquisition lot. It carries the cost
// basis and acquisition date resolved for the whole sale: its share of the sale cost basis,
// and the earliest acquisition date among the lots.
type LotSale struct {
	Line         int // line of the lot row in the source
	Date         date.Date
	Symbol       string
	Quantity     decimal.Decimal
	Amount       decimal.Decimal
	CostBasis    decimal.Decimal
	PurchaseDate date.Date
}

// saleState is the state of the reconstruction.
type saleState int

const (
	idle             saleState = iota // no sale open
	accumulatingLots                  // a sale is open and collects its lots
)

// saleReconstructor folds a sequence of plan rows into sale events.
// Its zero value, with a split, is ready to use.
type saleReconstructor struct {
	split StockSplit
	state saleState
	open  SaleEvent
	qty   decimal.NullDecimal // quantity of the open sale row, absent if not exported
	lots  []PlanRow
}

// ReconstructSales returns the sale events found in rows, in source order.
//
// rows must be in source order: a lot detail row (no Date) belongs to the nearest preceding
// "Sale" row. Rows that are neither sales nor lots are ignored. The sequence ends with an
// ErrOrphanLotRow error if a lot row appears before any sale.
//
// Quantities of the "Sale" rows must already be split adjusted (see StockSplit.AdjustPlan);
// lot shares are adjusted here with the date of their sale.
func ReconstructSales(rows []PlanRow, split StockSplit) iter.Seq2[SaleEvent, error] {
	return func(yield func(SaleEvent, error) bool) {
		m := saleReconstructor{split: split}
		for _, r := range rows {
			sale, done, err := m.feed(r)
			if err != nil {
				yield(SaleEvent{}, err)
				return
			}
			if done && !yield(sale, nil) {
				return
			}
		}
		if sale, done := m.flush(); done {
			yield(sale, nil)
		}
	}
}

// feed consumes a row, and returns the sale it closed if any.
func (m *saleReconstructor) feed(r PlanRow) (sale SaleEvent, done bool, err error) {
	switch {
	case r.IsLot():
		if m.state == idle {
			return SaleEvent{}, false, &RowError{Source: PlanSource, Row: r.Line, Err: ErrOrphanLotRow}
		}
		m.lots = append(m.lots, r)
		return SaleEvent{}, false, nil

	case r.Action == ActionSale:
		if !r.Amount.Valid {
			return SaleEvent{}, false, &RowError{Source: PlanSource, Row: r.Line, Column: colAmount, Err: ErrMalformedAmount}
		}
		sale, done = m.flush()
		m.state = accumulatingLots
		m.open = SaleEvent{
			Line:   r.Line,
			Date:   r.Date,
			Symbol: r.Symbol,
			Amount: r.Amount.Decimal,
		}
		m.qty = r.Quantity
		return sale, done, nil

	default:
		// dividends, withholdings, deposits... are not part of a sale and leave it open.
		return SaleEvent{}, false, nil
	}
}

// flush finalizes the open sale, if any, and returns to idle.
func (m *saleReconstructor) flush() (SaleEvent, bool) {
	if m.state == idle {
		return SaleEvent{}, false
	}
	sale := m.finalize()
	m.state = idle
	m.open = SaleEvent{}
	m.lots = nil
	return sale, true
}

// finalize computes the derived fields of the open sale from its lots.
func (m *saleReconstructor) finalize() SaleEvent {
	sale := m.open

	// per share basis: the mean of the lots fair market values.
	var values []decimal.Decimal
	var sharesSum decimal.Decimal
	for _, lot := range m.lots {
		if v := lot.fairMarketValue(); v.Valid {
			values = append(values, v.Decimal)
		}
		if s := m.split.Adjust(sale.Date, lot.Shares); s.Valid {
			sharesSum = sharesSum.Add(s.Decimal)
		}
		if on := lot.acquired(); !on.IsZero() && (sale.PurchaseDate.IsZero() || on.Before(sale.PurchaseDate)) {
			sale.PurchaseDate = on
		}
	}
	average := decimal.Zero
	if len(values) > 0 {
		average = decimal.Avg(values[0], values[1:]...)
	}

	// the sale row quantity is authoritative, lots are only a fallback.
	sale.Quantity = sharesSum
	if m.qty.Valid {
		sale.Quantity = m.qty.Decimal
	}
	sale.CostBasis = average.Mul(sale.Quantity)

	pricePerShare := decimal.Zero
	if !sale.Quantity.IsZero() {
		pricePerShare = sale.Amount.Div(sale.Quantity)
	}
	factor := m.split.Factor(sale.Date)

	if len(m.lots) > 0 {
		sale.Lots = make([]LotSale, 0, len(m.lots))
	}
	allocated := decimal.Zero
	for i, lot := range m.lots {
		shares := decimal.Zero
		if s := m.split.Adjust(sale.Date, lot.Shares); s.Valid {
			shares = s.Decimal
		}
		price := pricePerShare
		if lot.SalePrice.Valid {
			// the export prices the shares as they were on the sale day.
			price = lot.SalePrice.Decimal.Div(factor)
		}
		// the sale cost basis is shared by the lots in proportion of their shares, evenly
		// when no lot has shares; the last lot takes the rounding remainder.
		var basis decimal.Decimal
		switch {
		case i == len(m.lots)-1:
			basis = sale.CostBasis.Sub(allocated)
		case sharesSum.IsZero():
			basis = sale.CostBasis.Div(decimal.NewFromInt(int64(len(m.lots))))
		default:
			basis = sale.CostBasis.Mul(shares).Div(sharesSum)
		}
		allocated = allocated.Add(basis)
		sale.Lots = append(sale.Lots, LotSale{
			Line:         lot.Line,
			Date:         sale.Date,
			Symbol:       sale.Symbol,
			Quantity:     shares,
			Amount:       price.Mul(shares),
			CostBasis:    basis,
			PurchaseDate: sale.PurchaseDate,
		})
	}
	return sale
}
