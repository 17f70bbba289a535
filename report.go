package schwab

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Sources are the broker exports of one tax year. A nil field is an absent export.
type Sources struct {
	Individual []IndividualRow
	Plan       []PlanRow
	Realized   []RealizedGainRow
}

// Options control Build.
type Options struct {
	Split   StockSplit
	Actions *Actions        // nil means DefaultActions
	Logger  *zerolog.Logger // nil means no logging
}

// Report holds the four report tables. None of them is ever nil.
type Report struct {
	Dividends   Table[DividendRow]
	Interest    Table[InterestRow]
	TaxDeducted Table[TaxDeductedRow]
	Sales       Table[SaleRow]
}

// Build computes the report of the given sources.
//
// Absent sources contribute nothing. Any error in a source aborts the build, no partial
// report is returned.
func Build(src Sources, opts Options) (*Report, error) {
	r := newRun(src, opts)
	r.adjust()
	if err := r.classify(); err != nil {
		return nil, err
	}
	if err := r.reconstruct(); err != nil {
		return nil, err
	}
	r.finalize()
	return &r.report, nil
}

// run owns every intermediate table of a single Build.
type run struct {
	split   StockSplit
	actions Actions
	log     *zerolog.Logger

	individual []IndividualRow
	plan       []PlanRow
	realized   []RealizedGainRow

	report Report
}

func newRun(src Sources, opts Options) *run {
	r := &run{
		split:      opts.Split,
		actions:    DefaultActions(),
		log:        opts.Logger,
		individual: src.Individual,
		plan:       src.Plan,
		realized:   src.Realized,
		report: Report{
			Dividends:   Table[DividendRow]{},
			Interest:    Table[InterestRow]{},
			TaxDeducted: Table[TaxDeductedRow]{},
			Sales:       Table[SaleRow]{},
		},
	}
	if opts.Actions != nil {
		r.actions = *opts.Actions
	}
	if r.log == nil {
		nop := zerolog.Nop()
		r.log = &nop
	}
	return r
}

// adjust expresses every quantity in post split shares.
func (r *run) adjust() {
	if r.split.IsZero() {
		return
	}
	r.log.Debug().Str("date", r.split.Date.String()).Str("ratio", r.split.Ratio.String()).Msg("applying stock split")
	r.individual = r.split.AdjustIndividual(r.individual)
	r.plan = r.split.AdjustPlan(r.plan)
	r.realized = r.split.AdjustRealized(r.realized)
}

// classify fills the dividend, interest and tax tables.
func (r *run) classify() error {
	if r.individual == nil {
		r.log.Info().Str("source", string(IndividualSource)).Msg("source absent")
	}
	ind, err := classifyIndividual(r.individual, r.actions)
	if err != nil {
		return fmt.Errorf("classify error: %w", err)
	}
	if ind.ignored > 0 {
		r.log.Debug().Int("rows", ind.ignored).Msg("ignored individual rows")
	}

	if r.plan == nil {
		r.log.Info().Str("source", string(PlanSource)).Msg("source absent")
	}
	dividends, taxDeducted, err := classifyPlan(r.plan, r.actions)
	if err != nil {
		return fmt.Errorf("classify error: %w", err)
	}

	r.report.Dividends = append(r.report.Dividends, ind.dividends...)
	r.report.Dividends = append(r.report.Dividends, dividends...)
	r.report.Interest = append(r.report.Interest, ind.interest...)
	r.report.TaxDeducted = append(r.report.TaxDeducted, ind.taxDeducted...)
	r.report.TaxDeducted = append(r.report.TaxDeducted, taxDeducted...)
	return nil
}

// reconstruct fills the sale table, from the equity award sales and the realized gains.
func (r *run) reconstruct() error {
	n := 0
	for sale, err := range ReconstructSales(r.plan, r.split) {
		if err != nil {
			return fmt.Errorf("reconstruct error: %w", err)
		}
		n++
		for _, lot := range sale.Lots {
			if lot.Quantity.IsZero() {
				r.log.Debug().Int("row", lot.Line).Int("sale_row", sale.Line).Msg("lot row without shares reported as an empty sale")
			}
		}
		r.report.Sales = append(r.report.Sales, saleRows(sale)...)
	}
	r.log.Debug().Int("sales", n).Int("rows", len(r.report.Sales)).Msg("reconstructed equity award sales")

	if r.realized == nil {
		r.log.Info().Str("source", string(RealizedSource)).Msg("source absent")
	}
	r.report.Sales = append(r.report.Sales, realizedSaleRows(r.realized)...)
	return nil
}

// finalize sorts every table by date.
func (r *run) finalize() {
	sortByDate(r.report.Dividends)
	sortByDate(r.report.Interest)
	sortByDate(r.report.TaxDeducted)
	sortByDate(r.report.Sales)
	r.log.Info().
		Int("dividends", len(r.report.Dividends)).
		Int("interest", len(r.report.Interest)).
		Int("tax_deducted", len(r.report.TaxDeducted)).
		Int("sales", len(r.report.Sales)).
		Msg("report built")
}

// MarshalJSON encodes the four tables, rows keeping their column order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("dividends", r.Dividends).
		Append("interest", r.Interest).
		Append("tax_deducted", r.TaxDeducted).
		Append("sales", r.Sales)
	return w.MarshalJSON()
}
