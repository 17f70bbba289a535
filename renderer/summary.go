package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/schwab"
	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
)

// symbolTotals accumulates amounts per symbol.
type symbolTotals struct {
	dividends decimal.Decimal
	tax       decimal.Decimal
	proceeds  decimal.Decimal
	basis     decimal.Decimal
}

// SummaryMarkdown renders the totals of a report as markdown.
func SummaryMarkdown(r *schwab.Report, year int) string {
	var b strings.Builder

	var dividends, interest, tax, proceeds, basis decimal.Decimal
	perSymbol := make(map[string]*symbolTotals)
	symbol := func(s string) *symbolTotals {
		if s == "" {
			s = "-"
		}
		t, ok := perSymbol[s]
		if !ok {
			t = &symbolTotals{}
			perSymbol[s] = t
		}
		return t
	}
	for _, d := range r.Dividends {
		v := decimal.NewFromFloat(d.Amount)
		dividends = dividends.Add(v)
		t := symbol(d.Symbol)
		t.dividends = t.dividends.Add(v)
	}
	for _, i := range r.Interest {
		interest = interest.Add(decimal.NewFromFloat(i.Amount))
	}
	for _, d := range r.TaxDeducted {
		v := decimal.NewFromFloat(d.Amount)
		tax = tax.Add(v)
		t := symbol(d.Symbol)
		t.tax = t.tax.Add(v)
	}
	for _, s := range r.Sales {
		p, c := decimal.NewFromFloat(s.Amount), decimal.NewFromFloat(s.CostBasis)
		proceeds = proceeds.Add(p)
		basis = basis.Add(c)
		t := symbol(s.Symbol)
		t.proceeds = t.proceeds.Add(p)
		t.basis = t.basis.Add(c)
	}

	fmt.Fprintf(&b, "# Tax Report %d\n\n", year)

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintln(&b, "| Category | Rows | Amount |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Dividends | %d | %s |\n", len(r.Dividends), usd(dividends))
	fmt.Fprintf(&b, "| Interest | %d | %s |\n", len(r.Interest), usd(interest))
	fmt.Fprintf(&b, "| Tax Deducted | %d | %s |\n", len(r.TaxDeducted), usd(tax))
	fmt.Fprintf(&b, "| Sale Proceeds | %d | %s |\n", len(r.Sales), usd(proceeds))
	fmt.Fprintf(&b, "| Cost Basis | %d | %s |\n", len(r.Sales), usd(basis))
	fmt.Fprintf(&b, "| **Realized Gain** | | **%s** |\n", signedUSD(proceeds.Sub(basis)))
	fmt.Fprintln(&b)

	symbols := slices.Sorted(maps.Keys(perSymbol))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Income per Symbol\n\n")
		fmt.Fprintln(w, "| Symbol | Dividends | Tax Deducted |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		n := 0
		for _, s := range symbols {
			t := perSymbol[s]
			if t.dividends.IsZero() && t.tax.IsZero() {
				continue
			}
			n++
			fmt.Fprintf(w, "| %s | %s | %s |\n", s, usd(t.dividends), usd(t.tax))
		}
		fmt.Fprintln(w)
		return n > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Gains per Symbol\n\n")
		fmt.Fprintln(w, "| Symbol | Proceeds | Cost Basis | Gain |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		n := 0
		for _, s := range symbols {
			t := perSymbol[s]
			if t.proceeds.IsZero() && t.basis.IsZero() {
				continue
			}
			n++
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", s, usd(t.proceeds), usd(t.basis), signedUSD(t.proceeds.Sub(t.basis)))
		}
		fmt.Fprintln(w)
		return n > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Sales\n\n")
		fmt.Fprintln(w, "| Date | Symbol | Quantity | Proceeds | Cost Basis | Acquired |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|:---|")
		for _, s := range r.Sales {
			quantity := "-"
			if s.Quantity.Valid {
				quantity = s.Quantity.Decimal.String()
			}
			acquired := s.PurchaseDate.Format(date.DateFormat)
			if acquired == "" {
				acquired = "-"
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				s.Date, s.Symbol, quantity,
				usd(decimal.NewFromFloat(s.Amount)),
				usd(decimal.NewFromFloat(s.CostBasis)),
				acquired,
			)
		}
		return len(r.Sales) > 0
	})

	return b.String()
}
