package renderer

import (
	"bytes"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// usd formats an amount in dollars, rounded to the cent.
func usd(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// signedUSD is like usd with an explicit sign, and "-" for zero.
func signedUSD(amount decimal.Decimal) string {
	switch {
	case amount.IsZero():
		return "-"
	case amount.IsPositive():
		return "+" + usd(amount)
	default:
		return usd(amount)
	}
}
