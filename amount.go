package schwab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// amountCleaner strips currency symbols and grouping separators.
var amountCleaner = strings.NewReplacer("$", "", ",", "")

// parseDecimal parses a broker formatted amount like "($1,234.56)" into an exact decimal.
func parseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(amountCleaner.Replace(s))
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + strings.TrimSpace(clean[1:len(clean)-1])
	}
	if clean == "" || clean == "-" {
		return decimal.Zero, fmt.Errorf("%w: %q has no digits", ErrMalformedAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return d, nil
}

// parseOptionalDecimal is like parseDecimal but an empty cell is an absent value.
func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ParseAmount parses a monetary string into a float64.
//
// Accepted forms are plain ("500.00"), grouped ("1,234.56"), currency prefixed ("$1,234.56"),
// and accounting negatives ("(123.45)", "($1,234.56)"). Anything else, including the empty
// string, fails with ErrMalformedAmount.
//
// ParseAmount is idempotent over its own output: ParseAmount(FormatAmount(v)) == v.
func ParseAmount(s string) (float64, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// NormalizeAmounts parses a whole column of amounts.
// It fails on the first malformed value and returns no partial column.
func NormalizeAmounts(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("value #%d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// FormatAmount returns the shortest text that parses back to v.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatQuantity returns the text of a share quantity, or "" when absent.
func formatQuantity(q decimal.NullDecimal) string {
	if !q.Valid {
		return ""
	}
	return q.Decimal.String()
}
