package feed

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToCents converts a heterogeneous money representation (string with
// currency symbols and thousands separators, float dollars, bare integer)
// into integer minor units.
//
// The feeds are ambiguous about scale, and this resolves it the same way on
// every path: any value that survives stripping is a decimal DOLLAR amount
// and is multiplied by 100. A bare "50" is $50.00 (5000 cents), the same as
// "50.00". Some providers do send true integer-cent values without a
// decimal point; those would be misread here, a known assumption carried
// from the feeds rather than silently corrected.
//
// Fractional cents round half-away-from-zero (decimal.Round semantics), so
// repeated imports of the same value are stable. Sign is preserved; refund
// rows rely on it.
func ToCents(v any) int64 {
	s, ok := scalarString(v)
	if !ok {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch cleaned {
	case "", ".", "-", "-.":
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
