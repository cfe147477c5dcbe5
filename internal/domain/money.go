package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the one-cent threshold used for every amount-equality test.
var Tolerance = decimal.RequireFromString("0.01")

// IsDifferent reports whether two amounts differ by more than one cent.
func IsDifferent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(Tolerance)
}

// Delta returns a - b treating null operands as zero.
func Delta(a, b decimal.NullDecimal) decimal.Decimal {
	return OrZero(a).Sub(OrZero(b))
}

// OrZero unwraps a nullable amount, mapping null to zero.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Amount wraps a non-null decimal.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// IsNumericID reports whether id consists of ASCII digits only.
func IsNumericID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractBookingID trims whitespace and any leading '#' characters. A trailing
// ".0" left behind by spreadsheet float formatting is dropped as well.
func ExtractBookingID(raw string) string {
	id := strings.TrimLeft(strings.TrimSpace(raw), "#")
	id = strings.TrimSpace(id)
	if dot := strings.IndexByte(id, '.'); dot > 0 && IsNumericID(id[:dot]) && strings.Trim(id[dot+1:], "0") == "" {
		id = id[:dot]
	}
	return id
}
