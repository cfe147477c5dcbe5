// Package reconcile matches booking-platform records against ledger records
// and reports the discrepancies between them.
package reconcile

import (
	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// FindMissing returns the bookings whose identifier is absent from the
// ledger's numeric identifiers, in booking order. Non-numeric ledger codes
// never suppress a result.
func FindMissing(bookings *domain.BookingSet, ledger *domain.LedgerSet) []domain.BookingRecord {
	known := ledger.NumericIDs()
	seen := make(map[string]struct{})
	missing := make([]domain.BookingRecord, 0)
	for _, b := range bookings.Records {
		if _, ok := seen[b.BookingID]; ok {
			continue
		}
		seen[b.BookingID] = struct{}{}
		if _, ok := known[b.BookingID]; !ok {
			missing = append(missing, b)
		}
	}
	return missing
}

// FindCancelledVsOpen joins cancelled bookings to ledger rows that still
// carry a positive open balance. Without an open-balance column every
// matched ledger row is reported and the result is marked degraded.
func FindCancelledVsOpen(bookings *domain.BookingSet, ledger *domain.LedgerSet) domain.CancelledOpenResult {
	cancelled := make(map[string]domain.BookingRecord)
	for _, b := range bookings.Records {
		if _, ok := cancelled[b.BookingID]; b.IsCancelled && !ok {
			cancelled[b.BookingID] = b
		}
	}

	result := domain.CancelledOpenResult{Rows: make([]domain.CancelledOpenRow, 0)}
	if !ledger.HasOpenBalance {
		result.Degraded = true
		result.Warnings = append(result.Warnings, domain.NewWarning(domain.KindDegradedMode, string(domain.SourceLedger),
			"ledger has no open balance column; every ledger row of a cancelled booking is reported"))
	}

	for _, l := range ledger.Matchable() {
		b, ok := cancelled[l.BookingID]
		if !ok {
			continue
		}
		if ledger.HasOpenBalance && !(l.OpenBalance.Valid && l.OpenBalance.Decimal.IsPositive()) {
			continue
		}
		result.Rows = append(result.Rows, domain.CancelledOpenRow{Booking: b, Ledger: l})
	}
	return result
}

var zero = domain.Amount(decimal.Zero)

// AdjustCancelled applies the cancellation policy to a booking before its
// amounts are compared. An unpaid cancelled booking is fully voided; a paid
// one keeps its captured amount as the total. Amount due is always cleared.
func AdjustCancelled(b domain.BookingRecord) domain.BookingRecord {
	if !b.IsCancelled {
		return b
	}
	b.AmountDue = zero
	if b.TotalPaid.Valid && b.TotalPaid.Decimal.IsPositive() {
		b.Total = b.TotalPaid
		return b
	}
	b.Total = zero
	b.TotalPaid = zero
	b.TotalTax = zero
	return b
}

// ledgerTotals is the sum of a booking's ledger rows. A sum is null when no
// row carried a value.
type ledgerTotals struct {
	amount      decimal.NullDecimal
	tax         decimal.NullDecimal
	openBalance decimal.NullDecimal
}

func addNull(sum, v decimal.NullDecimal) decimal.NullDecimal {
	if !v.Valid {
		return sum
	}
	return domain.Amount(domain.OrZero(sum).Add(v.Decimal))
}

func aggregateLedger(ledger *domain.LedgerSet) map[string]*ledgerTotals {
	totals := make(map[string]*ledgerTotals)
	for _, l := range ledger.Matchable() {
		t, ok := totals[l.BookingID]
		if !ok {
			t = &ledgerTotals{}
			totals[l.BookingID] = t
		}
		t.amount = addNull(t.amount, l.Amount)
		t.tax = addNull(t.tax, l.TaxAmount)
		t.openBalance = addNull(t.openBalance, l.OpenBalance)
	}
	return totals
}

// CompareAmounts joins bookings to their summed ledger rows and reports the
// bookings whose total, tax or balance differ by more than one cent.
// Cancelled bookings are adjusted first. A comparison whose columns are
// absent on either side is skipped with a degraded-mode warning.
func CompareAmounts(bookings *domain.BookingSet, ledger *domain.LedgerSet) domain.AmountComparison {
	result := domain.AmountComparison{Rows: make([]domain.AmountDiscrepancy, 0)}
	degraded := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, domain.NewWarning(domain.KindDegradedMode, "compare_amounts", format, args...))
	}

	compareTotal := bookings.HasTotal || bookings.HasTotalPaid
	switch {
	case !compareTotal:
		degraded("booking export has neither Total nor Total Paid; totals are not compared")
	case !bookings.HasTotal:
		degraded("booking export has no Total column; Total Paid is compared instead")
	}
	compareTax := bookings.HasTotalTax && ledger.HasTaxAmount
	if !compareTax {
		degraded("tax is not compared: booking Total Tax present=%t, ledger Tax Amount present=%t", bookings.HasTotalTax, ledger.HasTaxAmount)
	}
	compareBalance := bookings.HasAmountDue && ledger.HasOpenBalance
	if !compareBalance {
		degraded("balance is not compared: booking Amount Due present=%t, ledger Open Balance present=%t", bookings.HasAmountDue, ledger.HasOpenBalance)
	}

	totals := aggregateLedger(ledger)
	seen := make(map[string]struct{})
	for _, raw := range bookings.Records {
		t, ok := totals[raw.BookingID]
		if !ok {
			continue
		}
		if _, dup := seen[raw.BookingID]; dup {
			continue
		}
		seen[raw.BookingID] = struct{}{}
		result.Matched++

		b := AdjustCancelled(raw)
		row := domain.AmountDiscrepancy{
			BookingID:         b.BookingID,
			CreatedAt:         b.CreatedAt,
			IsPaid:            b.IsPaid,
			IsCancelled:       b.IsCancelled,
			BookingTotal:      b.Total,
			BookingTotalPaid:  b.TotalPaid,
			BookingTax:        b.TotalTax,
			BookingAmountDue:  b.AmountDue,
			LedgerAmount:      t.amount,
			LedgerTax:         t.tax,
			LedgerOpenBalance: t.openBalance,
		}
		if !bookings.HasTotal {
			row.BookingTotal = b.TotalPaid
		}

		if compareTotal {
			d := domain.Delta(row.BookingTotal, t.amount)
			row.TotalDifference = domain.Amount(d)
			row.HasTotalDifference = domain.IsDifferent(d, decimal.Zero)
		}
		if compareTax {
			d := domain.Delta(b.TotalTax, t.tax)
			row.TaxDifference = domain.Amount(d)
			row.HasTaxDifference = domain.IsDifferent(d, decimal.Zero)
		}
		if compareBalance {
			d := domain.Delta(b.AmountDue, t.openBalance)
			row.BalanceDifference = domain.Amount(d)
			row.HasBalanceDifference = domain.IsDifferent(d, decimal.Zero)
		}

		if row.HasTotalDifference || row.HasTaxDifference || row.HasBalanceDifference {
			result.Rows = append(result.Rows, row)
		}
	}
	return result
}
