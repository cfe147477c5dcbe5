package reconcile

import (
	"time"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// ClassifyInput is what the mismatch rules look at for one joined booking.
type ClassifyInput struct {
	PaymentGross      decimal.Decimal
	RefundGross       decimal.Decimal
	PaymentDifference decimal.Decimal
	RefundDifference  decimal.Decimal
}

func (in ClassifyInput) missingPayment() bool {
	return in.PaymentGross.IsPositive() && in.PaymentDifference.GreaterThan(domain.Tolerance)
}

func (in ClassifyInput) missingRefund() bool {
	return in.RefundGross.IsPositive() && in.RefundDifference.GreaterThan(domain.Tolerance)
}

// ClassificationRule assigns a mismatch type when its predicate holds.
type ClassificationRule struct {
	Type domain.MismatchType
	When func(ClassifyInput) bool
}

// ClassificationRules are evaluated top to bottom; the first match wins.
// An extra amount on the ledger side outranks a missing one.
var ClassificationRules = []ClassificationRule{
	{domain.MismatchExtraRefund, func(in ClassifyInput) bool { return in.RefundDifference.LessThan(domain.Tolerance.Neg()) }},
	{domain.MismatchExtraPayment, func(in ClassifyInput) bool { return in.PaymentDifference.LessThan(domain.Tolerance.Neg()) }},
	{domain.MismatchMissingPaymentRefund, func(in ClassifyInput) bool { return in.missingPayment() && in.missingRefund() }},
	{domain.MismatchMissingPayment, ClassifyInput.missingPayment},
	{domain.MismatchMissingRefund, ClassifyInput.missingRefund},
}

// Classify returns the mismatch type of a joined booking.
func Classify(in ClassifyInput) domain.MismatchType {
	for _, rule := range ClassificationRules {
		if rule.When(in) {
			return rule.Type
		}
	}
	return domain.MismatchNone
}

func widen(first, last **time.Time, t *time.Time) {
	if t == nil {
		return
	}
	if *first == nil || t.Before(**first) {
		*first = t
	}
	if *last == nil || t.After(**last) {
		*last = t
	}
}

func aggregatePlatform(payments *domain.PaymentSet) ([]string, map[string]*domain.PlatformActivity) {
	var order []string
	activity := make(map[string]*domain.PlatformActivity)
	for _, tx := range payments.Transactions {
		a, ok := activity[tx.BookingID]
		if !ok {
			a = &domain.PlatformActivity{}
			activity[tx.BookingID] = a
			order = append(order, tx.BookingID)
		}
		fee := domain.OrZero(tx.ProcessingFee)
		if tx.IsRefund() {
			a.RefundGross = a.RefundGross.Add(domain.OrZero(tx.Gross).Abs())
			a.RefundNet = a.RefundNet.Add(domain.OrZero(tx.Net).Abs())
			a.RefundProcessingFee = a.RefundProcessingFee.Add(fee)
			a.RefundCount++
		} else {
			a.PaymentGross = a.PaymentGross.Add(domain.OrZero(tx.Gross))
			a.PaymentNet = a.PaymentNet.Add(domain.OrZero(tx.Net))
			a.PaymentProcessingFee = a.PaymentProcessingFee.Add(fee)
			a.PaymentCount++
		}
		a.TaxPaid = a.TaxPaid.Add(domain.OrZero(tx.TaxPaid))
		widen(&a.FirstTransaction, &a.LastTransaction, tx.CreatedAt)
	}
	return order, activity
}

func aggregateLedgerActivity(ledger *domain.LedgerSet) map[string]*domain.LedgerActivity {
	activity := make(map[string]*domain.LedgerActivity)
	for _, l := range ledger.Matchable() {
		a, ok := activity[l.BookingID]
		if !ok {
			a = &domain.LedgerActivity{}
			activity[l.BookingID] = a
		}
		amount := domain.OrZero(l.Amount)
		switch {
		case amount.IsPositive():
			a.PaymentAmount = a.PaymentAmount.Add(amount)
		case amount.IsNegative():
			a.RefundAmount = a.RefundAmount.Add(amount.Abs())
		}
		a.NetAmount = a.NetAmount.Add(amount)
		a.TaxAmount = a.TaxAmount.Add(domain.OrZero(l.TaxAmount))
		a.OpenBalance = a.OpenBalance.Add(domain.OrZero(l.OpenBalance))
		a.Count++
		widen(&a.FirstTransaction, &a.LastTransaction, l.Date)
	}
	return activity
}

// ComparePaymentsRefunds aggregates payments and refunds per booking on both
// sides, joins them on the booking identifier, and returns the bookings with
// any difference or a mismatch classification. Bookings present on one side
// only are left to the matcher.
func ComparePaymentsRefunds(payments *domain.PaymentSet, ledger *domain.LedgerSet) domain.PaymentComparison {
	result := domain.PaymentComparison{Rows: make([]domain.PaymentDiscrepancy, 0)}

	ledgerActivity := aggregateLedgerActivity(ledger)
	if len(ledgerActivity) == 0 {
		result.Warnings = append(result.Warnings, domain.NewWarning(domain.KindDegradedMode, "compare_payments_refunds",
			"ledger has no rows with a numeric booking id; nothing to compare"))
		return result
	}
	if !ledger.HasTaxAmount {
		result.Warnings = append(result.Warnings, domain.NewWarning(domain.KindDegradedMode, "compare_payments_refunds",
			"ledger has no tax amount column; tax is not compared"))
	}

	order, platform := aggregatePlatform(payments)
	for _, id := range order {
		l, ok := ledgerActivity[id]
		if !ok {
			continue
		}
		p := platform[id]
		result.Matched++

		row := domain.PaymentDiscrepancy{
			BookingID:          id,
			Platform:           *p,
			Ledger:             *l,
			ActivityDifference: p.TotalActivity().Sub(l.TotalActivity()),
			PaymentDifference:  p.PaymentGross.Sub(l.PaymentAmount),
			RefundDifference:   p.RefundGross.Sub(l.RefundAmount),
			CountDifference:    p.TransactionCount() - l.Count,
		}
		row.HasActivityDifference = domain.IsDifferent(row.ActivityDifference, decimal.Zero)
		row.HasPaymentDifference = domain.IsDifferent(row.PaymentDifference, decimal.Zero)
		row.HasRefundDifference = domain.IsDifferent(row.RefundDifference, decimal.Zero)
		row.HasCountDifference = row.CountDifference != 0
		if ledger.HasTaxAmount {
			d := p.TaxPaid.Sub(l.TaxAmount)
			row.TaxDifference = domain.Amount(d)
			row.HasTaxDifference = domain.IsDifferent(d, decimal.Zero)
		}
		row.MissingTransactionType = Classify(ClassifyInput{
			PaymentGross:      p.PaymentGross,
			RefundGross:       p.RefundGross,
			PaymentDifference: row.PaymentDifference,
			RefundDifference:  row.RefundDifference,
		})

		if row.HasActivityDifference || row.HasPaymentDifference || row.HasRefundDifference ||
			row.HasTaxDifference || row.HasCountDifference || row.MissingTransactionType != domain.MismatchNone {
			result.Rows = append(result.Rows, row)
		}
	}
	return result
}
