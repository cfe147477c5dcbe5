package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CancelledOpenRow joins a cancelled booking to a ledger row that still
// carries an open balance.
type CancelledOpenRow struct {
	Booking BookingRecord `json:"booking"`
	Ledger  LedgerRecord  `json:"ledger"`
}

// CancelledOpenResult is the output of the cancelled-vs-open check.
type CancelledOpenResult struct {
	Rows     []CancelledOpenRow `json:"rows"`
	Degraded bool               `json:"degraded"` // open balance unknown, all matches reported
	Warnings []Warning          `json:"warnings,omitempty"`
}

// AmountDiscrepancy compares one booking against its aggregated ledger rows.
// Booking-side amounts are reported after the cancellation adjustment.
type AmountDiscrepancy struct {
	BookingID   string     `json:"booking_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	IsPaid      bool       `json:"is_paid"`
	IsCancelled bool       `json:"is_cancelled"`

	BookingTotal     decimal.NullDecimal `json:"booking_total"`
	BookingTotalPaid decimal.NullDecimal `json:"booking_total_paid"`
	BookingTax       decimal.NullDecimal `json:"booking_tax"`
	BookingAmountDue decimal.NullDecimal `json:"booking_amount_due"`

	LedgerAmount      decimal.NullDecimal `json:"ledger_amount"`
	LedgerTax         decimal.NullDecimal `json:"ledger_tax"`
	LedgerOpenBalance decimal.NullDecimal `json:"ledger_open_balance"`

	TotalDifference   decimal.NullDecimal `json:"total_difference"`
	TaxDifference     decimal.NullDecimal `json:"tax_difference"`
	BalanceDifference decimal.NullDecimal `json:"balance_difference"`

	HasTotalDifference   bool `json:"has_total_difference"`
	HasTaxDifference     bool `json:"has_tax_difference"`
	HasBalanceDifference bool `json:"has_balance_difference"`
}

// AmountComparison is the output of the amount comparison.
type AmountComparison struct {
	Rows     []AmountDiscrepancy `json:"rows"`
	Matched  int                 `json:"matched"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// MismatchType classifies a payment/refund discrepancy.
type MismatchType string

const (
	MismatchNone                 MismatchType = "None"
	MismatchMissingPayment       MismatchType = "Missing Payment in QB"
	MismatchMissingRefund        MismatchType = "Missing Refund in QB"
	MismatchMissingPaymentRefund MismatchType = "Missing Payment & Refund in QB"
	MismatchExtraPayment         MismatchType = "Extra Payment in QB"
	MismatchExtraRefund          MismatchType = "Extra Refund in QB"
)

// PlatformActivity aggregates the booking platform's transactions for one booking.
type PlatformActivity struct {
	PaymentGross         decimal.Decimal `json:"payment_gross"`
	PaymentNet           decimal.Decimal `json:"payment_net"`
	PaymentProcessingFee decimal.Decimal `json:"payment_processing_fee"`
	RefundGross          decimal.Decimal `json:"refund_gross"` // absolute value
	RefundNet            decimal.Decimal `json:"refund_net"`   // absolute value
	RefundProcessingFee  decimal.Decimal `json:"refund_processing_fee"`
	TaxPaid              decimal.Decimal `json:"tax_paid"`
	PaymentCount         int             `json:"payment_count"`
	RefundCount          int             `json:"refund_count"`
	FirstTransaction     *time.Time      `json:"first_transaction,omitempty"`
	LastTransaction      *time.Time      `json:"last_transaction,omitempty"`
}

// TotalActivity is payment gross plus refund gross.
func (a PlatformActivity) TotalActivity() decimal.Decimal {
	return a.PaymentGross.Add(a.RefundGross)
}

// NetAmount is payment net minus refund net.
func (a PlatformActivity) NetAmount() decimal.Decimal {
	return a.PaymentNet.Sub(a.RefundNet)
}

// NetProcessingFee is the payment processing fee minus the refunded processing fee.
func (a PlatformActivity) NetProcessingFee() decimal.Decimal {
	return a.PaymentProcessingFee.Sub(a.RefundProcessingFee)
}

// TransactionCount is the number of payment and refund lines.
func (a PlatformActivity) TransactionCount() int {
	return a.PaymentCount + a.RefundCount
}

// LedgerActivity aggregates the ledger rows for one booking.
type LedgerActivity struct {
	NetAmount        decimal.Decimal `json:"net_amount"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	RefundAmount     decimal.Decimal `json:"refund_amount"` // absolute value
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	OpenBalance      decimal.Decimal `json:"open_balance"`
	Count            int             `json:"count"`
	FirstTransaction *time.Time      `json:"first_transaction,omitempty"`
	LastTransaction  *time.Time      `json:"last_transaction,omitempty"`
}

// TotalActivity is payment amount plus refund amount.
func (a LedgerActivity) TotalActivity() decimal.Decimal {
	return a.PaymentAmount.Add(a.RefundAmount)
}

// PaymentDiscrepancy is one joined payment/refund comparison row.
type PaymentDiscrepancy struct {
	BookingID string           `json:"booking_id"`
	Platform  PlatformActivity `json:"platform"`
	Ledger    LedgerActivity   `json:"ledger"`

	ActivityDifference decimal.Decimal     `json:"activity_difference"`
	PaymentDifference  decimal.Decimal     `json:"payment_difference"`
	RefundDifference   decimal.Decimal     `json:"refund_difference"`
	TaxDifference      decimal.NullDecimal `json:"tax_difference"`
	CountDifference    int                 `json:"count_difference"`

	HasActivityDifference bool `json:"has_activity_difference"`
	HasPaymentDifference  bool `json:"has_payment_difference"`
	HasRefundDifference   bool `json:"has_refund_difference"`
	HasTaxDifference      bool `json:"has_tax_difference"`
	HasCountDifference    bool `json:"has_count_difference"`

	MissingTransactionType MismatchType `json:"missing_transaction_type"`
}

// PaymentComparison is the output of the payment/refund reconciliation.
type PaymentComparison struct {
	Rows     []PaymentDiscrepancy `json:"rows"`
	Matched  int                  `json:"matched"`
	Warnings []Warning            `json:"warnings,omitempty"`
}

// FeeAllocation splits one transaction's subtotal into fee and tour revenue.
// FeeTotal and FeeByName are magnitudes; for refunds they are amounts of fee
// revenue being returned. TourRevenue carries the transaction's sign.
type FeeAllocation struct {
	Direction   Direction                  `json:"direction"`
	Proportion  decimal.Decimal            `json:"proportion"`
	FullFee     decimal.Decimal            `json:"full_fee"`
	FeeTotal    decimal.Decimal            `json:"fee_total"`
	FeeByName   map[string]decimal.Decimal `json:"fee_by_name"`
	FeeOrder    []string                   `json:"-"`
	TourRevenue decimal.Decimal            `json:"tour_revenue"`
}

// SignedFeeTotal returns the fee total with the transaction's sign, so that
// SignedFeeTotal + TourRevenue equals the subtotal paid.
func (a FeeAllocation) SignedFeeTotal() decimal.Decimal {
	if a.Direction == DirectionRefund {
		return a.FeeTotal.Neg()
	}
	return a.FeeTotal
}

// TourSummary aggregates one tour's transactions for a reporting period.
type TourSummary struct {
	Tour               string                     `json:"tour"`
	Guests             decimal.Decimal            `json:"guests"`
	Transactions       int                        `json:"transactions"`
	SubtotalPaid       decimal.Decimal            `json:"subtotal_paid"`
	TaxPaid            decimal.Decimal            `json:"tax_paid"`
	PaymentFeeRevenue  decimal.Decimal            `json:"payment_fee_revenue"`
	RefundFeeRevenue   decimal.Decimal            `json:"refund_fee_revenue"`
	PaymentTourRevenue decimal.Decimal            `json:"payment_tour_revenue"`
	RefundTourRevenue  decimal.Decimal            `json:"refund_tour_revenue"` // negative
	FeeByName          map[string]decimal.Decimal `json:"fee_by_name"`          // net of refunds
}

// NetFeeRevenue is payment fee revenue less refunded fee revenue.
func (s TourSummary) NetFeeRevenue() decimal.Decimal {
	return s.PaymentFeeRevenue.Sub(s.RefundFeeRevenue)
}

// NetTourRevenue is payment tour revenue plus (negative) refund tour revenue.
func (s TourSummary) NetTourRevenue() decimal.Decimal {
	return s.PaymentTourRevenue.Add(s.RefundTourRevenue)
}

// Summary provides high-level statistics of one reconciliation run.
type Summary struct {
	BookingsProcessed        int `json:"bookings_processed"`
	LedgerRowsProcessed      int `json:"ledger_rows_processed"`
	LedgerNumericIDs         int `json:"ledger_numeric_ids"`
	PaymentLinesProcessed    int `json:"payment_lines_processed"`
	MissingBookings          int `json:"missing_bookings"`
	CancelledWithOpenInvoice int `json:"cancelled_with_open_invoice"`
	AmountDiscrepancies      int `json:"amount_discrepancies"`
	PaymentDiscrepancies     int `json:"payment_discrepancies"`
}

// ReconciliationReport is the top-level structure for the discrepancy output.
type ReconciliationReport struct {
	RunID                string               `json:"run_id"`
	GeneratedAt          time.Time            `json:"generated_at"`
	Summary              Summary              `json:"summary"`
	MissingBookings      []BookingRecord      `json:"missing_bookings"`
	CancelledVsOpen      []CancelledOpenRow   `json:"cancelled_vs_open"`
	AmountDiscrepancies  []AmountDiscrepancy  `json:"amount_discrepancies"`
	PaymentDiscrepancies []PaymentDiscrepancy `json:"payment_discrepancies"`
	Warnings             []Warning            `json:"warnings,omitempty"`
	Failures             []Failure            `json:"failures,omitempty"`
}

// JournalReport bundles the journals generated from one sales extract.
type JournalReport struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Tours       []TourSummary `json:"tours"`
	Journals    []Journal     `json:"journals"`
	Warnings    []Warning     `json:"warnings,omitempty"`
}
