package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction defines whether a transaction moved money in or out.
type Direction string

const (
	DirectionPayment Direction = "Payment"
	DirectionRefund  Direction = "Refund"
)

// PaymentTransaction represents one payment or refund line from the
// booking platform's payments or sales export. Refund amounts are negative.
type PaymentTransaction struct {
	BookingID     string              `json:"booking_id"`
	Direction     Direction           `json:"direction"`
	Gross         decimal.NullDecimal `json:"gross"`
	Net           decimal.NullDecimal `json:"net"`
	ProcessingFee decimal.NullDecimal `json:"processing_fee"`
	TaxPaid       decimal.NullDecimal `json:"tax_paid"`
	SubtotalPaid  decimal.NullDecimal `json:"subtotal_paid"`
	SubtotalTotal decimal.NullDecimal `json:"subtotal_total"` // full booking subtotal, used for proration
	TotalPaid     decimal.NullDecimal `json:"total_paid"`
	Guests        decimal.Decimal     `json:"guests"`
	PaymentType   string              `json:"payment_type"`
	Item          string              `json:"item"`
	Affiliate     string              `json:"affiliate,omitempty"`

	ReceivableFromAffiliate decimal.NullDecimal `json:"receivable_from_affiliate"`
	ReceivedFromAffiliate   decimal.NullDecimal `json:"received_from_affiliate"`
	PayableToAffiliate      decimal.NullDecimal `json:"payable_to_affiliate"`
	PaidToAffiliate         decimal.NullDecimal `json:"paid_to_affiliate"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsRefund reports whether the transaction is a refund.
func (t PaymentTransaction) IsRefund() bool {
	return t.Direction == DirectionRefund
}

// AffiliateCollection is the amount an affiliate collected from the guest on
// the operator's behalf (receivable plus already received).
func (t PaymentTransaction) AffiliateCollection() decimal.Decimal {
	return OrZero(t.ReceivableFromAffiliate).Add(OrZero(t.ReceivedFromAffiliate))
}

// AffiliatePayout is the commission the operator owes or already paid the affiliate.
func (t PaymentTransaction) AffiliatePayout() decimal.Decimal {
	return OrZero(t.PayableToAffiliate).Add(OrZero(t.PaidToAffiliate))
}

// AffiliateCollected reports whether an affiliate took payment for this booking.
func (t PaymentTransaction) AffiliateCollected() bool {
	return t.AffiliateCollection().IsPositive()
}

// ClearingAmount is the gross amount that reaches a clearing account:
// subtotal paid plus tax paid.
func (t PaymentTransaction) ClearingAmount() decimal.Decimal {
	return OrZero(t.SubtotalPaid).Add(OrZero(t.TaxPaid))
}

// PaidAmount is the total paid on the line, falling back to the clearing
// amount when the export has no total-paid column.
func (t PaymentTransaction) PaidAmount() decimal.Decimal {
	if t.TotalPaid.Valid {
		return t.TotalPaid.Decimal
	}
	return t.ClearingAmount()
}

// PaymentSet is a normalized payments or sales export.
type PaymentSet struct {
	Kind         SourceKind           `json:"kind"`
	Transactions []PaymentTransaction `json:"transactions"`
	Warnings     []Warning            `json:"warnings,omitempty"`
}
