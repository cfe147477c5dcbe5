package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind identifies which export a table came from.
type SourceKind string

const (
	SourceBooking      SourceKind = "booking"
	SourceLedger       SourceKind = "ledger"
	SourcePayments     SourceKind = "payments"
	SourceSalesExtract SourceKind = "sales-extract"
)

// BookingRecord is one row of the booking-platform export.
type BookingRecord struct {
	BookingID   string              `json:"booking_id"`
	Contact     string              `json:"contact,omitempty"`
	Item        string              `json:"item,omitempty"`
	Total       decimal.NullDecimal `json:"total"`
	TotalTax    decimal.NullDecimal `json:"total_tax"`
	AmountDue   decimal.NullDecimal `json:"amount_due"`
	TotalPaid   decimal.NullDecimal `json:"total_paid"`
	IsCancelled bool                `json:"is_cancelled"`
	IsPaid      bool                `json:"is_paid"`
	CreatedAt   *time.Time          `json:"created_at,omitempty"`
	StartAt     *time.Time          `json:"start_at,omitempty"`
}

// BookingSet is a normalized booking export. The Has* flags record which
// optional amount columns were present in the file.
type BookingSet struct {
	Records      []BookingRecord `json:"records"`
	HasTotal     bool            `json:"has_total"`
	HasTotalPaid bool            `json:"has_total_paid"`
	HasTotalTax  bool            `json:"has_total_tax"`
	HasAmountDue bool            `json:"has_amount_due"`
	Warnings     []Warning       `json:"warnings,omitempty"`
}

// LedgerRecord is one row of the accounting-ledger export.
type LedgerRecord struct {
	BookingID   string              `json:"booking_id"`
	IsNumeric   bool                `json:"is_numeric"`
	Amount      decimal.NullDecimal `json:"amount"`
	NetAmount   decimal.NullDecimal `json:"net_amount"`
	TaxAmount   decimal.NullDecimal `json:"tax_amount"`
	OpenBalance decimal.NullDecimal `json:"open_balance"`
	DocNumber   string              `json:"doc_number,omitempty"`
	Name        string              `json:"name,omitempty"`
	Memo        string              `json:"memo,omitempty"`
	Date        *time.Time          `json:"date,omitempty"`
}

// LedgerSet is a normalized ledger export.
type LedgerSet struct {
	Records        []LedgerRecord `json:"records"`
	HasTaxAmount   bool           `json:"has_tax_amount"`
	HasOpenBalance bool           `json:"has_open_balance"`
	HasNetAmount   bool           `json:"has_net_amount"`
	Warnings       []Warning      `json:"warnings,omitempty"`
}

// NumericIDs returns the set of purely numeric ledger identifiers.
func (s *LedgerSet) NumericIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, r := range s.Records {
		if r.IsNumeric {
			ids[r.BookingID] = struct{}{}
		}
	}
	return ids
}

// Matchable returns the ledger rows that participate in cross-source matching.
func (s *LedgerSet) Matchable() []LedgerRecord {
	var out []LedgerRecord
	for _, r := range s.Records {
		if r.IsNumeric {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot is the result of normalizing one uploaded file. Exactly one of the
// record sets is populated, according to Kind.
type Snapshot struct {
	Kind     SourceKind
	Bookings *BookingSet
	Ledger   *LedgerSet
	Payments *PaymentSet
}
