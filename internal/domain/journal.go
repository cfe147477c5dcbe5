package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalPolicy selects which transactions feed revenue recognition.
type JournalPolicy string

const (
	// PolicyAll recognizes every transaction and books affiliate commissions.
	PolicyAll JournalPolicy = "all"
	// PolicyExcludeAffiliateCollected drops transactions an affiliate already collected.
	PolicyExcludeAffiliateCollected JournalPolicy = "exclude-affiliate-collected"
)

// ParseJournalPolicy accepts the policy names used on the command line.
func ParseJournalPolicy(s string) (JournalPolicy, bool) {
	switch JournalPolicy(s) {
	case PolicyAll:
		return PolicyAll, true
	case PolicyExcludeAffiliateCollected:
		return PolicyExcludeAffiliateCollected, true
	}
	return "", false
}

// LineCategory groups journal lines. Lines are serialized in category order.
type LineCategory int

const (
	CategoryTourRevenue LineCategory = iota
	CategoryFeeRevenue
	CategoryVAT
	CategoryProcessingFee
	CategoryPaymentClearing
	CategoryAffiliate
	CategoryRounding
)

var categoryNames = [...]string{"tour_revenue", "fee_revenue", "vat", "processing_fee", "payment_clearing", "affiliate", "rounding"}

func (c LineCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// MarshalText renders the category name.
func (c LineCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// JournalLine is one side of the double-entry journal. Exactly one of Debit
// and Credit is non-zero.
type JournalLine struct {
	EntryNumber string          `json:"entry_number"`
	Date        time.Time       `json:"date"`
	Category    LineCategory    `json:"category"`
	Account     string          `json:"account"`
	AccountID   string          `json:"account_id,omitempty"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
	Fallback    bool            `json:"fallback"` // account resolved without a confirmed mapping
}

// JournalTotals are the summary figures consumed by payout comparison.
type JournalTotals struct {
	VATCollected         decimal.Decimal            `json:"vat_collected"`
	VATRefunded          decimal.Decimal            `json:"vat_refunded"`
	GrossByPaymentType   map[string]decimal.Decimal `json:"gross_by_payment_type"`
	ProcessingFeesByType map[string]decimal.Decimal `json:"processing_fees_by_payment_type"`
	NetByPaymentType     map[string]decimal.Decimal `json:"net_by_payment_type"`
	TotalDebits          decimal.Decimal            `json:"total_debits"`
	TotalCredits         decimal.Decimal            `json:"total_credits"`
	RoundingAdjustment   decimal.Decimal            `json:"rounding_adjustment"` // signed: credits added minus debits added
	TransactionsIncluded int                        `json:"transactions_included"`
	TransactionsExcluded int                        `json:"transactions_excluded"`
}

// Journal is one consolidated double-entry document.
type Journal struct {
	EntryNumber string        `json:"entry_number"`
	Date        time.Time     `json:"date"`
	Policy      JournalPolicy `json:"policy"`
	Lines       []JournalLine `json:"lines"`
	Totals      JournalTotals `json:"totals"`
	Warnings    []Warning     `json:"warnings,omitempty"`
}

// Sums returns the debit and credit totals of the current lines.
func (j *Journal) Sums() (debits, credits decimal.Decimal) {
	for _, l := range j.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}
