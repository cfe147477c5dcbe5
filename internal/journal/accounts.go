package journal

import (
	"fmt"
	"strings"

	"booking-reconciliation/internal/domain"
)

// Fixed account names.
const (
	DefaultPaymentAccount       = "Accounts Receivable"
	DefaultProcessingFeeAccount = "Processing Fee Expense"
	DefaultVATAccount           = "Sales Tax Payable"
	RoundingAccount             = "Rounding Difference"
	AffiliateCommissionAccount  = "Affiliate Commission Expense"
)

// TourRevenueAccount is the synthesized account of an unmapped tour.
func TourRevenueAccount(tour string) string {
	return "Tour Revenue - " + tour
}

// FeeRevenueAccount is the synthesized account of an unmapped fee.
func FeeRevenueAccount(fee string) string {
	return "Fee Revenue - " + fee
}

// AffiliatePayableAccount is the account the operator's debt to an affiliate is held in.
func AffiliatePayableAccount(affiliate string) string {
	return "Accounts Payable - " + affiliate
}

// AffiliateReceivableAccount is the account an affiliate's debt to the operator is held in.
func AffiliateReceivableAccount(affiliate string) string {
	return "Accounts Receivable - " + affiliate
}

// AccountRule maps payment types containing Keyword onto Account.
type AccountRule struct {
	Keyword string
	Account string
}

// PaymentAccountRules resolve unmapped payment types. A payment type equal
// to a keyword wins; otherwise the first keyword contained in the payment
// type, top to bottom, decides.
var PaymentAccountRules = []AccountRule{
	{"credit card", "Credit Card Clearing"},
	{"mastercard", "Credit Card Clearing"},
	{"visa", "Credit Card Clearing"},
	{"amex", "Credit Card Clearing"},
	{"american express", "Credit Card Clearing"},
	{"affiliate", "Affiliate Receivable"},
	{"cash", "Cash - Operating"},
	{"check", "Undeposited Funds"},
	{"cheque", "Undeposited Funds"},
	{"bank transfer", "Bank Transfer Clearing"},
	{"wire transfer", "Bank Transfer Clearing"},
	{"paypal", "PayPal Clearing"},
	{"square", "Square Clearing"},
	{"stripe", "Stripe Clearing"},
	{"gift card", "Gift Card Liability"},
	{"voucher", "Voucher Clearing"},
	{"refund", "Refunds Payable"},
}

// ResolvePaymentAccount maps a free-text payment type onto a clearing account
// using rules, case-insensitively, falling back to DefaultPaymentAccount.
func ResolvePaymentAccount(paymentType string, rules []AccountRule) string {
	pt := strings.ToLower(strings.TrimSpace(paymentType))
	for _, r := range rules {
		if pt == r.Keyword {
			return r.Account
		}
	}
	for _, r := range rules {
		if strings.Contains(pt, r.Keyword) {
			return r.Account
		}
	}
	return DefaultPaymentAccount
}

// DefaultMappings are used when no mapping store is configured.
func DefaultMappings() []domain.AccountMapping {
	asset := func(item, account string) domain.AccountMapping {
		return domain.AccountMapping{Type: domain.MappingPaymentType, Item: item, AccountName: account, Classification: "asset", Active: true}
	}
	return []domain.AccountMapping{
		asset("Credit Card", "Credit Card Clearing"),
		asset("Cash", "Cash - Operating"),
		asset("PayPal", "PayPal Clearing"),
		asset("Check", "Undeposited Funds"),
		asset("Bank Transfer", "Bank Transfer Clearing"),
		{Type: domain.MappingProcessingFeeExpense, Item: domain.ItemProcessingFees, AccountName: DefaultProcessingFeeAccount, Classification: "expense", Active: true},
		{Type: domain.MappingSalesVATLiability, Item: domain.ItemSalesVAT, AccountName: DefaultVATAccount, Classification: "liability", Active: true},
	}
}

// account is a resolved ledger account.
type account struct {
	name     string
	id       string
	fallback bool
}

// resolver looks accounts up in the mapping table and records one
// mapping-fallback notice per unmapped item.
type resolver struct {
	mappings *domain.AccountMappings
	rules    []AccountRule
	noticed  map[string]bool
	notices  []domain.Warning
}

func newResolver(mappings *domain.AccountMappings, rules []AccountRule) *resolver {
	return &resolver{mappings: mappings, rules: rules, noticed: make(map[string]bool)}
}

func (r *resolver) resolve(t domain.MappingType, item string, fallback func(string) string) account {
	if m, ok := r.mappings.Lookup(t, item); ok && m.AccountName != "" {
		return account{name: m.AccountName, id: m.AccountID}
	}
	name := fallback(item)
	key := fmt.Sprintf("%s/%s", t, item)
	if !r.noticed[key] {
		r.noticed[key] = true
		r.notices = append(r.notices, domain.NewWarning(domain.KindMappingFallback, string(t),
			"no active mapping for %q; using %q", item, name))
	}
	return account{name: name, fallback: true}
}

func (r *resolver) tour(tour string) account {
	return r.resolve(domain.MappingTourRevenue, tour, TourRevenueAccount)
}

func (r *resolver) fee(fee string) account {
	return r.resolve(domain.MappingFeeRevenue, fee, FeeRevenueAccount)
}

func (r *resolver) payment(paymentType string) account {
	return r.resolve(domain.MappingPaymentType, paymentType, func(pt string) string {
		return ResolvePaymentAccount(pt, r.rules)
	})
}

func (r *resolver) vat() account {
	return r.resolve(domain.MappingSalesVATLiability, domain.ItemSalesVAT, func(string) string { return DefaultVATAccount })
}

func (r *resolver) processingFees() account {
	return r.resolve(domain.MappingProcessingFeeExpense, domain.ItemProcessingFees, func(string) string { return DefaultProcessingFeeAccount })
}
