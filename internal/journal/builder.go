// Package journal builds the consolidated double-entry journal that
// recognizes revenue for one sales extract.
package journal

import (
	"fmt"
	"time"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// Options control one journal build.
type Options struct {
	EntryNumber           string
	Date                  time.Time
	Policy                domain.JournalPolicy
	IncludeProcessingFees bool
	BalanceTolerance      decimal.Decimal
	RoundingLimit         decimal.Decimal
	PaymentRules          []AccountRule
}

// DefaultOptions returns the standard thresholds: one cent of tolerance and
// up to five dollars of automatic rounding.
func DefaultOptions(entryNumber string, date time.Time, policy domain.JournalPolicy) Options {
	return Options{
		EntryNumber:      entryNumber,
		Date:             date,
		Policy:           policy,
		BalanceTolerance: domain.Tolerance,
		RoundingLimit:    decimal.NewFromInt(5),
		PaymentRules:     PaymentAccountRules,
	}
}

// sums accumulates amounts per key, remembering first-appearance order.
type sums struct {
	order  []string
	values map[string]decimal.Decimal
}

func newSums() *sums {
	return &sums{values: make(map[string]decimal.Decimal)}
}

func (s *sums) add(key string, v decimal.Decimal) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = s.values[key].Add(v)
}

func (s *sums) toMap() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

type affiliateTotals struct {
	commission decimal.Decimal
	receivable decimal.Decimal
	payable    decimal.Decimal
	collected  bool
}

// builder appends lines to one journal.
type builder struct {
	j   *domain.Journal
	res *resolver
}

// post appends a line. A positive amount is a debit and a negative amount a
// credit; amounts are rounded to cents and zero lines are skipped.
func (b *builder) post(cat domain.LineCategory, acct account, amount decimal.Decimal, description, memo string) {
	amount = amount.Round(2)
	if amount.IsZero() {
		return
	}
	line := domain.JournalLine{
		EntryNumber: b.j.EntryNumber,
		Date:        b.j.Date,
		Category:    cat,
		Account:     acct.name,
		AccountID:   acct.id,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		Memo:        memo,
		Fallback:    acct.fallback,
	}
	if amount.IsPositive() {
		line.Debit = amount
	} else {
		line.Credit = amount.Neg()
	}
	b.j.Lines = append(b.j.Lines, line)
}

// Build produces one balanced journal from the transactions of a sales
// extract and their fee allocations. allocs must be index-aligned with txs.
//
// Revenue, fee revenue and VAT are recognized for every included
// transaction. Payment clearing and processing fees cover what the operator
// collected itself; under PolicyAll, what affiliates collected is settled
// through the affiliate commission and receivable lines instead.
func Build(txs []domain.PaymentTransaction, allocs []domain.FeeAllocation, mappings *domain.AccountMappings, opts Options) (*domain.Journal, error) {
	if len(txs) != len(allocs) {
		return nil, fmt.Errorf("got %d allocations for %d transactions", len(allocs), len(txs))
	}
	if opts.Policy == "" {
		opts.Policy = domain.PolicyAll
	}
	if _, ok := domain.ParseJournalPolicy(string(opts.Policy)); !ok {
		return nil, fmt.Errorf("unknown journal policy %q", opts.Policy)
	}
	if opts.PaymentRules == nil {
		opts.PaymentRules = PaymentAccountRules
	}

	j := &domain.Journal{
		EntryNumber: opts.EntryNumber,
		Date:        opts.Date,
		Policy:      opts.Policy,
		Lines:       make([]domain.JournalLine, 0),
	}
	b := &builder{j: j, res: newResolver(mappings, opts.PaymentRules)}

	tourPayments, tourRefunds := newSums(), newSums()
	feePayments, feeRefunds := newSums(), newSums()
	gross, processing := newSums(), newSums()
	vatCollected, vatRefunded := decimal.Zero, decimal.Zero
	var affiliateOrder []string
	affiliates := make(map[string]*affiliateTotals)

	for i, tx := range txs {
		collected := tx.AffiliateCollected()
		if collected && opts.Policy == domain.PolicyExcludeAffiliateCollected {
			j.Totals.TransactionsExcluded++
			continue
		}
		j.Totals.TransactionsIncluded++
		a := allocs[i]

		if tx.IsRefund() {
			tourRefunds.add(tx.Item, a.TourRevenue)
			for _, name := range a.FeeOrder {
				feeRefunds.add(name, a.FeeByName[name])
			}
			vatRefunded = vatRefunded.Add(domain.OrZero(tx.TaxPaid).Neg())
		} else {
			tourPayments.add(tx.Item, a.TourRevenue)
			for _, name := range a.FeeOrder {
				feePayments.add(name, a.FeeByName[name])
			}
			vatCollected = vatCollected.Add(domain.OrZero(tx.TaxPaid))
		}

		if opts.Policy == domain.PolicyAll && (collected || tx.AffiliatePayout().IsPositive()) {
			name := tx.Affiliate
			if name == "" {
				name = "Unknown Affiliate"
			}
			at, ok := affiliates[name]
			if !ok {
				at = &affiliateTotals{}
				affiliates[name] = at
				affiliateOrder = append(affiliateOrder, name)
			}
			if collected {
				at.collected = true
				at.commission = at.commission.Add(tx.PaidAmount().Sub(tx.AffiliateCollection()))
				at.receivable = at.receivable.Add(tx.AffiliateCollection())
				continue
			}
			at.commission = at.commission.Add(tx.AffiliatePayout())
			at.payable = at.payable.Add(tx.AffiliatePayout())
		}

		gross.add(tx.PaymentType, tx.ClearingAmount())
		processing.add(tx.PaymentType, domain.OrZero(tx.ProcessingFee))
	}

	// Tour revenue.
	for _, tour := range tourPayments.order {
		b.post(domain.CategoryTourRevenue, b.res.tour(tour), tourPayments.values[tour].Neg(),
			tour+" revenue - payments", "Tour revenue for "+tour+" - payments (ex-VAT)")
	}
	for _, tour := range tourRefunds.order {
		b.post(domain.CategoryTourRevenue, b.res.tour(tour), tourRefunds.values[tour].Neg(),
			tour+" revenue - refunds", "Tour revenue refund for "+tour+" - refunds (ex-VAT)")
	}

	// Fee revenue.
	for _, fee := range feePayments.order {
		b.post(domain.CategoryFeeRevenue, b.res.fee(fee), feePayments.values[fee].Neg(),
			fee+" revenue - payments", fee+" revenue from payments (all tours, ex-VAT)")
	}
	for _, fee := range feeRefunds.order {
		b.post(domain.CategoryFeeRevenue, b.res.fee(fee), feeRefunds.values[fee],
			fee+" revenue - refunds", fee+" revenue refund (all tours, ex-VAT)")
	}

	// VAT.
	if !vatCollected.IsZero() || !vatRefunded.IsZero() {
		vat := b.res.vat()
		b.post(domain.CategoryVAT, vat, vatCollected.Neg(), "VAT on payments",
			fmt.Sprintf("VAT collected on payments ($%s)", vatCollected.StringFixed(2)))
		b.post(domain.CategoryVAT, vat, vatRefunded, "VAT on refunds",
			fmt.Sprintf("VAT refunded on refunds ($%s)", vatRefunded.StringFixed(2)))
	}

	// Processing fees: a negative bucket is a cost to the operator, a
	// positive one is a fee the processor gave back.
	if opts.IncludeProcessingFees {
		for _, pt := range processing.order {
			fee := processing.values[pt]
			if fee.IsZero() {
				continue
			}
			expense, clearing := b.res.processingFees(), b.res.payment(pt)
			if fee.IsNegative() {
				b.post(domain.CategoryProcessingFee, expense, fee.Neg(), pt+" processing fee expense", "Processing fees for "+pt+" payments")
				b.post(domain.CategoryProcessingFee, clearing, fee, pt+" processing fee adjustment", "Processing fee reduction for "+pt+" clearing")
			} else {
				b.post(domain.CategoryProcessingFee, expense, fee.Neg(), pt+" processing fee refund", "Processing fee refunds for "+pt+" refunds")
				b.post(domain.CategoryProcessingFee, clearing, fee, pt+" processing fee refund adjustment", "Processing fee refund increase for "+pt+" clearing")
			}
		}
	}

	// Payment clearing.
	for _, pt := range gross.order {
		b.post(domain.CategoryPaymentClearing, b.res.payment(pt), gross.values[pt], pt+" payment", "Payments via "+pt)
	}

	// Affiliates. An affiliate that collected any payment is settled through
	// its receivable; commissions it is owed on bookings the operator
	// collected are netted against that receivable.
	for _, name := range affiliateOrder {
		at := affiliates[name]
		b.post(domain.CategoryAffiliate, account{name: AffiliateCommissionAccount}, at.commission,
			name+" commission expense", "Commission expense to "+name)
		if at.collected {
			if at.payable.IsPositive() {
				j.Warnings = append(j.Warnings, domain.NewWarning(domain.KindDegradedMode, "affiliate",
					"%s both collected payments and is owed $%s of commission; the commission was netted against its receivable",
					name, at.payable.StringFixed(2)))
			}
			b.post(domain.CategoryAffiliate, account{name: AffiliateReceivableAccount(name)}, at.receivable.Sub(at.payable),
				name+" commission receivable", "Amount collected by "+name+" on the operator's behalf")
			continue
		}
		b.post(domain.CategoryAffiliate, account{name: AffiliatePayableAccount(name)}, at.payable.Neg(),
			name+" commission payable", "Commission payable to "+name)
	}

	j.Totals.VATCollected = vatCollected
	j.Totals.VATRefunded = vatRefunded
	j.Totals.GrossByPaymentType = gross.toMap()
	j.Totals.ProcessingFeesByType = processing.toMap()
	j.Totals.NetByPaymentType = make(map[string]decimal.Decimal, len(gross.values))
	for pt, g := range gross.values {
		j.Totals.NetByPaymentType[pt] = g.Add(processing.values[pt])
	}

	j.Warnings = append(b.res.notices, j.Warnings...)
	Balance(j, opts.BalanceTolerance, opts.RoundingLimit)
	return j, nil
}
