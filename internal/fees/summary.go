package fees

import (
	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// Summarize aggregates allocations per tour, in order of first appearance.
// allocs must be index-aligned with txs.
func Summarize(txs []domain.PaymentTransaction, allocs []domain.FeeAllocation) []domain.TourSummary {
	var order []string
	byTour := make(map[string]*domain.TourSummary)

	for i, tx := range txs {
		s, ok := byTour[tx.Item]
		if !ok {
			s = &domain.TourSummary{Tour: tx.Item, FeeByName: make(map[string]decimal.Decimal)}
			byTour[tx.Item] = s
			order = append(order, tx.Item)
		}
		a := allocs[i]
		s.Transactions++
		s.SubtotalPaid = s.SubtotalPaid.Add(domain.OrZero(tx.SubtotalPaid))
		s.TaxPaid = s.TaxPaid.Add(domain.OrZero(tx.TaxPaid))

		sign := decimal.NewFromInt(1)
		if tx.IsRefund() {
			sign = sign.Neg()
			s.RefundFeeRevenue = s.RefundFeeRevenue.Add(a.FeeTotal)
			s.RefundTourRevenue = s.RefundTourRevenue.Add(a.TourRevenue)
		} else {
			s.Guests = s.Guests.Add(tx.Guests)
			s.PaymentFeeRevenue = s.PaymentFeeRevenue.Add(a.FeeTotal)
			s.PaymentTourRevenue = s.PaymentTourRevenue.Add(a.TourRevenue)
		}
		for _, name := range a.FeeOrder {
			s.FeeByName[name] = s.FeeByName[name].Add(a.FeeByName[name].Mul(sign))
		}
	}

	out := make([]domain.TourSummary, 0, len(order))
	for _, tour := range order {
		out = append(out, *byTour[tour])
	}
	return out
}
