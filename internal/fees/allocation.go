// Package fees splits transaction subtotals into flat per-guest fee revenue
// and tour revenue.
package fees

import (
	"fmt"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// Mode selects how fees are allocated to a transaction.
type Mode string

const (
	// ModeSimple charges the full-booking fee to every transaction.
	ModeSimple Mode = "simple"
	// ModeProportional prorates the full-booking fee by the share of the
	// booking subtotal the transaction covers.
	ModeProportional Mode = "proportional"
)

// ParseMode validates a configured allocation mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSimple, ModeProportional:
		return m, nil
	}
	return "", fmt.Errorf("unknown fee allocation mode %q", s)
}

var one = decimal.NewFromInt(1)

// FullBookingFee is the sum of every fee mapped to tour, charged per guest.
func FullBookingFee(schedule *domain.FeeSchedule, tour string, guests decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, fee := range schedule.Fees(tour) {
		total = total.Add(fee.PerGuest.Mul(guests))
	}
	return total
}

// Allocate assumes the transaction covers the complete booking: the full
// booking fee is fee revenue and the rest of the subtotal is tour revenue.
func Allocate(tx domain.PaymentTransaction, schedule *domain.FeeSchedule) domain.FeeAllocation {
	return allocate(tx, schedule, one)
}

// AllocateProportional prorates the booking fee by abs(subtotal paid) over
// the booking subtotal, capped at 1. A zero or missing booking subtotal
// allocates no fee.
func AllocateProportional(tx domain.PaymentTransaction, schedule *domain.FeeSchedule) domain.FeeAllocation {
	return allocate(tx, schedule, Proportion(tx))
}

// Proportion is the share of the booking subtotal a transaction covers.
func Proportion(tx domain.PaymentTransaction) decimal.Decimal {
	total := domain.OrZero(tx.SubtotalTotal).Abs()
	if !total.IsPositive() {
		return decimal.Zero
	}
	p := domain.OrZero(tx.SubtotalPaid).Abs().Div(total)
	if p.GreaterThan(one) {
		return one
	}
	return p
}

func allocate(tx domain.PaymentTransaction, schedule *domain.FeeSchedule, proportion decimal.Decimal) domain.FeeAllocation {
	alloc := domain.FeeAllocation{
		Direction:  tx.Direction,
		Proportion: proportion,
		FeeTotal:   decimal.Zero,
		FeeByName:  make(map[string]decimal.Decimal),
	}
	for _, fee := range schedule.Fees(tx.Item) {
		full := fee.PerGuest.Mul(tx.Guests)
		share := full.Mul(proportion)
		alloc.FullFee = alloc.FullFee.Add(full)
		alloc.FeeTotal = alloc.FeeTotal.Add(share)
		if _, ok := alloc.FeeByName[fee.Name]; !ok {
			alloc.FeeOrder = append(alloc.FeeOrder, fee.Name)
		}
		alloc.FeeByName[fee.Name] = alloc.FeeByName[fee.Name].Add(share)
	}
	alloc.TourRevenue = domain.OrZero(tx.SubtotalPaid).Sub(alloc.SignedFeeTotal())
	return alloc
}

// AllocateAll allocates every transaction with the given mode. In
// proportional mode, transactions on a tour with fees but no booking subtotal
// are reported, since no fee is allocated to them.
func AllocateAll(txs []domain.PaymentTransaction, schedule *domain.FeeSchedule, mode Mode) ([]domain.FeeAllocation, []domain.Warning) {
	out := make([]domain.FeeAllocation, len(txs))
	noSubtotal := 0
	for i, tx := range txs {
		if mode == ModeSimple {
			out[i] = Allocate(tx, schedule)
			continue
		}
		out[i] = AllocateProportional(tx, schedule)
		if !tx.SubtotalTotal.Valid && len(schedule.Fees(tx.Item)) > 0 {
			noSubtotal++
		}
	}
	var warnings []domain.Warning
	if noSubtotal > 0 {
		warnings = append(warnings, domain.NewWarning(domain.KindDegradedMode, "fee_allocation",
			"%d transaction(s) on tours with fees have no booking subtotal; no fee revenue was allocated to them", noSubtotal))
	}
	return out, warnings
}
