package journal_test

import (
	"testing"

	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/journal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalWith(debit, credit string) *domain.Journal {
	return &domain.Journal{
		EntryNumber: "JE0100",
		Date:        entryDate,
		Lines: []domain.JournalLine{
			{Account: "Cash - Operating", Debit: decimal.RequireFromString(debit), Credit: decimal.Zero},
			{Account: "Tour Revenue - Kayak Tour", Debit: decimal.Zero, Credit: decimal.RequireFromString(credit)},
		},
	}
}

func TestBalance(t *testing.T) {
	tolerance := domain.Tolerance
	limit := decimal.NewFromInt(5)

	tests := []struct {
		name           string
		debit          string
		credit         string
		wantLines      int
		wantAdjustment string
		wantImbalance  bool
	}{
		{name: "balanced", debit: "100.00", credit: "100.00", wantLines: 2, wantAdjustment: "0.00"},
		{name: "within tolerance", debit: "100.01", credit: "100.00", wantLines: 2, wantAdjustment: "0.00"},
		{name: "excess debits credited", debit: "100.02", credit: "100.00", wantLines: 3, wantAdjustment: "0.02"},
		{name: "excess credits debited", debit: "100.00", credit: "103.50", wantLines: 3, wantAdjustment: "-3.50"},
		{name: "at the limit", debit: "105.00", credit: "100.00", wantLines: 3, wantAdjustment: "5.00"},
		{name: "beyond the limit", debit: "110.00", credit: "100.00", wantLines: 2, wantAdjustment: "0.00", wantImbalance: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := journalWith(tt.debit, tt.credit)
			before := decimal.RequireFromString(tt.debit).Sub(decimal.RequireFromString(tt.credit))

			journal.Balance(j, tolerance, limit)

			require.Len(t, j.Lines, tt.wantLines)
			assert.Equal(t, tt.wantAdjustment, j.Totals.RoundingAdjustment.StringFixed(2))
			assert.Equal(t, tt.wantImbalance, domain.CountKind(j.Warnings, domain.KindImbalance) == 1)

			if tt.wantLines == 3 {
				line := j.Lines[2]
				assert.Equal(t, journal.RoundingAccount, line.Account)
				assert.Equal(t, domain.CategoryRounding, line.Category)
				assert.True(t, before.Equal(j.Totals.RoundingAdjustment))
				assert.False(t, domain.IsDifferent(j.Totals.TotalDebits, j.Totals.TotalCredits))
			}
			if tt.wantImbalance {
				assert.Contains(t, j.Warnings[0].Detail, "110.00")
				assert.Contains(t, j.Warnings[0].Detail, "100.00")
				assert.Equal(t, "110.00", j.Totals.TotalDebits.StringFixed(2))
			}
		})
	}
}
