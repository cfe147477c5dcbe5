package fees_test

import (
	"testing"

	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/fees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := snorkelSchedule(t)
	cruise := tx(domain.DirectionPayment, "150", "150", 3)
	cruise.Item = "Sunset Cruise"
	cruise.TaxPaid = amount("15")

	payment := tx(domain.DirectionPayment, "400", "400", 4)
	payment.TaxPaid = amount("40")
	refund := tx(domain.DirectionRefund, "-100", "400", 1)
	refund.TaxPaid = amount("-10")

	txs := []domain.PaymentTransaction{payment, cruise, refund}
	allocs, _ := fees.AllocateAll(txs, s, fees.ModeProportional)

	got := fees.Summarize(txs, allocs)
	require.Len(t, got, 2)

	snorkel := got[0]
	assert.Equal(t, "Snorkel Trip", snorkel.Tour)
	assert.Equal(t, 2, snorkel.Transactions)
	assert.Equal(t, "4", snorkel.Guests.String())
	assert.Equal(t, "300.00", snorkel.SubtotalPaid.StringFixed(2))
	assert.Equal(t, "30.00", snorkel.TaxPaid.StringFixed(2))
	assert.Equal(t, "40.00", snorkel.PaymentFeeRevenue.StringFixed(2))
	assert.Equal(t, "2.50", snorkel.RefundFeeRevenue.StringFixed(2))
	assert.Equal(t, "360.00", snorkel.PaymentTourRevenue.StringFixed(2))
	assert.Equal(t, "-97.50", snorkel.RefundTourRevenue.StringFixed(2))
	assert.Equal(t, "37.50", snorkel.NetFeeRevenue().StringFixed(2))
	assert.Equal(t, "262.50", snorkel.NetTourRevenue().StringFixed(2))
	assert.Equal(t, "28.13", snorkel.FeeByName["Park Fee"].StringFixed(2))
	assert.True(t, snorkel.NetFeeRevenue().Add(snorkel.NetTourRevenue()).Equal(snorkel.SubtotalPaid))

	assert.Equal(t, "Sunset Cruise", got[1].Tour)
	assert.True(t, got[1].PaymentFeeRevenue.IsZero())
	assert.Equal(t, "150.00", got[1].PaymentTourRevenue.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, fees.Summarize(nil, nil))
}
