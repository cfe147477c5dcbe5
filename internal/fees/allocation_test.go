package fees_test

import (
	"testing"

	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/fees"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.NullDecimal {
	return domain.Amount(decimal.RequireFromString(s))
}

func snorkelSchedule(t testing.TB) *domain.FeeSchedule {
	t.Helper()
	s := domain.NewFeeSchedule()
	require.NoError(t, s.Add("Snorkel Trip", domain.Fee{Name: "Park Fee", PerGuest: decimal.RequireFromString("7.50")}))
	require.NoError(t, s.Add("Snorkel Trip", domain.Fee{Name: "Fuel Surcharge", PerGuest: decimal.RequireFromString("2.50")}))
	return s
}

func tx(dir domain.Direction, paid, total string, guests int64) domain.PaymentTransaction {
	t := domain.PaymentTransaction{
		BookingID:    "60000001",
		Direction:    dir,
		Item:         "Snorkel Trip",
		SubtotalPaid: amount(paid),
		Guests:       decimal.NewFromInt(guests),
	}
	if total != "" {
		t.SubtotalTotal = amount(total)
	}
	return t
}

func TestParseMode(t *testing.T) {
	m, err := fees.ParseMode("proportional")
	require.NoError(t, err)
	assert.Equal(t, fees.ModeProportional, m)

	_, err = fees.ParseMode("weighted")
	assert.Error(t, err)
}

func TestFullBookingFee(t *testing.T) {
	s := snorkelSchedule(t)

	assert.Equal(t, "40.00", fees.FullBookingFee(s, "Snorkel Trip", decimal.NewFromInt(4)).StringFixed(2))
	assert.True(t, fees.FullBookingFee(s, "Sunset Cruise", decimal.NewFromInt(4)).IsZero())
	assert.True(t, fees.FullBookingFee(nil, "Snorkel Trip", decimal.NewFromInt(4)).IsZero())
}

func TestAllocateProportional(t *testing.T) {
	tests := []struct {
		name           string
		tx             domain.PaymentTransaction
		wantProportion string
		wantFee        string
		wantTour       string
		wantPark       string
	}{
		{
			name:           "half paid",
			tx:             tx(domain.DirectionPayment, "200", "400", 4),
			wantProportion: "0.50",
			wantFee:        "20.00",
			wantTour:       "180.00",
			wantPark:       "15.00",
		},
		{
			name:           "fully paid",
			tx:             tx(domain.DirectionPayment, "400", "400", 4),
			wantProportion: "1.00",
			wantFee:        "40.00",
			wantTour:       "360.00",
			wantPark:       "30.00",
		},
		{
			name:           "overpayment capped",
			tx:             tx(domain.DirectionPayment, "500", "400", 4),
			wantProportion: "1.00",
			wantFee:        "40.00",
			wantTour:       "460.00",
			wantPark:       "30.00",
		},
		{
			name:           "partial refund",
			tx:             tx(domain.DirectionRefund, "-100", "400", 4),
			wantProportion: "0.25",
			wantFee:        "10.00",
			wantTour:       "-90.00",
			wantPark:       "7.50",
		},
		{
			name:           "missing booking subtotal",
			tx:             tx(domain.DirectionPayment, "200", "", 4),
			wantProportion: "0.00",
			wantFee:        "0.00",
			wantTour:       "200.00",
			wantPark:       "0.00",
		},
	}

	s := snorkelSchedule(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fees.AllocateProportional(tt.tx, s)

			assert.Equal(t, tt.wantProportion, got.Proportion.StringFixed(2))
			assert.Equal(t, "40.00", got.FullFee.StringFixed(2))
			assert.Equal(t, tt.wantFee, got.FeeTotal.StringFixed(2))
			assert.Equal(t, tt.wantTour, got.TourRevenue.StringFixed(2))
			assert.Equal(t, tt.wantPark, got.FeeByName["Park Fee"].StringFixed(2))
			assert.Equal(t, []string{"Park Fee", "Fuel Surcharge"}, got.FeeOrder)

			assert.False(t, got.Proportion.IsNegative())
			assert.False(t, got.Proportion.GreaterThan(decimal.NewFromInt(1)))
			assert.True(t, got.FeeTotal.LessThanOrEqual(got.FullFee))
			assert.True(t, got.TourRevenue.Add(got.SignedFeeTotal()).Equal(tt.tx.SubtotalPaid.Decimal), "fee and tour revenue add up to the subtotal")
		})
	}
}

func TestAllocate_Simple(t *testing.T) {
	s := snorkelSchedule(t)

	t.Run("payment", func(t *testing.T) {
		got := fees.Allocate(tx(domain.DirectionPayment, "200", "400", 2), s)
		assert.Equal(t, "20.00", got.FeeTotal.StringFixed(2))
		assert.Equal(t, "180.00", got.TourRevenue.StringFixed(2))
	})

	t.Run("refund", func(t *testing.T) {
		got := fees.Allocate(tx(domain.DirectionRefund, "-200", "", 2), s)
		assert.Equal(t, "20.00", got.FeeTotal.StringFixed(2))
		assert.Equal(t, "-20.00", got.SignedFeeTotal().StringFixed(2))
		assert.Equal(t, "-180.00", got.TourRevenue.StringFixed(2))
	})

	t.Run("unmapped tour", func(t *testing.T) {
		in := tx(domain.DirectionPayment, "200", "200", 2)
		in.Item = "Sunset Cruise"
		got := fees.Allocate(in, s)
		assert.True(t, got.FeeTotal.IsZero())
		assert.Empty(t, got.FeeByName)
		assert.Equal(t, "200.00", got.TourRevenue.StringFixed(2))
	})
}

func TestAllocateAll(t *testing.T) {
	s := snorkelSchedule(t)
	txs := []domain.PaymentTransaction{
		tx(domain.DirectionPayment, "200", "400", 4),
		tx(domain.DirectionPayment, "200", "", 4),
	}

	proportional, warnings := fees.AllocateAll(txs, s, fees.ModeProportional)
	require.Len(t, proportional, 2)
	assert.Equal(t, "20.00", proportional[0].FeeTotal.StringFixed(2))
	assert.True(t, proportional[1].FeeTotal.IsZero())
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.KindDegradedMode, warnings[0].Kind)

	simple, warnings := fees.AllocateAll(txs, s, fees.ModeSimple)
	assert.Empty(t, warnings)
	assert.Equal(t, "40.00", simple[1].FeeTotal.StringFixed(2))
}

func BenchmarkAllocateProportional(b *testing.B) {
	s := snorkelSchedule(b)
	in := tx(domain.DirectionPayment, "200", "400", 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fees.AllocateProportional(in, s)
	}
}
