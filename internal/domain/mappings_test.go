package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeSchedule(t *testing.T) {
	s := domain.NewFeeSchedule()
	require.NoError(t, s.Add("Snorkel Trip", domain.Fee{Name: "Park Fee", PerGuest: decimal.NewFromInt(10)}))
	require.NoError(t, s.Add("Kayak Tour", domain.Fee{Name: "Free Fee", PerGuest: decimal.Zero}))
	require.NoError(t, s.Add("Snorkel Trip", domain.Fee{Name: "Fuel", PerGuest: decimal.NewFromInt(2)}))

	err := s.Add("Snorkel Trip", domain.Fee{Name: "Discount", PerGuest: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	assert.Len(t, s.Fees("Snorkel Trip"), 2)
	assert.Equal(t, []string{"Snorkel Trip", "Kayak Tour"}, s.Tours())
	assert.Empty(t, s.Fees("Sunset Cruise"))

	var nilSchedule *domain.FeeSchedule
	assert.Empty(t, nilSchedule.Fees("Snorkel Trip"))
}

func TestNewAccountMappings(t *testing.T) {
	card := domain.AccountMapping{Type: domain.MappingPaymentType, Item: "Credit Card", AccountName: "Card Clearing", Active: true}

	t.Run("inactive mappings are dropped", func(t *testing.T) {
		old := card
		old.AccountName = "Old Clearing"
		old.Active = false
		m, err := domain.NewAccountMappings([]domain.AccountMapping{old, card})
		require.NoError(t, err)

		got, ok := m.Lookup(domain.MappingPaymentType, "Credit Card")
		require.True(t, ok)
		assert.Equal(t, "Card Clearing", got.AccountName)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("duplicate active mapping", func(t *testing.T) {
		dup := card
		dup.AccountName = "Other"
		_, err := domain.NewAccountMappings([]domain.AccountMapping{card, dup})
		assert.Error(t, err)
	})

	t.Run("same item different type", func(t *testing.T) {
		tour := card
		tour.Type = domain.MappingTourRevenue
		m, err := domain.NewAccountMappings([]domain.AccountMapping{card, tour})
		require.NoError(t, err)
		assert.Equal(t, 2, m.Len())
	})

	t.Run("nil table", func(t *testing.T) {
		var m *domain.AccountMappings
		_, ok := m.Lookup(domain.MappingPaymentType, "Credit Card")
		assert.False(t, ok)
		assert.Zero(t, m.Len())
	})
}

func TestParseMappingType(t *testing.T) {
	got, err := domain.ParseMappingType("sales_vat_liability")
	require.NoError(t, err)
	assert.Equal(t, domain.MappingSalesVATLiability, got)

	_, err = domain.ParseMappingType("asset")
	assert.Error(t, err)
}

func TestSchemaError(t *testing.T) {
	err := fmt.Errorf("load bookings: %w", &domain.SchemaError{
		Source:  domain.SourceBooking,
		Missing: []string{"Booking ID", "Cancelled?"},
	})

	assert.True(t, errors.Is(err, domain.ErrSchema))
	assert.Contains(t, err.Error(), "Booking ID, Cancelled?")

	failure := domain.FailureFrom("payments", err)
	assert.Equal(t, domain.KindSchema, failure.Kind)
	assert.Equal(t, "payments", failure.Section)

	other := domain.FailureFrom("payments", errors.New("open payments.csv: no such file"))
	assert.Equal(t, domain.ErrorKind("error"), other.Kind)
}
