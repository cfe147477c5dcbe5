package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"testing"

	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/fees"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository() *FileSnapshotRepository {
	return NewFileSnapshotRepository(DefaultLoaderOptions(), zap.NewNop())
}

func TestFileSnapshotRepository_GetBookings(t *testing.T) {
	tests := []struct {
		name         string
		csvData      [][]string
		wantIDs      []string
		wantWarnings int
		wantMissing  []string
	}{
		{
			name: "banner row above the header",
			csvData: [][]string{
				{"Bookings"},
				{"Booking ID", "Contact", "Item", "Total", "Total Paid", "Total Tax", "Amount Due", "Cancelled?", "Paid Status", "Created At Date"},
				{"#12345678", "Jane", "Snorkel Trip", "$1,100.00", "$1100.00", "$100.00", "$0.00", "No", "Paid", "2025-01-05"},
				{"12345679", "Ali", "Kayak Tour", "$50.00", "$0.00", "$5.00", "$50.00", "Yes", "Unpaid", "bad-date"},
				{"TOTAL", "", "", "", "", "", "", "", "", ""},
			},
			wantIDs:      []string{"12345678", "12345679"},
			wantWarnings: 2,
		},
		{
			name: "header on the first row with aliases",
			csvData: [][]string{
				{"Booking_ID", "Cancelled", "Total_Paid"},
				{"12345680", "cancelled", "20"},
			},
			wantIDs: []string{"12345680"},
		},
		{
			name: "missing required column",
			csvData: [][]string{
				{"Booking ID", "Total"},
				{"12345681", "10"},
			},
			wantMissing: []string{colCancelled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := createTempCSV(tt.csvData)
			require.NoError(t, err)
			defer os.Remove(tmpFile)

			got, err := newTestRepository().GetBookings(context.Background(), tmpFile)
			if tt.wantMissing != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrSchema))
				var schemaErr *domain.SchemaError
				require.True(t, errors.As(err, &schemaErr))
				assert.Equal(t, tt.wantMissing, schemaErr.Missing)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(got.Records))
			for _, r := range got.Records {
				ids = append(ids, r.BookingID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Len(t, got.Warnings, tt.wantWarnings)
		})
	}
}

func TestFileSnapshotRepository_GetBookings_Values(t *testing.T) {
	tmpFile, err := createTempCSV([][]string{
		{"Booking ID", "Total", "Total Paid", "Total Tax", "Amount Due", "Cancelled?", "Paid Status", "Created At Date"},
		{"12345678", "$1,100.00", "(10.00)", "", "$0.00", "Yes", "Paid", "01/05/2025"},
	})
	require.NoError(t, err)
	defer os.Remove(tmpFile)

	got, err := newTestRepository().GetBookings(context.Background(), tmpFile)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)

	b := got.Records[0]
	assert.Equal(t, "1100.00", b.Total.Decimal.StringFixed(2))
	assert.Equal(t, "-10.00", b.TotalPaid.Decimal.StringFixed(2))
	assert.False(t, b.TotalTax.Valid)
	assert.True(t, b.IsCancelled)
	assert.True(t, b.IsPaid)
	require.NotNil(t, b.CreatedAt)
	assert.Equal(t, "2025-01-05", b.CreatedAt.Format("2006-01-02"))
	assert.True(t, got.HasTotal && got.HasTotalPaid && got.HasTotalTax && got.HasAmountDue)
	assert.Empty(t, got.Warnings)
}

func ledgerExport(headerOffset int) [][]string {
	var rows [][]string
	banner := [][]string{{"", "Company"}, {"", "Transaction List by Date"}, {"", "January 2025"}, {"", ""}}
	rows = append(rows, banner[:headerOffset]...)
	return append(rows,
		[]string{"", "Date", "Transaction Type", "#", "Name", "Memo/Description", "FH booking ID", "Amount", "Open Balance", "Tax Amount"},
		[]string{"", "01/05/2025", "Invoice", "#12345678", "Jane", "Snorkel", "", "$1,100.00", "$0.00", "$100.00"},
		[]string{"", "01/06/2025", "Invoice", "FH-ABC", "Ali", "", "", "$50.00", "$50.00", "$5.00"},
		[]string{"", "01/07/2025", "Payment", "", "Bob", "Booking 12345680 paid", "", "(25.00)", "", ""},
		[]string{"", "01/08/2025", "Invoice", "", "Eve", "", "87654321", "$10.00", "$0.00", "$0.00"},
	)
}

func TestFileSnapshotRepository_GetLedger(t *testing.T) {
	tests := []struct {
		name         string
		offset       int
		wantWarnings int
	}{
		{name: "header at the configured row", offset: DefaultLedgerHeaderRow, wantWarnings: 0},
		{name: "header found by scanning", offset: 1, wantWarnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := createTempCSV(ledgerExport(tt.offset))
			require.NoError(t, err)
			defer os.Remove(tmpFile)

			got, err := newTestRepository().GetLedger(context.Background(), tmpFile)
			require.NoError(t, err)

			assert.Equal(t, tt.wantWarnings, domain.CountKind(got.Warnings, domain.KindDegradedMode))
			assert.True(t, got.HasOpenBalance)
			assert.True(t, got.HasTaxAmount)
			assert.False(t, got.HasNetAmount)

			require.Len(t, got.Records, 4)
			wantIDs := []string{"12345678", "FH-ABC", "12345680", "87654321"}
			wantNumeric := []bool{true, false, true, true}
			for i, r := range got.Records {
				assert.Equal(t, wantIDs[i], r.BookingID, "row %d", i)
				assert.Equal(t, wantNumeric[i], r.IsNumeric, "row %d", i)
			}
			assert.Equal(t, "-25.00", got.Records[2].Amount.Decimal.StringFixed(2))
			assert.False(t, got.Records[2].OpenBalance.Valid)
			require.NotNil(t, got.Records[0].Date)
			assert.Equal(t, "2025-01-05", got.Records[0].Date.Format("2006-01-02"))
			assert.Equal(t, "Jane", got.Records[0].Name)
			assert.Len(t, got.NumericIDs(), 3)
		})
	}
}

func TestFileSnapshotRepository_GetLedger_NoAmount(t *testing.T) {
	tmpFile, err := createTempCSV([][]string{
		{"Date", "Name", "Memo"},
		{"01/05/2025", "Jane", "Booking 12345678"},
	})
	require.NoError(t, err)
	defer os.Remove(tmpFile)

	_, err = newTestRepository().GetLedger(context.Background(), tmpFile)
	assert.True(t, errors.Is(err, domain.ErrSchema))
}

func TestFileSnapshotRepository_GetPayments(t *testing.T) {
	tmpFile, err := createTempCSV([][]string{
		{"Booking ID", "Payment or Refund", "Gross", "Net", "Processing Fee", "Tax Paid", "Payment Type", "Created At"},
		{"12345678", "Payment", "$110.00", "$106.70", "-$3.30", "$10.00", "Credit Card", "2025-01-05"},
		{"12345678", "Refund", "$55.00", "$53.35", "$1.65", "$5.00", "Credit Card", "2025-01-09"},
		{"", "Payment", "$5.00", "$5.00", "", "", "Cash", ""},
		{"12345679", "Chargeback", "$5.00", "$5.00", "", "", "Cash", ""},
	})
	require.NoError(t, err)
	defer os.Remove(tmpFile)

	got, err := newTestRepository().GetPayments(context.Background(), tmpFile)
	require.NoError(t, err)

	assert.Equal(t, domain.SourcePayments, got.Kind)
	require.Len(t, got.Transactions, 2)
	assert.Len(t, got.Warnings, 2)

	pay, ref := got.Transactions[0], got.Transactions[1]
	assert.Equal(t, domain.DirectionPayment, pay.Direction)
	assert.Equal(t, "-3.30", pay.ProcessingFee.Decimal.StringFixed(2))
	assert.True(t, ref.IsRefund())
	assert.Equal(t, "-55.00", ref.Gross.Decimal.StringFixed(2))
	assert.Equal(t, "-53.35", ref.Net.Decimal.StringFixed(2))
	assert.Equal(t, "-5.00", ref.TaxPaid.Decimal.StringFixed(2))
	assert.Equal(t, "1.65", ref.ProcessingFee.Decimal.StringFixed(2))
}

func TestFileSnapshotRepository_GetSalesExtract(t *testing.T) {
	tmpFile, err := createTempCSV([][]string{
		{"Sales"},
		{"Item", "Payment or Refund", "Booking ID", "# of Pax", "Subtotal", "Subtotal Paid", "Tax Paid", "Total Paid", "Payment Type", "Affiliate", "Receivable from Affiliate"},
		{"Snorkel Trip", "Payment", "12345678", "2", "$200.00", "$200.00", "$20.00", "$220.00", "", "", ""},
		{"", "Payment", "12345679", "1", "$50.00", "$50.00", "$5.00", "$55.00", "Cash", "", ""},
		{"Kayak Tour", "Refund", "12345680", "1", "$100.00", "$100.00", "$10.00", "$110.00", "Cash", "Beach Hotel", "$0.00"},
	})
	require.NoError(t, err)
	defer os.Remove(tmpFile)

	got, err := newTestRepository().GetSalesExtract(context.Background(), tmpFile)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSalesExtract, got.Kind)
	require.Len(t, got.Transactions, 2)
	assert.Len(t, got.Warnings, 1)

	first := got.Transactions[0]
	assert.Equal(t, UnknownPaymentType, first.PaymentType)
	assert.Equal(t, "2", first.Guests.String())

	ref := got.Transactions[1]
	assert.Equal(t, "-100.00", ref.SubtotalPaid.Decimal.StringFixed(2))
	assert.Equal(t, "100.00", ref.SubtotalTotal.Decimal.StringFixed(2))
	assert.Equal(t, "-110.00", ref.TotalPaid.Decimal.StringFixed(2))
	assert.Equal(t, "Beach Hotel", ref.Affiliate)
	assert.False(t, ref.AffiliateCollected())
}

func TestFileSnapshotRepository_GetSalesExtract_SignedPax(t *testing.T) {
	tmpFile, err := createTempCSV([][]string{
		{"Item", "Payment or Refund", "Subtotal Paid", "Tax Paid", "Subtotal", "# of Pax", "Booking ID"},
		{"Snorkel", "Refund", "-$60.00", "-$3.00", "$120.00", "-2", "#12345678"},
	})
	require.NoError(t, err)
	defer os.Remove(tmpFile)

	got, err := newTestRepository().GetSalesExtract(context.Background(), tmpFile)
	require.NoError(t, err)
	require.Len(t, got.Transactions, 1)

	tx := got.Transactions[0]
	assert.True(t, tx.IsRefund())
	assert.Equal(t, "2", tx.Guests.String())

	schedule := domain.NewFeeSchedule()
	require.NoError(t, schedule.Add("Snorkel", domain.Fee{Name: "Reef Fee", PerGuest: decimal.NewFromInt(10)}))

	alloc := fees.AllocateProportional(tx, schedule)
	assert.Equal(t, "20.00", alloc.FullFee.StringFixed(2))
	assert.Equal(t, "10.00", alloc.FeeTotal.StringFixed(2))
	assert.False(t, alloc.FeeTotal.IsNegative())
	assert.True(t, alloc.FeeTotal.LessThanOrEqual(alloc.FullFee))
	assert.Equal(t, "-50.00", alloc.TourRevenue.StringFixed(2))
}

func TestFileSnapshotRepository_FileErrors(t *testing.T) {
	repo := newTestRepository()

	t.Run("file does not exist", func(t *testing.T) {
		_, err := repo.GetBookings(context.Background(), "/nonexistent/bookings.csv")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrSchema))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := repo.GetPayments(ctx, "/nonexistent/payments.csv")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Normalize(nil, domain.SourceKind("invoices"), DefaultLoaderOptions())
		assert.Error(t, err)
	})
}

// Helper functions

func createTempCSV(data [][]string) (string, error) {
	tmpFile, err := os.CreateTemp("", "test_*.csv")
	if err != nil {
		return "", err
	}

	writer := csv.NewWriter(tmpFile)
	if err := writer.WriteAll(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", err
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

// Benchmark tests

func BenchmarkGetBookings(b *testing.B) {
	data := [][]string{{"Booking ID", "Total", "Total Paid", "Cancelled?", "Created At Date"}}
	for i := 0; i < 1000; i++ {
		data = append(data, []string{strconv.Itoa(10000000 + i), "$100.00", "$100.00", "No", "2025-01-05"})
	}

	tmpFile, err := createTempCSV(data)
	if err != nil {
		b.Fatal(err)
	}
	defer os.Remove(tmpFile)

	repo := newTestRepository()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.GetBookings(ctx, tmpFile); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetLedger(b *testing.B) {
	data := ledgerExport(DefaultLedgerHeaderRow)
	for i := 0; i < 1000; i++ {
		data = append(data, []string{"", "01/05/2025", "Invoice", "#" + strconv.Itoa(20000000+i), "Guest", "", "", "$10.00", "$0.00", "$1.00"})
	}

	tmpFile, err := createTempCSV(data)
	if err != nil {
		b.Fatal(err)
	}
	defer os.Remove(tmpFile)

	repo := newTestRepository()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.GetLedger(ctx, tmpFile); err != nil {
			b.Fatal(err)
		}
	}
}
