package gateway

import (
	"fmt"
	"io"

	"booking-reconciliation/internal/domain"
)

var bookingRequired = []string{colBookingID, colCancelled}

// ParseBookings normalizes a booking-platform export.
func ParseBookings(r io.Reader) (*domain.BookingSet, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking export: %w", err)
	}
	return parseBookingRows(rows)
}

func parseBookingRows(rows [][]string) (*domain.BookingSet, error) {
	start := locateHeader(rows, bookingAliases, bookingRequired)
	if len(rows) <= start {
		return nil, &domain.SchemaError{Source: domain.SourceBooking, Missing: bookingRequired}
	}
	cols := resolveColumns(rows[start], bookingAliases)
	if missing := cols.missing(bookingRequired); len(missing) > 0 {
		return nil, &domain.SchemaError{Source: domain.SourceBooking, Missing: missing, Available: cols.header}
	}

	set := &domain.BookingSet{
		HasTotal:     cols.has(colTotal),
		HasTotalPaid: cols.has(colTotalPaid),
		HasTotalTax:  cols.has(colTotalTax),
		HasAmountDue: cols.has(colAmountDue),
	}
	coerce := newCoercions(domain.SourceBooking)
	dropped := 0

	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		id := domain.ExtractBookingID(cols.get(row, colBookingID))
		if !domain.IsNumericID(id) {
			dropped++
			continue
		}
		set.Records = append(set.Records, domain.BookingRecord{
			BookingID:   id,
			Contact:     cols.get(row, colContact),
			Item:        cols.get(row, colItem),
			Total:       coerce.amount(cols, row, colTotal),
			TotalTax:    coerce.amount(cols, row, colTotalTax),
			AmountDue:   coerce.amount(cols, row, colAmountDue),
			TotalPaid:   coerce.amount(cols, row, colTotalPaid),
			IsCancelled: ParseFlag(cols.get(row, colCancelled), "yes", "cancelled"),
			IsPaid:      ParseFlag(cols.get(row, colPaidStatus), "paid"),
			CreatedAt:   coerce.date(cols, row, colCreatedAt),
			StartAt:     coerce.date(cols, row, colStartDate),
		})
	}

	set.Warnings = coerce.warnings()
	if dropped > 0 {
		set.Warnings = append(set.Warnings, domain.NewWarning(domain.KindValueCoercion, string(domain.SourceBooking),
			"%d row(s) without a numeric booking id were skipped", dropped))
	}
	return set, nil
}
