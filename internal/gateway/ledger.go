package gateway

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"booking-reconciliation/internal/domain"
)

// DefaultLedgerHeaderRow is the zero-based row holding the column names in
// the ledger's transaction-list export, below the title, subtitle and
// date-range banner.
const DefaultLedgerHeaderRow = 4

// ledgerHeaderScan bounds the search for a header row when the configured
// offset does not hold one.
const ledgerHeaderScan = 15

var ledgerRequired = []string{colAmount}

var bookingNumberPattern = regexp.MustCompile(`#?(\d{8,})`)

// ledgerNonText are the columns skipped when scanning a row for an embedded
// booking number.
var ledgerNonText = []string{
	colFHBookingID, colDocNumber, colAmount, colNetAmount, colOpenBalance,
	colTaxAmount, colDate, colCreateDate, colInvoiceDate,
}

// ParseLedger normalizes an accounting-ledger export whose header sits at
// headerRow.
func ParseLedger(r io.Reader, headerRow int) (*domain.LedgerSet, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger export: %w", err)
	}
	return parseLedgerRows(rows, headerRow)
}

func parseLedgerRows(rows [][]string, headerRow int) (*domain.LedgerSet, error) {
	start, shifted := locateLedgerHeader(rows, headerRow)
	if start >= len(rows) {
		return nil, &domain.SchemaError{Source: domain.SourceLedger, Missing: ledgerRequired}
	}
	rows = dropLeadingBlankColumn(rows, start)

	cols := resolveColumns(rows[start], ledgerAliases)
	if missing := cols.missing(ledgerRequired); len(missing) > 0 {
		return nil, &domain.SchemaError{Source: domain.SourceLedger, Missing: missing, Available: cols.header}
	}

	set := &domain.LedgerSet{
		HasTaxAmount:   cols.has(colTaxAmount),
		HasOpenBalance: cols.has(colOpenBalance),
		HasNetAmount:   cols.has(colNetAmount),
	}
	if shifted {
		set.Warnings = append(set.Warnings, domain.NewWarning(domain.KindDegradedMode, string(domain.SourceLedger),
			"no header at row %d, using row %d instead", headerRow, start))
	}
	coerce := newCoercions(domain.SourceLedger)

	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		id := extractLedgerID(cols, row)
		rec := domain.LedgerRecord{
			BookingID:   id,
			IsNumeric:   domain.IsNumericID(id),
			Amount:      coerce.amount(cols, row, colAmount),
			NetAmount:   coerce.amount(cols, row, colNetAmount),
			TaxAmount:   coerce.amount(cols, row, colTaxAmount),
			OpenBalance: coerce.amount(cols, row, colOpenBalance),
			DocNumber:   cols.get(row, colDocNumber),
			Name:        cols.get(row, colName),
			Memo:        cols.get(row, colMemo),
		}
		for _, col := range []string{colDate, colCreateDate, colInvoiceDate} {
			if d := coerce.date(cols, row, col); d != nil && rec.Date == nil {
				rec.Date = d
			}
		}
		set.Records = append(set.Records, rec)
	}

	set.Warnings = append(set.Warnings, coerce.warnings()...)
	return set, nil
}

// locateLedgerHeader prefers the configured offset and otherwise takes the
// first row that names an amount column.
func locateLedgerHeader(rows [][]string, headerRow int) (int, bool) {
	if headerRow >= 0 && headerRow < len(rows) && resolveColumns(rows[headerRow], ledgerAliases).has(colAmount) {
		return headerRow, false
	}
	for i := 0; i < len(rows) && i < ledgerHeaderScan; i++ {
		if resolveColumns(rows[i], ledgerAliases).has(colAmount) {
			return i, i != headerRow
		}
	}
	return headerRow, false
}

// dropLeadingBlankColumn removes the unnamed index column the ledger export
// writes before its real columns.
func dropLeadingBlankColumn(rows [][]string, header int) [][]string {
	if len(rows[header]) == 0 || strings.TrimSpace(rows[header][0]) != "" {
		return rows
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			out[i] = row[1:]
		}
	}
	return out
}

// extractLedgerID resolves the booking identifier of a ledger row from, in
// order: the dedicated booking-id column, the document number, and any
// booking number embedded in the remaining text columns. Platform reference
// codes ("FH-...") are kept verbatim and never count as numeric.
func extractLedgerID(cols columnSet, row []string) string {
	if id := domain.ExtractBookingID(cols.get(row, colFHBookingID)); id != "" {
		return id
	}

	if doc := cols.get(row, colDocNumber); doc != "" {
		if strings.Contains(doc, "FH-") {
			return doc
		}
		if strings.HasPrefix(doc, "#") && domain.IsNumericID(doc[1:]) {
			return doc[1:]
		}
	}

	for i, cell := range row {
		if i >= len(cols.header) || cols.header[i] == "" || cols.bound(i, ledgerNonText...) {
			continue
		}
		cell = strings.TrimSpace(cell)
		if strings.Contains(cell, "FH-") {
			return cell
		}
		if m := bookingNumberPattern.FindStringSubmatch(cell); m != nil {
			return m[1]
		}
	}
	return ""
}
