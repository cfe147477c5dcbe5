package gateway

import (
	"fmt"
	"io"
	"strings"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// UnknownPaymentType labels transactions exported without a payment type.
const UnknownPaymentType = "Unknown"

var (
	paymentsRequired     = []string{colDirection, colBookingID, colGross, colNet}
	salesExtractRequired = []string{colItem, colDirection, colSubtotalPd, colTaxPaid}
)

// ParsePayments normalizes the platform's payments/refunds export.
func ParsePayments(r io.Reader) (*domain.PaymentSet, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payments export: %w", err)
	}
	return parseTransactionRows(rows, domain.SourcePayments, paymentsRequired)
}

// ParseSalesExtract normalizes the platform's sales extract, the per-line
// report journals are built from.
func ParseSalesExtract(r io.Reader) (*domain.PaymentSet, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales extract: %w", err)
	}
	return parseTransactionRows(rows, domain.SourceSalesExtract, salesExtractRequired)
}

func parseTransactionRows(rows [][]string, kind domain.SourceKind, required []string) (*domain.PaymentSet, error) {
	start := locateHeader(rows, transactionAliases, required)
	if len(rows) <= start {
		return nil, &domain.SchemaError{Source: kind, Missing: required}
	}
	cols := resolveColumns(rows[start], transactionAliases)
	if missing := cols.missing(required); len(missing) > 0 {
		return nil, &domain.SchemaError{Source: kind, Missing: missing, Available: cols.header}
	}

	set := &domain.PaymentSet{Kind: kind}
	coerce := newCoercions(kind)
	var unknownDirection, missingKey int

	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		tx := domain.PaymentTransaction{
			BookingID:     domain.ExtractBookingID(cols.get(row, colBookingID)),
			Gross:         coerce.amount(cols, row, colGross),
			Net:           coerce.amount(cols, row, colNet),
			ProcessingFee: coerce.amount(cols, row, colProcessing),
			TaxPaid:       coerce.amount(cols, row, colTaxPaid),
			SubtotalPaid:  coerce.amount(cols, row, colSubtotalPd),
			SubtotalTotal: coerce.amount(cols, row, colSubtotal),
			TotalPaid:     coerce.amount(cols, row, colTotalPaid),
			Guests:        domain.OrZero(coerce.amount(cols, row, colGuests)).Abs(),
			PaymentType:   cols.get(row, colPaymentType),
			Item:          cols.get(row, colItem),
			Affiliate:     cols.get(row, colAffiliate),

			ReceivableFromAffiliate: coerce.amount(cols, row, colRecvFromAff),
			ReceivedFromAffiliate:   coerce.amount(cols, row, colRcvdFromAff),
			PayableToAffiliate:      coerce.amount(cols, row, colPayableAff),
			PaidToAffiliate:         coerce.amount(cols, row, colPaidToAff),

			CreatedAt: coerce.date(cols, row, colCreatedAt),
		}

		switch {
		case ParseFlag(cols.get(row, colDirection), "payment"):
			tx.Direction = domain.DirectionPayment
		case ParseFlag(cols.get(row, colDirection), "refund"):
			tx.Direction = domain.DirectionRefund
			negateRefund(&tx)
		default:
			unknownDirection++
			continue
		}

		if kind == domain.SourceSalesExtract && isNullToken(tx.Item) {
			missingKey++
			continue
		}
		if kind == domain.SourcePayments && tx.BookingID == "" {
			missingKey++
			continue
		}
		if tx.PaymentType == "" {
			tx.PaymentType = UnknownPaymentType
		}
		set.Transactions = append(set.Transactions, tx)
	}

	set.Warnings = coerce.warnings()
	if unknownDirection > 0 {
		set.Warnings = append(set.Warnings, domain.NewWarning(domain.KindValueCoercion, string(kind),
			"%d row(s) with a %q value other than Payment or Refund were skipped", unknownDirection, colDirection))
	}
	if missingKey > 0 {
		set.Warnings = append(set.Warnings, domain.NewWarning(domain.KindValueCoercion, string(kind),
			"%d row(s) without a %s were skipped", missingKey, strings.ToLower(keyColumn(kind))))
	}
	return set, nil
}

func keyColumn(kind domain.SourceKind) string {
	if kind == domain.SourceSalesExtract {
		return colItem
	}
	return colBookingID
}

// negateRefund makes refund amounts negative. Exports disagree on whether
// refunds carry a sign; the processing fee keeps the sign it was exported with.
func negateRefund(tx *domain.PaymentTransaction) {
	for _, v := range []*decimal.NullDecimal{&tx.Gross, &tx.Net, &tx.SubtotalPaid, &tx.TaxPaid, &tx.TotalPaid} {
		if v.Valid && v.Decimal.IsPositive() {
			v.Decimal = v.Decimal.Neg()
		}
	}
}
