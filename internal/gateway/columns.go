package gateway

import (
	"strings"
)

// Canonical column names. Every loader resolves the header once against an
// alias table keyed by these names.
const (
	colBookingID   = "Booking ID"
	colCancelled   = "Cancelled?"
	colPaidStatus  = "Paid Status"
	colTotal       = "Total"
	colTotalPaid   = "Total Paid"
	colTotalTax    = "Total Tax"
	colAmountDue   = "Amount Due"
	colContact     = "Contact"
	colItem        = "Item"
	colCreatedAt   = "Created At Date"
	colStartDate   = "Start Date"
	colFHBookingID = "FH booking ID"
	colDocNumber   = "#"
	colAmount      = "Amount"
	colNetAmount   = "Net Amount"
	colOpenBalance = "Open Balance"
	colTaxAmount   = "Tax Amount"
	colDate        = "Date"
	colCreateDate  = "Create Date"
	colInvoiceDate = "Invoice Date"
	colName        = "Name"
	colMemo        = "Memo/Description"
	colDirection   = "Payment or Refund"
	colGross       = "Gross"
	colNet         = "Net"
	colProcessing  = "Processing Fee"
	colTaxPaid     = "Tax Paid"
	colSubtotal    = "Subtotal"
	colSubtotalPd  = "Subtotal Paid"
	colGuests      = "# of Pax"
	colPaymentType = "Payment Type"
	colAffiliate   = "Affiliate"
	colRecvFromAff = "Receivable from Affiliate"
	colRcvdFromAff = "Received from Affiliate"
	colPayableAff  = "Payable to Affiliate"
	colPaidToAff   = "Paid to Affiliate"
)

// aliasTable lists, per canonical column, the header spellings accepted for it.
type aliasTable map[string][]string

var bookingAliases = aliasTable{
	colBookingID:  {"Booking ID", "Booking_ID", "BookingID"},
	colCancelled:  {"Cancelled?", "Cancelled"},
	colPaidStatus: {"Paid Status", "Paid_Status"},
	colTotal:      {"Total"},
	colTotalPaid:  {"Total Paid", "Total_Paid"},
	colTotalTax:   {"Total Tax", "Total_Tax"},
	colAmountDue:  {"Amount Due", "Amount_Due"},
	colContact:    {"Contact"},
	colItem:       {"Item"},
	colCreatedAt:  {"Created At Date", "Created At"},
	colStartDate:  {"Start Date"},
}

var ledgerAliases = aliasTable{
	colFHBookingID: {"FH booking ID", "FH_booking_ID", "FH_Booking_ID_Column", "FH Booking ID"},
	colDocNumber:   {"#", "Num", "No."},
	colAmount:      {"Amount"},
	colNetAmount:   {"Net Amount", "Net_Amount"},
	colOpenBalance: {"Open Balance", "Open_Balance"},
	colTaxAmount:   {"Tax Amount", "Tax_Amount"},
	colDate:        {"Date"},
	colCreateDate:  {"Create Date", "Create_Date"},
	colInvoiceDate: {"Invoice Date", "Invoice_Date"},
	colName:        {"Name"},
	colMemo:        {"Memo/Description", "Memo", "Description"},
}

var transactionAliases = aliasTable{
	colBookingID:   {"Booking ID", "Booking_ID", "BookingID"},
	colDirection:   {"Payment or Refund", "Payment/Refund"},
	colGross:       {"Gross", "Payment Gross"},
	colNet:         {"Net", "Payment Net"},
	colProcessing:  {"Processing Fee", "Payment Processing Fee"},
	colTaxPaid:     {"Tax Paid", "Dashboard Tax Rate (5%) Paid"},
	colSubtotal:    {"Subtotal"},
	colSubtotalPd:  {"Subtotal Paid"},
	colTotalPaid:   {"Total Paid"},
	colGuests:      {"# of Pax", "Pax", "Guests"},
	colPaymentType: {"Payment Type", "Payment Method"},
	colItem:        {"Item", "Tour"},
	colAffiliate:   {"Affiliate"},
	colRecvFromAff: {"Receivable from Affiliate"},
	colRcvdFromAff: {"Received from Affiliate"},
	colPayableAff:  {"Payable to Affiliate"},
	colPaidToAff:   {"Paid to Affiliate"},
	colCreatedAt:   {"Created At Date", "Created At"},
}

// columnSet maps canonical column names onto positions in a header row.
type columnSet struct {
	index  map[string]int
	header []string
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

// resolveColumns binds each canonical column to the first header cell
// matching one of its aliases, case-insensitively.
func resolveColumns(header []string, aliases aliasTable) columnSet {
	header = cleanHeader(header)
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(h)
		if _, ok := positions[key]; !ok && h != "" {
			positions[key] = i
		}
	}

	cs := columnSet{index: make(map[string]int), header: header}
	for canonical, names := range aliases {
		for _, name := range names {
			if i, ok := positions[strings.ToLower(name)]; ok {
				cs.index[canonical] = i
				break
			}
		}
	}
	return cs
}

func (c columnSet) has(col string) bool {
	_, ok := c.index[col]
	return ok
}

// get returns the trimmed cell for col, or "" when the column or cell is absent.
func (c columnSet) get(row []string, col string) string {
	i, ok := c.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columnSet) missing(required []string) []string {
	var out []string
	for _, col := range required {
		if !c.has(col) {
			out = append(out, col)
		}
	}
	return out
}

// bound reports whether header position i is claimed by one of cols.
func (c columnSet) bound(i int, cols ...string) bool {
	for _, col := range cols {
		if j, ok := c.index[col]; ok && j == i {
			return true
		}
	}
	return false
}

// bannerTokens are title placeholders the platform writes above the header.
var bannerTokens = []string{"Bookings", "Sales", "Payments"}

// locateHeader returns the index of the header row. Row 0 is used when it
// carries every required column; otherwise a banner title in the first cell
// moves the header down one row.
func locateHeader(rows [][]string, aliases aliasTable, required []string) int {
	if len(rows) == 0 {
		return 0
	}
	if len(resolveColumns(rows[0], aliases).missing(required)) == 0 {
		return 0
	}
	if len(rows) > 1 && len(rows[0]) > 0 {
		first := strings.TrimSpace(strings.TrimPrefix(rows[0][0], "\ufeff"))
		for _, token := range bannerTokens {
			if strings.Contains(first, token) {
				return 1
			}
		}
	}
	return 0
}
