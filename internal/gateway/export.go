package gateway

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Table is one named, flat result table ready for export.
type Table struct {
	Name    string
	Header  []string
	Rows    [][]string
	Numeric map[string]bool // columns written as numbers in workbooks
}

func newTable(name string, header ...string) *Table {
	return &Table{Name: name, Header: header, Numeric: make(map[string]bool)}
}

func (t *Table) numeric(cols ...string) *Table {
	for _, c := range cols {
		t.Numeric[c] = true
	}
	return t
}

func (t *Table) add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	return nil
}

// WriteCSV writes each table to <dir>/<name>.csv and returns the paths written.
func WriteCSV(dir string, tables []*Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		if err := writeCSVFile(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	return file.Close()
}

// maxSheetName is the spreadsheet limit on worksheet name length.
const maxSheetName = 31

// WriteWorkbook writes the tables as one xlsx workbook, one sheet per table.
func WriteWorkbook(w io.Writer, tables []*Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		name := t.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, name, t); err != nil {
			return err
		}
	}
	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}
	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = v
			if c < len(t.Header) && t.Numeric[t.Header[c]] && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[c] = n
				}
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", r+1, sheet, err)
		}
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func flag(b bool) string {
	return strconv.FormatBool(b)
}

func warningsTable(name string, warnings []domain.Warning) *Table {
	t := newTable(name, "Kind", "Source", "Detail")
	for _, w := range warnings {
		t.add(string(w.Kind), w.Source, w.Detail)
	}
	return t
}

// ReportTables flattens a reconciliation report into exportable tables.
func ReportTables(report *domain.ReconciliationReport) []*Table {
	s := report.Summary
	summary := newTable("summary", "Metric", "Value").numeric("Value")
	summary.add("Run ID", report.RunID)
	summary.add("Bookings Processed", strconv.Itoa(s.BookingsProcessed))
	summary.add("Ledger Rows Processed", strconv.Itoa(s.LedgerRowsProcessed))
	summary.add("Ledger Numeric IDs", strconv.Itoa(s.LedgerNumericIDs))
	summary.add("Payment Lines Processed", strconv.Itoa(s.PaymentLinesProcessed))
	summary.add("Missing Bookings", strconv.Itoa(s.MissingBookings))
	summary.add("Cancelled With Open Invoice", strconv.Itoa(s.CancelledWithOpenInvoice))
	summary.add("Amount Discrepancies", strconv.Itoa(s.AmountDiscrepancies))
	summary.add("Payment Discrepancies", strconv.Itoa(s.PaymentDiscrepancies))

	missing := newTable("missing_bookings",
		"Booking ID", "Contact", "Item", "Created At", "Start Date", "Total", "Total Paid", "Cancelled",
	).numeric("Total", "Total Paid")
	for _, b := range report.MissingBookings {
		missing.add(b.BookingID, b.Contact, b.Item, day(b.CreatedAt), day(b.StartAt),
			nullMoney(b.Total), nullMoney(b.TotalPaid), flag(b.IsCancelled))
	}

	cancelled := newTable("cancelled_vs_open",
		"Booking ID", "Contact", "Item", "FH Total", "FH Total Paid", "QB Doc Number", "QB Name", "QB Date", "QB Amount", "QB Open Balance",
	).numeric("FH Total", "FH Total Paid", "QB Amount", "QB Open Balance")
	for _, r := range report.CancelledVsOpen {
		cancelled.add(r.Booking.BookingID, r.Booking.Contact, r.Booking.Item, nullMoney(r.Booking.Total), nullMoney(r.Booking.TotalPaid),
			r.Ledger.DocNumber, r.Ledger.Name, day(r.Ledger.Date), nullMoney(r.Ledger.Amount), nullMoney(r.Ledger.OpenBalance))
	}

	amounts := newTable("amount_discrepancies",
		"Booking ID", "Created At", "Is Paid", "Is Cancelled",
		"FH_Total_Amount", "FH_Total_Paid", "FH_Total_Tax", "FH_Amount_Due",
		"QB_Amount", "QB_Tax_Amount", "QB_Open_Balance",
		"Total_Difference", "Tax_Difference", "Balance_Difference",
		"Has_Total_Difference", "Has_Tax_Difference", "Has_Balance_Difference",
	).numeric("FH_Total_Amount", "FH_Total_Paid", "FH_Total_Tax", "FH_Amount_Due",
		"QB_Amount", "QB_Tax_Amount", "QB_Open_Balance", "Total_Difference", "Tax_Difference", "Balance_Difference")
	for _, r := range report.AmountDiscrepancies {
		amounts.add(r.BookingID, day(r.CreatedAt), flag(r.IsPaid), flag(r.IsCancelled),
			nullMoney(r.BookingTotal), nullMoney(r.BookingTotalPaid), nullMoney(r.BookingTax), nullMoney(r.BookingAmountDue),
			nullMoney(r.LedgerAmount), nullMoney(r.LedgerTax), nullMoney(r.LedgerOpenBalance),
			nullMoney(r.TotalDifference), nullMoney(r.TaxDifference), nullMoney(r.BalanceDifference),
			flag(r.HasTotalDifference), flag(r.HasTaxDifference), flag(r.HasBalanceDifference))
	}

	payments := newTable("payment_discrepancies",
		"Booking ID", "Missing_Transaction_Type",
		"FH_Payment_Gross", "FH_Refund_Gross", "FH_Total_Activity", "FH_Net_Amount", "FH_Net_Processing_Fee", "FH_Tax_Paid",
		"FH_Payment_Count", "FH_Refund_Count", "FH_First_Transaction", "FH_Last_Transaction",
		"QB_Payment_Amount", "QB_Refund_Amount", "QB_Total_Activity", "QB_Net_Amount", "QB_Tax_Amount",
		"QB_Transaction_Count", "QB_First_Transaction", "QB_Last_Transaction",
		"Activity_Difference", "Payment_Difference", "Refund_Difference", "Tax_Difference", "Count_Difference",
		"Has_Activity_Difference", "Has_Payment_Difference", "Has_Refund_Difference", "Has_Tax_Difference", "Has_Count_Difference",
	).numeric("FH_Payment_Gross", "FH_Refund_Gross", "FH_Total_Activity", "FH_Net_Amount", "FH_Net_Processing_Fee", "FH_Tax_Paid",
		"FH_Payment_Count", "FH_Refund_Count", "QB_Payment_Amount", "QB_Refund_Amount", "QB_Total_Activity", "QB_Net_Amount",
		"QB_Tax_Amount", "QB_Transaction_Count", "Activity_Difference", "Payment_Difference", "Refund_Difference",
		"Tax_Difference", "Count_Difference")
	for _, r := range report.PaymentDiscrepancies {
		p, l := r.Platform, r.Ledger
		payments.add(r.BookingID, string(r.MissingTransactionType),
			money(p.PaymentGross), money(p.RefundGross), money(p.TotalActivity()), money(p.NetAmount()), money(p.NetProcessingFee()), money(p.TaxPaid),
			strconv.Itoa(p.PaymentCount), strconv.Itoa(p.RefundCount), day(p.FirstTransaction), day(p.LastTransaction),
			money(l.PaymentAmount), money(l.RefundAmount), money(l.TotalActivity()), money(l.NetAmount), money(l.TaxAmount),
			strconv.Itoa(l.Count), day(l.FirstTransaction), day(l.LastTransaction),
			money(r.ActivityDifference), money(r.PaymentDifference), money(r.RefundDifference), nullMoney(r.TaxDifference), strconv.Itoa(r.CountDifference),
			flag(r.HasActivityDifference), flag(r.HasPaymentDifference), flag(r.HasRefundDifference), flag(r.HasTaxDifference), flag(r.HasCountDifference))
	}

	failures := newTable("failures", "Kind", "Section", "Detail")
	for _, f := range report.Failures {
		failures.add(string(f.Kind), f.Section, f.Detail)
	}

	return []*Table{summary, missing, cancelled, amounts, payments, warningsTable("warnings", report.Warnings), failures}
}

// JournalTableName is the table a journal of the given policy is exported to.
func JournalTableName(p domain.JournalPolicy) string {
	if p == domain.PolicyExcludeAffiliateCollected {
		return "journal_no_affiliate"
	}
	return "journal_all"
}

// JournalTables flattens a journal report into exportable tables: one per
// journal, the summary totals, and the per-tour revenue summary.
func JournalTables(report *domain.JournalReport) []*Table {
	var tables []*Table
	totals := newTable("journal_totals", "Entry Number", "Policy", "Metric", "Payment Type", "Amount").numeric("Amount")

	for _, j := range report.Journals {
		t := newTable(JournalTableName(j.Policy),
			"Entry Number", "Date", "Category", "Account", "Account ID", "Description", "Debit", "Credit", "Memo", "Fallback",
		).numeric("Debit", "Credit")
		for _, l := range j.Lines {
			debit, credit := "", ""
			if !l.Debit.IsZero() {
				debit = money(l.Debit)
			}
			if !l.Credit.IsZero() {
				credit = money(l.Credit)
			}
			t.add(l.EntryNumber, l.Date.Format(time.DateOnly), l.Category.String(), l.Account, l.AccountID,
				l.Description, debit, credit, l.Memo, flag(l.Fallback))
		}
		tables = append(tables, t)

		jt := j.Totals
		row := func(metric, paymentType string, v decimal.Decimal) {
			totals.add(j.EntryNumber, string(j.Policy), metric, paymentType, money(v))
		}
		row("VAT Collected", "", jt.VATCollected)
		row("VAT Refunded", "", jt.VATRefunded)
		for _, pt := range sortedKeys(jt.GrossByPaymentType) {
			row("Gross", pt, jt.GrossByPaymentType[pt])
		}
		for _, pt := range sortedKeys(jt.ProcessingFeesByType) {
			row("Processing Fees", pt, jt.ProcessingFeesByType[pt])
		}
		for _, pt := range sortedKeys(jt.NetByPaymentType) {
			row("Net", pt, jt.NetByPaymentType[pt])
		}
		row("Total Debits", "", jt.TotalDebits)
		row("Total Credits", "", jt.TotalCredits)
		row("Rounding Adjustment", "", jt.RoundingAdjustment)
	}

	tours := newTable("tour_summary",
		"Tour", "Guests", "Transactions", "Subtotal Paid", "Tax Paid",
		"Payment Fee Revenue", "Refund Fee Revenue", "Net Fee Revenue",
		"Payment Tour Revenue", "Refund Tour Revenue", "Net Tour Revenue",
	).numeric("Guests", "Transactions", "Subtotal Paid", "Tax Paid", "Payment Fee Revenue", "Refund Fee Revenue",
		"Net Fee Revenue", "Payment Tour Revenue", "Refund Tour Revenue", "Net Tour Revenue")
	for _, s := range report.Tours {
		tours.add(s.Tour, s.Guests.String(), strconv.Itoa(s.Transactions), money(s.SubtotalPaid), money(s.TaxPaid),
			money(s.PaymentFeeRevenue), money(s.RefundFeeRevenue), money(s.NetFeeRevenue()),
			money(s.PaymentTourRevenue), money(s.RefundTourRevenue), money(s.NetTourRevenue()))
	}

	return append(tables, totals, tours, warningsTable("journal_warnings", report.Warnings))
}
