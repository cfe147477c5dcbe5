package usecase

import (
	"context"
	"fmt"
	"time"

	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/fees"
	"booking-reconciliation/internal/journal"
	"booking-reconciliation/internal/reconcile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationUseCase orchestrates reconciliation runs and journal builds.
type ReconciliationUseCase struct {
	snapshots SnapshotRepository
	mappings  MappingRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase. mappings
// may be nil, in which case journals are built against the built-in
// account defaults and an empty fee schedule.
func NewReconciliationUseCase(snapshots SnapshotRepository, mappings MappingRepository, logger *zap.Logger) *ReconciliationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationUseCase{
		snapshots: snapshots,
		mappings:  mappings,
		logger:    logger,
		now:       time.Now,
	}
}

// Reconcile compares a booking export against a ledger export and, when
// paymentsPath is set, the platform's payment activity against the ledger.
// Bookings and ledger are required; a payments export that cannot be read
// is reported as a failure of that section only.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, bookingsPath, ledgerPath, paymentsPath string) (*domain.ReconciliationReport, error) {
	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))

	bookings, err := uc.snapshots.GetBookings(ctx, bookingsPath)
	if err != nil {
		return nil, fmt.Errorf("could not get bookings: %w", err)
	}
	ledger, err := uc.snapshots.GetLedger(ctx, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("could not get ledger: %w", err)
	}
	log.Info("snapshots loaded",
		zap.Int("bookings", len(bookings.Records)),
		zap.Int("ledger_rows", len(ledger.Records)))

	report := &domain.ReconciliationReport{
		RunID:                runID,
		GeneratedAt:          uc.now().UTC(),
		PaymentDiscrepancies: make([]domain.PaymentDiscrepancy, 0),
	}
	report.Warnings = append(report.Warnings, bookings.Warnings...)
	report.Warnings = append(report.Warnings, ledger.Warnings...)

	report.MissingBookings = reconcile.FindMissing(bookings, ledger)

	cancelled := reconcile.FindCancelledVsOpen(bookings, ledger)
	report.CancelledVsOpen = cancelled.Rows
	report.Warnings = append(report.Warnings, cancelled.Warnings...)

	amounts := reconcile.CompareAmounts(bookings, ledger)
	report.AmountDiscrepancies = amounts.Rows
	report.Warnings = append(report.Warnings, amounts.Warnings...)

	report.Summary = domain.Summary{
		BookingsProcessed:        len(bookings.Records),
		LedgerRowsProcessed:      len(ledger.Records),
		LedgerNumericIDs:         len(ledger.NumericIDs()),
		MissingBookings:          len(report.MissingBookings),
		CancelledWithOpenInvoice: len(report.CancelledVsOpen),
		AmountDiscrepancies:      len(report.AmountDiscrepancies),
	}

	if paymentsPath != "" {
		payments, err := uc.snapshots.GetPayments(ctx, paymentsPath)
		if err != nil {
			log.Warn("payment comparison skipped", zap.Error(err))
			report.Failures = append(report.Failures, domain.FailureFrom("payment_discrepancies", err))
		} else {
			report.Warnings = append(report.Warnings, payments.Warnings...)
			comparison := reconcile.ComparePaymentsRefunds(payments, ledger)
			report.PaymentDiscrepancies = comparison.Rows
			report.Warnings = append(report.Warnings, comparison.Warnings...)
			report.Summary.PaymentLinesProcessed = len(payments.Transactions)
			report.Summary.PaymentDiscrepancies = len(comparison.Rows)
		}
	}

	log.Info("reconciliation complete",
		zap.Int("missing_bookings", report.Summary.MissingBookings),
		zap.Int("cancelled_with_open_invoice", report.Summary.CancelledWithOpenInvoice),
		zap.Int("amount_discrepancies", report.Summary.AmountDiscrepancies),
		zap.Int("payment_discrepancies", report.Summary.PaymentDiscrepancies),
		zap.Int("warnings", len(report.Warnings)),
		zap.Int("failures", len(report.Failures)))

	return report, nil
}

// JournalOptions control a journal run.
type JournalOptions struct {
	// EntryPrefix is followed by a four-digit sequence number per journal.
	EntryPrefix string
	// Date of the journal; when zero, the latest transaction date is used.
	Date                  time.Time
	Allocation            fees.Mode
	IncludeProcessingFees bool
	BalanceTolerance      decimal.Decimal
	RoundingLimit         decimal.Decimal
	// Policies lists the journals to build, one per policy. Empty means
	// both the all-transactions and the operator-collected-only journal.
	Policies []domain.JournalPolicy
}

// DefaultJournalOptions returns the standard journal run settings.
func DefaultJournalOptions() JournalOptions {
	return JournalOptions{
		EntryPrefix:      "JE",
		Allocation:       fees.ModeProportional,
		BalanceTolerance: domain.Tolerance,
		RoundingLimit:    decimal.NewFromInt(5),
	}
}

// GenerateJournals allocates fees across a sales extract and builds one
// consolidated journal per requested policy, along with the per-tour summary.
func (uc *ReconciliationUseCase) GenerateJournals(ctx context.Context, salesPath string, opts JournalOptions) (*domain.JournalReport, error) {
	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))

	if opts.Allocation == "" {
		opts.Allocation = fees.ModeProportional
	}
	if _, err := fees.ParseMode(string(opts.Allocation)); err != nil {
		return nil, err
	}
	policies := opts.Policies
	if len(policies) == 0 {
		policies = []domain.JournalPolicy{domain.PolicyAll, domain.PolicyExcludeAffiliateCollected}
	}

	sales, err := uc.snapshots.GetSalesExtract(ctx, salesPath)
	if err != nil {
		return nil, fmt.Errorf("could not get sales extract: %w", err)
	}

	report := &domain.JournalReport{
		RunID:       runID,
		GeneratedAt: uc.now().UTC(),
		Journals:    make([]domain.Journal, 0, len(policies)),
	}
	report.Warnings = append(report.Warnings, sales.Warnings...)

	schedule, mappings, err := uc.loadMappings(ctx)
	if err != nil {
		return nil, err
	}
	if uc.mappings == nil {
		report.Warnings = append(report.Warnings, domain.NewWarning(domain.KindMappingFallback, "mappings",
			"no mapping store configured; using built-in account defaults and no fee schedule"))
	}

	allocs, warnings := fees.AllocateAll(sales.Transactions, schedule, opts.Allocation)
	report.Warnings = append(report.Warnings, warnings...)
	report.Tours = fees.Summarize(sales.Transactions, allocs)

	date := opts.Date
	if date.IsZero() {
		date = latestTransactionDate(sales.Transactions, uc.now())
	}

	for i, policy := range policies {
		jo := journal.DefaultOptions(fmt.Sprintf("%s%04d", opts.EntryPrefix, i+1), date, policy)
		jo.IncludeProcessingFees = opts.IncludeProcessingFees
		if !opts.BalanceTolerance.IsZero() {
			jo.BalanceTolerance = opts.BalanceTolerance
		}
		if !opts.RoundingLimit.IsZero() {
			jo.RoundingLimit = opts.RoundingLimit
		}

		j, err := journal.Build(sales.Transactions, allocs, mappings, jo)
		if err != nil {
			return nil, fmt.Errorf("could not build journal %s: %w", jo.EntryNumber, err)
		}
		if n := domain.CountKind(j.Warnings, domain.KindImbalance); n > 0 {
			log.Warn("journal does not balance",
				zap.String("entry_number", j.EntryNumber),
				zap.String("debits", j.Totals.TotalDebits.StringFixed(2)),
				zap.String("credits", j.Totals.TotalCredits.StringFixed(2)))
		}
		log.Info("journal built",
			zap.String("entry_number", j.EntryNumber),
			zap.String("policy", string(j.Policy)),
			zap.Int("lines", len(j.Lines)),
			zap.Int("included", j.Totals.TransactionsIncluded),
			zap.Int("excluded", j.Totals.TransactionsExcluded))
		report.Journals = append(report.Journals, *j)
	}

	return report, nil
}

func (uc *ReconciliationUseCase) loadMappings(ctx context.Context) (*domain.FeeSchedule, *domain.AccountMappings, error) {
	if uc.mappings == nil {
		mappings, err := domain.NewAccountMappings(journal.DefaultMappings())
		if err != nil {
			return nil, nil, err
		}
		return domain.NewFeeSchedule(), mappings, nil
	}

	schedule, err := uc.mappings.GetFeeSchedule(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get fee schedule: %w", err)
	}
	mappings, err := uc.mappings.GetAccountMappings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get account mappings: %w", err)
	}
	return schedule, mappings, nil
}

func latestTransactionDate(txs []domain.PaymentTransaction, fallback time.Time) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.CreatedAt != nil && tx.CreatedAt.After(latest) {
			latest = *tx.CreatedAt
		}
	}
	if latest.IsZero() {
		latest = fallback
	}
	y, m, d := latest.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
