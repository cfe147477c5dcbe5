package gateway

import (
	"context"
	"fmt"
	"io"
	"os"

	"booking-reconciliation/internal/domain"

	"go.uber.org/zap"
)

// LoaderOptions tunes normalization of exports whose layout varies.
type LoaderOptions struct {
	LedgerHeaderRow int
}

// DefaultLoaderOptions matches the exports as downloaded.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{LedgerHeaderRow: DefaultLedgerHeaderRow}
}

// Normalize parses a raw export of the given kind into a snapshot. A missing
// required column fails with a *domain.SchemaError.
func Normalize(r io.Reader, kind domain.SourceKind, opts LoaderOptions) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Kind: kind}
	var err error
	switch kind {
	case domain.SourceBooking:
		snap.Bookings, err = ParseBookings(r)
	case domain.SourceLedger:
		snap.Ledger, err = ParseLedger(r, opts.LedgerHeaderRow)
	case domain.SourcePayments:
		snap.Payments, err = ParsePayments(r)
	case domain.SourceSalesExtract:
		snap.Payments, err = ParseSalesExtract(r)
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// FileSnapshotRepository loads exports from the local filesystem.
type FileSnapshotRepository struct {
	opts   LoaderOptions
	logger *zap.Logger
}

// NewFileSnapshotRepository creates a new repository instance.
func NewFileSnapshotRepository(opts LoaderOptions, logger *zap.Logger) *FileSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSnapshotRepository{opts: opts, logger: logger}
}

// GetBookings reads and normalizes a booking export.
func (r *FileSnapshotRepository) GetBookings(ctx context.Context, path string) (*domain.BookingSet, error) {
	snap, err := r.load(ctx, path, domain.SourceBooking)
	if err != nil {
		return nil, err
	}
	return snap.Bookings, nil
}

// GetLedger reads and normalizes a ledger export.
func (r *FileSnapshotRepository) GetLedger(ctx context.Context, path string) (*domain.LedgerSet, error) {
	snap, err := r.load(ctx, path, domain.SourceLedger)
	if err != nil {
		return nil, err
	}
	return snap.Ledger, nil
}

// GetPayments reads and normalizes a payments export.
func (r *FileSnapshotRepository) GetPayments(ctx context.Context, path string) (*domain.PaymentSet, error) {
	snap, err := r.load(ctx, path, domain.SourcePayments)
	if err != nil {
		return nil, err
	}
	return snap.Payments, nil
}

// GetSalesExtract reads and normalizes a sales extract.
func (r *FileSnapshotRepository) GetSalesExtract(ctx context.Context, path string) (*domain.PaymentSet, error) {
	snap, err := r.load(ctx, path, domain.SourceSalesExtract)
	if err != nil {
		return nil, err
	}
	return snap.Payments, nil
}

func (r *FileSnapshotRepository) load(ctx context.Context, path string, kind domain.SourceKind) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s export %s: %w", kind, path, err)
	}
	defer file.Close()

	snap, err := Normalize(file, kind, r.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	rows, warnings := snapshotStats(snap)
	r.logger.Info("export loaded",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("warnings", warnings),
	)
	return snap, nil
}

func snapshotStats(snap *domain.Snapshot) (rows, warnings int) {
	switch {
	case snap.Bookings != nil:
		return len(snap.Bookings.Records), len(snap.Bookings.Warnings)
	case snap.Ledger != nil:
		return len(snap.Ledger.Records), len(snap.Ledger.Warnings)
	case snap.Payments != nil:
		return len(snap.Payments.Transactions), len(snap.Payments.Warnings)
	}
	return 0, 0
}
