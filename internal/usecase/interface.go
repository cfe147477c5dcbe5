package usecase

import (
	"context"

	"booking-reconciliation/internal/domain"
)

// SnapshotRepository loads and normalizes the uploaded exports.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type SnapshotRepository interface {
	GetBookings(ctx context.Context, path string) (*domain.BookingSet, error)
	GetLedger(ctx context.Context, path string) (*domain.LedgerSet, error)
	GetPayments(ctx context.Context, path string) (*domain.PaymentSet, error)
	GetSalesExtract(ctx context.Context, path string) (*domain.PaymentSet, error)
}

// MappingRepository supplies the fee schedule and account mappings for one run.
type MappingRepository interface {
	GetFeeSchedule(ctx context.Context) (*domain.FeeSchedule, error)
	GetAccountMappings(ctx context.Context) (*domain.AccountMappings, error)
}
