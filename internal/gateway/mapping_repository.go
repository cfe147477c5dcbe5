package gateway

import (
	"context"
	"fmt"
	"os"

	"booking-reconciliation/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// mappingFile is the on-disk layout of a mapping file.
type mappingFile struct {
	Tours []struct {
		Name string `yaml:"name"`
		Fees []struct {
			Name     string `yaml:"name"`
			PerGuest string `yaml:"per_guest"`
		} `yaml:"fees"`
	} `yaml:"tours"`
	Mappings []struct {
		Type           string `yaml:"type"`
		Item           string `yaml:"item"`
		Account        string `yaml:"account"`
		AccountID      string `yaml:"account_id"`
		Classification string `yaml:"classification"`
		Active         *bool  `yaml:"active"`
	} `yaml:"mappings"`
}

// FileMappingRepository reads fee schedules and account mappings from a YAML file.
type FileMappingRepository struct {
	path string
}

// NewFileMappingRepository creates a repository backed by the file at path.
func NewFileMappingRepository(path string) *FileMappingRepository {
	return &FileMappingRepository{path: path}
}

func (r *FileMappingRepository) read() (*mappingFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", r.path, err)
	}
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", r.path, err)
	}
	return &mf, nil
}

// GetFeeSchedule returns the per-tour fee schedule.
func (r *FileMappingRepository) GetFeeSchedule(ctx context.Context) (*domain.FeeSchedule, error) {
	mf, err := r.read()
	if err != nil {
		return nil, err
	}
	schedule := domain.NewFeeSchedule()
	for _, tour := range mf.Tours {
		for _, fee := range tour.Fees {
			amount, err := decimal.NewFromString(fee.PerGuest)
			if err != nil {
				return nil, fmt.Errorf("fee %q on tour %q: invalid per-guest amount %q: %w", fee.Name, tour.Name, fee.PerGuest, err)
			}
			if err := schedule.Add(tour.Name, domain.Fee{Name: fee.Name, PerGuest: amount}); err != nil {
				return nil, err
			}
		}
	}
	return schedule, nil
}

// GetAccountMappings returns the active account mappings. Entries without an
// explicit active flag are active.
func (r *FileMappingRepository) GetAccountMappings(ctx context.Context) (*domain.AccountMappings, error) {
	mf, err := r.read()
	if err != nil {
		return nil, err
	}
	mappings := make([]domain.AccountMapping, 0, len(mf.Mappings))
	for _, m := range mf.Mappings {
		t, err := domain.ParseMappingType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("mapping for %q: %w", m.Item, err)
		}
		mappings = append(mappings, domain.AccountMapping{
			Type:           t,
			Item:           m.Item,
			AccountName:    m.Account,
			AccountID:      m.AccountID,
			Classification: m.Classification,
			Active:         m.Active == nil || *m.Active,
		})
	}
	return domain.NewAccountMappings(mappings)
}

// Querier is the subset of *pgxpool.Pool the Postgres repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NewPostgresPool opens a connection pool and verifies it with a ping.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// PostgresMappingRepository reads fee schedules and account mappings from
// the tours, fees, tour_fees and quickbooks_mappings tables.
type PostgresMappingRepository struct {
	DB Querier
}

// NewPostgresMappingRepository creates a repository on top of db.
func NewPostgresMappingRepository(db Querier) *PostgresMappingRepository {
	return &PostgresMappingRepository{DB: db}
}

// GetFeeSchedule returns the per-tour fee schedule.
func (r *PostgresMappingRepository) GetFeeSchedule(ctx context.Context) (*domain.FeeSchedule, error) {
	query := `
		SELECT t.name, f.name, f.per_person_amount::text
		FROM tour_fees tf
		JOIN tours t ON tf.tour_id = t.id
		JOIN fees f ON tf.fee_id = f.id
		ORDER BY t.name, f.name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee schedule: %w", err)
	}
	defer rows.Close()

	schedule := domain.NewFeeSchedule()
	for rows.Next() {
		var tour, fee, amount string
		if err := rows.Scan(&tour, &fee, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		perGuest, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("fee %q on tour %q: invalid per-guest amount %q: %w", fee, tour, amount, err)
		}
		if err := schedule.Add(tour, domain.Fee{Name: fee, PerGuest: perGuest}); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fee schedule: %w", err)
	}
	return schedule, nil
}

// GetAccountMappings returns the active account mappings.
func (r *PostgresMappingRepository) GetAccountMappings(ctx context.Context) (*domain.AccountMappings, error) {
	query := `
		SELECT mapping_type, fareharbour_item, quickbooks_account,
			COALESCE(quickbooks_account_id, ''), COALESCE(account_type, '')
		FROM quickbooks_mappings
		WHERE is_active = TRUE
		ORDER BY mapping_type, fareharbour_item
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.AccountMapping
	for rows.Next() {
		var kind string
		m := domain.AccountMapping{Active: true}
		if err := rows.Scan(&kind, &m.Item, &m.AccountName, &m.AccountID, &m.Classification); err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		if m.Type, err = domain.ParseMappingType(kind); err != nil {
			return nil, fmt.Errorf("mapping for %q: %w", m.Item, err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account mappings: %w", err)
	}
	return domain.NewAccountMappings(mappings)
}
