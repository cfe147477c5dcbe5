package main

import (
	"os"
	"path/filepath"
	"testing"

	"booking-reconciliation/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func writeSales(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "Item,Payment or Refund,Subtotal Paid,Tax Paid,Subtotal,# of Pax,Payment Type,Booking ID\n" +
		"Snorkel,Payment,$100.00,$5.00,$100.00,2,Cash,12345678\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, cfg *config.Config) []string
		cmd      string
		wantCode int
		wantFile string
	}{
		{
			name:     "unknown command",
			cmd:      "export",
			setup:    func(t *testing.T, cfg *config.Config) []string { return nil },
			wantCode: 2,
		},
		{
			name:     "reconcile without required flags",
			cmd:      "reconcile",
			setup:    func(t *testing.T, cfg *config.Config) []string { return []string{"-bookings", "b.csv"} },
			wantCode: 2,
		},
		{
			name:     "undefined flag",
			cmd:      "journal",
			setup:    func(t *testing.T, cfg *config.Config) []string { return []string{"-nope"} },
			wantCode: 2,
		},
		{
			name: "unusable mapping store",
			cmd:  "journal",
			setup: func(t *testing.T, cfg *config.Config) []string {
				cfg.Mappings.Source = config.MappingsPostgres
				cfg.Database.URL = "postgres://user:pw@localhost:notaport/db"
				return []string{"-sales", writeSales(t)}
			},
			wantCode: 1,
		},
		{
			name: "sales extract missing",
			cmd:  "journal",
			setup: func(t *testing.T, cfg *config.Config) []string {
				return []string{"-sales", filepath.Join(t.TempDir(), "missing.csv")}
			},
			wantCode: 1,
		},
		{
			name: "journal written to the output dir",
			cmd:  "journal",
			setup: func(t *testing.T, cfg *config.Config) []string {
				return []string{"-sales", writeSales(t), "-date", "2025-03-31"}
			},
			wantCode: 0,
			wantFile: "journal.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			args := tt.setup(t, cfg)

			code := run(zap.NewNop(), cfg, tt.cmd, args)
			assert.Equal(t, tt.wantCode, code)

			if tt.wantFile != "" {
				info, err := os.Stat(filepath.Join(cfg.Output.Dir, tt.wantFile))
				require.NoError(t, err)
				assert.Positive(t, info.Size())
			}
		})
	}
}
