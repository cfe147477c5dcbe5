package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "booking-reconciliation", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 4, cfg.Ledger.HeaderRow)
	assert.Equal(t, MappingsNone, cfg.Mappings.Source)
	assert.Equal(t, "JE", cfg.Journal.EntryPrefix)
	assert.Equal(t, "proportional", cfg.Journal.Allocation)
	assert.False(t, cfg.Journal.IncludeProcessingFees)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.BalanceTolerance().Equal(decimal.RequireFromString("0.01")))
	assert.True(t, cfg.RoundingLimit().Equal(decimal.NewFromInt(5)))
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
ledger:
  header_row: 0
mappings:
  source: file
  file: configs/mappings.yaml
journal:
  entry_prefix: MAR-
  allocation: simple
  rounding_limit: 2.5
output:
  format: xlsx
  dir: out
`)
	t.Setenv("RECON_JOURNAL_INCLUDE_PROCESSING_FEES", "true")
	t.Setenv("RECON_OUTPUT_DIR", "/tmp/reports")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 0, cfg.Ledger.HeaderRow)
	assert.Equal(t, MappingsFile, cfg.Mappings.Source)
	assert.Equal(t, "configs/mappings.yaml", cfg.Mappings.File)
	assert.Equal(t, "MAR-", cfg.Journal.EntryPrefix)
	assert.Equal(t, "simple", cfg.Journal.Allocation)
	assert.True(t, cfg.Journal.IncludeProcessingFees)
	assert.True(t, cfg.RoundingLimit().Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown output format",
			content: "output:\n  format: pdf\n",
			wantErr: "output.format",
		},
		{
			name:    "file source without a file",
			content: "mappings:\n  source: file\n",
			wantErr: "mappings.file",
		},
		{
			name:    "postgres source without a url",
			content: "mappings:\n  source: postgres\n",
			wantErr: "database.url",
		},
		{
			name:    "unknown allocation",
			content: "journal:\n  allocation: weighted\n",
			wantErr: "journal.allocation",
		},
		{
			name:    "limit below tolerance",
			content: "journal:\n  balance_tolerance: 1\n  rounding_limit: 0.5\n",
			wantErr: "rounding_limit",
		},
		{
			name:    "malformed yaml",
			content: "journal: [",
			wantErr: "read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
