package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "INV", cfg.Ledger.OrderPrefix)
	assert.Equal(t, "PO", cfg.Ledger.PurchasePrefix)
	assert.Equal(t, 5, cfg.Ledger.DefaultLowStockThreshold)
	assert.False(t, cfg.Server.IsProduction())
	assert.Contains(t, cfg.Database.DSN(), "host=")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://ledger@db:5432/ledger")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("LEDGER_OPERATION_TIMEOUT", "3s")
	t.Setenv("LEDGER_ORDER_PREFIX", "SO")
	t.Setenv("LEDGER_LOW_STOCK_THRESHOLD", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "postgres://ledger@db:5432/ledger", cfg.Database.DSN())
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 3*time.Second, cfg.Ledger.OperationTimeout)
	assert.Equal(t, "SO", cfg.Ledger.OrderPrefix)
	assert.Equal(t, 5, cfg.Ledger.DefaultLowStockThreshold)
}

func TestLoadRejectsEmptyPrefix(t *testing.T) {
	t.Setenv("LEDGER_PURCHASE_PREFIX", "")

	_, err := Load()
	assert.Error(t, err)
}
