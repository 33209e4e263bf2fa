package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.Inventory.AllowNoUser)
	assert.True(t, cfg.Inventory.AllowDuplicateMovements)
	assert.True(t, cfg.Inventory.RollbackCost)
	assert.False(t, cfg.Inventory.SkusEnabled)
	assert.Equal(t, "created_by", cfg.Inventory.ForeignUserKey)
	assert.Equal(t, 3, cfg.Inventory.SkuPrefixLength)
	assert.Equal(t, 6, cfg.Inventory.SkuCodeLength)
	assert.Equal(t, "", cfg.Inventory.SkuSeparator)
}

func TestLoad_EnvSobrescribeLosDefaults(t *testing.T) {
	t.Setenv("INVENTORY_SKUS_ENABLED", "true")
	t.Setenv("INVENTORY_ALLOW_NO_USER", "false")
	t.Setenv("INVENTORY_FOREIGN_USER_KEY", "user_id")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Inventory.SkusEnabled)
	assert.False(t, cfg.Inventory.AllowNoUser)
	assert.Equal(t, "user_id", cfg.Inventory.ForeignUserKey)
}

func TestDSN_CodificaCaracteresEspeciales(t *testing.T) {
	db := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "inventario_ledger",
		SSLMode:  "disable",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "p%40ss%2Fword", "la contraseña debe ir URL-encoded")
	assert.Equal(t, dsn, db.ConnectionString())
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	db := config.DBConfig{DatabaseURL: "postgres://u:p@host:5432/db?sslmode=require"}
	assert.Equal(t, db.DatabaseURL, db.ConnectionString())
}

func TestDefaultInventory_CoincideConLosDefaultsDeLoad(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInventory(), cfg.Inventory)
}
