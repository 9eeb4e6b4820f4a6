package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("STORAGE_TYPE", "local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 20, cfg.Cache.EnrichmentLimit)
	assert.Equal(t, "@hourly", cfg.Worker.OverdueCron)
	assert.Equal(t, time.Hour, cfg.Limits.SignedURLExpiry)
	assert.Contains(t, cfg.Limits.AllowedMimeTypes, "application/pdf")
	assert.True(t, cfg.UseLocalStorage())
}

func TestLoad_ProductionRequiresSupabase(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("STORAGE_TYPE", "supabase")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_TYPE", "s3")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.Equal(t, DevDatabaseFile, cfg.GetDatabaseURL())

	cfg.Database.URL = "postgres://db"
	assert.Equal(t, "postgres://db", cfg.GetDatabaseURL())

	cfg = &Config{Environment: "test", Database: DatabaseConfig{URL: "postgres://db", TestURL: "postgres://test"}}
	assert.Equal(t, "postgres://test", cfg.GetDatabaseURL())

	cfg = &Config{Environment: "production"}
	assert.Empty(t, cfg.GetDatabaseURL())
}
