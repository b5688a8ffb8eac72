package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray config.yaml or .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "./codebros.db", cfg.Store.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.Store.ConnMaxLifetime)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Seed.OnStart)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CODEBROS_SERVER_PORT", "8081")
	t.Setenv("CODEBROS_STORE_DRIVER", "memory")
	t.Setenv("CODEBROS_LOG_JSON", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "codebros.yaml")
	content := []byte("server:\n  port: 9000\n  environment: production\nstore:\n  driver: mongo\n  mongo_database: cb_test\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "cb_test", cfg.Store.MongoDatabase)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 5000},
			Store:  StoreConfig{Driver: DriverSQLite},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Store.Driver = "cassandra"
	assert.ErrorContains(t, cfg.Validate(), "unknown store.driver")

	cfg = base()
	cfg.Store.Driver = DriverPostgres
	assert.ErrorContains(t, cfg.Validate(), "postgres_dsn")

	cfg.Store.PostgresDSN = "postgres://codebros@localhost/codebros"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "invalid server.port")
}
