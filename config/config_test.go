package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "TAX_RATE_BPS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TOOLS_JWT_SECRET", "CORS_ORIGIN", "CONFIG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "pizzagpt.db", cfg.DBDSN)
	assert.Equal(t, int64(800), cfg.TaxRateBasisPoints)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Empty(t, cfg.ToolsJWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "host=localhost user=pizza dbname=pizza")
	t.Setenv("TAX_RATE_BPS", "1025")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, int64(1025), cfg.TaxRateBasisPoints)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})
	t.Run("tax rate", func(t *testing.T) {
		t.Setenv("TAX_RATE_BPS", "eight")
		_, err := Load()
		assert.ErrorContains(t, err, "TAX_RATE_BPS")
	})
	t.Run("negative tax rate", func(t *testing.T) {
		t.Setenv("TAX_RATE_BPS", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "TAX_RATE_BPS")
	})
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pizzagpt.yaml")
	yml := "port: \"7000\"\ndb_driver: mysql\ndb_dsn: \"pizza:pizza@tcp(localhost:3306)/pizza?parseTime=true\"\ntax_rate_bps: 600\nrate_limit_burst: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("TAX_RATE_BPS", "700")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "tcp(localhost:3306)")
	assert.Equal(t, 3, cfg.RateLimitBurst)
	// environment wins over the file
	assert.Equal(t, int64(700), cfg.TaxRateBasisPoints)
	// untouched keys keep their defaults
	assert.Equal(t, "*", cfg.CORSOrigin)
}

func TestLoadYAMLErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err = Load()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "pizzagpt.db?_fk=1", sqliteDSN("pizzagpt.db"))
	assert.Equal(t, "file:x?mode=memory&_fk=1", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "x.db?_fk=0", sqliteDSN("x.db?_fk=0"))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, gormLogLevel("SILENT"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel(""))
}

func TestInitDBSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBDSN: "file:config_test?mode=memory&cache=shared", DBLogLevel: "silent"}
	db, err := InitDB(cfg)
	require.NoError(t, err)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
