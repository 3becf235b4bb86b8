package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_TIMEZONE",
		"REDIS_ADDR", "REDIS_DB", "CACHE_TTL", "PORT", "JWT_SECRET", "SNAPSHOT_SCHEDULE", "AUDIT_SCHEDULE",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "0 22 * * 1-5", cfg.SnapshotSchedule)
	assert.Equal(t, "@hourly", cfg.AuditSchedule)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t,
		"host=localhost user=postgres password= dbname=stock_portfolio port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "/tmp/p.db?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", cfg.DSN())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"DB_DRIVER": "mysql",
		"REDIS_DB":  "zero",
		"CACHE_TTL": "5 minutes",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenRedis(t *testing.T) {
	rdb, err := OpenRedis(context.Background(), &Config{})
	require.NoError(t, err)
	assert.Nil(t, rdb, "no address disables redis")

	mr := miniredis.RunT(t)
	rdb, err = OpenRedis(context.Background(), &Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()

	mr.Close()
	_, err = OpenRedis(context.Background(), &Config{RedisAddr: mr.Addr()})
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	require.NoError(t, SetupLogging(&Config{LogLevel: "debug", LogFormat: "json"}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, ok)

	assert.Error(t, SetupLogging(&Config{LogLevel: "loud"}))
}
