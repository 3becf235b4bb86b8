package database

import (
	"path/filepath"
	"testing"

	"stock-portfolio/config"
	"stock-portfolio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory database. The pool is limited to one
// connection so every query sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

// newFileDB opens a migrated database file with the same DSN the server
// uses and a pool wide enough for transactions to run concurrently.
func newFileDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}
	db, err := config.OpenDB(cfg)
	require.NoError(t, err, "open database file")
	db = db.Session(&gorm.Session{Logger: logger.Default.LogMode(logger.Silent)})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedUser(t *testing.T, db *gorm.DB, cash string) models.User {
	t.Helper()
	u := models.User{Name: "Test", CashBalance: d(cash), OpeningBalance: d(cash)}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedStock(t *testing.T, db *gorm.DB, symbol, price, prev string) models.Stock {
	t.Helper()
	s := models.Stock{Symbol: symbol, CompanyName: symbol + " Corp", CurrentPrice: d(price), PreviousClose: d(prev)}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Take(&u, id).Error)
	return u
}
