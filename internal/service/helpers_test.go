package service

import (
	"testing"
	"time"

	"taskagotchi/internal/db"
	"taskagotchi/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a migrated, seeded in-memory database. A single connection keeps the
// in-memory database alive and serializes transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedCatalog(gdb))
	return gdb
}

// createUser inserts a user with a wallet holding balance.
func createUser(t *testing.T, gdb *gorm.DB, name string, balance int64) domain.User {
	t.Helper()
	user := domain.User{Username: name, Email: name + "@example.com", FirstName: "Test", LastName: "User", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)
	require.NoError(t, gdb.Create(&domain.Wallet{UserID: user.ID, Balance: balance}).Error)
	return user
}

func itemByName(t *testing.T, gdb *gorm.DB, name string) domain.CustomizationItem {
	t.Helper()
	var item domain.CustomizationItem
	require.NoError(t, gdb.Where("name = ?", name).First(&item).Error)
	return item
}

func walletBalance(t *testing.T, gdb *gorm.DB, userID uint) int64 {
	t.Helper()
	var wallet domain.Wallet
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&wallet).Error)
	return wallet.Balance
}

func countTransactions(t *testing.T, gdb *gorm.DB, userID, itemID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Where("user_id = ? AND item_id = ?", userID, itemID).Count(&n).Error)
	return n
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
