package db

import (
	"testing"

	"taskagotchi/internal/config"
	"taskagotchi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{DBDriver: "sqlite", DBPath: "file:" + t.Name() + "?mode=memory&cache=shared"}
}

func TestDialector_UnknownDriver(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestDialector_Names(t *testing.T) {
	for driver, name := range map[string]string{"mysql": "mysql", "postgres": "postgres", "sqlite": "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: "x.db"})
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
}

func TestMigrateAndSeed(t *testing.T) {
	gdb, err := Open(openMemory(t))
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))
	require.NoError(t, SeedCatalog(gdb))
	require.NoError(t, SeedCatalog(gdb), "seeding twice must be harmless")

	var count int64
	require.NoError(t, gdb.Model(&domain.CustomizationItem{}).Count(&count).Error)
	assert.Equal(t, int64(len(Catalog)), count)
}

// migrated opens a migrated, seeded database holding one user.
func migrated(t *testing.T) (*gorm.DB, domain.User) {
	t.Helper()
	gdb, err := Open(openMemory(t))
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, SeedCatalog(gdb))

	user := domain.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)
	return gdb, user
}

func TestMigrate_WalletBalanceCheck(t *testing.T) {
	gdb, user := migrated(t)

	err := gdb.Create(&domain.Wallet{UserID: user.ID, Balance: -10}).Error
	assert.Error(t, err, "storage must reject a negative balance")

	require.NoError(t, gdb.Create(&domain.Wallet{UserID: user.ID, Balance: 10}).Error)
	err = gdb.Create(&domain.Wallet{UserID: user.ID, Balance: 20}).Error
	assert.Error(t, err, "one wallet per user")
}

func TestMigrate_TransactionUniqueness(t *testing.T) {
	gdb, user := migrated(t)
	var item domain.CustomizationItem
	require.NoError(t, gdb.First(&item).Error)

	require.NoError(t, gdb.Create(&domain.Transaction{UserID: user.ID, ItemID: item.ID}).Error)
	err := gdb.Create(&domain.Transaction{UserID: user.ID, ItemID: item.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMigrate_AvatarEnergyCheck(t *testing.T) {
	gdb, user := migrated(t)

	err := gdb.Create(&domain.Avatar{UserID: user.ID, Name: "Test Avatar", Energy: 150}).Error
	assert.Error(t, err)
	require.NoError(t, gdb.Create(&domain.Avatar{UserID: user.ID, Name: "Test Avatar", Energy: 0}).Error)
}

func TestMigrate_RejectsOrphanRows(t *testing.T) {
	gdb, user := migrated(t)
	var item domain.CustomizationItem
	require.NoError(t, gdb.First(&item).Error)
	missing := user.ID + 100

	assert.Error(t, gdb.Create(&domain.Transaction{UserID: missing, ItemID: item.ID}).Error, "transaction with missing user")
	assert.Error(t, gdb.Create(&domain.Transaction{UserID: user.ID, ItemID: 9999}).Error, "transaction with missing item")
	assert.Error(t, gdb.Create(&domain.Wallet{UserID: missing}).Error, "wallet with missing user")
	assert.Error(t, gdb.Create(&domain.Task{UserID: missing, Name: "Orphan", Type: domain.TaskDaily}).Error, "task with missing user")
	assert.Error(t, gdb.Create(&domain.Avatar{UserID: missing, Name: "Orphan", Energy: 100}).Error, "avatar with missing user")
}

func TestMigrate_UserDeleteCascades(t *testing.T) {
	gdb, user := migrated(t)
	var item domain.CustomizationItem
	require.NoError(t, gdb.First(&item).Error)

	require.NoError(t, gdb.Create(&domain.Wallet{UserID: user.ID, Balance: 10}).Error)
	require.NoError(t, gdb.Create(&domain.Task{UserID: user.ID, Name: "Chore", Type: domain.TaskDaily}).Error)
	require.NoError(t, gdb.Create(&domain.Avatar{UserID: user.ID, Name: "Pet", Energy: 100}).Error)
	require.NoError(t, gdb.Create(&domain.Transaction{UserID: user.ID, ItemID: item.ID}).Error)

	assert.Error(t, gdb.Delete(&domain.CustomizationItem{}, item.ID).Error, "owned items cannot be deleted")
	require.NoError(t, gdb.Delete(&domain.User{}, user.ID).Error)

	for _, model := range []any{&domain.Wallet{}, &domain.Task{}, &domain.Avatar{}, &domain.Transaction{}} {
		var n int64
		require.NoError(t, gdb.Model(model).Where("user_id = ?", user.ID).Count(&n).Error)
		assert.Zero(t, n, "%T rows must go with their user", model)
	}
}
