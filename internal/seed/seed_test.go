package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/config"
	"github.com/Skotchmaster/luxeshop/internal/hash"
	"github.com/Skotchmaster/luxeshop/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	db := testDB(t)

	require.NoError(t, EnsureAdmin(db, "admin@example.com", "adminpass"))
	require.NoError(t, EnsureAdmin(db, "admin@example.com", "adminpass"))

	var admins []models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").Find(&admins).Error)
	require.Len(t, admins, 1)
	require.Equal(t, "admin", admins[0].Role)
	require.True(t, hash.CheckPassword(admins[0].PasswordHash, "adminpass"))
}

func TestEnsureAdminSkipsWhenUnconfigured(t *testing.T) {
	db := testDB(t)

	require.NoError(t, EnsureAdmin(db, "", ""))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestProductsSeedsEmptyCatalogOnly(t *testing.T) {
	db := testDB(t)

	require.NoError(t, Products(db))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(12), count)

	// A non-empty catalog is left alone.
	require.NoError(t, Products(db))
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(12), count)
}
