package testutil

import (
	"testing"
	"time"

	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	dbadapter "github.com/stardust-app/server/db"
	"github.com/stardust-app/server/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates a private in-memory SQLite DB and runs AutoMigrate.
// It requires no external services and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeSQLiteMemory,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupTestCache creates LocalCache and LocalPubSub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Cache, cache.PubSub) {
	t.Helper()
	cfg := config.CacheConfig{} // empty RedisAddr → LocalCache
	c, err := cache.NewCache(cfg)
	require.NoError(t, err, "SetupTestCache: NewCache")
	ps, err := cache.NewPubSub(cfg)
	require.NoError(t, err, "SetupTestCache: NewPubSub")
	t.Cleanup(func() { _ = c.Close() })
	return c, ps
}

// TestSecurity is a SecurityConfig suitable for handler tests.
func TestSecurity() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:      "test-secret",
		JWTTTLH:        72 * time.Hour,
		BcryptCost:     4,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

// SeedUser inserts a bare account row so pets and quests can reference it.
func SeedUser(t *testing.T, db *gorm.DB, id string) model.User {
	t.Helper()
	u := model.User{ID: id, Email: id + "@stardust.test", PasswordHash: "-", Name: "User " + id}
	require.NoError(t, db.Create(&u).Error, "SeedUser %s", id)
	return u
}
