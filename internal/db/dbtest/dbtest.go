// Package dbtest opens migrated in-memory sqlite databases for package tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yrhacks/hackbot/internal/db"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

// Open returns a gorm handle and an sqlx handle over the same in-memory database.
func Open(t testing.TB) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return gdb, sqlx.NewDb(sqlDB, "sqlite3")
}

// SeedUser inserts a registrant with no team.
func SeedUser(t testing.TB, gdb *gorm.DB, discordID, fullName string) *gormModels.User {
	t.Helper()
	u := &gormModels.User{DiscordID: discordID, FullName: fullName}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", discordID, err)
	}
	return u
}
