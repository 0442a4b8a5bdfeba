package service

import (
	"testing"

	"quizzku_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema. A single
// connection keeps the memory database alive for the test's lifetime.
func newTestDB(t *testing.T) *gorm.DB {
	return openTestDB(t, false)
}

// newAutocommitDB is newTestDB without the per-write transaction wrapper, so
// rows injected from a create callback outlive the statement that fails.
func newAutocommitDB(t *testing.T) *gorm.DB {
	return openTestDB(t, true)
}

func openTestDB(t *testing.T, skipDefaultTransaction bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: skipDefaultTransaction,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}
