package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/forumhive/forumhive-backend/internal/data/db"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

// DB opens a test database and migrates the full schema. When
// TEST_POSTGRES_DSN is set it connects there; otherwise it falls back to an
// in-memory sqlite database so repo tests run without infrastructure.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	var (
		g   *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		g, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		g, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
	}
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(g); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return g
}

// Tx runs the body inside a transaction that is always rolled back, so tests
// sharing a database never see each other's rows.
func Tx(t *testing.T, g *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := g.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	defer tx.Rollback()
	fn(tx)
}

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { l.Sync() })
	return l
}
