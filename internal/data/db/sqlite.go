package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

// OpenSQLite opens a file-backed database, or a private in-memory one when
// path is ":memory:". In-memory databases are per connection, so the pool is
// pinned to a single connection.
func OpenSQLite(path string, logg *logger.Logger, silent bool) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	gl := newGormLogger()
	if silent {
		gl = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	if logg != nil {
		logg.Info("Opening SQLite", "path", path)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
