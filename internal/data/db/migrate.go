package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// Open picks the driver from cfg and migrates the schema.
func Open(driver string, sqlitePath string, logg *logger.Logger) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql":
		conn, err = OpenPostgres(PostgresConfigFromEnv(), logg)
	case "sqlite", "sqlite3":
		conn, err = OpenSQLite(sqlitePath, logg, false)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(conn); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return conn, nil
}
