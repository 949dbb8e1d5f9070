package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/models"
)

// Migrate brings the schema up to date. With sqlMigrations set, versioned
// SQL files under ./migrations run via golang-migrate; otherwise GORM
// AutoMigrate is used as the development fallback.
func Migrate(conn *gorm.DB, dsn string, sqlMigrations bool) error {
	if sqlMigrations {
		if err := runSQLMigrations(NormalizeDSN(dsn)); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := models.AutoMigrate(conn); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
	}

	// sanity check: core tables must exist after migration
	for _, table := range []string{"users", "products", "sales_orders"} {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
