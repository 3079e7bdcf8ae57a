package infra

import (
	"context"
	"embed"
	"fmt"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens a GORM connection for the given driver.
// PostgreSQL goes through pgx; SQLite (development and tests) through mattn/go-sqlite3
// with a single connection, so an in-memory DSN keeps its data for the pool's lifetime.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		} {
			if err := db.Exec(pragma).Error; err != nil {
				return nil, fmt.Errorf("database: %s: %w", pragma, err)
			}
		}
		return db, nil
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	return db, nil
}

// Migrate brings the schema up to date. PostgreSQL uses the embedded goose
// migrations; SQLite uses AutoMigrate. Both finish with applySchemaPatches.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	switch driver {
	case DriverPostgres:
		if err := runGoose(ctx, db); err != nil {
			return err
		}
	case DriverSQLite:
		if err := db.WithContext(ctx).AutoMigrate(
			&model.Producto{},
			&model.Usuario{},
			&model.Turno{},
			&model.Venta{},
			&model.VentaItem{},
			&model.Pedido{},
			&model.PedidoItem{},
		); err != nil {
			return fmt.Errorf("AutoMigrate: %w", err)
		}
	default:
		return fmt.Errorf("database: unsupported driver %q", driver)
	}

	if err := applySchemaPatches(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

func runGoose(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The statements are valid on both PostgreSQL and SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// single open shift guard
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_turnos_abierto ON turnos (estado) WHERE estado = 'abierto'`,
		`CREATE INDEX IF NOT EXISTS idx_ventas_turno_estado ON ventas (turno_id, estado)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
