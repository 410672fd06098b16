package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported database types.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
}

// NewPostgresDB establishes a new connection to the PostgreSQL database.
func NewPostgresDB(dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect(Postgres, dataSourceName)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to the database!", zap.String("type", Postgres))
	return db, nil
}

// NewSQLiteDB opens a SQLite database file, creating its directory. The
// special path ":memory:" opens a private in-memory database.
func NewSQLiteDB(path string, logger *zap.Logger) (*sqlx.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(SQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; also keeps an in-memory database alive on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	logger.Info("Successfully connected to the database!", zap.String("type", SQLite), zap.String("path", path))
	return db, nil
}

// Open connects to the configured database type.
func Open(dbType, url string, logger *zap.Logger) (*sqlx.DB, error) {
	switch dbType {
	case Postgres:
		if url == "" {
			return nil, errors.New("postgres database url is empty")
		}
		return NewPostgresDB(url, logger)
	case SQLite, "":
		return NewSQLiteDB(url, logger)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

// MigrateDB runs the embedded migrations for the connection's dialect.
func MigrateDB(db *sqlx.DB, logger *zap.Logger) error {
	var (
		driver database.Driver
		dir    string
		err    error
	)
	switch db.DriverName() {
	case Postgres:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
		dir = "postgres"
	case SQLite:
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		dir = "sqlite"
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("couldn't get database instance for running migrations: %w", err)
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("couldn't open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "kisaanmitra", driver)
	if err != nil {
		return fmt.Errorf("couldn't create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("couldn't run database migration: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Database migration was run successfully",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
