package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	sqlite bool
}

// New creates a new database connection. URLs starting with "file:" or
// ending in ".db" open SQLite, anything else is a Postgres DSN.
func New(databaseURL string) (*DB, error) {
	return NewWithLogLevel(databaseURL, logger.Warn)
}

// NewWithLogLevel is New with an explicit gorm SQL log level
func NewWithLogLevel(databaseURL string, level logger.LogLevel) (*DB, error) {
	// Configure GORM
	config := &gorm.Config{
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(level),
	}

	var db *gorm.DB
	var err error

	// Determine database type based on URL format
	if isSQLite(databaseURL) {
		// SQLite connection
		db, err = gorm.Open(sqlite.Open(databaseURL), config)
	} else {
		// PostgreSQL connection
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if isSQLite(databaseURL) {
		// shared-cache memory databases lock tables across connections
		sqlDB.SetMaxOpenConns(1)
	} else {
		// Set connection pool settings
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		if err := enableExtensions(db); err != nil {
			return nil, fmt.Errorf("failed to enable extensions: %w", err)
		}
	}

	return &DB{DB: db, sqlite: isSQLite(databaseURL)}, nil
}

func isSQLite(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "file:") || strings.HasSuffix(databaseURL, ".db")
}

// IsSQLite reports whether the connection is the SQLite driver
func (db *DB) IsSQLite() bool {
	return db.sqlite
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate runs database migrations
func (db *DB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}

// enableExtensions enables the PostgreSQL extensions the schema relies on.
// Hosted databases may refuse CREATE EXTENSION, which is not fatal.
func enableExtensions(db *gorm.DB) error {
	extensions := []string{
		"CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"",
		"CREATE EXTENSION IF NOT EXISTS \"pg_trgm\"",
	}

	for _, ext := range extensions {
		if err := db.Exec(ext).Error; err != nil {
			continue
		}
	}

	return nil
}
