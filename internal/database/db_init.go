package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverName is the database/sql driver registered by github.com/mattn/go-sqlite3
const DriverName = "sqlite3"

// Database holds the ORM handle. It is opened once at startup and closed once at shutdown.
type Database struct {
	orm   *gorm.DB
	sqlDB *sql.DB // underlying pool of orm
	path  string

	// Database configuration
	dbconfig *DBConfig

	closeOnce sync.Once
	closeErr  error
}

// DBConfig represents database configuration
type DBConfig struct {
	// Directory to store database files
	DataDir  string
	FileName string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Performance settings
	WALMode     bool   // Write-Ahead Logging
	SyncMode    string // OFF, NORMAL, FULL
	CacheSize   int    // KB
	TempStore   string // MEMORY, FILE
	BusyTimeout time.Duration

	// ORM logging
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		DataDir:         "./data",
		FileName:        "docproject.sq3",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 0, // Unlimited for SQLite
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -4096, // -4096 == 4MB cache
		TempStore:       "MEMORY",
		BusyTimeout:     30 * time.Second,
		LogLevel:        logger.Warn,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// OpenDatabase opens the ORM handle over the sqlite3 driver. A nil dbconfig means defaults.
// The handle is never migrated here.
func OpenDatabase(ctx context.Context, dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}
	if dbconfig.FileName == "" {
		return nil, fmt.Errorf("database file name is not set")
	}

	if err := createDirIfNotExists(dbconfig.DataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dbconfig.DataDir, dbconfig.FileName)

	libVersion, _, _ := sqlite3.Version()
	log.Printf("[DB]: Opening database at: %s (sqlite %s)", dbPath, libVersion)

	orm, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: DriverName,
		DSN:        buildDSN(dbPath, dbconfig),
	}), &gorm.Config{
		Logger: newORMLogger(dbconfig),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database pool: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(dbconfig.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbconfig.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbconfig.ConnMaxLifetime)

	// Test connection
	if err := sqlDB.PingContext(ctx); err != nil {
		if cerr := sqlDB.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to ping database: %w; also failed to close: %v", err, cerr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &Database{
		orm:      orm,
		sqlDB:    sqlDB,
		path:     dbPath,
		dbconfig: dbconfig,
	}

	if err := db.applySQLitePragmas(ctx); err != nil {
		if cerr := sqlDB.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to apply SQLite pragmas: %w; also failed to close: %v", err, cerr)
		}
		return nil, fmt.Errorf("failed to apply SQLite pragmas: %w", err)
	}

	log.Printf("[DB]: Database initialized: path=%s walmode=%t syncmode=%s", dbPath, dbconfig.WALMode, dbconfig.SyncMode)
	return db, nil
}

// buildDSN puts the per-connection settings into the DSN so every pooled connection gets them
func buildDSN(dbPath string, dbconfig *DBConfig) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprintf("%d", dbconfig.BusyTimeout.Milliseconds()))
	params.Set("_foreign_keys", "on")
	if dbconfig.SyncMode != "" {
		params.Set("_synchronous", dbconfig.SyncMode)
	}
	if dbconfig.WALMode {
		params.Set("_journal_mode", "WAL")
	}
	return "file:" + dbPath + "?" + params.Encode()
}

// applySQLitePragmas applies the remaining performance pragmas
func (db *Database) applySQLitePragmas(ctx context.Context) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA cache_size = %d", db.dbconfig.CacheSize),
		"PRAGMA mmap_size = 0",
	}
	if db.dbconfig.TempStore != "" {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA temp_store = %s", db.dbconfig.TempStore))
	}
	if db.dbconfig.WALMode {
		pragmas = append(pragmas, "PRAGMA wal_autocheckpoint = 1000")
	}

	for _, pragma := range pragmas {
		if _, err := retryableExec(ctx, db.sqlDB, pragma); err != nil {
			return fmt.Errorf("failed to execute pragma '%s': %w", pragma, err)
		}
	}
	return nil
}
