// Package database provides the ORM database handle for docproject
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// ORM returns the gorm handle. Nothing in the request path queries it.
func (db *Database) ORM() *gorm.DB {
	return db.orm
}

// GetMainDB returns the underlying connection pool for direct access
func (db *Database) GetMainDB() *sql.DB {
	return db.sqlDB
}

// Path returns the sqlite file backing the handle
func (db *Database) Path() string {
	return db.path
}

// Ping verifies the database is reachable
func (db *Database) Ping(ctx context.Context) error {
	if db == nil || db.sqlDB == nil {
		return fmt.Errorf("database is not open")
	}
	return db.sqlDB.PingContext(ctx)
}

// Close closes the connection pool. Calling it more than once returns the first result.
func (db *Database) Close() error {
	if db == nil {
		return nil
	}
	db.closeOnce.Do(func() {
		if db.sqlDB == nil {
			return
		}
		if err := db.sqlDB.Close(); err != nil {
			db.closeErr = fmt.Errorf("failed to close database: %w", err)
			return
		}
		log.Printf("[DB]: Database closed: %s", db.path)
	})
	return db.closeErr
}
