// Package db provides PostgreSQL storage for users, assessments and industry
// insights through gorm.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps a gorm handle. Inside Transaction the handle is bound to the
// transaction.
type DB struct {
	gorm  *gorm.DB
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Connect establishes a pgx connection pool and opens gorm on top of it
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &DB{gorm: gdb, pool: pool, sqlDB: sqlDB}, nil
}

// Open wraps an arbitrary gorm dialector. Tests use it with sqlite.
func Open(dialector gorm.Dialector) (*DB, error) {
	gdb, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return &DB{gorm: gdb, sqlDB: sqlDB}, nil
}

// SQL returns the underlying database/sql handle.
func (db *DB) SQL() *sql.DB {
	return db.sqlDB
}

// Migrate creates or updates the tables for every model
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.gorm.WithContext(ctx).AutoMigrate(&User{}, &IndustryInsight{}, &Assessment{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if db.sqlDB == nil {
		return fmt.Errorf("database not open")
	}
	return db.sqlDB.PingContext(ctx)
}

// Transaction runs fn inside a single transaction. fn must use the DB it is
// given, not the outer one.
func (db *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	return db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{gorm: tx})
	})
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}
