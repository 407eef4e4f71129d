// Package repository provides data access layer interfaces and implementations.
// This file handles MySQL database connections.
package repository

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"document-downloader/api/pkg/config"
)

var db *sqlx.DB

// Init initializes the database connection pool
func Init(cfg *config.DatabaseConfig) error {
	var err error
	db, err = sqlx.Connect("mysql", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	maxConns := cfg.PoolSize
	if maxConns < 10 {
		maxConns = 10
	}
	idleConns := maxConns / 2
	if idleConns < 5 {
		idleConns = 5
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(idleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("pool_size", maxConns).
		Msg("Database connection established")

	return nil
}

// GetDB returns the database connection
func GetDB() *sqlx.DB {
	return db
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
