// Package store persists scan records to SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createScanRunsTable = `
CREATE TABLE IF NOT EXISTS scan_runs (
	run_id      TEXT PRIMARY KEY,
	root        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	classes     INTEGER NOT NULL DEFAULT 0
)`

const createClassesTable = `
CREATE TABLE IF NOT EXISTS classes (
	file_path  TEXT PRIMARY KEY,
	package    TEXT NOT NULL DEFAULT '',
	class_name TEXT NOT NULL,
	language   TEXT NOT NULL DEFAULT '',
	run_id     TEXT NOT NULL,
	indexed_at TEXT NOT NULL
)`

const createClassImportsTable = `
CREATE TABLE IF NOT EXISTS class_imports (
	file_path   TEXT NOT NULL REFERENCES classes(file_path) ON DELETE CASCADE,
	import_path TEXT NOT NULL,
	PRIMARY KEY (file_path, import_path)
)`

const createClassPropertiesTable = `
CREATE TABLE IF NOT EXISTS class_properties (
	file_path     TEXT NOT NULL REFERENCES classes(file_path) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	property_type TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (file_path, name, property_type)
)`

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// A single connection keeps ":memory:" databases shared and
	// serialises writes.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables in one transaction.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"scan_runs", createScanRunsTable},
		{"classes", createClassesTable},
		{"class_imports", createClassImportsTable},
		{"class_properties", createClassPropertiesTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
