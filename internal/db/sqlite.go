package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dartgrab/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the last-good company master
// snapshot. The snapshot is the fallback when a master refresh fails.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createCompaniesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create companies schema: %w", err)
	}
	if _, err := conn.Exec(createMasterMetaTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create master_meta schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ReplaceCompanies swaps the stored snapshot for a freshly fetched master.
// The whole replace runs in one transaction so a crash mid-write never
// leaves a half-populated snapshot.
func (db *DB) ReplaceCompanies(companies []models.CompanyRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteCompanies); err != nil {
		return fmt.Errorf("failed to clear companies: %w", err)
	}

	stmt, err := tx.Prepare(insertCompany)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range companies {
		if _, err := stmt.Exec(c.CorpCode, c.CorpName, c.StockCode); err != nil {
			return fmt.Errorf("failed to insert company %s: %w", c.CorpCode, err)
		}
	}

	if _, err := tx.Exec(upsertMasterMeta, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update master metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadCompanies returns the stored company master snapshot
func (db *DB) LoadCompanies() ([]models.CompanyRecord, error) {
	rows, err := db.conn.Query(selectCompanies)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []models.CompanyRecord
	for rows.Next() {
		var c models.CompanyRecord
		if err := rows.Scan(&c.CorpCode, &c.CorpName, &c.StockCode); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// HasCompanies checks whether a snapshot exists
func (db *DB) HasCompanies() (bool, error) {
	var count int
	if err := db.conn.QueryRow(countCompanies).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count companies: %w", err)
	}
	return count > 0, nil
}

// MasterFetchedAt returns when the stored snapshot was fetched. The bool
// is false when no snapshot has ever been saved.
func (db *DB) MasterFetchedAt() (time.Time, bool, error) {
	var ts string
	err := db.conn.QueryRow(selectMasterFetchedAt).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get master fetch time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unable to parse timestamp: %s", ts)
	}
	return t, true, nil
}

// ClearCompanies drops the snapshot and its metadata
func (db *DB) ClearCompanies() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteCompanies); err != nil {
		return fmt.Errorf("failed to clear companies: %w", err)
	}
	if _, err := tx.Exec(deleteMasterMeta); err != nil {
		return fmt.Errorf("failed to clear master metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
