// Package catalog persists completed scan results to SQLite so past
// discovery passes can be listed, reloaded, and pruned.
package catalog

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slateplayer/slate/internal/playlist"
	"github.com/slateplayer/slate/internal/scan"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound indicates the requested scan doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check the message for
	// constraint violations.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	return err
}

// Open opens (or creates) the catalog database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return NewStore(db), nil
}

// Store provides access to the scan catalog.
type Store struct {
	db *sql.DB
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Scan is one persisted scan pass.
type Scan struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time
	Roots        []string
	EntryCount   int
	WarningCount int
}

// SaveScan records a completed scan and its entries atomically.
func (s *Store) SaveScan(roots []string, startedAt, finishedAt time.Time, res *scan.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO scans (started_at, finished_at, roots, entry_count, warning_count)
		VALUES (?, ?, ?, ?, ?)`,
		startedAt, finishedAt, strings.Join(roots, "\n"), len(res.Entries), len(res.Warnings),
	)
	if err != nil {
		return 0, fmt.Errorf("insert scan: %w", mapSQLiteError(err))
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	for i, e := range res.Entries {
		if _, err := tx.Exec(`
			INSERT INTO scan_entries (scan_id, position, path, format)
			VALUES (?, ?, ?, ?)`,
			scanID, i, e.Path, string(e.Format),
		); err != nil {
			return 0, fmt.Errorf("insert scan entry: %w", mapSQLiteError(err))
		}
	}
	for _, m := range res.Markers {
		if _, err := tx.Exec(`
			INSERT INTO scan_markers (scan_id, path) VALUES (?, ?)`,
			scanID, m,
		); err != nil {
			return 0, fmt.Errorf("insert scan marker: %w", mapSQLiteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit scan: %w", err)
	}
	return scanID, nil
}

// ListScans returns persisted scans, newest first.
func (s *Store) ListScans(limit int) ([]Scan, error) {
	query := `
		SELECT id, started_at, finished_at, roots, entry_count, warning_count
		FROM scans ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		var roots string
		if err := rows.Scan(&sc.ID, &sc.StartedAt, &sc.FinishedAt, &roots, &sc.EntryCount, &sc.WarningCount); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if roots != "" {
			sc.Roots = strings.Split(roots, "\n")
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// Entries returns the ordered entries of one persisted scan.
func (s *Store) Entries(scanID int64) ([]playlist.Entry, error) {
	rows, err := s.db.Query(`
		SELECT path, format FROM scan_entries
		WHERE scan_id = ? ORDER BY position`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list scan entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []playlist.Entry
	for rows.Next() {
		var e playlist.Entry
		var format string
		if err := rows.Scan(&e.Path, &format); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		e.Format = playlist.Format(format)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Markers returns the exclusion markers recorded for one scan.
func (s *Store) Markers(scanID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT path FROM scan_markers WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list scan markers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var markers []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("marker row: %w", err)
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

// Prune removes scans that finished before the given age.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := s.db.Exec(`DELETE FROM scans WHERE finished_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	return result.RowsAffected()
}
