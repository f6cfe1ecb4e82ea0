package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-triage-pipeline/internal/model"
)

// ErrNotFound is returned when an export id is unknown.
var ErrNotFound = errors.New("export not found")

// DB records export attempts in SQLite
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the export history database
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers; batch exports record concurrently
	db.SetMaxOpenConns(1)

	// Create tables if not exists
	exportTable := `
	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		model TEXT,
		model_label TEXT,
		ecosystem TEXT,
		range_start DATETIME,
		range_end DATETIME,
		destination TEXT,
		path TEXT,
		record_count INTEGER,
		success BOOLEAN,
		error_message TEXT,
		created_at DATETIME
	);
	`
	ecosystemIndex := `CREATE INDEX IF NOT EXISTS idx_exports_ecosystem ON exports (ecosystem);`

	if _, err := db.Exec(exportTable); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(ecosystemIndex); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database
func (s *DB) Close() error {
	return s.db.Close()
}

// SaveExport stores one export attempt
func (s *DB) SaveExport(result *model.ExportResult) error {
	if result == nil {
		return nil
	}
	exportedAt := result.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO exports (id, model, model_label, ecosystem, range_start, range_end, destination, path, record_count, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Model, result.ModelLabel, result.Ecosystem,
		result.Range.Start.UTC(), result.Range.End.UTC(),
		string(result.Destination), result.Path, result.RecordCount,
		result.Success, result.Error, exportedAt)
	if err != nil {
		return fmt.Errorf("failed to save export %s: %w", result.ID, err)
	}
	return nil
}

const selectExports = `SELECT id, model, model_label, ecosystem, range_start, range_end, destination, path, record_count, success, error_message, created_at FROM exports`

// ListExports returns all exports, newest first
func (s *DB) ListExports() ([]model.ExportResult, error) {
	return s.query(selectExports + ` ORDER BY created_at DESC`)
}

// ListExportsByEcosystem returns one ecosystem's exports, newest first
func (s *DB) ListExportsByEcosystem(ecosystem string) ([]model.ExportResult, error) {
	return s.query(selectExports+` WHERE ecosystem = ? ORDER BY created_at DESC`, ecosystem)
}

// GetExport fetches a single export by id
func (s *DB) GetExport(id string) (*model.ExportResult, error) {
	results, err := s.query(selectExports+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &results[0], nil
}

func (s *DB) query(q string, args ...interface{}) ([]model.ExportResult, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.ExportResult{}
	for rows.Next() {
		var r model.ExportResult
		var destination string
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Model, &r.ModelLabel, &r.Ecosystem,
			&r.Range.Start, &r.Range.End, &destination, &r.Path, &r.RecordCount,
			&r.Success, &errMsg, &r.ExportedAt); err != nil {
			return nil, err
		}
		r.Destination = model.DestinationKind(destination)
		r.Error = errMsg.String
		results = append(results, r)
	}
	return results, rows.Err()
}
