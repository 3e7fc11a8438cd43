// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps every logged batch in a local SQLite database so that
// deliveries can be listed, totalled, and exported after the fact. A Store is
// also a sink.RecordSink.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/material-logger/internal/sink"
	"github.com/pdiddy/material-logger/pkg/types"
)

const (
	dbFile = "ledger.db"

	defaultMaxResults = 100

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var _ sink.RecordSink = (*Store)(nil)

// Store manages the ledger SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates the ledger at cfg.Dir/ledger.db and creates the
// schema if it does not exist.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Name() string { return "ledger:" + filepath.Join(s.dir, dbFile) }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			logged_at TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			material TEXT NOT NULL,
			quantity TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_material ON records(material)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_logged_at ON sessions(logged_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append stores batch as a new session. Empty batches are not recorded.
func (s *Store) Append(ctx context.Context, batch types.Batch) error {
	_, err := s.Log(ctx, batch)
	return err
}

// Log stores batch in one transaction and returns the new session ID, or ""
// when the batch is empty.
func (s *Store) Log(ctx context.Context, batch types.Batch) (string, error) {
	if batch.Len() == 0 {
		return "", nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	loggedAt := s.now().UTC().Format(timeLayout)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, source, logged_at, record_count) VALUES (?, ?, ?, ?)`,
		id, batch.Source, loggedAt, batch.Len(),
	); err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (session_id, seq, material, quantity) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch.Rows() {
		if _, err := stmt.ExecContext(ctx, id, r.Seq, r.Material, r.Quantity); err != nil {
			return "", fmt.Errorf("inserting record %d: %w", r.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return id, nil
}
