// Package sqlite implements core.Storage on a single SQLite table.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Itshalffull/propbind/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
`

// Config configures the SQLite storage.
type Config struct {
	// Path is the database file. ":memory:" keeps everything in memory.
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
}

// Storage is a core.Storage backed by SQLite.
type Storage struct {
	config Config
	logger *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// New creates a Storage. The database is opened by Initialize.
func New(config Config) *Storage {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Storage{config: config, logger: logger}
}

// Initialize opens the database, enables WAL and creates the schema.
func (s *Storage) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		if s.config.Path == "" {
			return errors.New("sqlite path cannot be empty")
		}
		db, err := sql.Open("sqlite3", s.dsn())
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", s.config.Path)
		}
		if s.config.Path == ":memory:" {
			// Every pooled connection would get its own empty database.
			db.SetMaxOpenConns(1)
		}
		s.db = db
	}

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if s.config.Path != ":memory:" && !s.config.ReadOnly {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return errors.Wrapf(err, "failed to apply %q", p)
		}
	}

	if s.config.ReadOnly {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}

// dsn opens read-only stores through a URI so SQLite refuses writes and never
// creates a missing file.
func (s *Storage) dsn() string {
	if !s.config.ReadOnly || s.config.Path == ":memory:" {
		return s.config.Path
	}
	return "file:" + s.config.Path + "?mode=ro"
}

// Close releases the database.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("sqlite storage is not initialized")
	}
	return s.db, nil
}

// Put upserts rec under (kind, id).
func (s *Storage) Put(ctx context.Context, kind, id string, rec core.Record) error {
	if s.config.ReadOnly {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: core.ErrReadOnly}
	}
	db, err := s.conn()
	if err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: err}
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: errors.Wrap(err, "failed to encode record")}
	}

	query := `
		INSERT INTO records (kind, id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx, query, kind, id, string(body), now); err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: errors.Wrapf(err, "failed to save record %s/%s", kind, id)}
	}

	s.logger.Debug("record written", "kind", kind, "id", id, "bytes", len(body))
	return nil
}

// Get returns the record under (kind, id).
func (s *Storage) Get(ctx context.Context, kind, id string) (core.Record, error) {
	db, err := s.conn()
	if err != nil {
		return nil, &core.BackendError{Op: "get", Kind: kind, ID: id, Err: err}
	}

	var body string
	err = db.QueryRowContext(ctx, `SELECT body FROM records WHERE kind = ? AND id = ?`, kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(core.ErrNotFound, "%s/%s", kind, id)
	}
	if err != nil {
		return nil, &core.BackendError{Op: "get", Kind: kind, ID: id, Err: errors.Wrap(err, "query failed")}
	}

	rec, err := decode(body)
	if err != nil {
		return nil, &core.BackendError{Op: "get", Kind: kind, ID: id, Err: err}
	}
	return rec, nil
}

// Delete removes the record under (kind, id). Missing records are ignored.
func (s *Storage) Delete(ctx context.Context, kind, id string) error {
	if s.config.ReadOnly {
		return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: core.ErrReadOnly}
	}
	db, err := s.conn()
	if err != nil {
		return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: err}
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, kind, id); err != nil {
		return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: errors.Wrap(err, "delete failed")}
	}
	return nil
}

// Find returns every record of kind matching filter, ordered by id.
func (s *Storage) Find(ctx context.Context, kind string, filter core.Record) ([]core.Record, error) {
	db, err := s.conn()
	if err != nil {
		return nil, &core.BackendError{Op: "find", Kind: kind, Err: err}
	}

	rows, err := db.QueryContext(ctx, `SELECT id, body FROM records WHERE kind = ? ORDER BY id`, kind)
	if err != nil {
		return nil, &core.BackendError{Op: "find", Kind: kind, Err: errors.Wrap(err, "query failed")}
	}
	defer rows.Close()

	out := []core.Record{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, &core.BackendError{Op: "find", Kind: kind, Err: errors.Wrap(err, "scan failed")}
		}
		rec, err := decode(body)
		if err != nil {
			s.logger.Warn("skipping undecodable record", "kind", kind, "id", id, "error", err)
			continue
		}
		if core.Match(rec, filter) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &core.BackendError{Op: "find", Kind: kind, Err: errors.Wrap(err, "iteration failed")}
	}
	return out, nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite"
}

func decode(body string) (core.Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var rec core.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "failed to decode record")
	}
	return rec, nil
}

var _ core.Storage = (*Storage)(nil)
