package trace

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists evaluation records to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite record store.
// The path should be a file path (e.g., "./evals.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS evaluations (
			eval_id TEXT NOT NULL PRIMARY KEY,
			root_kind TEXT NOT NULL,
			raised INTEGER NOT NULL,
			err TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			fallbacks INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			started_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// INSERT OR REPLACE reinserts on conflict, so a re-saved record
	// moves to the front of Recent, matching MemoryStore.
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO evaluations
			(eval_id, root_kind, raised, err, nodes, fallbacks, duration_ns, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.EvalID, rec.RootKind, rec.Raised, rec.Err, rec.Nodes, rec.Fallbacks,
		int64(rec.Duration), rec.StartedAt.UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(evalID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Record{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`
		SELECT eval_id, root_kind, raised, err, nodes, fallbacks, duration_ns, started_at
		FROM evaluations
		WHERE eval_id = ?
	`, evalID)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Recent implements Store.
func (s *SQLiteStore) Recent(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT eval_id, root_kind, raised, err, nodes, fallbacks, duration_ns, started_at
		FROM evaluations
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return recs, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(evalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		DELETE FROM evaluations WHERE eval_id = ?
	`, evalID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// scanRecord reads one row through the given scan function.
func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var durationNs int64
	var startedAt string

	if err := scan(&rec.EvalID, &rec.RootKind, &rec.Raised, &rec.Err,
		&rec.Nodes, &rec.Fallbacks, &durationNs, &startedAt); err != nil {
		return Record{}, err
	}

	rec.Duration = time.Duration(durationNs)
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	return rec, nil
}
