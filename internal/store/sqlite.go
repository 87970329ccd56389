package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/MeldyTheCoder/GeroinichBot/internal/academic"
)

// Table names known to the store. Every table and column identifier
// used in a query must come from this closed set; caller input only
// ever reaches queries as bound parameter values.
const (
	TableLessons = "lessons"
	TableNotes   = "notes"
	TableUsers   = "users"
)

var tableColumns = map[string]map[string]bool{
	TableLessons: columnSet("id", "name", "weekday", "time", "room_number", "group_num", "semester", "grade"),
	TableNotes:   columnSet("id", "chat_id", "lesson_id", "text", "timeEnd", "status"),
	TableUsers:   columnSet("id", "user_id", "registered_at"),
}

func columnSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Store is a generic persistent entity store over SQLite. Entity
// helpers (lessons, users, notes) are built from the Select/Insert/
// Update/Delete primitives; active/expired note partitioning consults
// the academic calendar for the current time.
type Store struct {
	db  *sql.DB
	cal *academic.Calendar
}

// Open opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns the store.
func Open(ctx context.Context, path string, cal *academic.Calendar) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; keep one connection so all
	// store calls serialize on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{db: db, cal: cal}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	return s.db.Close()
}
