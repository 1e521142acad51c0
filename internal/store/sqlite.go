package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/moodlog/internal/model"
	"github.com/rcliao/moodlog/internal/mood"
)

const insertEntrySQL = `INSERT INTO mood_entries (user, full_date, time, mood, activities, note_title, note)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user, full_date, time) DO NOTHING`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path,
// creates the schema if absent and seeds the mood table.
// Failures wrap ErrUnavailable.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %w", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %w", ErrUnavailable, err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", ErrUnavailable, err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mood_entries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user        TEXT NOT NULL,
		full_date   TEXT NOT NULL,
		time        TEXT NOT NULL,
		mood        INTEGER,
		activities  TEXT,
		note_title  TEXT,
		note        TEXT,
		UNIQUE(user, full_date, time)
	);

	CREATE TABLE IF NOT EXISTS mood_map (
		mood_text   TEXT PRIMARY KEY,
		mood_value  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS import_runs (
		id            TEXT PRIMARY KEY,
		started_at    TEXT NOT NULL,
		finished_at   TEXT,
		files         INTEGER NOT NULL DEFAULT 0,
		failed_files  INTEGER NOT NULL DEFAULT 0,
		inserted      INTEGER NOT NULL DEFAULT 0,
		duplicates    INTEGER NOT NULL DEFAULT 0,
		unrecognized  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON import_runs(started_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.seed()
}

// seed inserts the mood vocabulary, leaving existing pairs alone.
func (s *SQLiteStore) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range mood.Pairs() {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO mood_map (mood_text, mood_value) VALUES (?, ?)`,
			p.Label, int(p.Code)); err != nil {
			return fmt.Errorf("seed mood %q: %w", p.Label, err)
		}
	}
	return tx.Commit()
}

// MoodMap returns the persisted codec table ordered by code.
func (s *SQLiteStore) MoodMap(ctx context.Context) ([]mood.Pair, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mood_text, mood_value FROM mood_map ORDER BY mood_value`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []mood.Pair
	for rows.Next() {
		var p mood.Pair
		if err := rows.Scan(&p.Label, &p.Code); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEntry(ctx context.Context, db execer, e model.Entry) error {
	var moodVal *int
	if e.Mood != nil {
		v := *e.Mood
		moodVal = &v
	}
	res, err := db.ExecContext(ctx, insertEntrySQL,
		e.User, e.Date, e.Time, moodVal,
		nullString(e.Activities), nullString(e.NoteTitle), nullString(e.Note))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s %s: %w", e.User, e.Date, e.Time, ErrDuplicate)
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, e model.Entry) error {
	return insertEntry(ctx, s.db, e)
}

// Batch groups inserts in one transaction.
type Batch struct {
	tx *sql.Tx
}

func (s *SQLiteStore) Begin(ctx context.Context) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	return &Batch{tx: tx}, nil
}

// Insert stores e inside the batch. A failed row does not poison the batch.
func (b *Batch) Insert(ctx context.Context, e model.Entry) error {
	return insertEntry(ctx, b.tx, e)
}

func (b *Batch) Commit() error {
	return b.tx.Commit()
}

// Rollback discards the batch. Safe to call after Commit.
func (b *Batch) Rollback() error {
	return b.tx.Rollback()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner, withUser bool) (model.Entry, error) {
	var e model.Entry
	var moodVal sql.NullInt64
	var activities, noteTitle, note sql.NullString

	dest := []interface{}{&e.Date, &e.Time, &moodVal, &activities, &noteTitle, &note}
	if withUser {
		dest = append([]interface{}{&e.User}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return e, err
	}

	if moodVal.Valid {
		v := int(moodVal.Int64)
		e.Mood = &v
	}
	e.Activities = activities.String
	e.NoteTitle = noteTitle.String
	e.Note = note.String
	return e, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
