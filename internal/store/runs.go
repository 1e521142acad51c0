package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/moodlog/internal/model"
)

// StartRun records the beginning of an import pass and returns its id.
func (s *SQLiteStore) StartRun(ctx context.Context, startedAt time.Time) (string, error) {
	id := s.newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, started_at) VALUES (?, ?)`,
		id, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// FinishRun stores the totals of a completed pass.
func (s *SQLiteStore) FinishRun(ctx context.Context, r model.Run) error {
	finished := time.Now().UTC()
	if r.FinishedAt != nil {
		finished = r.FinishedAt.UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE import_runs
		 SET finished_at = ?, files = ?, failed_files = ?, inserted = ?, duplicates = ?, unrecognized = ?
		 WHERE id = ?`,
		finished.Format(time.RFC3339), r.Files, r.FailedFiles, r.Inserted, r.Duplicates, r.Unrecognized, r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", r.ID)
	}
	return nil
}

// LastRun returns the most recently started pass, or nil if none was recorded.
func (s *SQLiteStore) LastRun(ctx context.Context) (*model.Run, error) {
	var r model.Run
	var startedAt string
	var finishedAt sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, files, failed_files, inserted, duplicates, unrecognized
		 FROM import_runs ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(
		&r.ID, &startedAt, &finishedAt, &r.Files, &r.FailedFiles, &r.Inserted, &r.Duplicates, &r.Unrecognized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339, finishedAt.String)
		r.FinishedAt = &t
	}
	return &r, nil
}
