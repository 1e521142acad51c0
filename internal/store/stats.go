package store

import (
	"context"
	"os"

	"github.com/rcliao/moodlog/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string            `json:"db_path"`
	DBSizeBytes  int64             `json:"db_size_bytes"`
	TotalEntries int               `json:"total_entries"`
	NullMoods    int               `json:"null_moods"`
	Users        []model.UserCount `json:"users"`
	LastRun      *model.Run        `json:"last_run,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_entries`).Scan(&st.TotalEntries); err != nil {
		return st, err
	}
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_entries WHERE mood IS NULL`).Scan(&st.NullMoods)

	users, err := s.ListUsers(ctx)
	if err != nil {
		return st, err
	}
	st.Users = users

	run, err := s.LastRun(ctx)
	if err != nil {
		return st, err
	}
	st.LastRun = run

	return st, nil
}
