package store

import (
	"context"
	"strings"

	"github.com/rcliao/moodlog/internal/model"
)

// ExportAll returns all stored entries, optionally filtered by user.
func (s *SQLiteStore) ExportAll(ctx context.Context, user string) ([]model.Entry, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if user != "" {
		where = append(where, "user = ?")
		args = append(args, user)
	}

	query := `SELECT user, full_date, time, mood, activities, note_title, note
	          FROM mood_entries WHERE ` + strings.Join(where, " AND ") + ` ORDER BY user, full_date, time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows, true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
