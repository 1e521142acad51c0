package store

import (
	"context"
	"strings"

	"github.com/rcliao/moodlog/internal/model"
)

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]model.UserCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user, COUNT(*) FROM mood_entries GROUP BY user ORDER BY user`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.UserCount{}
	for rows.Next() {
		var u model.UserCount
		if err := rows.Scan(&u.User, &u.Records); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) QueryEntries(ctx context.Context, p QueryParams) ([]model.Entry, error) {
	where := []string{"user = ?"}
	args := []interface{}{p.User}

	if p.StartDate != "" {
		where = append(where, "full_date >= ?")
		args = append(args, p.StartDate)
	}
	if p.EndDate != "" {
		where = append(where, "full_date <= ?")
		args = append(args, p.EndDate)
	}

	query := `SELECT full_date, time, mood, activities, note_title, note
	          FROM mood_entries WHERE ` + strings.Join(where, " AND ") + ` ORDER BY full_date, time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
