// Package store provides the mood entry storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/moodlog/internal/model"
)

var (
	// ErrDuplicate reports that an entry with the same (user, date, time) already exists.
	// The existing row is left untouched.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrUnavailable reports that the store could not be opened or initialized.
	ErrUnavailable = errors.New("store unavailable")
)

// QueryParams holds parameters for querying a user's entries.
// Empty StartDate/EndDate mean unbounded; bounds are inclusive.
type QueryParams struct {
	User      string
	StartDate string
	EndDate   string
}

// Inserter stores entries one at a time.
type Inserter interface {
	// Insert stores e. Returns ErrDuplicate if the dedup key is taken.
	Insert(ctx context.Context, e model.Entry) error
}

// Store defines the mood storage interface.
type Store interface {
	Inserter

	// Begin starts a batch whose inserts become visible together on Commit.
	Begin(ctx context.Context) (*Batch, error)

	// ListUsers returns every user with its entry count, ordered by user.
	ListUsers(ctx context.Context) ([]model.UserCount, error)

	// QueryEntries returns a user's entries within the optional date bounds.
	// An unknown user yields an empty slice.
	QueryEntries(ctx context.Context, p QueryParams) ([]model.Entry, error)

	// Close closes the store.
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
