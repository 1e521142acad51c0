// Package model defines the core mood data types.
package model

import "time"

// Entry is one user's mood record at a point in time.
// (User, Date, Time) is unique across the store.
type Entry struct {
	User       string `json:"user,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Mood       *int   `json:"mood"`
	Activities string `json:"activities"`
	NoteTitle  string `json:"note_title"`
	Note       string `json:"note"`
}

// UserCount is a user with its total number of stored entries.
type UserCount struct {
	User    string `json:"user"`
	Records int    `json:"records"`
}

// Run records one import pass.
type Run struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Files        int        `json:"files"`
	FailedFiles  int        `json:"failed_files"`
	Inserted     int        `json:"inserted"`
	Duplicates   int        `json:"duplicates"`
	Unrecognized int        `json:"unrecognized"`
}
