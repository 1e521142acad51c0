package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcliao/moodlog/internal/model"
)

func intp(v int) *int { return &v }

func TestWriteUsersText(t *testing.T) {
	var buf bytes.Buffer
	writeUsersText(&buf, []model.UserCount{{User: "alice", Records: 2}, {User: "bob", Records: 10}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 lines, got %q", buf.String())
	}
	if f := strings.Fields(lines[1]); len(f) != 2 || f[0] != "alice" || f[1] != "2" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestWriteEntriesText(t *testing.T) {
	var buf bytes.Buffer
	writeEntriesText(&buf, []model.Entry{
		{Date: "2024-01-01", Time: "08:00", Mood: intp(3), Activities: "work", NoteTitle: "Day", Note: "long\nnote"},
		{Date: "2024-01-02", Time: "09:00"},
	})

	out := buf.String()
	if !strings.Contains(out, "buono") || !strings.Contains(out, "Day: long note") {
		t.Errorf("expected decoded mood and flattened note, got %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if f := strings.Fields(lines[2]); len(f) != 3 || f[2] != "-" {
		t.Errorf("expected '-' for a null mood, got %q", lines[2])
	}
}

func TestMoodLabel(t *testing.T) {
	if got := moodLabel(nil); got != "-" {
		t.Errorf("nil: got %q", got)
	}
	if got := moodLabel(intp(0)); got != "terribile" {
		t.Errorf("0: got %q", got)
	}
	if got := moodLabel(intp(9)); got != "9" {
		t.Errorf("out of range: got %q", got)
	}
}
