package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rcliao/moodlog/internal/model"
	"github.com/rcliao/moodlog/internal/mood"
)

func checkFormat() {
	if formatFlag != "json" && formatFlag != "text" {
		exitErr("format", fmt.Errorf("unknown format %q (use json or text)", formatFlag))
	}
}

func writeJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func writeUsersText(w io.Writer, users []model.UserCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tRECORDS")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%d\n", u.User, u.Records)
	}
	tw.Flush()
}

func writeEntriesText(w io.Writer, entries []model.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tMOOD\tACTIVITIES\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Time, moodLabel(e.Mood), e.Activities, noteText(e))
	}
	tw.Flush()
}

func moodLabel(m *int) string {
	if m == nil {
		return "-"
	}
	if label, ok := mood.Decode(mood.Code(*m)); ok {
		return label
	}
	return fmt.Sprint(*m)
}

func noteText(e model.Entry) string {
	note := strings.ReplaceAll(e.Note, "\n", " ")
	switch {
	case e.NoteTitle != "" && note != "":
		return e.NoteTitle + ": " + note
	case e.NoteTitle != "":
		return e.NoteTitle
	}
	return note
}
