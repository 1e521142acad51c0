// Package importer loads per-user mood export files into the store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rcliao/moodlog/internal/model"
	"github.com/rcliao/moodlog/internal/mood"
	"github.com/rcliao/moodlog/internal/store"
)

// ErrParse reports that an export file could not be read as a mood table.
var ErrParse = errors.New("parse export file")

// DefaultExt marks files the importer considers.
const DefaultExt = ".csv"

// Columns every export file must carry. Extra columns are ignored.
var requiredColumns = []string{"full_date", "time", "mood", "activities", "note_title", "note"}

// Store is what the importer needs from the entry store.
type Store interface {
	Begin(ctx context.Context) (*store.Batch, error)
	StartRun(ctx context.Context, startedAt time.Time) (string, error)
	FinishRun(ctx context.Context, r model.Run) error
}

// Config configures the importer.
type Config struct {
	// DataDir holds one export file per user.
	DataDir string
	// Ext is the suffix of export files. Default: ".csv".
	Ext string
}

func (c *Config) defaults() {
	if c.Ext == "" {
		c.Ext = DefaultExt
	}
}

// FileResult is the outcome of importing one file.
type FileResult struct {
	Name         string `json:"name"`
	User         string `json:"user"`
	Rows         int    `json:"rows"`
	Inserted     int    `json:"inserted"`
	Duplicates   int    `json:"duplicates"`
	Unrecognized int    `json:"unrecognized"`
	Failed       int    `json:"failed"`
	Err          error  `json:"-"`
}

// Report summarizes one pass.
type Report struct {
	RunID string       `json:"run_id,omitempty"`
	Files []FileResult `json:"files"`
}

// Run converts the report totals into a run record.
func (r *Report) Run() model.Run {
	run := model.Run{ID: r.RunID, Files: len(r.Files)}
	for _, f := range r.Files {
		if f.Err != nil {
			run.FailedFiles++
		}
		run.Inserted += f.Inserted
		run.Duplicates += f.Duplicates
		run.Unrecognized += f.Unrecognized
	}
	return run
}

// Importer performs import passes over a data directory.
type Importer struct {
	store  Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Importer.
func New(st Store, cfg Config, logger *slog.Logger) *Importer {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:  st,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one pass over every export file in the data directory.
// Per-file and per-row failures are recorded in the report, never returned.
// The error is non-nil only when the directory itself cannot be listed.
func (im *Importer) Run(ctx context.Context) (*Report, error) {
	dirEntries, err := os.ReadDir(im.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	report := &Report{Files: []FileResult{}}
	runID, err := im.store.StartRun(ctx, im.now())
	if err != nil {
		im.logger.Warn("importer: record run start", "error", err)
	}
	report.RunID = runID

	im.logger.Info("importer: pass started", "dir", im.config.DataDir, "run", runID)

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), im.config.Ext) {
			continue
		}
		user := strings.TrimSuffix(de.Name(), im.config.Ext)
		if user == "" {
			im.logger.Warn("importer: skip file without user name", "file", de.Name())
			continue
		}

		res := im.importFile(ctx, filepath.Join(im.config.DataDir, de.Name()), user)
		res.Name = de.Name()
		report.Files = append(report.Files, res)
	}

	run := report.Run()
	if runID != "" {
		finished := im.now()
		run.FinishedAt = &finished
		if err := im.store.FinishRun(ctx, run); err != nil {
			im.logger.Warn("importer: record run finish", "run", runID, "error", err)
		}
	}

	im.logger.Info("importer: pass complete",
		"run", runID,
		"files", run.Files,
		"failed_files", run.FailedFiles,
		"inserted", run.Inserted,
		"duplicates", run.Duplicates,
		"unrecognized", run.Unrecognized)

	return report, nil
}

func (im *Importer) importFile(ctx context.Context, path, user string) FileResult {
	res := FileResult{User: user}
	log := im.logger.With("file", filepath.Base(path), "user", user)

	entries, err := ReadFile(path, user)
	if err != nil {
		log.Warn("importer: skip file", "error", err)
		res.Err = err
		return res
	}
	res.Rows = len(entries)

	batch, err := im.store.Begin(ctx)
	if err != nil {
		log.Error("importer: begin batch", "error", err)
		res.Err = err
		return res
	}
	defer batch.Rollback()

	for _, pe := range entries {
		if pe.Date == "" || pe.Time == "" {
			res.Failed++
			log.Warn("importer: row without date or time", "line", pe.Line)
			continue
		}

		err := batch.Insert(ctx, pe.Entry)
		switch {
		case err == nil:
			res.Inserted++
			if !pe.MoodKnown {
				res.Unrecognized++
				log.Debug("importer: unrecognized mood", "date", pe.Date, "time", pe.Time, "label", pe.Label)
			}
		case errors.Is(err, store.ErrDuplicate):
			res.Duplicates++
			log.Debug("importer: duplicate skipped", "date", pe.Date, "time", pe.Time)
		default:
			res.Failed++
			log.Warn("importer: insert row", "line", pe.Line, "error", err)
		}
	}

	if err := batch.Commit(); err != nil {
		log.Error("importer: commit file", "error", err)
		res.Err = fmt.Errorf("commit: %w", err)
		res.Inserted = 0
		return res
	}

	log.Debug("importer: file done", "rows", res.Rows, "inserted", res.Inserted, "duplicates", res.Duplicates)
	return res
}

// ParsedEntry is one decoded export row.
type ParsedEntry struct {
	model.Entry
	Line      int
	Label     string
	MoodKnown bool
}

// ReadFile parses an export file into entries for user.
// Any structural problem wraps ErrParse and yields no entries.
func ReadFile(path, user string) ([]ParsedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer f.Close()
	return Parse(f, user)
}

// Parse decodes CSV export data for user.
func Parse(r io.Reader, user string) ([]ParsedEntry, error) {
	cr := csv.NewReader(r)
	// Short rows are kept with their missing trailing columns empty.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrParse, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrParse, col)
		}
	}

	var out []ParsedEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%w: line %d: %d fields, header has %d", ErrParse, line, len(rec), len(header))
		}

		col := func(name string) string {
			if i := idx[name]; i < len(rec) {
				return rec[i]
			}
			return ""
		}

		label := col("mood")
		pe := ParsedEntry{
			Entry: model.Entry{
				User:       user,
				Date:       strings.TrimSpace(col("full_date")),
				Time:       strings.TrimSpace(col("time")),
				Activities: col("activities"),
				NoteTitle:  col("note_title"),
				Note:       col("note"),
			},
			Line:  line,
			Label: label,
		}
		if c, ok := mood.Encode(label); ok {
			v := int(c)
			pe.Mood = &v
			pe.MoodKnown = true
		}
		out = append(out, pe)
	}
	return out, nil
}
