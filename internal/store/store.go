// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists preprocessed Oracle registries in SQLite and keeps
// a full-text index over activity names.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	dbFile            = "oracle.db"
	defaultMaxResults = 20
)

// Store manages the registry database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates dir/oracle.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("store directory not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			source_file TEXT NOT NULL,
			generated_at TEXT,
			ingested_at TEXT NOT NULL,
			parsing_status TEXT NOT NULL,
			total_activities INTEGER,
			warnings INTEGER,
			errors INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS dimensions (
			version TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			display_name TEXT,
			PRIMARY KEY (version, code)
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			version TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			dimension TEXT NOT NULL,
			provenance TEXT NOT NULL,
			linked_track TEXT,
			score_vector TEXT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			UNIQUE (version, code)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_dimension ON activities(dimension)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_provenance ON activities(provenance)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			source_path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='activities_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE activities_fts USING fts5(code, name, content=activities, content_rowid=rowid)`,
			`CREATE TRIGGER activities_ai AFTER INSERT ON activities BEGIN
				INSERT INTO activities_fts(rowid, code, name) VALUES (new.rowid, new.code, new.name);
			END`,
			`CREATE TRIGGER activities_ad AFTER DELETE ON activities BEGIN
				INSERT INTO activities_fts(activities_fts, rowid, code, name) VALUES('delete', old.rowid, old.code, old.name);
			END`,
			`CREATE TRIGGER activities_au AFTER UPDATE ON activities BEGIN
				INSERT INTO activities_fts(activities_fts, rowid, code, name) VALUES('delete', old.rowid, old.code, old.name);
				INSERT INTO activities_fts(rowid, code, name) VALUES (new.rowid, new.code, new.name);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of result files considered.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest loads every result JSON in dir into the database. Files unchanged
// since their last ingestion are skipped; files that fail output validation
// are reported and left out. On success it refreshes export.yaml.
func (s *Store) Ingest(ctx context.Context, dir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading result directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isResultFile(name) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE source_path = ?`, path,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		res, err := batch.ValidateOutput(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		runID, err := s.IngestResult(ctx, res)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		if err := s.markIndexed(ctx, path, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d activities, run %s)\n", name, len(res.Activities), runID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d activities, run %s)\n", name, len(res.Activities), runID)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func isResultFile(name string) bool {
	return strings.HasSuffix(name, ".json") &&
		!strings.HasSuffix(name, "_goal_mapping.json") &&
		!strings.HasPrefix(name, "export")
}

// IngestResult replaces the stored registry for res.Version with res and
// returns the new run id.
func (s *Store) IngestResult(ctx context.Context, res *types.Result) (string, error) {
	if res.Version == "" {
		return "", errors.New("result has no version")
	}
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE version = ?`, res.Version); err != nil {
		return "", fmt.Errorf("deleting old activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dimensions WHERE version = ?`, res.Version); err != nil {
		return "", fmt.Errorf("deleting old dimensions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, version, source_file, generated_at, ingested_at, parsing_status, total_activities, warnings, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Version, res.SourceFile, res.GeneratedAt,
		s.now().UTC().Format(time.RFC3339), string(res.Metadata.ParsingStatus),
		res.Metadata.TotalActivities, res.Metadata.Warnings, res.Metadata.Errors,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, code := range res.Dimensions.Codes() {
		d := res.Dimensions[code]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dimensions (version, code, name, display_name) VALUES (?, ?, ?, ?)`,
			res.Version, d.Code, d.Name, d.DisplayName,
		); err != nil {
			return "", fmt.Errorf("inserting dimension %s: %w", code, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO activities (version, code, name, dimension, provenance, linked_track, score_vector, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	codes := make([]string, 0, len(res.Activities))
	for c := range res.Activities {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	for _, code := range codes {
		a := res.Activities[code]
		scores, err := json.Marshal(a.ScoreVector)
		if err != nil {
			return "", fmt.Errorf("encoding scores for %s: %w", code, err)
		}
		if _, err := stmt.ExecContext(ctx,
			res.Version, a.Code, a.Name, a.Dimension, string(a.Provenance),
			a.LinkedTrack, string(scores), runID,
		); err != nil {
			return "", fmt.Errorf("inserting activity %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func (s *Store) markIndexed(ctx context.Context, path, modTime string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO indexing_status (source_path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}
	return nil
}
