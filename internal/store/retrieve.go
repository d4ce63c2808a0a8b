// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// QueryOptions holds parameters for registry queries.
type QueryOptions struct {
	// Query is the FTS5 search string matched against codes and names.
	Query string

	// Dimension filters by dimension code.
	Dimension string

	// Provenance filters by extraction pass.
	Provenance types.Provenance

	// Version filters by Oracle document version.
	Version string

	// Track filters activities whose code contains the trilha id, or
	// objectives linked to it.
	Track string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Dimension == "" && q.Provenance == "" && q.Version == "" && q.Track == ""
}

// QueryResult is an Activity with the version and dimension name it was
// stored under.
type QueryResult struct {
	types.Activity `yaml:",inline"`
	Version        string `json:"version" yaml:"version"`
	DimensionName  string `json:"dimension_name" yaml:"dimension_name"`
}

// Retrieve queries stored activities. Full-text queries are ranked by
// relevance; filter-only queries are ordered by version, dimension, code.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.version, a.code, a.name, a.dimension, a.provenance,
				a.linked_track, a.score_vector, d.name
			FROM activities_fts
			JOIN activities a ON a.rowid = activities_fts.rowid
			LEFT JOIN dimensions d ON d.version = a.version AND d.code = a.dimension
			WHERE activities_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.version, a.code, a.name, a.dimension, a.provenance,
				a.linked_track, a.score_vector, d.name
			FROM activities a
			LEFT JOIN dimensions d ON d.version = a.version AND d.code = a.dimension
			WHERE 1=1`)
	}

	if opts.Dimension != "" {
		qb.WriteString(` AND a.dimension = ?`)
		args = append(args, opts.Dimension)
	}
	if opts.Provenance != "" {
		qb.WriteString(` AND a.provenance = ?`)
		args = append(args, string(opts.Provenance))
	}
	if opts.Version != "" {
		qb.WriteString(` AND a.version = ?`)
		args = append(args, opts.Version)
	}
	if opts.Track != "" {
		qb.WriteString(` AND (instr(a.code, ?) > 0 OR a.linked_track = ?)`)
		args = append(args, opts.Track, opts.Track)
	}

	if useFTS {
		qb.WriteString(` ORDER BY activities_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.version, a.dimension, a.code`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying registry: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr         QueryResult
			provenance string
			track      sql.NullString
			scores     sql.NullString
			dimName    sql.NullString
		)
		if err := rows.Scan(
			&qr.Version, &qr.Code, &qr.Name, &qr.Dimension, &provenance,
			&track, &scores, &dimName,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Provenance = types.Provenance(provenance)
		qr.LinkedTrack = track.String
		qr.DimensionName = dimName.String
		qr.ScoreVector = types.ScoreVector{}
		if scores.Valid && scores.String != "" {
			if err := json.Unmarshal([]byte(scores.String), &qr.ScoreVector); err != nil {
				return nil, fmt.Errorf("decoding scores for %s: %w", qr.Code, err)
			}
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// Run is one ingestion of a result file.
type Run struct {
	ID            string `json:"id" yaml:"id"`
	Version       string `json:"version" yaml:"version"`
	SourceFile    string `json:"source_file" yaml:"source_file"`
	IngestedAt    string `json:"ingested_at" yaml:"ingested_at"`
	ParsingStatus string `json:"parsing_status" yaml:"parsing_status"`
	Activities    int    `json:"activities" yaml:"activities"`
}

// Runs lists ingestion runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, source_file, ingested_at, parsing_status, total_activities
		 FROM runs ORDER BY ingested_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Version, &r.SourceFile, &r.IngestedAt, &r.ParsingStatus, &r.Activities); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
