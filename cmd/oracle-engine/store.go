// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/report"
	"github.com/pdiddy/oracle-engine/internal/store"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index preprocessed registries and query them",
	Long: `Store keeps a local SQLite database of preprocessed registries with FTS5
search over activity codes and names. Use subcommands to ingest result
files, query activities, list ingestion runs, or export.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest result JSON files into the registry store",
	Long: `Ingest reads every result JSON in dir (default: the configured oracle
directory or --out-dir), validates it and replaces the stored registry for
its version. Unchanged files are skipped on subsequent runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Batch.OutputDir
	if dir == "" {
		dir = cfg.Batch.OracleDir
	}
	if len(args) == 1 {
		dir = args[0]
	}

	s, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), dir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d result file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search stored activities with full-text search and filters",
	Long: `Query searches stored activities by FTS5 full-text match on code and
name, by structured filters (dimension, provenance, version, trilha), or a
combination of both.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return errors.New("query or filter required: provide search text, --dimension, --provenance, --version or --trilha")
	}

	s, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	rows := make([]types.Activity, len(results))
	for i, r := range results {
		rows[i] = r.Activity
	}
	mode := report.Text
	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
		mode = report.Markdown
	}
	fmt.Println(report.Activities(rows, mode))
	fmt.Printf("%d results\n", len(results))
	return nil
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingestion runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Runs(context.Background())
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %-8s  %-30s  %-7s  %4d  %s\n",
				r.ID, r.Version, r.SourceFile, r.ParsingStatus, r.Activities, r.IngestedAt)
		}
		return nil
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored activities to YAML or JSON",
	Long: `Export writes stored activities (or a filtered subset) to export.yaml or
export.json in the store directory. Supports the same filter flags as query.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, nil)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(context.Background(), opts)
	case "json":
		path, err = s.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command, cfg types.PipelineConfig) (*store.Store, error) {
	sc := cfg.Store
	if cmd.Flags().Changed("store-dir") {
		sc.Dir, _ = cmd.Flags().GetString("store-dir")
	}
	if cmd.Flags().Changed("max-results") {
		sc.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return store.NewStore(sc)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	dimension, _ := cmd.Flags().GetString("dimension")
	provenance, _ := cmd.Flags().GetString("provenance")
	version, _ := cmd.Flags().GetString("version")
	trilha, _ := cmd.Flags().GetString("trilha")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Dimension:  strings.ToUpper(dimension),
		Provenance: types.Provenance(provenance),
		Version:    version,
		Track:      strings.ToUpper(trilha),
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("store-dir", "oracle-store", "directory holding oracle.db and exports")
	storeCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")

	// Query flags.
	storeQueryCmd.Flags().String("query", "", "full-text search query")
	storeQueryCmd.Flags().String("dimension", "", "filter by dimension code")
	storeQueryCmd.Flags().String("provenance", "", "filter by provenance: catalog-entry, objective, track-level, track-sublevel, strategy-framework, loose-reference")
	storeQueryCmd.Flags().String("version", "", "filter by Oracle version")
	storeQueryCmd.Flags().String("trilha", "", "filter by trilha id")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")
	storeQueryCmd.Flags().Bool("markdown", false, "render the table as Markdown")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("dimension", "", "filter by dimension code for partial export")
	storeExportCmd.Flags().String("provenance", "", "filter by provenance for partial export")
	storeExportCmd.Flags().String("version", "", "filter by Oracle version for partial export")
	storeExportCmd.Flags().String("trilha", "", "filter by trilha id for partial export")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
