// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/internal/metrics"
	"github.com/pdiddy/oracle-engine/internal/report"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [files...]",
	Short: "Extract dimensions and activities from Oracle documents",
	Long: `Preprocess reads Oracle markdown documents and writes one JSON result per
document (dimensions, activities with provenance and score vectors,
metadata, warnings and errors) next to the source or under --out-dir.

With --all every document matching --pattern under --dir is processed.
Documents whose result is newer than the source are skipped unless --force
is set. --with-mapping also writes the goal mapping document.`,
	RunE: runPreprocess,
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, &cfg.Batch)

	all, _ := cmd.Flags().GetBool("all")
	out, _ := cmd.Flags().GetString("out")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	markdown, _ := cmd.Flags().GetBool("markdown")

	if !all && len(args) == 0 {
		return errors.New("provide one or more documents or use --all")
	}
	if out != "" && (all || len(args) != 1) {
		return errors.New("--out requires exactly one document")
	}

	runner := batch.New(newPipeline(cfg), cfg.Batch, batch.WithLogger(logger))

	docs := args
	if all {
		docs, err = runner.DiscoverAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			bc := runner.Config()
			fmt.Printf("No Oracle documents matching %s found in %s\n", bc.Pattern, bc.OracleDir)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	var summary batch.Summary
	if out != "" {
		summary = summarize(runner.Process(ctx, docs[0], out))
	} else {
		summary, err = runner.RunAll(ctx, docs, os.Stdout)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	mode := report.Text
	if markdown {
		mode = report.Markdown
	}
	if len(summary.Outcomes) == 1 {
		if res := summary.Outcomes[0].Result; res != nil {
			fmt.Println(report.Result(res, mode))
		}
		if doc := summary.Outcomes[0].Mapping; doc != nil {
			fmt.Println(report.Mapping(doc, mode))
		}
	} else {
		fmt.Println(report.Batch(summary, mode))
	}

	if metricsFile != "" {
		rec := metrics.New()
		rec.ObserveBatch(summary, elapsed)
		if err := rec.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d document(s) failed", summary.Failed, summary.Total())
	}
	return nil
}

// summarize wraps a single Process outcome as a batch summary, printing the
// same progress line RunAll would.
func summarize(o batch.Outcome) batch.Summary {
	var s batch.Summary
	switch o.Status {
	case batch.StatusProcessed:
		s.Processed = 1
		fmt.Printf("processed %s -> %s\n", o.Source, o.Output)
	case batch.StatusSkipped:
		s.Skipped = 1
		fmt.Printf("skipped %s\n", o.Source)
	default:
		s.Failed = 1
		fmt.Printf("failed  %s: %v\n", o.Source, o.Err)
	}
	s.Outcomes = []batch.Outcome{o}
	return s
}

// applyBatchFlags overlays explicitly set flags on the configured batch
// settings. Flags a command does not define are ignored.
func applyBatchFlags(cmd *cobra.Command, bc *types.BatchConfig) {
	flags := cmd.Flags()
	if flags.Lookup("dir") != nil && flags.Changed("dir") {
		bc.OracleDir, _ = flags.GetString("dir")
	}
	if flags.Lookup("pattern") != nil && flags.Changed("pattern") {
		bc.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Lookup("out-dir") != nil && flags.Changed("out-dir") {
		bc.OutputDir, _ = flags.GetString("out-dir")
	}
	if flags.Lookup("parallel") != nil && flags.Changed("parallel") {
		bc.Parallel, _ = flags.GetInt("parallel")
	}
	if flags.Lookup("force") != nil && flags.Changed("force") {
		bc.Force, _ = flags.GetBool("force")
	}
	if flags.Lookup("with-mapping") != nil && flags.Changed("with-mapping") {
		bc.WithMapping, _ = flags.GetBool("with-mapping")
	}
}

func init() {
	preprocessCmd.Flags().Bool("all", false, "process every document matching --pattern under --dir")
	preprocessCmd.Flags().String("dir", batch.DefaultOracleDir, "directory scanned by --all")
	preprocessCmd.Flags().String("pattern", batch.DefaultPattern, "doublestar glob selecting documents, relative to --dir")
	preprocessCmd.Flags().String("out", "", "output path for a single document")
	preprocessCmd.Flags().String("out-dir", "", "directory for JSON results (default: next to each document)")
	preprocessCmd.Flags().Int("parallel", 1, "documents processed concurrently")
	preprocessCmd.Flags().Bool("force", false, "reprocess documents whose result is up to date")
	preprocessCmd.Flags().Bool("with-mapping", false, "also write the goal mapping document")
	preprocessCmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
	preprocessCmd.Flags().Bool("markdown", false, "render summary tables as Markdown")

	rootCmd.AddCommand(preprocessCmd)
}
