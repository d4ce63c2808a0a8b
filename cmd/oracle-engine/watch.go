// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/batch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Reprocess Oracle documents whenever they change",
	Long: `Watch processes every matching document once, then watches the directory
(recursively) and reruns preprocess on documents as they are written.
Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, &cfg.Batch)
	if len(args) == 1 {
		cfg.Batch.OracleDir = args[0]
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	runner := batch.New(newPipeline(cfg), cfg.Batch, batch.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := runner.DiscoverAll()
	if err != nil {
		return err
	}
	if _, err := runner.RunAll(ctx, docs, os.Stdout); err != nil {
		return err
	}

	bc := runner.Config()
	fmt.Printf("Watching %s for %s (Ctrl-C to stop)\n", bc.OracleDir, bc.Pattern)
	return runner.Watch(ctx, debounce, os.Stdout)
}

func init() {
	watchCmd.Flags().String("pattern", batch.DefaultPattern, "doublestar glob selecting documents, relative to the watched directory")
	watchCmd.Flags().String("out-dir", "", "directory for JSON results (default: next to each document)")
	watchCmd.Flags().Int("parallel", 1, "documents processed concurrently")
	watchCmd.Flags().Bool("with-mapping", false, "also write the goal mapping document")
	watchCmd.Flags().Duration("debounce", batch.DefaultDebounce, "wait for writes to settle before reprocessing")

	rootCmd.AddCommand(watchCmd)
}
