// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate <result.json>...",
	Short: "Check preprocessed result files",
	Long: `Validate checks that each result JSON carries the required keys (version,
source_file, dimensions, activities, metadata) and reports a successful
parse. A summary table is printed for every file that decodes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	markdown, _ := cmd.Flags().GetBool("markdown")
	mode := report.Text
	if markdown {
		mode = report.Markdown
	}

	failed := 0
	for _, path := range args {
		res, err := batch.ValidateOutput(path)
		if res != nil {
			fmt.Println(report.Result(res, mode))
		}
		if err != nil {
			failed++
			fmt.Printf("invalid %s: %v\n", path, err)
			continue
		}
		fmt.Printf("valid   %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s): %w", failed, len(args), batch.ErrInvalidOutput)
	}
	return nil
}

func init() {
	validateCmd.Flags().Bool("markdown", false, "render summary tables as Markdown")
	rootCmd.AddCommand(validateCmd)
}

