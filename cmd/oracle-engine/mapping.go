// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/internal/report"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping <result.json>",
	Short: "Build the goal/trilha mapping from a preprocessed result",
	Long: `Mapping reads a result JSON written by preprocess and derives the goal
mapping document: goal to trilha relationships, the reverse activity to
goal index, goal categories per dimension, the trilha level hierarchy and a
validation report with coverage statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runMapping,
}

func runMapping(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	markdown, _ := cmd.Flags().GetBool("markdown")

	res, err := batch.LoadResult(args[0])
	if err != nil {
		return err
	}

	doc := newPipeline(cfg).Map(res)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	} else {
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_goal_mapping.json"
		}
		if err := batch.WriteJSON(out, doc); err != nil {
			return err
		}
		mode := report.Text
		if markdown {
			mode = report.Markdown
		}
		fmt.Println(report.Mapping(doc, mode))
		fmt.Printf("Wrote %s\n", out)
	}

	if doc.ValidationReport.HasErrors() {
		return fmt.Errorf("mapping has %d validation error(s)", len(doc.ValidationReport.Errors))
	}
	return nil
}

func init() {
	mappingCmd.Flags().String("out", "", "output path (default: <result>_goal_mapping.json)")
	mappingCmd.Flags().Bool("json", false, "print the mapping document to stdout instead of writing a file")
	mappingCmd.Flags().Bool("markdown", false, "render the summary table as Markdown")

	rootCmd.AddCommand(mappingCmd)
}
