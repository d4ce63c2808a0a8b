// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders pipeline output as terminal or Markdown tables.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Mode controls the output format.
type Mode int

const (
	Text     Mode = iota // box-drawn terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// MaxWarnings is how many warnings a result summary lists.
const MaxWarnings = 5

func newTable(m Mode) table.Writer {
	w := table.NewWriter()
	if m == Text {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func rightAligned(cols ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return cfgs
}

// Result summarizes one document run: counts per provenance, status, the
// first MaxWarnings warnings and every error.
func Result(res *types.Result, m Mode) string {
	w := newTable(m)
	w.SetTitle("Oracle %s (%s)", res.Version, res.SourceFile)
	w.AppendHeader(table.Row{"Field", "Value"})
	w.AppendRow(table.Row{"Dimensions", res.Metadata.TotalDimensions})
	w.AppendRow(table.Row{"Activities", res.Metadata.TotalActivities})
	for _, p := range types.Provenances {
		w.AppendRow(table.Row{"  " + string(p), res.Metadata.ProvenanceCounts[p]})
	}
	w.AppendSeparator()
	w.AppendRow(table.Row{"Status", res.Metadata.ParsingStatus})
	w.AppendRow(table.Row{"Warnings", len(res.Warnings)})
	w.AppendRow(table.Row{"Errors", len(res.Errors)})
	w.SetColumnConfigs(rightAligned(2))

	var b strings.Builder
	b.WriteString(render(w, m))
	b.WriteString("\n")
	writeList(&b, "Warnings", res.Warnings, MaxWarnings)
	writeList(&b, "Errors", res.Errors, 0)
	return b.String()
}

// writeList prints items under a label; limit <= 0 prints all.
func writeList(b *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	shown := items
	if limit > 0 && len(items) > limit {
		shown = items[:limit]
	}
	for _, it := range shown {
		fmt.Fprintf(b, "  - %s\n", it)
	}
	if len(shown) < len(items) {
		fmt.Fprintf(b, "  ... and %d more\n", len(items)-len(shown))
	}
}

// Batch renders one row per document of a batch run with totals.
func Batch(s batch.Summary, m Mode) string {
	w := newTable(m)
	w.AppendHeader(table.Row{"Document", "Status", "Version", "Activities", "Warnings", "Errors"})
	for _, o := range s.Outcomes {
		row := table.Row{o.Source, string(o.Status), "", "", "", ""}
		if o.Result != nil {
			md := o.Result.Metadata
			row[2], row[3], row[4], row[5] = o.Result.Version, md.TotalActivities, md.Warnings, md.Errors
		}
		w.AppendRow(row)
	}
	w.AppendFooter(table.Row{"Total", fmt.Sprintf("%d processed, %d skipped, %d failed", s.Processed, s.Skipped, s.Failed), "", "", "", ""})
	w.SetColumnConfigs(rightAligned(4, 5, 6))
	return render(w, m)
}

// Mapping renders the goal table of a mapping document with coverage.
func Mapping(doc *types.MappingDocument, m Mode) string {
	codes := make([]string, 0, len(doc.GoalTrilhaMapping))
	for c := range doc.GoalTrilhaMapping {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	w := newTable(m)
	w.AppendHeader(table.Row{"Goal", "Name", "Trilha", "Dimension", "Related", "Levels"})
	for _, c := range codes {
		g := doc.GoalTrilhaMapping[c]
		w.AppendRow(table.Row{c, g.ObjectiveName, g.TrackID, g.Dimension, len(g.RelatedActivityCodes), len(g.TrackLevelCodes)})
	}
	st := doc.ValidationReport.Statistics
	w.AppendFooter(table.Row{"", "", "", "Coverage", fmt.Sprintf("%.1f%%", st.CoveragePercentage), ""})
	w.SetColumnConfigs(append(rightAligned(5, 6), table.ColumnConfig{Number: 2, WidthMax: 40}))

	var b strings.Builder
	b.WriteString(render(w, m))
	b.WriteString("\n")
	writeList(&b, "Warnings", doc.ValidationReport.Warnings, 0)
	writeList(&b, "Errors", doc.ValidationReport.Errors, 0)
	return b.String()
}

// Activities renders a list of registry entries.
func Activities(rows []types.Activity, m Mode) string {
	w := newTable(m)
	w.AppendHeader(table.Row{"Code", "Name", "Dimension", "Provenance", "Trilha"})
	for _, a := range rows {
		w.AppendRow(table.Row{a.Code, a.Name, a.Dimension, string(a.Provenance), a.LinkedTrack})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 50}})
	return render(w, m)
}
