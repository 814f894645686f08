// Package report assembles directory analysis results into a
// multi-section migration report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/atlasbridge/odx/internal/output"
	"github.com/atlasbridge/odx/pkg/analyzer/patterns"
	"github.com/atlasbridge/odx/pkg/models"
)

// Metadata contains report generation metadata.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Paths       []string  `json:"paths"`
	Version     string    `json:"version"`
}

// Report is a renderable migration assessment for a set of
// orchestration files.
type Report struct {
	Metadata Metadata           `json:"metadata"`
	Analysis *patterns.Analysis `json:"analysis"`
}

// New creates a report for an analysis run.
func New(analysis *patterns.Analysis, paths []string, version string) *Report {
	return &Report{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC(),
			Paths:       paths,
			Version:     version,
		},
		Analysis: analysis,
	}
}

var _ output.Renderable = (*Report)(nil)

// RenderData implements output.Renderable.
func (r *Report) RenderData() any {
	return r
}

// RenderText implements output.Renderable.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	for _, t := range r.tables() {
		if err := t.RenderText(w, colored); err != nil {
			return err
		}
	}
	if colored && r.Analysis.Summary.Failed > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d file(s) failed to parse\n\n", r.Analysis.Summary.Failed)
	}
	return nil
}

// RenderMarkdown implements output.Renderable.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Orchestration Migration Report\n\n")
	fmt.Fprintf(w, "Generated %s\n\n", r.Metadata.GeneratedAt.Format(time.RFC3339))
	for _, t := range r.tables() {
		if err := t.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) tables() []*output.Table {
	tables := []*output.Table{r.summaryTable(), r.shapeTable()}
	if t := r.unsupportedTable(); t != nil {
		tables = append(tables, t)
	}
	if t := r.fileTable(); t != nil {
		tables = append(tables, t)
	}
	if t := r.recommendationTable(); t != nil {
		tables = append(tables, t)
	}
	return tables
}

func (r *Report) summaryTable() *output.Table {
	s := r.Analysis.Summary
	rows := [][]string{
		{"Files analyzed", fmt.Sprintf("%d", s.TotalFiles)},
		{"Parsed", fmt.Sprintf("%d", s.Parsed)},
		{"Failed", fmt.Sprintf("%d", s.Failed)},
		{"Total shapes", fmt.Sprintf("%d", s.TotalShapes)},
		{"Mean shapes per file", fmt.Sprintf("%.1f", s.MeanShapes)},
		{"Shape count stddev", fmt.Sprintf("%.1f", s.StdDevShapes)},
		{"Files with convoy semantics", fmt.Sprintf("%d", s.ConvoyFiles)},
	}
	for _, name := range sortedPatternNames(s.PatternCounts) {
		rows = append(rows, []string{"Pattern: " + name, fmt.Sprintf("%d", s.PatternCounts[name])})
	}
	return output.NewTable("Summary", []string{"Metric", "Value"}, rows, nil, nil)
}

func (r *Report) shapeTable() *output.Table {
	freq := r.Analysis.ShapeFrequency
	kinds := make([]models.ShapeKind, 0, len(freq))
	for k := range freq {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if freq[kinds[i]] != freq[kinds[j]] {
			return freq[kinds[i]] > freq[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{string(k), fmt.Sprintf("%d", freq[k])})
	}
	return output.NewTable("Shape Frequency", []string{"Shape", "Count"}, rows, nil, nil)
}

func (r *Report) unsupportedTable() *output.Table {
	if len(r.Analysis.Unsupported) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(r.Analysis.Unsupported))
	for _, u := range r.Analysis.Unsupported {
		rows = append(rows, []string{
			string(u.Kind),
			fmt.Sprintf("%d", u.Files),
			strings.Join(u.Examples, ", "),
		})
	}
	return output.NewTable("Unsupported Shapes", []string{"Shape", "Files", "Examples"}, rows, nil, nil)
}

func (r *Report) fileTable() *output.Table {
	if len(r.Analysis.Files) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(r.Analysis.Files))
	for _, f := range r.Analysis.Files {
		status := "ok"
		if !f.Parsed {
			status = "error"
		}
		convoy := ""
		if f.Convoy {
			convoy = "yes"
		}
		rows = append(rows, []string{
			f.Path,
			f.Orchestration,
			status,
			fmt.Sprintf("%d", f.TotalShapes()),
			convoy,
		})
	}
	return output.NewTable("Files", []string{"Path", "Orchestration", "Status", "Shapes", "Convoy"}, rows, nil, nil)
}

func (r *Report) recommendationTable() *output.Table {
	if len(r.Analysis.Recommendations) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(r.Analysis.Recommendations))
	for _, rec := range r.Analysis.Recommendations {
		rows = append(rows, []string{rec.Priority.String(), rec.Title, rec.Description})
	}
	return output.NewTable("Recommendations", []string{"Priority", "Title", "Description"}, rows, nil, nil)
}

func sortedPatternNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
