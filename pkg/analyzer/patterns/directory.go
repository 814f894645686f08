package patterns

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/atlasbridge/odx/pkg/models"
)

// maxExampleFiles bounds how many example files are kept per unsupported
// shape kind.
const maxExampleFiles = 3

// UnsupportedShape is one unsupported kind with its frequency and up to
// three example files that contain it.
type UnsupportedShape struct {
	Kind     string   `json:"kind" toon:"kind"`
	Files    int      `json:"files" toon:"files"`
	Examples []string `json:"examples" toon:"examples"`
}

// Summary aggregates the per-file records of one directory scan.
type Summary struct {
	TotalFiles   int     `json:"total_files" toon:"total_files"`
	Parsed       int     `json:"parsed" toon:"parsed"`
	Failed       int     `json:"failed" toon:"failed"`
	TotalShapes  int     `json:"total_shapes" toon:"total_shapes"`
	MeanShapes   float64 `json:"mean_shapes" toon:"mean_shapes"`
	StdDevShapes float64 `json:"stddev_shapes" toon:"stddev_shapes"`
	ConvoyFiles  int     `json:"convoy_files" toon:"convoy_files"`

	PatternCounts map[string]int `json:"pattern_counts" toon:"pattern_counts"`
}

// Analysis is the directory-level report.
type Analysis struct {
	Files           []models.FileResult      `json:"files" toon:"files"`
	Summary         Summary                  `json:"summary" toon:"summary"`
	ShapeFrequency  map[models.ShapeKind]int `json:"shape_frequency" toon:"shape_frequency"`
	Unsupported     []UnsupportedShape       `json:"unsupported" toon:"unsupported"`
	Recommendations []Recommendation         `json:"recommendations" toon:"recommendations"`
}

// aggregate folds per-file results into the directory report. It runs
// single-threaded after the worker pool drains.
func (a *Analyzer) aggregate(results []models.FileResult) *Analysis {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	out := &Analysis{
		Files:          results,
		ShapeFrequency: make(map[models.ShapeKind]int),
	}
	out.Summary.PatternCounts = make(map[string]int)

	unsupportedFiles := make(map[string][]string)
	var shapeTotals []float64

	for _, r := range results {
		out.Summary.TotalFiles++
		if !r.Parsed {
			out.Summary.Failed++
			continue
		}
		out.Summary.Parsed++

		total := r.TotalShapes()
		out.Summary.TotalShapes += total
		shapeTotals = append(shapeTotals, float64(total))

		for kind, count := range r.ShapeCounts {
			out.ShapeFrequency[kind] += count
		}
		for _, kind := range r.Unsupported {
			unsupportedFiles[kind] = append(unsupportedFiles[kind], r.Path)
		}
		if r.Convoy {
			out.Summary.ConvoyFiles++
		}
		if r.Patterns.Aggregator {
			out.Summary.PatternCounts["aggregator"]++
		}
		if r.Patterns.ContentBasedRouting {
			out.Summary.PatternCounts["content_based_routing"]++
		}
		if r.Patterns.ScatterGather {
			out.Summary.PatternCounts["scatter_gather"]++
		}
		if r.Patterns.MessageBroker {
			out.Summary.PatternCounts["message_broker"]++
		}
	}

	if len(shapeTotals) > 0 {
		out.Summary.MeanShapes = stat.Mean(shapeTotals, nil)
		if len(shapeTotals) > 1 {
			out.Summary.StdDevShapes = stat.StdDev(shapeTotals, nil)
		}
	}

	kinds := make([]string, 0, len(unsupportedFiles))
	for kind := range unsupportedFiles {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		files := unsupportedFiles[kind]
		examples := files
		if len(examples) > maxExampleFiles {
			examples = examples[:maxExampleFiles]
		}
		out.Unsupported = append(out.Unsupported, UnsupportedShape{
			Kind:     kind,
			Files:    len(files),
			Examples: examples,
		})
	}

	out.Recommendations = buildRecommendations(out, a.reg)
	return out
}
