// Package patterns analyzes parsed orchestration trees for migration risk:
// shape counts, unsupported constructs, feature flags, convoy detection, and
// integration-pattern signatures.
package patterns

import (
	"context"
	"encoding/json"

	"github.com/atlasbridge/odx/internal/cache"
	"github.com/atlasbridge/odx/internal/registry"
	"github.com/atlasbridge/odx/pkg/analyzer"
	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/parser"
	"github.com/atlasbridge/odx/pkg/source"
)

// Analyzer classifies orchestrations for migration. It never mutates the
// trees it visits.
type Analyzer struct {
	parser     *parser.Parser
	src        source.ContentSource
	cache      *cache.Cache
	reg        *registry.Registry
	workers    int
	onProgress analyzer.ProgressFunc
}

// Compile-time check that Analyzer implements FileAnalyzer.
var _ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithSource sets where file content is read from. Defaults to the local
// filesystem.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// WithCache enables per-file result caching.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithRegistry supplies connector metadata consulted when building
// recommendations.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Analyzer) {
		a.reg = r
	}
}

// WithWorkers sets the parallel worker count for directory analysis.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithProgress installs a callback invoked after each file.
func WithProgress(fn analyzer.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a pattern analyzer with default options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser: parser.New(),
		src:    source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases analyzer resources. It exists to satisfy FileAnalyzer.
func (a *Analyzer) Close() {}

// AnalyzeFile parses and classifies a single source file. A malformed or
// unreadable file yields a result with Parsed false and the captured error
// message rather than an error return.
func (a *Analyzer) AnalyzeFile(path string) models.FileResult {
	data, err := a.src.Read(path)
	if err != nil {
		return models.FileResult{Path: path, Error: err.Error()}
	}

	var hash string
	if a.cache != nil {
		hash = cache.HashBytes(data)
		if blob, ok := a.cache.GetWithHash(path, hash); ok {
			var cached models.FileResult
			if json.Unmarshal(blob, &cached) == nil {
				cached.Path = path
				return cached
			}
		}
	}

	m, err := a.parser.Parse(data)
	if err != nil {
		return models.FileResult{Path: path, Error: err.Error()}
	}

	result := a.classify(m)
	result.Path = path

	if a.cache != nil {
		if blob, err := json.Marshal(result); err == nil {
			a.cache.Set(path, hash, blob)
		}
	}
	return result
}

// Analyze runs per-file analysis over many files and aggregates the results
// into a directory-level report. One bad file never aborts the batch.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	results := analyzer.MapFilesN(ctx, files, a.workers, func(path string) (models.FileResult, error) {
		return a.AnalyzeFile(path), nil
	}, a.onProgress)

	return a.aggregate(results), nil
}

// classify walks one finished tree and produces its result record. Decide,
// switch, and listen substructure is visited through the branch and case
// payloads, which are excluded from generic child recursion.
func (a *Analyzer) classify(m *models.OrchestrationModel) models.FileResult {
	r := models.FileResult{
		Orchestration: m.QualifiedName(),
		Parsed:        true,
		ShapeCounts:   make(map[models.ShapeKind]int),
		Ports:         len(m.Ports),
		Messages:      len(m.Messages),
	}

	activating := 0
	unsupported := map[string]bool{}
	partial := map[string]bool{}

	m.Walk(func(n *models.ShapeNode) {
		r.ShapeCounts[n.Kind]++

		switch n.Kind {
		case models.ShapeReceive:
			if d := n.Receive(); d != nil && d.Activate {
				activating++
			}
		case models.ShapeCorrelation:
			r.CorrelationSets++
			r.Features.Correlation = true
		case models.ShapeTransaction:
			r.Features.Transaction = true
		case models.ShapeScope:
			if d, ok := n.Detail.(*models.ScopeDetail); ok && d.TransactionType != "" {
				r.Features.Transaction = true
				partial[string(models.ShapeScope)] = true
			}
		case models.ShapeCatch:
			r.Features.ExceptionHandler = true
		case models.ShapeCallRules:
			r.Features.BusinessRules = true
		case models.ShapeCompensate, models.ShapeCompensation:
			r.Features.Compensation = true
		case models.ShapeWhile, models.ShapeUntil, models.ShapeForEach:
			r.Features.Loop = true
		case models.ShapeParallel:
			r.Features.Parallel = true
		case models.ShapeListen:
			r.Features.Listen = true
		case models.ShapeDelay:
			r.Features.Delay = true
		case models.ShapeCall:
			r.Features.OrchestrationCall = true
		case models.ShapeTransform:
			r.Features.Transform = true
		}

		switch support(n.Kind) {
		case supportFull:
		case supportPartial:
			partial[string(n.Kind)] = true
		default:
			name := string(n.Kind)
			if d, ok := n.Detail.(*models.FallbackDetail); ok && d.RawType != "" {
				name = d.RawType
			}
			unsupported[name] = true
		}
	})

	for _, p := range m.Ports {
		if p.Binding == models.BindingDirect {
			r.Features.DynamicPort = true
		}
	}

	r.Unsupported = sortedKeys(unsupported)
	r.PartialSupport = sortedKeys(partial)
	r.Convoy = activating > 1 || r.CorrelationSets > 1

	counts := r.ShapeCounts
	receives := counts[models.ShapeReceive]
	sends := counts[models.ShapeSend]
	decides := counts[models.ShapeDecide]
	parallels := counts[models.ShapeParallel]
	constructs := counts[models.ShapeConstruct]
	transforms := counts[models.ShapeTransform]

	r.Patterns = models.Patterns{
		Aggregator:          receives >= 2 && r.Features.Correlation && (constructs >= 1 || transforms >= 1),
		ContentBasedRouting: decides >= 1 && sends >= 2,
		ScatterGather:       parallels >= 1 && sends >= 2 && receives >= 2,
		MessageBroker:       receives >= 2 && decides >= 1 && sends >= 2,
	}

	return r
}
