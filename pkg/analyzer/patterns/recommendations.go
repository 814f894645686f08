package patterns

import (
	"fmt"
	"strings"

	"github.com/atlasbridge/odx/internal/registry"
)

// Priority orders recommendations in the rendered report.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityOngoing Priority = "ongoing"
)

// String returns the priority label.
func (p Priority) String() string { return string(p) }

// Recommendation is one prioritized, human-readable migration action.
type Recommendation struct {
	Priority    Priority `json:"priority" toon:"priority"`
	Title       string   `json:"title" toon:"title"`
	Description string   `json:"description" toon:"description"`
}

// buildRecommendations derives the prioritized action list from which
// feature flags fired across the file set, plus connector-registry coverage
// when a registry is loaded.
func buildRecommendations(a *Analysis, reg *registry.Registry) []Recommendation {
	flagFiles := map[string]int{}
	for _, r := range a.Files {
		if !r.Parsed {
			continue
		}
		f := r.Features
		countFlag(flagFiles, "correlation", f.Correlation)
		countFlag(flagFiles, "dynamic_port", f.DynamicPort)
		countFlag(flagFiles, "transaction", f.Transaction)
		countFlag(flagFiles, "exception_handler", f.ExceptionHandler)
		countFlag(flagFiles, "business_rules", f.BusinessRules)
		countFlag(flagFiles, "compensation", f.Compensation)
		countFlag(flagFiles, "loop", f.Loop)
		countFlag(flagFiles, "parallel", f.Parallel)
		countFlag(flagFiles, "listen", f.Listen)
		countFlag(flagFiles, "delay", f.Delay)
		countFlag(flagFiles, "orchestration_call", f.OrchestrationCall)
		countFlag(flagFiles, "transform", f.Transform)
	}

	var recs []Recommendation
	add := func(priority Priority, condition bool, title, description string) {
		if condition {
			recs = append(recs, Recommendation{Priority: priority, Title: title, Description: description})
		}
	}

	add(PriorityHigh, len(a.Unsupported) > 0,
		"Resolve unsupported shapes",
		fmt.Sprintf("%d shape kind(s) have no target equivalent: %s. Each occurrence needs a manual redesign.",
			len(a.Unsupported), unsupportedKindList(a.Unsupported)))

	add(PriorityHigh, a.Summary.ConvoyFiles > 0,
		"Redesign convoy processing",
		fmt.Sprintf("%d orchestration(s) use convoy patterns (multiple activating or correlated receives). The target engine has no convoy primitive; model these as stateful sessions.",
			a.Summary.ConvoyFiles))

	add(PriorityHigh, flagFiles["business_rules"] > 0,
		"Externalize business rules",
		fmt.Sprintf("%d orchestration(s) call rules policies. Policies must be re-authored in an external rules service before cutover.",
			flagFiles["business_rules"]))

	add(PriorityHigh, flagFiles["transaction"] > 0,
		"Rework transactional scopes",
		fmt.Sprintf("%d orchestration(s) use atomic or long-running transactions. The target model has no distributed transactions; introduce explicit compensation or idempotent retries.",
			flagFiles["transaction"]))

	add(PriorityHigh, flagFiles["compensation"] > 0,
		"Map compensation handlers",
		fmt.Sprintf("%d orchestration(s) declare compensation. Compensation blocks only partially translate and need per-scope review.",
			flagFiles["compensation"]))

	add(PriorityMedium, flagFiles["correlation"] > 0,
		"Replace correlation sets",
		fmt.Sprintf("%d orchestration(s) use correlation sets. Re-model correlated exchanges as session identifiers carried in message payloads.",
			flagFiles["correlation"]))

	add(PriorityMedium, flagFiles["listen"] > 0,
		"Review listen branches",
		fmt.Sprintf("%d orchestration(s) race messages against timeouts via listen. Verify the target's event-choice construct preserves branch semantics.",
			flagFiles["listen"]))

	add(PriorityMedium, flagFiles["parallel"] > 0,
		"Verify parallel join behavior",
		fmt.Sprintf("%d orchestration(s) fan out in parallel. Confirm join semantics on failure match the source engine.",
			flagFiles["parallel"]))

	add(PriorityMedium, flagFiles["dynamic_port"] > 0,
		"Bind dynamic ports",
		fmt.Sprintf("%d orchestration(s) resolve endpoints at runtime through direct-bound ports. Each needs an explicit endpoint resolution step.",
			flagFiles["dynamic_port"]))

	add(PriorityMedium, flagFiles["orchestration_call"] > 0,
		"Decompose nested calls",
		fmt.Sprintf("%d orchestration(s) invoke other orchestrations. Decide per call whether to inline or expose the callee as its own workflow.",
			flagFiles["orchestration_call"]))

	add(PriorityOngoing, flagFiles["transform"] > 0,
		"Convert maps",
		fmt.Sprintf("%d orchestration(s) invoke maps. Translate each map class to the target transformation language.",
			flagFiles["transform"]))

	add(PriorityOngoing, flagFiles["delay"] > 0,
		"Audit timer waits",
		fmt.Sprintf("%d orchestration(s) use delay shapes. Check each timeout against target billing and run-duration limits.",
			flagFiles["delay"]))

	if reg != nil {
		if missing := reg.Unsupported(); len(missing) > 0 {
			names := make([]string, 0, len(missing))
			for _, c := range missing {
				names = append(names, c.Adapter)
			}
			recs = append(recs, Recommendation{
				Priority:    PriorityMedium,
				Title:       "Close connector gaps",
				Description: fmt.Sprintf("The connector registry lists %d adapter(s) without a target connector: %s.", len(missing), strings.Join(names, ", ")),
			})
		}
	}

	return sortByPriority(recs)
}

func countFlag(m map[string]int, name string, fired bool) {
	if fired {
		m[name]++
	}
}

func unsupportedKindList(shapes []UnsupportedShape) string {
	names := make([]string, 0, len(shapes))
	for _, s := range shapes {
		names = append(names, s.Kind)
	}
	return strings.Join(names, ", ")
}

func sortByPriority(recs []Recommendation) []Recommendation {
	// Stable within a priority: rules append in a fixed order.
	out := make([]Recommendation, 0, len(recs))
	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityOngoing} {
		for _, r := range recs {
			if r.Priority == p {
				out = append(out, r)
			}
		}
	}
	return out
}
