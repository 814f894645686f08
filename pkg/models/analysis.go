package models

// Features records which migration-relevant constructs appeared in one
// orchestration, set by direct kind match during analysis.
type Features struct {
	Correlation       bool `json:"correlation" toon:"correlation"`
	DynamicPort       bool `json:"dynamic_port" toon:"dynamic_port"`
	Transaction       bool `json:"transaction" toon:"transaction"`
	ExceptionHandler  bool `json:"exception_handler" toon:"exception_handler"`
	BusinessRules     bool `json:"business_rules" toon:"business_rules"`
	Compensation      bool `json:"compensation" toon:"compensation"`
	Loop              bool `json:"loop" toon:"loop"`
	Parallel          bool `json:"parallel" toon:"parallel"`
	Listen            bool `json:"listen" toon:"listen"`
	Delay             bool `json:"delay" toon:"delay"`
	OrchestrationCall bool `json:"orchestration_call" toon:"orchestration_call"`
	Transform         bool `json:"transform" toon:"transform"`
}

// Patterns records which integration-pattern signatures matched.
type Patterns struct {
	Aggregator          bool `json:"aggregator" toon:"aggregator"`
	ContentBasedRouting bool `json:"content_based_routing" toon:"content_based_routing"`
	ScatterGather       bool `json:"scatter_gather" toon:"scatter_gather"`
	MessageBroker       bool `json:"message_broker" toon:"message_broker"`
}

// FileResult is the per-file analysis record. A failed parse leaves Parsed
// false with the captured error message and zero-valued metrics.
type FileResult struct {
	Path          string `json:"path" toon:"path"`
	Orchestration string `json:"orchestration,omitempty" toon:"orchestration"`
	Parsed        bool   `json:"parsed" toon:"parsed"`
	Error         string `json:"error,omitempty" toon:"error"`

	ShapeCounts    map[ShapeKind]int `json:"shape_counts,omitempty" toon:"shape_counts"`
	Unsupported    []string          `json:"unsupported,omitempty" toon:"unsupported"`
	PartialSupport []string          `json:"partial_support,omitempty" toon:"partial_support"`

	Features Features `json:"features" toon:"features"`
	Patterns Patterns `json:"patterns" toon:"patterns"`
	Convoy   bool     `json:"convoy" toon:"convoy"`

	Ports           int `json:"ports" toon:"ports"`
	Messages        int `json:"messages" toon:"messages"`
	CorrelationSets int `json:"correlation_sets" toon:"correlation_sets"`
}

// TotalShapes sums the shape counts.
func (r *FileResult) TotalShapes() int {
	total := 0
	for _, c := range r.ShapeCounts {
		total += c
	}
	return total
}
