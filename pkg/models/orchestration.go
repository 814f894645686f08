package models

// OrchestrationModel is the root aggregate produced by the parser. It owns
// everything transitively reachable from Shapes. The model is immutable once
// built except for the correlation resolution pass, which appends to the
// initializes/follows lists on existing Receive details.
type OrchestrationModel struct {
	Namespace string          `json:"namespace" toon:"namespace"`
	Name      string          `json:"name" toon:"name"`
	Messages  []MessageModel  `json:"messages" toon:"messages"`
	PortTypes []PortTypeModel `json:"port_types" toon:"port_types"`
	Ports     []PortModel     `json:"ports" toon:"ports"`
	Shapes    []*ShapeNode    `json:"shapes" toon:"shapes"`

	// Index maps shape identifiers to nodes across the entire tree, including
	// branch and case payloads. First registration wins.
	Index map[string]*ShapeNode `json:"-" toon:"-"`
}

// QualifiedName returns namespace.name, or just name when no namespace was
// declared.
func (m *OrchestrationModel) QualifiedName() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// CorrelationSets returns all correlation declaration nodes in the tree.
func (m *OrchestrationModel) CorrelationSets() []*ShapeNode {
	var sets []*ShapeNode
	m.Walk(func(n *ShapeNode) {
		if n.Kind == ShapeCorrelation {
			sets = append(sets, n)
		}
	})
	return sets
}

// Walk visits every node in the tree in document order, including the
// branch, case, and listen payloads that are not part of the generic child
// lists.
func (m *OrchestrationModel) Walk(fn func(*ShapeNode)) {
	for _, n := range m.Shapes {
		n.Walk(fn)
	}
}

// ParameterDirection describes how a message parameter flows.
type ParameterDirection string

const (
	DirectionNone  ParameterDirection = "none"
	DirectionIn    ParameterDirection = "in"
	DirectionOut   ParameterDirection = "out"
	DirectionInOut ParameterDirection = "inout"
)

// MessageModel is a message declaration. Immutable after construction.
type MessageModel struct {
	Name       string             `json:"name" toon:"name"`
	SchemaType string             `json:"schema_type" toon:"schema_type"`
	Direction  ParameterDirection `json:"direction" toon:"direction"`
}

// OperationKind distinguishes one-way from request-response operations.
type OperationKind string

const (
	OperationOneWay          OperationKind = "one_way"
	OperationRequestResponse OperationKind = "request_response"
)

// OperationModel is one operation of a port type. Message references are by
// name and resolved lazily by consumers, not at parse time.
type OperationModel struct {
	Name            string        `json:"name" toon:"name"`
	Kind            OperationKind `json:"kind" toon:"kind"`
	RequestMessage  string        `json:"request_message,omitempty" toon:"request_message"`
	ResponseMessage string        `json:"response_message,omitempty" toon:"response_message"`
	FaultMessage    string        `json:"fault_message,omitempty" toon:"fault_message"`
}

// PortTypeModel owns an ordered list of operations.
type PortTypeModel struct {
	Name       string           `json:"name" toon:"name"`
	Operations []OperationModel `json:"operations" toon:"operations"`
}

// PortDirection is derived from the port declaration's orientation and
// exchange pattern flags.
type PortDirection string

const (
	PortNone            PortDirection = "none"
	PortReceive         PortDirection = "receive"
	PortSend            PortDirection = "send"
	PortReceiveThenSend PortDirection = "receive_send"
	PortSendThenReceive PortDirection = "send_receive"
)

// DerivePortDirection maps the two raw source flags to a direction.
// implements selects the receiving side; requestResponse selects the
// two-message exchange patterns.
func DerivePortDirection(implements, requestResponse bool) PortDirection {
	switch {
	case implements && requestResponse:
		return PortReceiveThenSend
	case implements:
		return PortReceive
	case requestResponse:
		return PortSendThenReceive
	default:
		return PortSend
	}
}

// BindingKind classifies how a port is bound to a transport.
type BindingKind string

const (
	BindingLogical  BindingKind = "logical"
	BindingPhysical BindingKind = "physical"
	BindingDirect   BindingKind = "direct"
	BindingWeb      BindingKind = "web"
	BindingUnknown  BindingKind = "unknown"
)

// ParseBindingKind converts the raw source binding value. Unrecognized values
// map to BindingUnknown rather than failing.
func ParseBindingKind(raw string) BindingKind {
	switch raw {
	case "Logical", "logical":
		return BindingLogical
	case "Physical", "physical":
		return BindingPhysical
	case "Direct", "direct":
		return BindingDirect
	case "Web", "web":
		return BindingWeb
	default:
		return BindingUnknown
	}
}

// PortModel is a port declaration. Adapter and URI start empty; an external
// binding-merge step fills them in from runtime binding data.
type PortModel struct {
	Name      string        `json:"name" toon:"name"`
	PortType  string        `json:"port_type" toon:"port_type"`
	Direction PortDirection `json:"direction" toon:"direction"`
	Binding   BindingKind   `json:"binding" toon:"binding"`
	Adapter   string        `json:"adapter,omitempty" toon:"adapter"`
	URI       string        `json:"uri,omitempty" toon:"uri"`
}
