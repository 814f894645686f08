package models

// ShapeKind tags a control-flow node with its construct kind.
type ShapeKind string

const (
	ShapeReceive        ShapeKind = "receive"
	ShapeSend           ShapeKind = "send"
	ShapeConstruct      ShapeKind = "construct"
	ShapeTransform      ShapeKind = "transform"
	ShapeAssign         ShapeKind = "assign"
	ShapeWhile          ShapeKind = "while"
	ShapeUntil          ShapeKind = "until"
	ShapeForEach        ShapeKind = "foreach"
	ShapeCall           ShapeKind = "call"
	ShapeCorrelation    ShapeKind = "correlation"
	ShapeDecide         ShapeKind = "decide"
	ShapeSwitch         ShapeKind = "switch"
	ShapeListen         ShapeKind = "listen"
	ShapeScope          ShapeKind = "scope"
	ShapeThrow          ShapeKind = "throw"
	ShapeSuspend        ShapeKind = "suspend"
	ShapeTerminate      ShapeKind = "terminate"
	ShapeExpression     ShapeKind = "expression"
	ShapeDelay          ShapeKind = "delay"
	ShapeCompensate     ShapeKind = "compensate"
	ShapeGroup          ShapeKind = "group"
	ShapeParallel       ShapeKind = "parallel"
	ShapeParallelBranch ShapeKind = "parallel_branch"
	ShapeStart          ShapeKind = "start"
	ShapeTask           ShapeKind = "task"
	ShapeCatch          ShapeKind = "catch"
	ShapeCompensation   ShapeKind = "compensation"
	ShapeTransaction    ShapeKind = "transaction"
	ShapeVariableDecl   ShapeKind = "variable_declaration"
	ShapeCallRules      ShapeKind = "call_rules"
	ShapeUnknown        ShapeKind = "unknown"
)

// ShapeNode is one control-flow construct. The header fields are shared by
// all kinds; Detail carries the per-kind payload struct.
//
// Sequence numbers restart per parsing context (the top-level body, each
// decide branch, each switch case, each listen branch); they are unique and
// increasing only within one context.
type ShapeNode struct {
	OID      string    `json:"oid,omitempty" toon:"oid"`
	Name     string    `json:"name" toon:"name"`
	Kind     ShapeKind `json:"kind" toon:"kind"`
	Sequence int       `json:"sequence" toon:"sequence"`

	// Key is a deterministic disambiguation identifier derived from the OID,
	// the parsing-context path, and the local sequence number.
	Key uint64 `json:"key" toon:"key"`

	Parent   *ShapeNode   `json:"-" toon:"-"`
	Children []*ShapeNode `json:"children,omitempty" toon:"children"`

	Detail any `json:"detail,omitempty" toon:"detail"`
}

// AddChild appends child to the generic child list and sets its parent,
// keeping both sides of the link consistent.
func (n *ShapeNode) AddChild(child *ShapeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and every node reachable from it in document order. Decide,
// switch, and listen payloads are visited through their detail structs since
// they are not mirrored into the generic child list.
func (n *ShapeNode) Walk(fn func(*ShapeNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
	switch d := n.Detail.(type) {
	case *DecideDetail:
		for _, c := range d.TrueBranch {
			c.Walk(fn)
		}
		for _, c := range d.FalseBranch {
			c.Walk(fn)
		}
	case *SwitchDetail:
		for _, cs := range d.Cases {
			for _, c := range cs.Shapes {
				c.Walk(fn)
			}
		}
	case *ListenDetail:
		for _, b := range d.Branches {
			for _, c := range b.Shapes {
				c.Walk(fn)
			}
		}
	}
}

// ReceiveDetail carries the payload of a receive shape. Initializes and
// Follows are appended by the correlation resolution pass.
type ReceiveDetail struct {
	Port        string   `json:"port" toon:"port"`
	Message     string   `json:"message" toon:"message"`
	Operation   string   `json:"operation" toon:"operation"`
	Activate    bool     `json:"activate" toon:"activate"`
	Initializes []string `json:"initializes,omitempty" toon:"initializes"`
	Follows     []string `json:"follows,omitempty" toon:"follows"`
}

// SendDetail carries the payload of a send shape.
type SendDetail struct {
	Port      string `json:"port" toon:"port"`
	Message   string `json:"message" toon:"message"`
	Operation string `json:"operation" toon:"operation"`
}

// ConstructDetail lists the messages a construct block builds. The nested
// transform and assignment shapes are parsed inline as children.
type ConstructDetail struct {
	Messages []string `json:"messages" toon:"messages"`
}

// TransformDetail describes a map invocation. With exactly two part
// references the second is the sole output and the first the sole input; any
// other arity keeps document order as inputs with no designated output.
type TransformDetail struct {
	MapClass string   `json:"map_class" toon:"map_class"`
	Inputs   []string `json:"inputs" toon:"inputs"`
	Output   string   `json:"output,omitempty" toon:"output"`
}

// AssignmentDetail carries a variable or message assignment expression.
type AssignmentDetail struct {
	Expression string `json:"expression" toon:"expression"`
}

// ConditionDetail carries the loop condition of while and until shapes.
type ConditionDetail struct {
	Condition string `json:"condition" toon:"condition"`
}

// ForEachDetail describes an iteration over a collection expression.
type ForEachDetail struct {
	Collection string `json:"collection" toon:"collection"`
	Iterator   string `json:"iterator" toon:"iterator"`
}

// CallDetail references a called orchestration.
type CallDetail struct {
	Callee string `json:"callee" toon:"callee"`
}

// CallRulesDetail references a business-rules policy invocation.
type CallRulesDetail struct {
	Policy string `json:"policy" toon:"policy"`
}

// CorrelationStatement is one resolved-not-owned reference from a
// correlation declaration to another shape.
type CorrelationStatement struct {
	Ref         string `json:"ref" toon:"ref"`
	Initializes bool   `json:"initializes" toon:"initializes"`
}

// CorrelationDetail carries a correlation set declaration.
type CorrelationDetail struct {
	Statements []CorrelationStatement `json:"statements" toon:"statements"`
}

// DecideDetail carries the two branch slots of a decide shape. Branch shapes
// have the decide node as parent but are not part of its generic child list.
type DecideDetail struct {
	Condition   string       `json:"condition" toon:"condition"`
	TrueBranch  []*ShapeNode `json:"true_branch" toon:"true_branch"`
	FalseBranch []*ShapeNode `json:"false_branch" toon:"false_branch"`
}

// SwitchCase is one keyed case slot of a switch shape.
type SwitchCase struct {
	Key     string       `json:"key" toon:"key"`
	Default bool         `json:"default" toon:"default"`
	Shapes  []*ShapeNode `json:"shapes" toon:"shapes"`
}

// SwitchDetail carries the discriminant and case slots of a switch shape.
type SwitchDetail struct {
	Expression string        `json:"expression" toon:"expression"`
	Cases      []*SwitchCase `json:"cases" toon:"cases"`
}

// ListenBranch is one branch slot of a listen shape.
type ListenBranch struct {
	Name   string       `json:"name" toon:"name"`
	Shapes []*ShapeNode `json:"shapes" toon:"shapes"`
}

// ListenDetail carries the branch slots of a listen shape. The branch list
// is the authoritative source for listen substructure; branch shapes are not
// duplicated into the generic child list.
type ListenDetail struct {
	Branches []*ListenBranch `json:"branches" toon:"branches"`
}

// ScopeDetail carries scope transaction metadata.
type ScopeDetail struct {
	TransactionType string `json:"transaction_type,omitempty" toon:"transaction_type"`
}

// FaultDetail carries the message of throw, suspend, and terminate shapes.
type FaultDetail struct {
	Message string `json:"message,omitempty" toon:"message"`
}

// ExpressionDetail carries a free-form expression shape.
type ExpressionDetail struct {
	Expression string `json:"expression" toon:"expression"`
}

// DelayDetail carries the timeout expression of a delay shape.
type DelayDetail struct {
	Timeout string `json:"timeout" toon:"timeout"`
}

// CompensateDetail names the scope a compensate shape targets.
type CompensateDetail struct {
	Target string `json:"target,omitempty" toon:"target"`
}

// VariableDeclDetail carries a variable declaration.
type VariableDeclDetail struct {
	Type         string `json:"type" toon:"type"`
	InitialValue string `json:"initial_value,omitempty" toon:"initial_value"`
}

// FallbackDetail preserves the raw kind name of an unrecognized shape so
// downstream analysis can still count it.
type FallbackDetail struct {
	RawType string `json:"raw_type" toon:"raw_type"`
}

// Receive returns the receive payload, or nil when n is not a receive shape.
func (n *ShapeNode) Receive() *ReceiveDetail {
	d, _ := n.Detail.(*ReceiveDetail)
	return d
}

// Decide returns the decide payload, or nil.
func (n *ShapeNode) Decide() *DecideDetail {
	d, _ := n.Detail.(*DecideDetail)
	return d
}

// Switch returns the switch payload, or nil.
func (n *ShapeNode) Switch() *SwitchDetail {
	d, _ := n.Detail.(*SwitchDetail)
	return d
}

// Listen returns the listen payload, or nil.
func (n *ShapeNode) Listen() *ListenDetail {
	d, _ := n.Detail.(*ListenDetail)
	return d
}

// Correlation returns the correlation payload, or nil.
func (n *ShapeNode) Correlation() *CorrelationDetail {
	d, _ := n.Detail.(*CorrelationDetail)
	return d
}
