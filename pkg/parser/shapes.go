package parser

import (
	"strings"

	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/odx"
)

// transactionAttributeType is metadata carried on its owning scope; it never
// produces a node.
const transactionAttributeType = "TransactionAttribute"

// defaultIterator is the iterator placeholder used when a foreach shape
// declares no iterator variable.
const defaultIterator = "item"

// maxDerivedNameLen caps names derived from policy identifiers.
const maxDerivedNameLen = 40

type fillFunc func(p *Parser, el *odx.Element, n *models.ShapeNode, ctx *context, st *state)

// builder is one entry of the shape dispatch table. noRecurse suppresses the
// generic child recursion for kinds whose substructure is parsed explicitly
// into payload lists.
type builder struct {
	kind      models.ShapeKind
	fill      fillFunc
	noRecurse bool
}

// builders maps lowercase source type names to their builders. Lowercasing
// keys at lookup keeps the couple of legacy aliases working. The table is
// assembled in init because the branch-resolving builders call back into
// buildShapes, which consults the table.
var builders map[string]builder

func init() {
	builders = map[string]builder{
		"receive":             {kind: models.ShapeReceive, fill: fillReceive},
		"send":                {kind: models.ShapeSend, fill: fillSend},
		"construct":           {kind: models.ShapeConstruct, fill: fillConstruct, noRecurse: true},
		"transform":           {kind: models.ShapeTransform, fill: fillTransform, noRecurse: true},
		"messageassignment":   {kind: models.ShapeAssign, fill: fillAssignment},
		"variableassignment":  {kind: models.ShapeAssign, fill: fillAssignment},
		"while":               {kind: models.ShapeWhile, fill: fillCondition},
		"until":               {kind: models.ShapeUntil, fill: fillCondition},
		"foreach":             {kind: models.ShapeForEach, fill: fillForEach},
		"call":                {kind: models.ShapeCall, fill: fillCall},
		"correlationdeclaration": {
			kind: models.ShapeCorrelation, fill: fillCorrelation, noRecurse: true,
		},
		"decision":            {kind: models.ShapeDecide, fill: fillDecide, noRecurse: true},
		"switch":              {kind: models.ShapeSwitch, fill: fillSwitch, noRecurse: true},
		"listen":              {kind: models.ShapeListen, fill: fillListen, noRecurse: true},
		"scope":               {kind: models.ShapeScope, fill: fillScope},
		"throw":               {kind: models.ShapeThrow, fill: fillFault},
		"suspend":             {kind: models.ShapeSuspend, fill: fillFault},
		"terminate":           {kind: models.ShapeTerminate, fill: fillFault},
		"expression":          {kind: models.ShapeExpression, fill: fillExpression},
		"delay":               {kind: models.ShapeDelay, fill: fillDelay},
		"compensate":          {kind: models.ShapeCompensate, fill: fillCompensate},
		"group":               {kind: models.ShapeGroup},
		"task":                {kind: models.ShapeTask},
		"start":               {kind: models.ShapeStart},
		"parallel":            {kind: models.ShapeParallel},
		"parallelbranch":      {kind: models.ShapeParallelBranch},
		"catch":               {kind: models.ShapeCatch},
		"compensation":        {kind: models.ShapeCompensation},
		"transaction":         {kind: models.ShapeTransaction},
		"variabledeclaration": {kind: models.ShapeVariableDecl, fill: fillVariableDecl},
	}
}

var callRulesBuilder = builder{kind: models.ShapeCallRules, fill: fillCallRules}

// buildShapes converts a run of sibling elements into shape nodes, assigning
// sequence numbers from the current context's counter.
func (p *Parser) buildShapes(elems []*odx.Element, parent *models.ShapeNode, ctx *context, st *state) []*models.ShapeNode {
	var out []*models.ShapeNode
	for _, el := range elems {
		if n := p.buildShape(el, parent, ctx, st); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// buildShape dispatches one element to its per-kind builder, links it to its
// parent, and registers it in the identifier index. Rules-policy calls are
// recognized ahead of the main table by case-insensitive match; unknown
// kinds produce a fallback node carrying the raw kind name.
func (p *Parser) buildShape(el *odx.Element, parent *models.ShapeNode, ctx *context, st *state) *models.ShapeNode {
	t := el.Type
	if t == "" || t == transactionAttributeType {
		return nil
	}

	var b builder
	switch {
	case strings.EqualFold(t, "CallRules") || strings.EqualFold(t, "CallPolicy"):
		b = callRulesBuilder
	default:
		var ok bool
		if b, ok = builders[strings.ToLower(t)]; !ok {
			b = builder{kind: models.ShapeUnknown, fill: fillFallback}
		}
	}

	n := &models.ShapeNode{
		OID:      el.OID,
		Name:     el.Property("Name"),
		Kind:     b.kind,
		Sequence: ctx.next(),
		Parent:   parent,
	}
	n.Key = nodeKey(n.OID, ctx.path, n.Sequence)
	st.register(n.OID, n)

	if b.fill != nil {
		b.fill(p, el, n, ctx, st)
	}
	if !b.noRecurse {
		n.Children = p.buildShapes(el.Children, n, ctx, st)
	}
	p.tracef("shape kind=%s name=%q seq=%d", n.Kind, n.Name, n.Sequence)
	return n
}

func fillReceive(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.ReceiveDetail{
		Port:      el.Property("PortName"),
		Message:   el.Property("MessageName"),
		Operation: el.Property("OperationName"),
		Activate:  el.PropertyBool("Activate"),
	}
}

func fillSend(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.SendDetail{
		Port:      el.Property("PortName"),
		Message:   el.Property("MessageName"),
		Operation: el.Property("OperationName"),
	}
}

// fillConstruct captures the constructed message references and parses the
// nested transform and assignment payloads inline, bypassing generic
// recursion.
func fillConstruct(p *Parser, el *odx.Element, n *models.ShapeNode, ctx *context, st *state) {
	d := &models.ConstructDetail{}
	for _, prop := range el.Properties {
		if prop.Name == "MessageRef" && prop.Value != "" {
			d.Messages = append(d.Messages, prop.Value)
		}
	}
	n.Detail = d

	for _, c := range el.Children {
		switch strings.ToLower(c.Type) {
		case "transform", "messageassignment", "variableassignment":
			if child := p.buildShape(c, n, ctx, st); child != nil {
				n.Children = append(n.Children, child)
			}
		}
	}
}

// fillTransform applies the fixed two-input convention: from paired part
// references, exactly two inputs designate the second as the sole output and
// the first as the sole input.
func fillTransform(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	d := &models.TransformDetail{MapClass: el.Property("ClassName")}
	var refs []string
	for _, part := range el.ChildrenOfType("MessagePartRef") {
		if ref := part.Property("MessageRef"); ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 2 {
		d.Inputs = refs[:1]
		d.Output = refs[1]
	} else {
		d.Inputs = refs
	}
	n.Detail = d
}

func fillAssignment(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.AssignmentDetail{Expression: el.Property("Expression")}
}

func fillCondition(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.ConditionDetail{Condition: expressionOf(el)}
}

func fillForEach(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	iter := el.Property("Iterator")
	if iter == "" {
		iter = defaultIterator
	}
	n.Detail = &models.ForEachDetail{
		Collection: el.Property("Collection"),
		Iterator:   iter,
	}
}

func fillCall(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.CallDetail{Callee: el.Property("Callee")}
}

// fillCallRules derives a readable name from the policy identifier when the
// shape has no explicit name.
func fillCallRules(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	policy := el.Property("PolicyName")
	n.Detail = &models.CallRulesDetail{Policy: policy}
	if n.Name == "" {
		n.Name = deriveRuleName(policy)
	}
}

func deriveRuleName(policy string) string {
	var b strings.Builder
	for _, r := range policy {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxDerivedNameLen {
			break
		}
	}
	return b.String()
}

func fillCorrelation(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	d := &models.CorrelationDetail{}
	for _, ref := range el.ChildrenOfType("StatementRef") {
		d.Statements = append(d.Statements, models.CorrelationStatement{
			Ref:         ref.Property("Ref"),
			Initializes: ref.PropertyBool("Initializes"),
		})
	}
	n.Detail = d
}

func fillScope(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	tx := el.Property("TransactionType")
	if tx == "" {
		if attr := el.FirstChild(transactionAttributeType); attr != nil {
			tx = attr.Property("TransactionType")
		}
	}
	n.Detail = &models.ScopeDetail{TransactionType: tx}
}

func fillFault(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.FaultDetail{Message: el.Property("Message")}
}

func fillExpression(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.ExpressionDetail{Expression: el.Property("Expression")}
}

func fillDelay(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.DelayDetail{Timeout: el.Property("Timeout")}
}

func fillCompensate(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.CompensateDetail{Target: el.Property("Target")}
}

func fillVariableDecl(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.VariableDeclDetail{
		Type:         el.Property("Type"),
		InitialValue: el.Property("InitialValue"),
	}
}

func fillFallback(_ *Parser, el *odx.Element, n *models.ShapeNode, _ *context, _ *state) {
	n.Detail = &models.FallbackDetail{RawType: el.Type}
}

// expressionOf finds a shape's expression either as a direct property or
// inside a nested Expression sub-element.
func expressionOf(el *odx.Element) string {
	if v := el.Property("Expression"); v != "" {
		return v
	}
	if sub := el.FirstChild("Expression"); sub != nil {
		return sub.Property("Expression")
	}
	return ""
}
