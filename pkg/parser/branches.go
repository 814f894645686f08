package parser

import (
	"fmt"
	"strings"

	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/odx"
)

// fillDecide resolves the two branch slots of a decision. The first branch
// in document order carrying a non-empty condition expression becomes the
// true branch and supplies the node's condition; any other branch becomes
// the false branch. With no conditions anywhere, assignment falls back to
// document position, and the condition is searched on the decision element
// itself as a sibling of the branch containers.
func fillDecide(p *Parser, el *odx.Element, n *models.ShapeNode, ctx *context, st *state) {
	branches := el.ChildrenOfType("DecisionBranch")

	var trueEl, falseEl *odx.Element
	cond := ""
	for _, b := range branches {
		expr := expressionOf(b)
		switch {
		case expr != "" && trueEl == nil:
			trueEl = b
			cond = expr
		case falseEl == nil:
			falseEl = b
		}
	}
	if trueEl == nil {
		// Positional fallback: first branch is true, second is false.
		falseEl = nil
		if len(branches) > 0 {
			trueEl = branches[0]
		}
		if len(branches) > 1 {
			falseEl = branches[1]
		}
		cond = expressionOf(el)
	}

	d := &models.DecideDetail{Condition: cond}
	if trueEl != nil {
		d.TrueBranch = p.buildShapes(trueEl.Children, n, ctx.child(n.OID+"/true"), st)
	}
	if falseEl != nil {
		d.FalseBranch = p.buildShapes(falseEl.Children, n, ctx.child(n.OID+"/false"), st)
	}

	// A condition-less decision whose true branch holds a generic expression
	// shape promotes that shape's expression to serve as the condition.
	if d.Condition == "" {
		for _, s := range d.TrueBranch {
			if ed, ok := s.Detail.(*models.ExpressionDetail); ok && ed.Expression != "" {
				d.Condition = ed.Expression
				break
			}
		}
	}
	n.Detail = d
}

// fillSwitch resolves the discriminant and case slots. A case with an empty
// expression, or whose name contains "default" or "else", becomes the
// default slot; other cases are keyed by expression, falling back to name,
// falling back to a synthesized label. Cases resolving to the same key have
// their shape lists concatenated.
func fillSwitch(p *Parser, el *odx.Element, n *models.ShapeNode, ctx *context, st *state) {
	d := &models.SwitchDetail{Expression: expressionOf(el)}
	byKey := make(map[string]*models.SwitchCase)
	var defaultCase *models.SwitchCase

	for i, c := range el.ChildrenOfType("SwitchCase") {
		shapes := p.buildShapes(c.Children, n, ctx.child(fmt.Sprintf("%s/case%d", n.OID, i)), st)
		expr := expressionOf(c)
		name := c.Property("Name")
		lower := strings.ToLower(name)

		if expr == "" || strings.Contains(lower, "default") || strings.Contains(lower, "else") {
			if defaultCase == nil {
				defaultCase = &models.SwitchCase{Key: "default", Default: true}
				d.Cases = append(d.Cases, defaultCase)
			}
			defaultCase.Shapes = append(defaultCase.Shapes, shapes...)
			continue
		}

		key := expr
		if key == "" {
			key = name
		}
		if key == "" {
			key = fmt.Sprintf("Case_%d", i+1)
		}
		if existing, ok := byKey[key]; ok {
			existing.Shapes = append(existing.Shapes, shapes...)
			continue
		}
		cs := &models.SwitchCase{Key: key, Shapes: shapes}
		byKey[key] = cs
		d.Cases = append(d.Cases, cs)
	}
	n.Detail = d
}

// fillListen parses each branch container in its own isolated context and
// appends the resulting shapes to the listen node's branch list, with the
// listen node as parent. The branch list is the single authoritative source
// for listen substructure.
func fillListen(p *Parser, el *odx.Element, n *models.ShapeNode, ctx *context, st *state) {
	d := &models.ListenDetail{}
	for i, b := range el.ChildrenOfType("ListenBranch") {
		shapes := p.buildShapes(b.Children, n, ctx.child(fmt.Sprintf("%s/listen%d", n.OID, i)), st)
		d.Branches = append(d.Branches, &models.ListenBranch{
			Name:   b.Property("Name"),
			Shapes: shapes,
		})
	}
	n.Detail = d
}
