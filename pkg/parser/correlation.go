package parser

import "github.com/atlasbridge/odx/pkg/models"

// resolveCorrelations runs once after the whole tree, including branch and
// case substructures, is built. Each correlation declaration's statement
// references are looked up in the global identifier index; references that
// resolve to a receive shape append the declaration's name to that receive's
// initializes or follows list. References to other kinds, or to identifiers
// absent from the index, are silently ignored.
func resolveCorrelations(m *models.OrchestrationModel) {
	m.Walk(func(n *models.ShapeNode) {
		d := n.Correlation()
		if d == nil {
			return
		}
		for _, stmt := range d.Statements {
			target, ok := m.Index[stmt.Ref]
			if !ok {
				continue
			}
			rd := target.Receive()
			if rd == nil {
				continue
			}
			if stmt.Initializes {
				rd.Initializes = appendUnique(rd.Initializes, n.Name)
			} else {
				rd.Follows = appendUnique(rd.Follows, n.Name)
			}
		}
	})
}

// appendUnique appends v unless already present, so reprocessing the same
// reference never duplicates an entry.
func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
