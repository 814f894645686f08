package parser

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/atlasbridge/odx/pkg/models"
)

// state is the mutable parser state threaded through the recursive build:
// the global identifier index shared by every parsing context.
type state struct {
	index map[string]*models.ShapeNode
}

func newState() *state {
	return &state{index: make(map[string]*models.ShapeNode)}
}

// register adds the node to the identifier index. The index is global across
// the whole tree; the first node to declare an identifier wins.
func (s *state) register(oid string, n *models.ShapeNode) {
	if oid == "" {
		return
	}
	if _, ok := s.index[oid]; ok {
		return
	}
	s.index[oid] = n
}

// context is one parsing scope with its own zero-based sequence counter: the
// top-level body, each decide branch, each switch case, and each listen
// branch restart their own counter.
type context struct {
	path string
	seq  int
}

// next returns the next sequence value for this context.
func (c *context) next() int {
	v := c.seq
	c.seq++
	return v
}

// child derives an isolated context for a branch or case scope.
func (c *context) child(segment string) *context {
	return &context{path: c.path + "/" + segment}
}

// nodeKey derives a deterministic disambiguation key from the identifier,
// the parsing-context path, and the local sequence number, so output is
// reproducible across runs.
func nodeKey(oid, contextPath string, sequence int) uint64 {
	return xxhash.Sum64String(oid + "|" + contextPath + "|" + strconv.Itoa(sequence))
}
