package patterns

import (
	"sort"

	"github.com/atlasbridge/odx/pkg/models"
)

type supportLevel int

const (
	supportNone supportLevel = iota
	supportPartial
	supportFull
)

// supportedKinds are constructs with a direct equivalent in the target
// workflow syntax.
var supportedKinds = map[models.ShapeKind]bool{
	models.ShapeReceive:        true,
	models.ShapeSend:           true,
	models.ShapeConstruct:      true,
	models.ShapeTransform:      true,
	models.ShapeAssign:         true,
	models.ShapeWhile:          true,
	models.ShapeUntil:          true,
	models.ShapeForEach:        true,
	models.ShapeCall:           true,
	models.ShapeCorrelation:    true,
	models.ShapeDecide:         true,
	models.ShapeSwitch:         true,
	models.ShapeListen:         true,
	models.ShapeScope:          true,
	models.ShapeThrow:          true,
	models.ShapeSuspend:        true,
	models.ShapeTerminate:      true,
	models.ShapeExpression:     true,
	models.ShapeDelay:          true,
	models.ShapeGroup:          true,
	models.ShapeParallel:       true,
	models.ShapeParallelBranch: true,
	models.ShapeStart:          true,
	models.ShapeTask:           true,
	models.ShapeCatch:          true,
	models.ShapeVariableDecl:   true,
}

// partialKinds migrate with caveats: business-rules calls, compensation, and
// atomic or long-running transaction scopes all need manual rework.
var partialKinds = map[models.ShapeKind]bool{
	models.ShapeCallRules:    true,
	models.ShapeCompensate:   true,
	models.ShapeCompensation: true,
	models.ShapeTransaction:  true,
}

func support(kind models.ShapeKind) supportLevel {
	switch {
	case partialKinds[kind]:
		return supportPartial
	case supportedKinds[kind]:
		return supportFull
	default:
		return supportNone
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
