package solver

import (
	"time"

	"uniplanner/internal/model"
)

// Result carries the aggregate score of the returned assignment and its
// structured per-rule/per-entity breakdown.
type Result struct {
	Score       model.Score
	Explanation model.Explanation
}

// Solver is the search backend boundary. Solve assigns the decision variables
// of every non-pinned lesson in place, fills table.Score and returns it with an
// explanation. Termination is the OR-composite of two conditions: the first
// 0hard/0soft assignment found, or the wall-clock budget running out. The call
// blocks until one of the two triggers; there is no mid-solve cancellation.
// Any implementation with equivalent capability may be swapped in.
type Solver interface {
	Solve(table *model.TimeTable, rules model.RuleSet, budget time.Duration) (Result, error)
}

func NewSolver() Solver {
	return newLocalSearchSolver(time.Now().UnixNano())
}

// NewSeededSolver returns a solver with a deterministic move sequence
func NewSeededSolver(seed int64) Solver {
	return newLocalSearchSolver(seed)
}
