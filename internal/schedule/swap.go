package schedule

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"uniplanner/internal/model"
	"uniplanner/internal/solver"
)

// SwapResult reports the outcome of a swap validation. Rejection is a normal
// outcome, not an error: the score and explanation say why, and the committed
// schedule is left untouched either way.
type SwapResult struct {
	Accepted    bool
	Schedule    []ScheduleRow
	Score       model.Score
	Explanation model.Explanation
}

// SwapValidator checks whether exchanging the slots of two committed lessons
// keeps the whole schedule feasible. Validation is global: the hypothetical
// schedule is rebuilt with every lesson fixed at its (possibly swapped) slot
// and re-scored against the full rule set, since a swap can conflict with any
// third lesson.
type SwapValidator struct {
	builder *ProblemBuilder
	engine  solver.Solver
	budget  time.Duration
	log     *zap.Logger
}

func NewSwapValidator(builder *ProblemBuilder, engine solver.Solver, budget time.Duration, log *zap.Logger) *SwapValidator {
	return &SwapValidator{
		builder: builder,
		engine:  engine,
		budget:  budget,
		log:     log,
	}
}

// Validate builds the hypothetical swapped schedule and accepts it only on an
// exact 0hard/0soft score. No partial commit: either the full swapped schedule
// comes back, or the input rows remain the committed truth.
func (validator *SwapValidator) Validate(lessonID1, lessonID2 int, committed []ScheduleRow) (SwapResult, error) {
	swapped := slices.Clone(committed)

	index1 := slices.IndexFunc(swapped, func(row ScheduleRow) bool { return row.LessonID == lessonID1 })
	index2 := slices.IndexFunc(swapped, func(row ScheduleRow) bool { return row.LessonID == lessonID2 })
	if index1 < 0 {
		return SwapResult{}, fmt.Errorf("lesson %v is not part of the committed schedule", lessonID1)
	} else if index2 < 0 {
		return SwapResult{}, fmt.Errorf("lesson %v is not part of the committed schedule", lessonID2)
	} else if index1 == index2 {
		return SwapResult{}, fmt.Errorf("cannot swap lesson %v with itself", lessonID1)
	}

	exchangeSlots(&swapped[index1], &swapped[index2])

	builder := validator.builder.WithCommitted(RecordsFromRows(swapped))
	table, warnings, err := builder.Build(NoReschedule())
	if err != nil {
		return SwapResult{}, err
	}
	if len(warnings) > 0 {
		validator.log.Info("problem built with warnings", zap.Int("count", len(warnings)))
	}

	result, err := validator.engine.Solve(table, builder.RuleSet(), validator.budget)
	if err != nil {
		return SwapResult{}, err
	}

	if !result.Score.Feasible() {
		validator.log.Info("swap rejected",
			zap.Int("lesson_1", lessonID1),
			zap.Int("lesson_2", lessonID2),
			zap.String("score", result.Score.String()),
		)
		return SwapResult{
			Accepted:    false,
			Score:       result.Score,
			Explanation: result.Explanation,
		}, nil
	}

	validator.log.Info("swap accepted", zap.Int("lesson_1", lessonID1), zap.Int("lesson_2", lessonID2))
	return SwapResult{
		Accepted:    true,
		Schedule:    swapped,
		Score:       result.Score,
		Explanation: result.Explanation,
	}, nil
}

// exchangeSlots swaps the (timeslot, room) decision of two rows along with the
// denormalized fields that follow the slot
func exchangeSlots(row1, row2 *ScheduleRow) {
	row1.TimeslotID, row2.TimeslotID = row2.TimeslotID, row1.TimeslotID
	row1.Day, row2.Day = row2.Day, row1.Day
	row1.StartTime, row2.StartTime = row2.StartTime, row1.StartTime
	row1.RoomID, row2.RoomID = row2.RoomID, row1.RoomID
	row1.Room, row2.Room = row2.Room, row1.Room
}
