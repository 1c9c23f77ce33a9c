package schedule

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uniplanner/internal/model"
	"uniplanner/internal/solver"
)

// Alternative is one accepted reschedule proposal: the new slot for the lesson
// under rescheduling plus the full schedule that makes it feasible.
type Alternative struct {
	TimeslotID int
	RoomID     int
	Day        string
	StartTime  string
	Room       string
	Schedule   []ScheduleRow
}

func (alternative Alternative) String() string {
	return fmt.Sprintf("%v %v %v", alternative.Day, alternative.StartTime, alternative.Room)
}

// RescheduleSession finds alternative feasible slots for one already-scheduled
// lesson. The forbidden set starts at the lesson's current timeslot and grows
// with every accepted alternative, so no timeslot is ever offered twice within
// one session. The session is owned by a single caller; it is created at the
// start of one reschedule operation and discarded at its end.
type RescheduleSession struct {
	id            uuid.UUID
	builder       *ProblemBuilder
	engine        solver.Solver
	lessonIndex   int
	forbidden     map[int]bool
	alternatives  []Alternative
	attemptBudget time.Duration
	log           *zap.Logger
}

func NewRescheduleSession(
	builder *ProblemBuilder,
	engine solver.Solver,
	lessonIndex int,
	currentTimeslotID int,
	attemptBudget time.Duration,
	log *zap.Logger,
) *RescheduleSession {
	return &RescheduleSession{
		id:            uuid.New(),
		builder:       builder,
		engine:        engine,
		lessonIndex:   lessonIndex,
		forbidden:     map[int]bool{currentTimeslotID: true},
		alternatives:  make([]Alternative, 0),
		attemptBudget: attemptBudget,
		log:           log,
	}
}

func (session *RescheduleSession) ID() uuid.UUID {
	return session.id
}

// Forbidden returns a copy of the accumulated forbidden-timeslot set
func (session *RescheduleSession) Forbidden() map[int]bool {
	return maps.Clone(session.forbidden)
}

func (session *RescheduleSession) Alternatives() []Alternative {
	return session.alternatives
}

// Run searches for alternatives until either a solve attempt comes back with a
// hard violation (the search space is depleted, which is the expected
// terminating condition) or the overall budget is spent. Solve attempts run
// strictly sequentially; interruption granularity is between attempts.
func (session *RescheduleSession) Run(overallBudget time.Duration) ([]Alternative, error) {
	start := time.Now()

	for time.Since(start) < overallBudget {
		session.log.Debug("alternative-slot attempt",
			zap.String("session", session.id.String()),
			zap.Int("lesson_index", session.lessonIndex),
			zap.Ints("forbidden", keysOf(session.forbidden)),
		)

		table, warnings, err := session.builder.Build(BuildOptions{
			RescheduleLessonIndex: session.lessonIndex,
			ForbiddenTimeslots:    session.forbidden,
		})
		if err != nil {
			return session.alternatives, err
		}
		if len(warnings) > 0 {
			session.log.Info("problem built with warnings", zap.Int("count", len(warnings)))
		}

		result, err := session.engine.Solve(table, session.builder.RuleSet(), session.attemptBudget)
		if err != nil {
			return session.alternatives, err
		}

		if !result.Score.Feasible() {
			session.log.Info("no further alternatives",
				zap.String("session", session.id.String()),
				zap.String("score", result.Score.String()),
			)
			break
		}

		lesson := rescheduledLesson(table)
		if lesson == nil || lesson.Timeslot == nil {
			return session.alternatives, errors.New("solved timetable has no rescheduled lesson")
		}

		session.forbidden[lesson.Timeslot.ID] = true

		alternative := Alternative{
			TimeslotID: lesson.Timeslot.ID,
			Day:        lesson.Timeslot.DayOfWeek.String(),
			StartTime:  lesson.Timeslot.StartClock(),
			Schedule:   RowsFromSolution(table),
		}
		if lesson.Room != nil {
			alternative.RoomID = lesson.Room.ID
			alternative.Room = fmt.Sprintf("%v [%v]", lesson.Room.Name, lesson.Room.Capacity)
		}
		session.alternatives = append(session.alternatives, alternative)

		session.log.Info("alternative slot found",
			zap.String("session", session.id.String()),
			zap.Int("timeslot", alternative.TimeslotID),
			zap.String("day", alternative.Day),
			zap.String("start_time", alternative.StartTime),
		)
	}

	return session.alternatives, nil
}

// rescheduledLesson finds the one lesson carrying a forbidden-timeslot set
func rescheduledLesson(table *model.TimeTable) *model.Lesson {
	for _, lesson := range table.Lessons {
		if len(lesson.ForbiddenTimeslots) > 0 {
			return lesson
		}
	}
	return nil
}

func keysOf(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys
}
