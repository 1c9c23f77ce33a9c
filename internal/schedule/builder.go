package schedule

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"uniplanner/internal/model"
)

// BuildOptions selects the problem variant: a lesson under active rescheduling
// (by positional row index) with its accumulated forbidden timeslots.
type BuildOptions struct {
	RescheduleLessonIndex int
	ForbiddenTimeslots    map[int]bool
}

// NoReschedule builds the plain problem with no lesson under rescheduling
func NoReschedule() BuildOptions {
	return BuildOptions{RescheduleLessonIndex: -1}
}

// ProblemBuilder assembles TimeTable instances from a preprocessed dataset and
// an optional committed schedule. Preprocessing (rooms, availability,
// headcounts, intersections, lesson expansion) runs exactly once per builder;
// Build can then be called repeatedly with different options.
type ProblemBuilder struct {
	timeslots []*model.Timeslot
	derived   *derivedData
	committed Records
	weights   model.Weights
	log       *zap.Logger
}

func NewProblemBuilder(dataset *Dataset, committed Records, weights model.Weights, capacitySlack int, log *zap.Logger) *ProblemBuilder {
	timeslots := model.NewWeeklyTimeslots()
	return &ProblemBuilder{
		timeslots: timeslots,
		derived:   preprocess(dataset, timeslots, capacitySlack),
		committed: committed,
		weights:   weights,
		log:       log,
	}
}

// WithCommitted derives a builder bound to another committed schedule, sharing
// the preprocessed data
func (builder *ProblemBuilder) WithCommitted(committed Records) *ProblemBuilder {
	derived := *builder
	derived.committed = committed
	return &derived
}

// RuleSet returns the constraint table bound to this builder's derived
// group-intersection relation
func (builder *ProblemBuilder) RuleSet() model.RuleSet {
	return model.NewRuleSet(builder.derived.intersections, builder.weights)
}

// LessonRows exposes the expanded lesson rows; their positions are the indices
// Build matches RescheduleLessonIndex against
func (builder *ProblemBuilder) LessonRows() []*LessonRecord {
	return builder.derived.lessons
}

// Build assembles a fresh TimeTable. Per-row construction problems are
// recoverable: the row is skipped and reported in the returned warnings. The
// only fatal condition is an empty lesson list, which leaves nothing to pin.
func (builder *ProblemBuilder) Build(opts BuildOptions) (*model.TimeTable, []string, error) {
	warnings := slices.Clone(builder.derived.warnings)
	groups := make(map[string]*model.StudentGroup)
	lessons := make([]*model.Lesson, 0, len(builder.derived.lessons))

	for index, record := range builder.derived.lessons {
		teacher, ok := builder.derived.teachers[record.Teacher]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("lesson %v references unknown teacher %q, row skipped", record.ID, record.Teacher))
			continue
		}

		headcount, ok := builder.derived.headcounts[record.Group]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("lesson %v references unknown group %q, row skipped", record.ID, record.Group))
			continue
		}

		group, ok := groups[record.Group]
		if !ok {
			group = &model.StudentGroup{
				ID:            builder.derived.groupIDs[record.Group],
				GroupID:       builder.derived.externalIDs[record.Group],
				Name:          record.Group,
				StudentsCount: headcount,
			}
			groups[record.Group] = group
		}

		lesson := &model.Lesson{
			ID:                   len(lessons),
			LessonID:             record.ID,
			KseID:                record.SourceID,
			Subject:              record.Subject,
			Teacher:              teacher,
			TeacherID:            builder.derived.teacherIDs[record.Teacher],
			IsLecture:            record.IsLection == 1,
			StudentGroup:         group,
			StudentGroupCapacity: headcount,
			IsOnline:             record.Format == "online",
		}

		if index == opts.RescheduleLessonIndex {
			lesson.ForbiddenTimeslots = maps.Clone(opts.ForbiddenTimeslots)
		} else if slot, ok := builder.committed[record.ID]; ok {
			lesson.IsFixed = true
			lesson.IdealTimeslotID = slot.TimeslotID
			lesson.IdealRoomID = slot.RoomID
		}

		lessons = append(lessons, lesson)
	}

	for _, warning := range warnings {
		builder.log.Warn("problem construction", zap.String("warning", warning))
	}

	if len(lessons) == 0 {
		return nil, warnings, errors.New("no lessons left after preprocessing, cannot pin the first lesson")
	}

	// Pin the first lesson to the first timeslot and room so the solver never
	// starts from a fully empty assignment
	lessons[0].IsPinned = true
	lessons[0].Timeslot = builder.timeslots[0]
	if len(builder.derived.rooms) > 0 {
		lessons[0].Room = builder.derived.rooms[0]
	}

	return &model.TimeTable{
		Timeslots: builder.timeslots,
		Rooms:     builder.derived.rooms,
		Lessons:   lessons,
	}, warnings, nil
}
