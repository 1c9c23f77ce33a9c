package model

import "fmt"

// Score is an ordered (hard, soft) pair. Penalties accumulate negatively, so a
// fully feasible assignment scores exactly 0hard/0soft.
type Score struct {
	Hard int
	Soft int
}

func (score Score) Feasible() bool {
	return score.Hard == 0 && score.Soft == 0
}

func (score Score) String() string {
	return fmt.Sprintf("%vhard/%vsoft", score.Hard, score.Soft)
}

// TimeTable is the problem and solution container. The problem builder owns its
// construction; the solver owns the mutation of lesson decision variables and of
// Score; everyone else only reads.
type TimeTable struct {
	Timeslots []*Timeslot
	Rooms     []*Room
	Lessons   []*Lesson
	Score     *Score
}

// StudentGroups collects the distinct groups referenced by the lesson list
func (table *TimeTable) StudentGroups() []*StudentGroup {
	covered := make(map[int]bool)
	groups := make([]*StudentGroup, 0)
	for _, lesson := range table.Lessons {
		if !covered[lesson.StudentGroup.ID] {
			covered[lesson.StudentGroup.ID] = true
			groups = append(groups, lesson.StudentGroup)
		}
	}
	return groups
}

// LessonByExternalID returns the lesson whose external id matches, or nil
func (table *TimeTable) LessonByExternalID(lessonID int) *Lesson {
	for _, lesson := range table.Lessons {
		if lesson.LessonID == lessonID {
			return lesson
		}
	}
	return nil
}
