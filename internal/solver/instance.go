package solver

import (
	"fmt"
	"math/rand"

	"uniplanner/internal/model"
)

// GenerateInstance builds a random problem over the weekly grid, used by the
// benchmark and by stress tests. Teachers are fully available, groups are
// pairwise disjoint and every room fits every group, so instances stay
// satisfiable as long as lessons <= timeslots * rooms.
func GenerateInstance(lessons, teachers, groups, rooms int, seed int64) (*model.TimeTable, model.RuleSet) {
	rng := rand.New(rand.NewSource(seed))

	table := &model.TimeTable{
		Timeslots: model.NewWeeklyTimeslots(),
		Rooms:     make([]*model.Room, 0, rooms),
		Lessons:   make([]*model.Lesson, 0, lessons),
	}

	for i := range rooms {
		table.Rooms = append(table.Rooms, &model.Room{
			ID:         i,
			AuditoryID: 1000 + i,
			Name:       fmt.Sprintf("room-%v", i),
			Capacity:   40 + rng.Intn(60),
		})
	}

	teacherList := make([]*model.Teacher, 0, teachers)
	for i := range teachers {
		teacherList = append(teacherList, &model.Teacher{Name: fmt.Sprintf("teacher-%v", i)})
	}

	groupList := make([]*model.StudentGroup, 0, groups)
	for i := range groups {
		groupList = append(groupList, &model.StudentGroup{
			ID:            i,
			GroupID:       100 + i,
			Name:          fmt.Sprintf("group-%v", i),
			StudentsCount: 10 + rng.Intn(30),
		})
	}

	for i := range lessons {
		group := groupList[rng.Intn(len(groupList))]
		table.Lessons = append(table.Lessons, &model.Lesson{
			ID:                   i,
			LessonID:             i,
			KseID:                i,
			Subject:              fmt.Sprintf("subject-%v", i),
			Teacher:              teacherList[rng.Intn(len(teacherList))],
			StudentGroup:         group,
			StudentGroupCapacity: group.StudentsCount,
		})
	}

	// Same shape as builder output: the first lesson is pinned at the first
	// timeslot and room
	if len(table.Lessons) > 0 && len(table.Rooms) > 0 {
		table.Lessons[0].IsPinned = true
		table.Lessons[0].Timeslot = table.Timeslots[0]
		table.Lessons[0].Room = table.Rooms[0]
	}

	return table, model.NewRuleSet(model.GroupIntersections{}, model.DefaultWeights())
}
