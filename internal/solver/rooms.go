package solver

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"uniplanner/internal/model"
)

type unassignableError struct {
}

func (err unassignableError) Error() string {
	return "not all lessons can be assigned a room"
}

// repairRooms rebuilds the room assignment of every timeslot as a largest
// bipartite matching between its offline lessons and the rooms that fit them.
// The repaired assignment is kept only when it does not worsen the aggregate
// penalty (moving a fixed lesson's room has a cost of its own). Returns the
// penalty of whichever assignment is left on the table.
func (solver *localSearchSolver) repairRooms(table *model.TimeTable, rules model.RuleSet, currentPenalty int) int {
	if len(table.Rooms) == 0 {
		return currentPenalty
	}

	before := snapshot(table)

	byTimeslot := make(map[int][]*model.Lesson)
	pinnedRooms := make(map[int]map[int]bool)
	for _, lesson := range table.Lessons {
		if lesson.Timeslot == nil || lesson.IsOnline {
			continue
		}
		if lesson.IsPinned {
			if lesson.Room != nil {
				if pinnedRooms[lesson.Timeslot.ID] == nil {
					pinnedRooms[lesson.Timeslot.ID] = make(map[int]bool)
				}
				pinnedRooms[lesson.Timeslot.ID][lesson.Room.ID] = true
			}
			continue
		}
		byTimeslot[lesson.Timeslot.ID] = append(byTimeslot[lesson.Timeslot.ID], lesson)
	}

	for timeslotID, lessons := range byTimeslot {
		rooms := lo.Filter(table.Rooms, func(room *model.Room, _ int) bool {
			return !room.IsOnline && !pinnedRooms[timeslotID][room.ID]
		})

		assignments, err := assignRooms(lessons, rooms)
		if err != nil {
			continue // Leave the timeslot as is when no complete matching exists
		}

		for lesson, room := range assignments {
			lesson.Room = room
		}
	}

	repaired := rules.Penalty(table)
	if repaired < currentPenalty {
		restore(table, before)
		return currentPenalty
	}
	return repaired
}

func assignRooms(lessons []*model.Lesson, rooms []*model.Room) (map[*model.Lesson]*model.Room, error) {
	// Build neighbors predicate based on room fitness
	neighbors := func(lessonAny any, roomAny any) (bool, error) {
		lesson := lessonAny.(*model.Lesson)
		room := roomAny.(*model.Room)

		return room.Capacity >= lesson.StudentGroupCapacity, nil
	}

	// Transform lessons and rooms to slices of any
	lessonsAny := lo.Map(lessons, func(lesson *model.Lesson, _ int) any { return lesson })
	roomsAny := lo.Map(rooms, func(room *model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(lessonsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(lessons) {
		return nil, unassignableError{}
	}

	assignments := make(map[*model.Lesson]*model.Room, len(matching))
	for _, edge := range matching {
		lessonIndex, roomIndex := edge.Node1, edge.Node2-len(lessons)
		assignments[lessons[lessonIndex]] = rooms[roomIndex]
	}

	return assignments, nil
}
