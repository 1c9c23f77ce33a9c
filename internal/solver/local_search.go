package solver

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"uniplanner/internal/model"
)

const (
	startingTemperature = 2.0
	minimumTemperature  = 0.01
	coolingRate         = 0.999
	repairInterval      = 64
)

type localSearchSolver struct {
	rng *rand.Rand
}

func newLocalSearchSolver(seed int64) *localSearchSolver {
	return &localSearchSolver{
		rng: rand.New(rand.NewSource(seed)),
	}
}

type slotRoom struct {
	timeslot *model.Timeslot
	room     *model.Room
}

func (solver *localSearchSolver) Solve(table *model.TimeTable, rules model.RuleSet, budget time.Duration) (Result, error) {
	if len(table.Lessons) == 0 {
		return Result{}, errors.New("cannot solve an empty lesson list")
	} else if len(table.Timeslots) == 0 {
		return Result{}, errors.New("cannot solve without timeslots")
	}

	deadline := time.Now().Add(budget)

	//** Construction phase: fixed lessons start at their ideal slot, the rest greedily
	solver.construct(table, rules)

	//** Local-search phase: annealed random moves plus periodic room repair
	penalty := rules.Penalty(table)
	best, bestPenalty := snapshot(table), penalty
	temperature := startingTemperature

	movable := movableLessons(table)

	for iteration := 0; penalty < 0 && time.Now().Before(deadline) && len(movable) > 0; iteration++ {
		if iteration%repairInterval == 0 {
			if repaired := solver.repairRooms(table, rules, penalty); repaired > penalty {
				penalty = repaired
			}
		}

		lesson := movable[solver.rng.Intn(len(movable))]
		previous := slotRoom{lesson.Timeslot, lesson.Room}

		lesson.Timeslot = table.Timeslots[solver.rng.Intn(len(table.Timeslots))]
		if len(table.Rooms) > 0 {
			lesson.Room = table.Rooms[solver.rng.Intn(len(table.Rooms))]
		}

		candidate := rules.Penalty(table)
		delta := candidate - penalty

		if delta >= 0 || solver.rng.Float64() < math.Exp(float64(delta)/temperature) {
			penalty = candidate
		} else {
			lesson.Timeslot, lesson.Room = previous.timeslot, previous.room
		}

		if penalty > bestPenalty {
			best, bestPenalty = snapshot(table), penalty
		}

		if temperature > minimumTemperature {
			temperature *= coolingRate
		}
	}

	restore(table, best)

	score, explanation := rules.Evaluate(table)
	table.Score = &score

	return Result{Score: score, Explanation: explanation}, nil
}

// construct assigns every unassigned lesson to its cheapest (timeslot, room)
// pair given the lessons placed so far. Fixed lessons are seeded at their ideal
// slot first, since any other placement is penalized anyway.
func (solver *localSearchSolver) construct(table *model.TimeTable, rules model.RuleSet) {
	roomsByID := make(map[int]*model.Room, len(table.Rooms))
	for _, room := range table.Rooms {
		roomsByID[room.ID] = room
	}
	timeslotsByID := make(map[int]*model.Timeslot, len(table.Timeslots))
	for _, timeslot := range table.Timeslots {
		timeslotsByID[timeslot.ID] = timeslot
	}

	for _, lesson := range table.Lessons {
		if lesson.IsPinned || lesson.Timeslot != nil {
			continue
		}

		if lesson.IsFixed {
			if timeslot, ok := timeslotsByID[lesson.IdealTimeslotID]; ok {
				lesson.Timeslot = timeslot
				lesson.Room = roomsByID[lesson.IdealRoomID]
				continue
			}
		}

		bestPenalty := math.MinInt
		var bestChoice slotRoom
		for _, timeslot := range table.Timeslots {
			lesson.Timeslot = timeslot
			if len(table.Rooms) == 0 {
				if penalty := rules.LessonPenalty(table, lesson); penalty > bestPenalty {
					bestPenalty, bestChoice = penalty, slotRoom{timeslot, nil}
				}
				continue
			}
			for _, room := range table.Rooms {
				lesson.Room = room
				if penalty := rules.LessonPenalty(table, lesson); penalty > bestPenalty {
					bestPenalty, bestChoice = penalty, slotRoom{timeslot, room}
				}
			}
		}
		lesson.Timeslot, lesson.Room = bestChoice.timeslot, bestChoice.room
	}
}

func movableLessons(table *model.TimeTable) []*model.Lesson {
	movable := make([]*model.Lesson, 0, len(table.Lessons))
	for _, lesson := range table.Lessons {
		if !lesson.IsPinned {
			movable = append(movable, lesson)
		}
	}
	return movable
}

func snapshot(table *model.TimeTable) []slotRoom {
	assignments := make([]slotRoom, len(table.Lessons))
	for i, lesson := range table.Lessons {
		assignments[i] = slotRoom{lesson.Timeslot, lesson.Room}
	}
	return assignments
}

func restore(table *model.TimeTable, assignments []slotRoom) {
	for i, lesson := range table.Lessons {
		lesson.Timeslot = assignments[i].timeslot
		lesson.Room = assignments[i].room
	}
}
