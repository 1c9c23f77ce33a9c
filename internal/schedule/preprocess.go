package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"uniplanner/internal/model"
)

// derivedData is everything the problem builder precomputes exactly once:
// adjusted rooms, parsed teacher availability, group headcounts and ids, the
// group-intersection relation and the expanded lesson rows.
type derivedData struct {
	rooms         []*model.Room
	teachers      map[string]*model.Teacher
	teacherIDs    map[string]int
	headcounts    map[string]int
	groupIDs      map[string]int
	externalIDs   map[string]int
	intersections model.GroupIntersections
	lessons       []*LessonRecord
	warnings      []string
}

func preprocess(dataset *Dataset, timeslots []*model.Timeslot, capacitySlack int) *derivedData {
	derived := &derivedData{
		teachers:    make(map[string]*model.Teacher),
		teacherIDs:  make(map[string]int),
		headcounts:  make(map[string]int),
		groupIDs:    make(map[string]int),
		externalIDs: make(map[string]int),
		warnings:    make([]string, 0),
	}

	derived.rooms = buildRooms(dataset.Audiences, capacitySlack)
	derived.intersections = groupIntersections(dataset.Students)

	for _, record := range dataset.Groups {
		derived.externalIDs[record.Name] = record.ID
	}

	//** Group headcounts and dense ids, in first-seen column order
	for _, subject := range dataset.Students.Subjects {
		for _, row := range dataset.Students.Rows {
			group, ok := row.Groups[subject]
			if !ok {
				continue
			}
			if _, seen := derived.headcounts[group]; !seen {
				derived.groupIDs[group] = len(derived.groupIDs)
			}
			derived.headcounts[group]++
		}
	}

	//** Teacher availability, one full-grid map per teacher
	for i, record := range dataset.Teachers {
		teacher, warnings := parseTeacher(record, timeslots)
		derived.teachers[record.Name] = teacher
		derived.teacherIDs[record.Name] = i
		derived.warnings = append(derived.warnings, warnings...)
	}

	//** Lesson expansion: count > 1 becomes count independent rows, external ids
	//** assigned post-expansion, rows with an unknown group headcount dropped
	expanded := make([]*LessonRecord, 0, len(dataset.Lessons))
	for _, record := range dataset.Lessons {
		count := max(record.Count, 1)
		for range count {
			replica := *record
			replica.SourceID = record.ID
			expanded = append(expanded, &replica)
		}
	}

	dropped := make([]string, 0)
	for id, record := range expanded {
		record.ID, record.Count = id, 1
		if _, ok := derived.headcounts[record.Group]; !ok {
			if !lo.Contains(dropped, record.Group) {
				dropped = append(dropped, record.Group)
			}
			continue
		}
		derived.lessons = append(derived.lessons, record)
	}
	if len(dropped) > 0 {
		derived.warnings = append(derived.warnings, fmt.Sprintf("these groups have no known headcount, their lessons were dropped: %v", strings.Join(dropped, ", ")))
	}

	return derived
}

func buildRooms(audiences []*AudienceRecord, capacitySlack int) []*model.Room {
	rooms := make([]*model.Room, 0, len(audiences))
	for _, audience := range audiences {
		if audience.ShelterID == "" {
			continue
		}
		name := fmt.Sprintf("%v_%v", audience.ID, audience.Name)
		rooms = append(rooms, &model.Room{
			ID:         len(rooms),
			AuditoryID: audience.ID,
			Name:       name,
			IsOnline:   strings.Contains(strings.ToLower(audience.Name), "online"),
			Capacity:   audience.Capacity + capacitySlack,
		})
	}
	return rooms
}

// groupIntersections relates every group to the groups it shares a student
// with across other subjects. Stored one-directionally, queried both ways.
func groupIntersections(students *StudentTable) model.GroupIntersections {
	intersections := make(model.GroupIntersections)
	for _, row := range students.Rows {
		for subject, group := range row.Groups {
			for otherSubject, otherGroup := range row.Groups {
				if subject == otherSubject {
					continue
				}
				if intersections[group] == nil {
					intersections[group] = make(map[string]bool)
				}
				intersections[group][otherGroup] = true
			}
		}
	}
	return intersections
}

func parseTeacher(record *TeacherRecord, timeslots []*model.Timeslot) (*model.Teacher, []string) {
	teacher := &model.Teacher{
		Name:              record.Name,
		Availability:      make(map[int]bool),
		OnlineRequirement: make(map[int]bool),
	}
	warnings := make([]string, 0)

	cells := map[model.DayOfWeek]string{
		model.Monday:    record.Monday,
		model.Tuesday:   record.Tuesday,
		model.Wednesday: record.Wednesday,
		model.Thursday:  record.Thursday,
		model.Friday:    record.Friday,
	}

	slotsPerDay := lo.GroupBy(timeslots, func(timeslot *model.Timeslot) model.DayOfWeek {
		return timeslot.DayOfWeek
	})

	for day, slots := range slotsPerDay {
		cell := strings.ToLower(strings.TrimSpace(cells[day]))

		switch cell {
		case "", "1": // Unconstrained days default to available
			for _, slot := range slots {
				teacher.Availability[slot.ID] = true
			}
		case "0":
			for _, slot := range slots {
				teacher.Availability[slot.ID] = false
			}
		case "online":
			for _, slot := range slots {
				teacher.Availability[slot.ID] = true
				teacher.OnlineRequirement[slot.ID] = true
			}
		default:
			available, err := parseRanges(cell, slots)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("teacher %q has an unparseable %v pattern %q, treating the day as available: %v", record.Name, day, cell, err))
				for _, slot := range slots {
					teacher.Availability[slot.ID] = true
				}
				continue
			}
			for _, slot := range slots {
				teacher.Availability[slot.ID] = available[slot.ID]
			}
		}
	}

	return teacher, warnings
}

// parseRanges marks available every timeslot fully contained in one of the
// comma-separated "HH:MM-HH:MM" ranges
func parseRanges(cell string, slots []*model.Timeslot) (map[int]bool, error) {
	available := make(map[int]bool, len(slots))
	for _, slot := range slots {
		available[slot.ID] = false
	}

	for _, timeRange := range strings.Split(cell, ",") {
		timeRange = strings.ReplaceAll(timeRange, " ", "")
		bounds := strings.Split(timeRange, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("%q is not a time range", timeRange)
		}

		start, err := parseClock(bounds[0])
		if err != nil {
			return nil, err
		}
		end, err := parseClock(bounds[1])
		if err != nil {
			return nil, err
		}

		for _, slot := range slots {
			if slot.StartMinute >= start && slot.EndMinute <= end {
				available[slot.ID] = true
			}
		}
	}

	return available, nil
}

func parseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%q is not a HH:MM time", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a HH:MM time", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not a HH:MM time", clock)
	}
	return hours*60 + minutes, nil
}
