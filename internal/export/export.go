// Package export maps a solved timetable onto the university information
// system's record shape and renders the human-readable weekly pivot.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/samber/lo"

	"uniplanner/internal/model"
	"uniplanner/internal/schedule"
)

// Record is one scheduled lesson in the information system's vocabulary
type Record struct {
	AudienceID int    `json:"ID_AUD"`
	DivisionID int    `json:"ID_DIV"`
	ScheduleID int    `json:"ID_SHED"`
	SubjectID  int    `json:"ID_DISC"`
	KindID     int    `json:"ID_STUD"`
	TeacherID  int    `json:"ID_TEACH"`
	PairNumber int    `json:"NUM_PAIR"`
	PairDate   string `json:"DATE_PAIR"`
	Groups     []int  `json:"GROUPS"`
}

// pairWindows maps a period's start minute to the information system's pair
// number. Pairs 7 and 8 exist in the target system even though the weekly grid
// never schedules into them.
var pairWindows = map[int]int{
	8*60 + 30:  1,
	10 * 60:    2,
	11*60 + 30: 3,
	13*60 + 30: 4,
	15 * 60:    5,
	16*60 + 30: 6,
	18 * 60:    7,
	19*60 + 30: 8,
}

// Records translates every assigned lesson of a solved timetable. startMonday
// anchors the weekly grid to concrete dates.
func Records(table *model.TimeTable, startMonday time.Time, scheduleID, divisionID int) ([]Record, error) {
	if startMonday.Weekday() != time.Monday {
		return nil, fmt.Errorf("%v is not a Monday", startMonday.Format(time.DateOnly))
	}

	records := make([]Record, 0, len(table.Lessons))
	for _, lesson := range table.Lessons {
		if lesson.Timeslot == nil || lesson.Room == nil {
			continue
		}

		pair, ok := pairWindows[lesson.Timeslot.StartMinute]
		if !ok {
			return nil, fmt.Errorf("timeslot %v starts outside every known pair window", lesson.Timeslot.ID)
		}

		kind := 2
		if lesson.IsLecture {
			kind = 1
		}

		date := startMonday.AddDate(0, 0, int(lesson.Timeslot.DayOfWeek))
		records = append(records, Record{
			AudienceID: lesson.Room.AuditoryID,
			DivisionID: divisionID,
			ScheduleID: scheduleID,
			SubjectID:  lesson.KseID,
			KindID:     kind,
			TeacherID:  lesson.TeacherID,
			PairNumber: pair,
			PairDate:   date.Format(time.DateOnly),
			Groups:     []int{lesson.StudentGroup.GroupID},
		})
	}

	return records, nil
}

func SaveRecordsJSON(file string, records []Record) error {
	bytes, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0666)
}

var dayOrder = map[string]int{
	"MONDAY":    0,
	"TUESDAY":   1,
	"WEDNESDAY": 2,
	"THURSDAY":  3,
	"FRIDAY":    4,
}

// Pivot renders raw schedule rows as a (day, start time) x room grid. Cell
// text is the row's multi-line lesson description; empty cells stay empty.
func Pivot(rows []schedule.ScheduleRow) [][]string {
	roomNames := lo.Uniq(lo.Map(rows, func(row schedule.ScheduleRow, _ int) string {
		return row.Room
	}))
	sort.Strings(roomNames)

	type slotKey struct {
		day   string
		start string
	}
	cells := make(map[slotKey]map[string]string)
	for _, row := range rows {
		key := slotKey{day: row.Day, start: row.StartTime}
		if cells[key] == nil {
			cells[key] = make(map[string]string)
		}
		cells[key][row.Room] = row.Text
	}

	keys := lo.Keys(cells)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return dayOrder[keys[i].day] < dayOrder[keys[j].day]
		}
		return keys[i].start < keys[j].start
	})

	pivot := make([][]string, 0, len(keys)+1)
	header := append([]string{"day", "start_time"}, roomNames...)
	pivot = append(pivot, header)

	for _, key := range keys {
		line := []string{key.day, key.start}
		for _, room := range roomNames {
			line = append(line, cells[key][room])
		}
		pivot = append(pivot, line)
	}

	return pivot
}

// SavePivotCSV writes the pivot grid; the column set depends on the rooms in
// use, so this cannot go through struct tags
func SavePivotCSV(file string, rows []schedule.ScheduleRow) error {
	handle, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create pivot file: %w", err)
	}
	defer handle.Close()

	writer := csv.NewWriter(handle)
	if err := writer.WriteAll(Pivot(rows)); err != nil {
		return fmt.Errorf("cannot write %v: %w", file, err)
	}
	return nil
}
