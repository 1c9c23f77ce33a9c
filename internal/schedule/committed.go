package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mitchellh/mapstructure"

	"uniplanner/internal/model"
)

// ScheduleRow is one row of the raw schedule, the shape that round-trips
// between sessions as CSV
type ScheduleRow struct {
	Room         string `csv:"room"`
	StudentGroup string `csv:"student_group"`
	Subject      string `csv:"subject"`
	Teacher      string `csv:"teacher"`
	Day          string `csv:"day"`
	StartTime    string `csv:"start_time"`
	Text         string `csv:"text"`
	LessonID     int    `csv:"lesson_id"`
	RoomID       int    `csv:"room_id"`
	TimeslotID   int    `csv:"time_slot_id"`
	ScheduleID   int    `csv:"schedule_id"`
}

// SlotRef is a committed (timeslot, room) pair for one lesson
type SlotRef struct {
	TimeslotID int `json:"time_slot_id" mapstructure:"time_slot_id"`
	RoomID     int `json:"room_id" mapstructure:"room_id"`
}

// Records maps a lesson's external id to its committed slot. This is the sole
// state needed to reconstruct fixed lessons across runs.
type Records map[int]SlotRef

// RowsFromSolution flattens a solved timetable into raw schedule rows
func RowsFromSolution(table *model.TimeTable) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(table.Lessons))
	for num, lesson := range table.Lessons {
		if lesson.Timeslot == nil || lesson.Room == nil {
			continue
		}
		teacher := shortName(lesson.Teacher.Name)
		row := ScheduleRow{
			Room:         fmt.Sprintf("%v [%v]", lesson.Room.Name, lesson.Room.Capacity),
			StudentGroup: lesson.StudentGroup.Name,
			Subject:      lesson.Subject,
			Teacher:      teacher,
			Day:          lesson.Timeslot.DayOfWeek.String(),
			StartTime:    lesson.Timeslot.StartClock(),
			LessonID:     lesson.LessonID,
			RoomID:       lesson.Room.ID,
			TimeslotID:   lesson.Timeslot.ID,
			ScheduleID:   num,
		}
		row.Text = fmt.Sprintf("%v\n%v\n%v\n[%v]", row.Subject, row.StudentGroup, row.Teacher, row.ScheduleID)
		rows = append(rows, row)
	}
	return rows
}

// RecordsFromRows extracts the persisted committed-slot state from raw rows
func RecordsFromRows(rows []ScheduleRow) Records {
	records := make(Records, len(rows))
	for _, row := range rows {
		records[row.LessonID] = SlotRef{TimeslotID: row.TimeslotID, RoomID: row.RoomID}
	}
	return records
}

func LoadScheduleCSV(file string) ([]ScheduleRow, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open schedule file: %w", err)
	}
	defer handle.Close()

	rows := []ScheduleRow{}
	if err := gocsv.UnmarshalFile(handle, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %w", file, err)
	}
	return rows, nil
}

func SaveScheduleCSV(file string, rows []ScheduleRow) error {
	handle, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create schedule file: %w", err)
	}
	defer handle.Close()

	if err := gocsv.MarshalFile(&rows, handle); err != nil {
		return fmt.Errorf("cannot write %v: %w", file, err)
	}
	return nil
}

// LoadRecordsJSON reads committed-slot records from their JSON form, keyed by
// the lesson external id
func LoadRecordsJSON(file string) (Records, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read records file: %w", err)
	}

	var recordsJson map[string]any
	if err := json.Unmarshal(bytes, &recordsJson); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %w", file, err)
	}

	records := make(Records, len(recordsJson))
	for key, value := range recordsJson {
		lessonID, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid lesson id %q in %v", key, file)
		}
		var slot SlotRef
		if err := mapstructure.Decode(value, &slot); err != nil {
			return nil, fmt.Errorf("cannot decode record %q: %w", key, err)
		}
		records[lessonID] = slot
	}

	return records, nil
}

func SaveRecordsJSON(file string, records Records) error {
	recordsJson := make(map[string]SlotRef, len(records))
	for lessonID, slot := range records {
		recordsJson[strconv.Itoa(lessonID)] = slot
	}

	bytes, err := json.MarshalIndent(recordsJson, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0666)
}

// shortName keeps the first two words of a full teacher name
func shortName(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
