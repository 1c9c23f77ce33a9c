package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uniplanner/internal/model"
)

func TestRowsFromSolution(t *testing.T) {
	// Arrange
	timeslots := model.NewWeeklyTimeslots()
	room := &model.Room{ID: 0, AuditoryID: 101, Name: "101_Main", Capacity: 40}
	table := &model.TimeTable{
		Timeslots: timeslots,
		Rooms:     []*model.Room{room},
		Lessons: []*model.Lesson{
			{
				ID:           0,
				LessonID:     3,
				Subject:      "Math",
				Teacher:      &model.Teacher{Name: "Alice Smith Senior"},
				StudentGroup: &model.StudentGroup{ID: 0, Name: "A"},
				Timeslot:     timeslots[7],
				Room:         room,
			},
			{
				ID:           1,
				LessonID:     4,
				Subject:      "Physics",
				Teacher:      &model.Teacher{Name: "Bob Jones"},
				StudentGroup: &model.StudentGroup{ID: 1, Name: "B"},
			},
		},
	}

	// Act
	rows := RowsFromSolution(table)

	// Assert: the unassigned lesson is skipped, names are denormalized
	assert.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 3, row.LessonID)
	assert.Equal(t, 7, row.TimeslotID)
	assert.Equal(t, 0, row.RoomID)
	assert.Equal(t, "TUESDAY", row.Day)
	assert.Equal(t, "10:00", row.StartTime)
	assert.Equal(t, "101_Main [40]", row.Room)
	assert.Equal(t, "Alice Smith", row.Teacher)
	assert.Equal(t, "Math\nA\nAlice Smith\n[0]", row.Text)
}

func TestRecordsFromRows(t *testing.T) {
	// Act
	records := RecordsFromRows(testRows())

	// Assert
	assert.Len(t, records, 3)
	assert.Equal(t, SlotRef{TimeslotID: 7, RoomID: 0}, records[1])
	assert.Equal(t, SlotRef{TimeslotID: 8, RoomID: 0}, records[2])
}
