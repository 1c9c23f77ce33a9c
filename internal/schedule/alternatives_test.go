package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"uniplanner/internal/solver"
)

// testRows is a feasible committed schedule for testDataset: the pinned lecture
// at the first slot, its practice on Tuesday morning and the physics lesson
// right after
func testRows() []ScheduleRow {
	return []ScheduleRow{
		{Room: "101_Main [40]", StudentGroup: "A", Subject: "Math", Teacher: "Alice Smith", Day: "MONDAY", StartTime: "08:30", LessonID: 0, RoomID: 0, TimeslotID: 0},
		{Room: "101_Main [40]", StudentGroup: "A", Subject: "Math", Teacher: "Alice Smith", Day: "TUESDAY", StartTime: "10:00", LessonID: 1, RoomID: 0, TimeslotID: 7},
		{Room: "101_Main [40]", StudentGroup: "B", Subject: "Physics", Teacher: "Bob Jones", Day: "TUESDAY", StartTime: "11:30", LessonID: 2, RoomID: 0, TimeslotID: 8},
	}
}

func TestRescheduleSessionFindsAlternatives(t *testing.T) {
	// Arrange
	rows := testRows()
	builder := testBuilder(testDataset(), RecordsFromRows(rows))
	session := NewRescheduleSession(builder, solver.NewSeededSolver(5), 1, 7, 500*time.Millisecond, zap.NewNop())

	// Act
	found, err := session.Run(15 * time.Second)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, found)

	forbidden := session.Forbidden()
	assert.True(t, forbidden[7], "the current timeslot is forbidden from the start")
	assert.Len(t, forbidden, len(found)+1)

	seen := map[int]bool{7: true}
	for _, alternative := range found {
		// Every accepted slot joins the forbidden set and is never offered again
		assert.False(t, seen[alternative.TimeslotID])
		assert.True(t, forbidden[alternative.TimeslotID])
		seen[alternative.TimeslotID] = true

		// The practice cannot move before its Monday-morning lecture
		assert.Greater(t, alternative.TimeslotID, 0)

		assert.NotEmpty(t, alternative.Day)
		assert.NotEmpty(t, alternative.StartTime)
		assert.Len(t, alternative.Schedule, 3)
	}
}

func TestRescheduleSessionIdentity(t *testing.T) {
	// Arrange
	builder := testBuilder(testDataset(), RecordsFromRows(testRows()))

	// Act
	first := NewRescheduleSession(builder, solver.NewSeededSolver(1), 1, 7, time.Second, zap.NewNop())
	second := NewRescheduleSession(builder, solver.NewSeededSolver(1), 1, 7, time.Second, zap.NewNop())

	// Assert
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestForbiddenReturnsACopy(t *testing.T) {
	// Arrange
	builder := testBuilder(testDataset(), RecordsFromRows(testRows()))
	session := NewRescheduleSession(builder, solver.NewSeededSolver(1), 1, 7, time.Second, zap.NewNop())

	// Act
	leaked := session.Forbidden()
	leaked[25] = true

	// Assert
	assert.False(t, session.Forbidden()[25])
}
