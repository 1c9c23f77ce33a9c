package schedule

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeInputTables(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	tables := map[string]string{
		"audiences.csv": "id,name,capacity,is_shelter_id\n101, Main ,30,1\n102,Online hub,100,2\n103,Basement,25,\n",
		"groups.csv":    "id,name\n11, A\n12,B\n",
		"lessons.csv":   "id,subject,teacher,group,count,format,is_lection\n1, Math ,Alice Smith,A,1,offline,1\n2,Math,Alice Smith,A,2, offline ,0\n3,Physics,Bob Jones,B,1,offline,0\n",
		"teachers.csv":  "name,monday,tuesday,wednesday,thursday,friday\nAlice Smith,,,,,\nBob Jones,0,,online,,10:00-12:50\n",
		"students.csv":  "id,name,Math,Physics\ns1,First Student,A,B\ns2,Second Student,A,\n",
	}
	for name, content := range tables {
		assert.NoError(t, os.WriteFile(path.Join(dir, name), []byte(content), 0666))
	}

	return dir
}

func TestLoadDataset(t *testing.T) {
	// Arrange
	dir := writeInputTables(t)

	// Act
	dataset, err := LoadDataset(dir)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, dataset.Audiences, 3)
	assert.Len(t, dataset.Groups, 2)
	assert.Len(t, dataset.Lessons, 3)
	assert.Len(t, dataset.Teachers, 2)

	// String cells are stripped on the way in
	assert.Equal(t, "Main", dataset.Audiences[0].Name)
	assert.Equal(t, "A", dataset.Groups[0].Name)
	assert.Equal(t, "Math", dataset.Lessons[0].Subject)
	assert.Equal(t, "offline", dataset.Lessons[1].Format)
	assert.Equal(t, 2, dataset.Lessons[1].Count)

	assert.Equal(t, "0", dataset.Teachers[1].Monday)
	assert.Equal(t, "online", dataset.Teachers[1].Wednesday)
	assert.Equal(t, "10:00-12:50", dataset.Teachers[1].Friday)

	assert.Equal(t, []string{"Math", "Physics"}, dataset.Students.Subjects)
	assert.Len(t, dataset.Students.Rows, 2)
	assert.Equal(t, map[string]string{"Math": "A", "Physics": "B"}, dataset.Students.Rows[0].Groups)
	assert.Equal(t, map[string]string{"Math": "A"}, dataset.Students.Rows[1].Groups)
}

func TestLoadDatasetMissingTable(t *testing.T) {
	// Arrange
	dir := writeInputTables(t)
	assert.NoError(t, os.Remove(path.Join(dir, "teachers.csv")))

	// Act
	_, err := LoadDataset(dir)

	// Assert
	assert.Error(t, err)
}

func TestScheduleCSVRoundTrip(t *testing.T) {
	// Arrange
	file := path.Join(t.TempDir(), "raw_schedule.csv")
	rows := []ScheduleRow{
		{Room: "101_Main [40]", StudentGroup: "A", Subject: "Math", Teacher: "Alice Smith", Day: "MONDAY", StartTime: "08:30", Text: "Math\nA\nAlice Smith\n[0]", LessonID: 0, RoomID: 0, TimeslotID: 0, ScheduleID: 0},
		{Room: "101_Main [40]", StudentGroup: "B", Subject: "Physics", Teacher: "Bob Jones", Day: "TUESDAY", StartTime: "10:00", Text: "Physics\nB\nBob Jones\n[1]", LessonID: 1, RoomID: 0, TimeslotID: 7, ScheduleID: 1},
	}

	// Act
	saveErr := SaveScheduleCSV(file, rows)
	loaded, loadErr := LoadScheduleCSV(file)

	// Assert
	assert.NoError(t, saveErr)
	assert.NoError(t, loadErr)
	assert.Equal(t, rows, loaded)
}

func TestRecordsJSONRoundTrip(t *testing.T) {
	// Arrange
	file := path.Join(t.TempDir(), "schedule_data.json")
	records := Records{
		0: {TimeslotID: 0, RoomID: 0},
		1: {TimeslotID: 7, RoomID: 1},
	}

	// Act
	saveErr := SaveRecordsJSON(file, records)
	loaded, loadErr := LoadRecordsJSON(file)

	// Assert
	assert.NoError(t, saveErr)
	assert.NoError(t, loadErr)
	assert.Equal(t, records, loaded)
}
