package schedule

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/gocarina/gocsv"
)

type AudienceRecord struct {
	ID        int    `csv:"id"`
	Name      string `csv:"name"`
	Capacity  int    `csv:"capacity"`
	ShelterID string `csv:"is_shelter_id"`
}

type GroupRecord struct {
	ID   int    `csv:"id"`
	Name string `csv:"name"`
}

type LessonRecord struct {
	ID        int    `csv:"id"`
	Subject   string `csv:"subject"`
	Teacher   string `csv:"teacher"`
	Group     string `csv:"group"`
	Count     int    `csv:"count"`
	Format    string `csv:"format"`
	IsLection int    `csv:"is_lection"`

	// SourceID keeps the pre-expansion row id once replicated rows get fresh
	// dense ids
	SourceID int `csv:"-"`
}

// TeacherRecord holds one row of teachers.csv. Each weekday cell is either
// "1"/blank (fully available), "0" (unavailable), "online" (available all day
// and requires an online room) or a list of "HH:MM-HH:MM" ranges.
type TeacherRecord struct {
	Name      string `csv:"name"`
	Monday    string `csv:"monday"`
	Tuesday   string `csv:"tuesday"`
	Wednesday string `csv:"wednesday"`
	Thursday  string `csv:"thursday"`
	Friday    string `csv:"friday"`
}

// StudentRow maps a student to their group per subject
type StudentRow struct {
	ID     string
	Name   string
	Groups map[string]string
}

// StudentTable holds students.csv, whose per-subject columns are dynamic and
// therefore parsed by hand rather than through tagged records.
type StudentTable struct {
	Subjects []string
	Rows     []StudentRow
}

type Dataset struct {
	Audiences []*AudienceRecord
	Groups    []*GroupRecord
	Lessons   []*LessonRecord
	Teachers  []*TeacherRecord
	Students  *StudentTable
}

// LoadDataset reads the five tabular inputs from dir. String cells are
// whitespace-stripped on the way in.
func LoadDataset(dir string) (*Dataset, error) {
	dataset := &Dataset{}

	if err := loadRecords(path.Join(dir, "audiences.csv"), &dataset.Audiences); err != nil {
		return nil, err
	}
	if err := loadRecords(path.Join(dir, "groups.csv"), &dataset.Groups); err != nil {
		return nil, err
	}
	if err := loadRecords(path.Join(dir, "lessons.csv"), &dataset.Lessons); err != nil {
		return nil, err
	}
	if err := loadRecords(path.Join(dir, "teachers.csv"), &dataset.Teachers); err != nil {
		return nil, err
	}

	students, err := loadStudents(path.Join(dir, "students.csv"))
	if err != nil {
		return nil, err
	}
	dataset.Students = students

	for _, audience := range dataset.Audiences {
		audience.Name = strings.TrimSpace(audience.Name)
		audience.ShelterID = strings.TrimSpace(audience.ShelterID)
	}
	for _, group := range dataset.Groups {
		group.Name = strings.TrimSpace(group.Name)
	}
	for _, lesson := range dataset.Lessons {
		lesson.Subject = strings.TrimSpace(lesson.Subject)
		lesson.Teacher = strings.TrimSpace(lesson.Teacher)
		lesson.Group = strings.TrimSpace(lesson.Group)
		lesson.Format = strings.TrimSpace(lesson.Format)
	}
	for _, teacher := range dataset.Teachers {
		teacher.Name = strings.TrimSpace(teacher.Name)
	}

	return dataset, nil
}

func loadRecords(file string, out any) error {
	handle, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("cannot open input table: %w", err)
	}
	defer handle.Close()

	if err := gocsv.UnmarshalFile(handle, out); err != nil {
		return fmt.Errorf("cannot parse %v: %w", file, err)
	}
	return nil
}

func loadStudents(file string) (*StudentTable, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open input table: %w", err)
	}
	defer handle.Close()

	reader := csv.NewReader(handle)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse %v: %w", file, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%v has no header row", file)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%v must have id and name columns followed by subject columns", file)
	}

	table := &StudentTable{
		Subjects: make([]string, 0, len(header)-2),
		Rows:     make([]StudentRow, 0, len(rows)-1),
	}
	for _, subject := range header[2:] {
		table.Subjects = append(table.Subjects, strings.TrimSpace(subject))
	}

	for _, row := range rows[1:] {
		studentRow := StudentRow{
			ID:     strings.TrimSpace(row[0]),
			Name:   strings.TrimSpace(row[1]),
			Groups: make(map[string]string),
		}
		for i, subject := range table.Subjects {
			if i+2 >= len(row) {
				break
			}
			group := strings.TrimSpace(row[i+2])
			if group != "" {
				studentRow.Groups[subject] = group
			}
		}
		table.Rows = append(table.Rows, studentRow)
	}

	return table, nil
}
