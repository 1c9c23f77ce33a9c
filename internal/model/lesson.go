package model

import "fmt"

// Lesson is the sole decision entity. Timeslot and Room are its two decision
// variables: nil until the solver assigns them. IdealTimeslotID and IdealRoomID
// are either both set (IsFixed) or both unset; ForbiddenTimeslots is non-empty
// only for the one lesson under active rescheduling.
type Lesson struct {
	ID                   int // dense, 0-based, stable per solve
	LessonID             int // external id, stable across sessions
	KseID                int // source-row id, pre-expansion
	Subject              string
	Teacher              *Teacher
	TeacherID            int
	IsLecture            bool
	StudentGroup         *StudentGroup
	StudentGroupCapacity int
	IsOnline             bool

	Timeslot *Timeslot
	Room     *Room

	IdealTimeslotID    int
	IdealRoomID        int
	ForbiddenTimeslots map[int]bool
	IsFixed            bool
	IsPinned           bool
}

func (lesson *Lesson) Forbidden(timeslot *Timeslot) bool {
	if lesson.ForbiddenTimeslots == nil {
		return false
	}
	return lesson.ForbiddenTimeslots[timeslot.ID]
}

func (lesson *Lesson) String() string {
	timeslot, room := "none", "none"
	if lesson.Timeslot != nil {
		timeslot = lesson.Timeslot.String()
	}
	if lesson.Room != nil {
		room = lesson.Room.String()
	}
	return fmt.Sprintf("Lesson(id=%v, subject=%v, teacher=%v, group=%v, timeslot=%v, room=%v)", lesson.ID, lesson.Subject, lesson.Teacher.Name, lesson.StudentGroup.Name, timeslot, room)
}
