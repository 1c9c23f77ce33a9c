package model

import "fmt"

// Teacher is an immutable fact keyed by name. Availability and the online
// requirement are derived once from the raw weekly patterns; a timeslot absent
// from the maps means "available" and "no requirement" respectively.
type Teacher struct {
	Name              string
	Availability      map[int]bool
	OnlineRequirement map[int]bool
}

func (teacher *Teacher) IsAvailable(timeslot *Timeslot) bool {
	if teacher.Availability == nil {
		return true
	}
	available, ok := teacher.Availability[timeslot.ID]
	if !ok {
		return true
	}
	return available
}

func (teacher *Teacher) NeedsOnline(timeslot *Timeslot) bool {
	if teacher.OnlineRequirement == nil {
		return false
	}
	return teacher.OnlineRequirement[timeslot.ID]
}

func (teacher *Teacher) String() string {
	return fmt.Sprintf("Teacher(name=%v)", teacher.Name)
}
