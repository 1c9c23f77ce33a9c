package model

import "fmt"

type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayNames = map[DayOfWeek]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
}

func (day DayOfWeek) String() string {
	return dayNames[day]
}

// Timeslot is an immutable fact: one period of the fixed weekly grid. Ids are
// dense and consistent with day-then-period order.
type Timeslot struct {
	ID          int
	DayOfWeek   DayOfWeek
	StartMinute int // minutes since midnight
	EndMinute   int
}

func (timeslot *Timeslot) StartClock() string {
	return fmt.Sprintf("%02d:%02d", timeslot.StartMinute/60, timeslot.StartMinute%60)
}

func (timeslot *Timeslot) EndClock() string {
	return fmt.Sprintf("%02d:%02d", timeslot.EndMinute/60, timeslot.EndMinute%60)
}

func (timeslot *Timeslot) String() string {
	return fmt.Sprintf("Timeslot(id=%v, day_of_week=%v, start_time=%v, end_time=%v)", timeslot.ID, timeslot.DayOfWeek, timeslot.StartClock(), timeslot.EndClock())
}

// periodsPerDay is the fixed calendar template: six pairs per day
var periodsPerDay = [][2]int{
	{8*60 + 30, 9*60 + 50},
	{10 * 60, 11*60 + 20},
	{11*60 + 30, 12*60 + 50},
	{13*60 + 30, 14*60 + 50},
	{15 * 60, 16*60 + 20},
	{16*60 + 30, 17*60 + 50},
}

// NewWeeklyTimeslots builds the full weekly grid (5 days x 6 periods) with dense ids
func NewWeeklyTimeslots() []*Timeslot {
	timeslots := make([]*Timeslot, 0, 5*len(periodsPerDay))

	id := 0
	for day := Monday; day <= Friday; day++ {
		for _, period := range periodsPerDay {
			timeslots = append(timeslots, &Timeslot{
				ID:          id,
				DayOfWeek:   day,
				StartMinute: period[0],
				EndMinute:   period[1],
			})
			id++
		}
	}

	return timeslots
}
