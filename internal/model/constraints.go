package model

// Weights holds the tunable hard penalty weights of the preference rules. The
// core conflict rules always weigh 1.
type Weights struct {
	IdealTimeslot     int
	IdealRoom         int
	ForbiddenTimeslot int
}

func DefaultWeights() Weights {
	return Weights{
		IdealTimeslot:     10,
		IdealRoom:         1,
		ForbiddenTimeslot: 20,
	}
}

// Context carries the derived data the predicates need. It is immutable for
// the lifetime of a rule set; in particular the group-intersection relation is
// injected here instead of living in process-wide state.
type Context struct {
	Intersections GroupIntersections
}

// Rule is one entry of the flat rule table: a named hard predicate over a
// single lesson or an ordered pair of lessons (lesson1.ID < lesson2.ID). A
// replacement solver only needs to evaluate this table against a candidate
// assignment and sum the per-rule violation counts.
type Rule struct {
	Name   string
	Weight int
	Unary  func(ctx Context, lesson *Lesson) bool
	Pair   func(ctx Context, lesson1, lesson2 *Lesson) bool
}

type RuleSet struct {
	Context Context
	Rules   []Rule
}

func NewRuleSet(intersections GroupIntersections, weights Weights) RuleSet {
	return RuleSet{
		Context: Context{Intersections: intersections},
		Rules: []Rule{
			{Name: "Room conflict", Weight: 1, Pair: roomConflict},
			{Name: "Teacher conflict", Weight: 1, Pair: teacherConflict},
			{Name: "Student group conflict", Weight: 1, Pair: studentGroupConflict},
			{Name: "Room capacity conflict", Weight: 1, Unary: roomCapacityConflict},
			{Name: "Teacher availability conflict", Weight: 1, Unary: teacherAvailabilityConflict},
			{Name: "Student conflict", Weight: 1, Pair: studentConflict},
			{Name: "Room online offline conflict", Weight: 1, Unary: roomOnlineOfflineConflict},
			{Name: "Lecture before practice conflict", Weight: 1, Pair: lectureOrderConflict},
			{Name: "Lesson not in ideal timeslot", Weight: weights.IdealTimeslot, Unary: notInIdealTimeslot},
			{Name: "Lesson not in ideal room", Weight: weights.IdealRoom, Unary: notInIdealRoom},
			{Name: "Lesson in forbidden timeslot", Weight: weights.ForbiddenTimeslot, Unary: inForbiddenTimeslot},
		},
	}
}

func sameTimeslot(lesson1, lesson2 *Lesson) bool {
	return lesson1.Timeslot != nil && lesson2.Timeslot != nil && lesson1.Timeslot.ID == lesson2.Timeslot.ID
}

// A non-online room can accommodate at most one lesson at the same time
func roomConflict(_ Context, lesson1, lesson2 *Lesson) bool {
	if lesson1.IsOnline || lesson2.IsOnline {
		return false
	}
	if lesson1.Room == nil || lesson2.Room == nil || lesson1.Room.ID != lesson2.Room.ID {
		return false
	}
	if lesson1.Room.IsOnline {
		return false
	}
	return sameTimeslot(lesson1, lesson2)
}

// A teacher can teach at most one lesson at the same time
func teacherConflict(_ Context, lesson1, lesson2 *Lesson) bool {
	return sameTimeslot(lesson1, lesson2) && lesson1.Teacher.Name == lesson2.Teacher.Name
}

// A student group can attend at most one lesson at the same time
func studentGroupConflict(_ Context, lesson1, lesson2 *Lesson) bool {
	return sameTimeslot(lesson1, lesson2) && lesson1.StudentGroup.ID == lesson2.StudentGroup.ID
}

// A room must be able to host the whole student group
func roomCapacityConflict(_ Context, lesson *Lesson) bool {
	return lesson.Room != nil && lesson.Room.Capacity < lesson.StudentGroupCapacity
}

// A lesson can only be scheduled in a timeslot its teacher is available at
func teacherAvailabilityConflict(_ Context, lesson *Lesson) bool {
	return lesson.Timeslot != nil && !lesson.Teacher.IsAvailable(lesson.Timeslot)
}

// Students belonging to intersecting groups cannot attend lessons at the same time
func studentConflict(ctx Context, lesson1, lesson2 *Lesson) bool {
	if !sameTimeslot(lesson1, lesson2) {
		return false
	}
	return ctx.Intersections.Intersects(lesson1.StudentGroup.Name, lesson2.StudentGroup.Name)
}

// Online lessons need online rooms; offline lessons need offline rooms unless
// the teacher requires an online room at that timeslot
func roomOnlineOfflineConflict(_ Context, lesson *Lesson) bool {
	if lesson.Room == nil || lesson.Timeslot == nil {
		return false
	}
	needsOnline := lesson.Teacher.NeedsOnline(lesson.Timeslot)
	return (lesson.IsOnline && !lesson.Room.IsOnline) ||
		(!lesson.IsOnline && lesson.Room.IsOnline && !needsOnline) ||
		(!lesson.IsOnline && !lesson.Room.IsOnline && needsOnline)
}

// A subject's lecture must be scheduled strictly before its practice
func lectureOrderConflict(_ Context, lesson1, lesson2 *Lesson) bool {
	if lesson1.Subject != lesson2.Subject || lesson1.IsLecture == lesson2.IsLecture {
		return false
	}
	lecture, practice := lesson1, lesson2
	if lesson2.IsLecture {
		lecture, practice = lesson2, lesson1
	}
	if lecture.Timeslot == nil || practice.Timeslot == nil {
		return false
	}
	return lecture.Timeslot.ID >= practice.Timeslot.ID
}

// A fixed lesson should stay in the timeslot it was committed to
func notInIdealTimeslot(_ Context, lesson *Lesson) bool {
	return lesson.IsFixed && lesson.Timeslot != nil && lesson.Timeslot.ID != lesson.IdealTimeslotID
}

// A fixed lesson should stay in the room it was committed to
func notInIdealRoom(_ Context, lesson *Lesson) bool {
	return lesson.IsFixed && lesson.Room != nil && lesson.Room.ID != lesson.IdealRoomID
}

// The lesson under rescheduling must avoid every timeslot already offered
func inForbiddenTimeslot(_ Context, lesson *Lesson) bool {
	return lesson.Timeslot != nil && lesson.Forbidden(lesson.Timeslot)
}
