package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func testTeacher(name string) *Teacher {
	return &Teacher{Name: name}
}

func testGroup(id int, name string) *StudentGroup {
	return &StudentGroup{ID: id, GroupID: 100 + id, Name: name, StudentsCount: 20}
}

func evaluate(lessons []*Lesson, intersections GroupIntersections) (Score, Explanation) {
	table := &TimeTable{Timeslots: NewWeeklyTimeslots(), Lessons: lessons}
	rules := NewRuleSet(intersections, DefaultWeights())
	return rules.Evaluate(table)
}

func matchedRules(explanation Explanation) []string {
	return lo.Map(explanation.RuleMatches, func(match RuleMatch, _ int) string {
		return match.RuleName
	})
}

func TestRoomConflict(t *testing.T) {
	timeslots := NewWeeklyTimeslots()
	room := &Room{ID: 0, Name: "main", Capacity: 40}
	onlineRoom := &Room{ID: 1, Name: "online", IsOnline: true, Capacity: 500}

	t.Run("two offline lessons sharing a room and timeslot", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[3], Room: room},
			{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[3], Room: room},
		}

		// Act
		score, explanation := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.Equal(t, -1, score.Hard)
		assert.Contains(t, matchedRules(explanation), "Room conflict")
	})

	t.Run("online platform rooms are not exclusive", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), IsOnline: true, Timeslot: timeslots[3], Room: onlineRoom},
			{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), IsOnline: true, Timeslot: timeslots[3], Room: onlineRoom},
		}

		// Act
		score, _ := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.True(t, score.Feasible())
	})

	t.Run("distinct timeslots never clash", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[3], Room: room},
			{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[4], Room: room},
		}

		// Act
		score, _ := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.True(t, score.Feasible())
	})
}

func TestTeacherConflict(t *testing.T) {
	// Arrange
	timeslots := NewWeeklyTimeslots()
	teacher := testTeacher("shared")
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: teacher, StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
		{ID: 1, Subject: "b", Teacher: teacher, StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[0], Room: &Room{ID: 1, Capacity: 40}},
	}

	// Act
	score, explanation := evaluate(lessons, GroupIntersections{})

	// Assert
	assert.Equal(t, -1, score.Hard)
	assert.Contains(t, matchedRules(explanation), "Teacher conflict")
}

func TestStudentGroupConflict(t *testing.T) {
	// Arrange
	timeslots := NewWeeklyTimeslots()
	group := testGroup(0, "g0")
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: group, Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
		{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: group, Timeslot: timeslots[0], Room: &Room{ID: 1, Capacity: 40}},
	}

	// Act
	score, explanation := evaluate(lessons, GroupIntersections{})

	// Assert
	assert.Equal(t, -1, score.Hard)
	assert.Contains(t, matchedRules(explanation), "Student group conflict")
}

func TestStudentConflict(t *testing.T) {
	timeslots := NewWeeklyTimeslots()
	intersections := GroupIntersections{"g0": {"g1": true}}

	t.Run("intersecting groups at the same timeslot", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
			{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[0], Room: &Room{ID: 1, Capacity: 40}},
		}

		// Act
		score, explanation := evaluate(lessons, intersections)

		// Assert
		assert.Equal(t, -1, score.Hard)
		assert.Contains(t, matchedRules(explanation), "Student conflict")
	})

	t.Run("the relation is queried both ways", func(t *testing.T) {
		// Arrange: lesson order puts g1 first, the stored direction is g0 -> g1
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
			{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 1, Capacity: 40}},
		}

		// Act
		score, explanation := evaluate(lessons, intersections)

		// Assert
		assert.Equal(t, -1, score.Hard)
		assert.Contains(t, matchedRules(explanation), "Student conflict")
	})
}

func TestRoomCapacityConflict(t *testing.T) {
	// Arrange
	timeslots := NewWeeklyTimeslots()
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), StudentGroupCapacity: 50, Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
	}

	// Act
	score, explanation := evaluate(lessons, GroupIntersections{})

	// Assert
	assert.Equal(t, -1, score.Hard)
	assert.Contains(t, matchedRules(explanation), "Room capacity conflict")
}

func TestTeacherAvailabilityConflict(t *testing.T) {
	// Arrange
	timeslots := NewWeeklyTimeslots()
	teacher := &Teacher{Name: "busy", Availability: map[int]bool{timeslots[0].ID: false}}
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: teacher, StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
	}

	// Act
	score, explanation := evaluate(lessons, GroupIntersections{})

	// Assert
	assert.Equal(t, -1, score.Hard)
	assert.Contains(t, matchedRules(explanation), "Teacher availability conflict")
}

func TestRoomOnlineOfflineConflict(t *testing.T) {
	timeslots := NewWeeklyTimeslots()
	offlineRoom := &Room{ID: 0, Name: "main", Capacity: 40}
	onlineRoom := &Room{ID: 1, Name: "online", IsOnline: true, Capacity: 500}

	scenarios := []struct {
		name       string
		lessonOn   bool
		room       *Room
		teacher    *Teacher
		violations int
	}{
		{"online lesson in an offline room", true, offlineRoom, testTeacher("x"), 1},
		{"offline lesson in an online room", false, onlineRoom, testTeacher("x"), 1},
		{"offline lesson whose teacher needs an online room", false, offlineRoom, &Teacher{Name: "x", OnlineRequirement: map[int]bool{timeslots[0].ID: true}}, 1},
		{"offline lesson in an online room because the teacher needs it", false, onlineRoom, &Teacher{Name: "x", OnlineRequirement: map[int]bool{timeslots[0].ID: true}}, 0},
		{"online lesson in an online room", true, onlineRoom, testTeacher("x"), 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			// Arrange
			lessons := []*Lesson{
				{ID: 0, Subject: "a", Teacher: scenario.teacher, StudentGroup: testGroup(0, "g0"), IsOnline: scenario.lessonOn, Timeslot: timeslots[0], Room: scenario.room},
			}

			// Act
			score, _ := evaluate(lessons, GroupIntersections{})

			// Assert
			assert.Equal(t, -scenario.violations, score.Hard)
		})
	}
}

func TestLectureOrderConflict(t *testing.T) {
	timeslots := NewWeeklyTimeslots()

	t.Run("practice before its lecture", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "math", IsLecture: false, Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
			{ID: 1, Subject: "math", IsLecture: true, Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[5], Room: &Room{ID: 1, Capacity: 40}},
		}

		// Act
		score, explanation := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.Equal(t, -1, score.Hard)
		assert.Contains(t, matchedRules(explanation), "Lecture before practice conflict")
	})

	t.Run("lecture strictly before its practice", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "math", IsLecture: true, Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
			{ID: 1, Subject: "math", IsLecture: false, Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[5], Room: &Room{ID: 1, Capacity: 40}},
		}

		// Act
		score, _ := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.True(t, score.Feasible())
	})

	t.Run("different subjects are unordered", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "math", IsLecture: false, Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
			{ID: 1, Subject: "physics", IsLecture: true, Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[5], Room: &Room{ID: 1, Capacity: 40}},
		}

		// Act
		score, _ := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.True(t, score.Feasible())
	})
}

func TestPreferenceWeights(t *testing.T) {
	timeslots := NewWeeklyTimeslots()

	t.Run("displaced fixed lesson", func(t *testing.T) {
		// Arrange: committed to (timeslot 2, room 1) but sitting at (timeslot 3, room 0)
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), IsFixed: true, IdealTimeslotID: 2, IdealRoomID: 1, Timeslot: timeslots[3], Room: &Room{ID: 0, Capacity: 40}},
		}

		// Act
		score, _ := evaluate(lessons, GroupIntersections{})

		// Assert: ideal-timeslot weighs 10, ideal-room weighs 1
		assert.Equal(t, -11, score.Hard)
	})

	t.Run("lesson in a forbidden timeslot", func(t *testing.T) {
		// Arrange
		lessons := []*Lesson{
			{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), ForbiddenTimeslots: map[int]bool{timeslots[4].ID: true}, Timeslot: timeslots[4], Room: &Room{ID: 0, Capacity: 40}},
		}

		// Act
		score, explanation := evaluate(lessons, GroupIntersections{})

		// Assert
		assert.Equal(t, -20, score.Hard)
		assert.Contains(t, matchedRules(explanation), "Lesson in forbidden timeslot")
	})
}

func TestEvaluateAggregation(t *testing.T) {
	// Arrange: one clash produces one rule match and two offenders
	timeslots := NewWeeklyTimeslots()
	room := &Room{ID: 0, Capacity: 40}
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: room},
		{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[0], Room: room},
	}
	table := &TimeTable{Timeslots: timeslots, Lessons: lessons}
	rules := NewRuleSet(GroupIntersections{}, DefaultWeights())

	// Act
	score, explanation := rules.Evaluate(table)

	// Assert
	assert.Equal(t, -1, score.Hard)
	assert.Equal(t, 0, score.Soft)
	assert.False(t, score.Feasible())
	assert.Len(t, explanation.RuleMatches, 1)
	assert.Len(t, explanation.Offenders, 2)
	assert.Equal(t, score.Hard, rules.Penalty(table))
}

func TestFeasibleAssignmentScoresZero(t *testing.T) {
	// Arrange
	timeslots := NewWeeklyTimeslots()
	lessons := []*Lesson{
		{ID: 0, Subject: "a", Teacher: testTeacher("x"), StudentGroup: testGroup(0, "g0"), Timeslot: timeslots[0], Room: &Room{ID: 0, Capacity: 40}},
		{ID: 1, Subject: "b", Teacher: testTeacher("y"), StudentGroup: testGroup(1, "g1"), Timeslot: timeslots[1], Room: &Room{ID: 0, Capacity: 40}},
	}

	// Act
	score, explanation := evaluate(lessons, GroupIntersections{})

	// Assert
	assert.Equal(t, "0hard/0soft", score.String())
	assert.True(t, score.Feasible())
	assert.Empty(t, explanation.RuleMatches)
	assert.Empty(t, explanation.Offenders)
}
