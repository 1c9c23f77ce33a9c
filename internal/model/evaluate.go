package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// RuleMatch is one entry of the per-rule score breakdown
type RuleMatch struct {
	Score    int
	RuleName string
	Matches  int
}

// Offender is one entry of the per-entity score breakdown
type Offender struct {
	Score       int
	Description string
}

// Explanation is the structured score breakdown consumed by the presentation
// layer: a row per violated rule and a row per offending lesson
type Explanation struct {
	RuleMatches []RuleMatch
	Offenders   []Offender
}

func (explanation Explanation) String() string {
	var builder strings.Builder
	for _, match := range explanation.RuleMatches {
		fmt.Fprintf(&builder, "%vhard: %v (%v matches)\n", match.Score, match.RuleName, match.Matches)
	}
	for _, offender := range explanation.Offenders {
		fmt.Fprintf(&builder, "%vhard: %v\n", offender.Score, offender.Description)
	}
	return builder.String()
}

// Evaluate scores a candidate assignment against the full rule table and builds
// the structured explanation. Pair rules see each unordered pair exactly once,
// ordered by lesson id.
func (rules RuleSet) Evaluate(table *TimeTable) (Score, Explanation) {
	score := Score{}
	explanation := Explanation{RuleMatches: make([]RuleMatch, 0)}
	perLesson := make(map[int]int)

	for _, rule := range rules.Rules {
		matches := 0

		if rule.Unary != nil {
			for _, lesson := range table.Lessons {
				if rule.Unary(rules.Context, lesson) {
					matches++
					perLesson[lesson.ID] -= rule.Weight
				}
			}
		} else {
			for i, lesson1 := range table.Lessons {
				for _, lesson2 := range table.Lessons[i+1:] {
					first, second := lesson1, lesson2
					if second.ID < first.ID {
						first, second = second, first
					}
					if rule.Pair(rules.Context, first, second) {
						matches++
						perLesson[first.ID] -= rule.Weight
						perLesson[second.ID] -= rule.Weight
					}
				}
			}
		}

		if matches > 0 {
			score.Hard -= rule.Weight * matches
			explanation.RuleMatches = append(explanation.RuleMatches, RuleMatch{
				Score:    -rule.Weight * matches,
				RuleName: rule.Name,
				Matches:  matches,
			})
		}
	}

	explanation.Offenders = make([]Offender, 0, len(perLesson))
	for _, lesson := range table.Lessons {
		if contribution, ok := perLesson[lesson.ID]; ok {
			explanation.Offenders = append(explanation.Offenders, Offender{
				Score:       contribution,
				Description: lesson.String(),
			})
		}
	}

	return score, explanation
}

// Penalty is the explanation-free scoring path used inside search loops
func (rules RuleSet) Penalty(table *TimeTable) int {
	penalty := 0
	for _, rule := range rules.Rules {
		if rule.Unary != nil {
			for _, lesson := range table.Lessons {
				if rule.Unary(rules.Context, lesson) {
					penalty -= rule.Weight
				}
			}
			continue
		}
		for i, lesson1 := range table.Lessons {
			for _, lesson2 := range table.Lessons[i+1:] {
				first, second := lesson1, lesson2
				if second.ID < first.ID {
					first, second = second, first
				}
				if rule.Pair(rules.Context, first, second) {
					penalty -= rule.Weight
				}
			}
		}
	}
	return penalty
}

// LessonPenalty scores a single lesson's current assignment against every rule:
// its unary violations plus its pair violations with the other assigned lessons.
// Used by construction heuristics to pick the cheapest slot for one lesson.
func (rules RuleSet) LessonPenalty(table *TimeTable, lesson *Lesson) int {
	penalty := 0
	others := lo.Filter(table.Lessons, func(other *Lesson, _ int) bool {
		return other.ID != lesson.ID && other.Timeslot != nil
	})

	for _, rule := range rules.Rules {
		if rule.Unary != nil {
			if rule.Unary(rules.Context, lesson) {
				penalty -= rule.Weight
			}
			continue
		}
		for _, other := range others {
			first, second := lesson, other
			if second.ID < first.ID {
				first, second = second, first
			}
			if rule.Pair(rules.Context, first, second) {
				penalty -= rule.Weight
			}
		}
	}
	return penalty
}
