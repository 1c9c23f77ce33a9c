package model

import "fmt"

// StudentGroup is an immutable fact. GroupID keeps the external reference from
// the groups table.
type StudentGroup struct {
	ID            int
	GroupID       int
	Name          string
	StudentsCount int
}

func (group *StudentGroup) String() string {
	return fmt.Sprintf("StudentGroup(id=%v, group_id=%v, name=%v, students=%v)", group.ID, group.GroupID, group.Name, group.StudentsCount)
}

// GroupIntersections maps a group name to the set of group names sharing at
// least one student with it. The relation is symmetric but stored
// one-directionally, so lookups must query both ways. It is computed once per
// problem builder and carried explicitly by the constraint-evaluation context.
type GroupIntersections map[string]map[string]bool

func (intersections GroupIntersections) Intersects(group1, group2 string) bool {
	if intersections[group1][group2] {
		return true
	}
	return intersections[group2][group1]
}
