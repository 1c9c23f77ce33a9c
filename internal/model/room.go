package model

import "fmt"

// Room is an immutable fact. AuditoryID keeps the external reference from the
// audiences table; capacity already includes the ingestion slack.
type Room struct {
	ID         int
	AuditoryID int
	Name       string
	IsOnline   bool
	Capacity   int
}

func (room *Room) String() string {
	return fmt.Sprintf("Room(id=%v, name=%v, capacity=%v)", room.ID, room.Name, room.Capacity)
}
