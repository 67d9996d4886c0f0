package group

import "time"

// Group is a named set of users that can carry group expenses.
type Group struct {
	ID        int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
}

// Membership links a user to a group.
type Membership struct {
	ID      int64
	GroupID int64
	UserID  int64
}
