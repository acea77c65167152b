package domain

import "time"

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	UserID    string
}
