package store

import "time"

type FilterPreferences struct {
	Slot      string
	Payload   []byte // JSON encoded domain.FilterPreferences
	UpdatedAt time.Time
}

type Activity struct {
	ID        string
	Type      string
	User      string
	Action    string
	Details   string
	CreatedAt time.Time
}
