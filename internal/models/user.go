package models

import "time"

// User is a contact record. Email is the sole deduplication key: a check-in
// for an existing email always updates that row.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Tags      string    `json:"tags"` // encoded tag set, see internal/tags
	CreatedAt time.Time `json:"created_at"`
}

// CheckInLog records one check-in call. Rows are append-only.
type CheckInLog struct {
	ID        string    `json:"id"`
	EventName string    `json:"eventName"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
