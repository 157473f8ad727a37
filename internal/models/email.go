package models

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskSent      TaskStatus = "sent"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// ScheduledEmailTask is a templated email blast targeting users by tag
// intersection. Content and schedule are mutable only while pending;
// sent/failed/cancelled are terminal.
type ScheduledEmailTask struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	HTMLContent string     `json:"htmlContent"`
	TargetTags  string     `json:"targetTags"` // encoded; empty set = all users
	ScheduledAt time.Time  `json:"scheduledAt"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	Status      TaskStatus `json:"status"`
	SentCount   int        `json:"sentCount"`
	FailedCount int        `json:"failedCount"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

const (
	EmailTypeWelcome  = "welcome"
	EmailTypeCampaign = "scheduled_notification"
)

// EmailLog records one delivery attempt. One row per recipient, append-only.
type EmailLog struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	EmailType string      `json:"emailType"`
	Subject   string      `json:"subject"`
	Status    EmailStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	SentAt    time.Time   `json:"sentAt"`
}

// EmailLogWithUser is an EmailLog joined with recipient info for the admin view.
type EmailLogWithUser struct {
	EmailLog
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName,omitempty"`
}

// WelcomeEmailJob is queued by the check-in handler and drained by the
// welcome-email worker pool.
type WelcomeEmailJob struct {
	UserID string
	Email  string
	Name   string
}
