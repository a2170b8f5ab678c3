package domain

import "time"

// EmailStatus is the outcome of a single dispatch attempt.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "enviado"
	EmailStatusFailed EmailStatus = "fallido"
)

// EmailRecord is one row of delivery history. Append-only: every dispatch
// attempt writes exactly one record, success or not.
type EmailRecord struct {
	ID        string
	ContactID string
	Subject   string
	Message   string
	SenderID  string
	SentAt    time.Time
	Status    EmailStatus
	Error     *string
}

// EmailLogEntry is a history row joined with contact and sender names for
// the dashboard listing.
type EmailLogEntry struct {
	EmailRecord
	ContactName  string
	ContactEmail string
	SenderName   string
}
