package domain

import "time"

// User is a staff account allowed into the CRM dashboard. Accounts are
// seeded out-of-band; this service only reads them and bumps last access.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	DisplayName  string
	Role         string
	LastAccessAt *time.Time
	CreatedAt    time.Time
}
