package domain

import "time"

type ID string

// User is the stored credential record. PasswordHash never leaves the
// service layer; responses are built from the other fields only.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
