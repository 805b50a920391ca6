package domain

import "time"

// User represents an authenticated account.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Bio            string
	Location       string
	Website        string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means unchanged.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	Location       *string
	Website        *string
	ProfilePicture *string
}

// UserSummary is the public slice of a user embedded in post views.
type UserSummary struct {
	ID             string
	Name           string
	Email          string
	ProfilePicture string
}
