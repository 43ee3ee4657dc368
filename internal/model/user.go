package model

import "time"

// User is an authenticated principal. Users are not church members; a
// signed-in user manages member records.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"displayName,omitempty"`
	Anonymous    bool      `json:"anonymous"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAnonymousUser creates a user with no credentials
func NewAnonymousUser(now time.Time) *User {
	return &User{
		DisplayName: "Anonimo",
		Anonymous:   true,
		CreatedAt:   now,
	}
}
