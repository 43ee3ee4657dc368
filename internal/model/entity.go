package model

import "time"

// Entity is a top-level persisted record type.
type Entity interface {
	GetID() string
	SetID(id string)
	// ApplyDefaults fills unset fields before the first write.
	ApplyDefaults(now time.Time)
	// Label is the display name used when other records reference this one.
	Label() string
}

// Record carries the fields every entity shares.
type Record struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Record) GetID() string {
	return r.ID
}

func (r *Record) SetID(id string) {
	r.ID = id
}

func (r *Record) stamp(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items []T
	// NextStartAfter is the id to pass as the next cursor, nil when the page is empty.
	NextStartAfter *string
	HasMore        bool
}

// Entity collection names
const (
	MembersCollection = "members"
	GroupsCollection  = "groups"
	EventsCollection  = "events"
	CoursesCollection = "courses"
)
