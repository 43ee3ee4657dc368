package model

import (
	"fmt"
	"strings"
	"time"
)

// RelationKeySeparator joins the two ids of a relation key
const RelationKeySeparator = ":"

// RelationKey identifies the single relation record that may exist for an
// ordered (from, to) pair. Existence checks, upserts and removals are all
// point lookups on its string form.
type RelationKey struct {
	From string
	To   string
}

// NewRelationKey validates both ids and builds the key
func NewRelationKey(from, to string) (RelationKey, error) {
	if from == "" || to == "" {
		return RelationKey{}, NewBadRequestError("both ids are required to build a relation")
	}
	if strings.Contains(from, RelationKeySeparator) || strings.Contains(to, RelationKeySeparator) {
		return RelationKey{}, NewBadRequestError(fmt.Sprintf("ids must not contain %q", RelationKeySeparator))
	}
	return RelationKey{From: from, To: to}, nil
}

// ParseRelationKey is the inverse of RelationKey.String
func ParseRelationKey(s string) (RelationKey, error) {
	from, to, ok := strings.Cut(s, RelationKeySeparator)
	if !ok {
		return RelationKey{}, NewBadRequestError(fmt.Sprintf("malformed relation key %q", s))
	}
	return NewRelationKey(from, to)
}

func (k RelationKey) String() string {
	return k.From + RelationKeySeparator + k.To
}

// RelationKind describes one member-to-entity relation collection.
type RelationKind struct {
	Collection  string
	FromField   string
	ToField     string
	DefaultRole string
	// Build produces the record stored for a new relation.
	Build func(key RelationKey, role, memberName string, now time.Time) interface{}
}

// MemberGroup links a member to a group
type MemberGroup struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"memberId"`
	GroupID    string    `json:"groupId"`
	Role       string    `json:"role"`
	MemberName string    `json:"memberName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MemberEvent links a member to an event they attend
type MemberEvent struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"memberId"`
	EventID    string    `json:"eventId"`
	Role       string    `json:"role"`
	MemberName string    `json:"memberName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MemberCourse enrolls a member in a course
type MemberCourse struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"memberId"`
	CourseID   string    `json:"courseId"`
	Role       string    `json:"role"`
	MemberName string    `json:"memberName,omitempty"`
	EnrolledAt time.Time `json:"enrolledAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func roleOr(role, fallback string) string {
	if role == "" {
		return fallback
	}
	return role
}

// Relation kinds
var (
	MemberGroups = RelationKind{
		Collection:  "member_groups",
		FromField:   "memberId",
		ToField:     "groupId",
		DefaultRole: "Miembro",
	}
	MemberEvents = RelationKind{
		Collection:  "member_events",
		FromField:   "memberId",
		ToField:     "eventId",
		DefaultRole: "Asistente",
	}
	MemberCourses = RelationKind{
		Collection:  "member_courses",
		FromField:   "memberId",
		ToField:     "courseId",
		DefaultRole: "Estudiante",
	}
)

func init() {
	MemberGroups.Build = func(key RelationKey, role, memberName string, now time.Time) interface{} {
		return &MemberGroup{
			ID:         key.String(),
			MemberID:   key.From,
			GroupID:    key.To,
			Role:       roleOr(role, MemberGroups.DefaultRole),
			MemberName: memberName,
			CreatedAt:  now,
		}
	}
	MemberEvents.Build = func(key RelationKey, role, memberName string, now time.Time) interface{} {
		return &MemberEvent{
			ID:         key.String(),
			MemberID:   key.From,
			EventID:    key.To,
			Role:       roleOr(role, MemberEvents.DefaultRole),
			MemberName: memberName,
			CreatedAt:  now,
		}
	}
	MemberCourses.Build = func(key RelationKey, role, memberName string, now time.Time) interface{} {
		return &MemberCourse{
			ID:         key.String(),
			MemberID:   key.From,
			CourseID:   key.To,
			Role:       roleOr(role, MemberCourses.DefaultRole),
			MemberName: memberName,
			EnrolledAt: now,
			CreatedAt:  now,
		}
	}
}

// EntityMember is a relation seen from the entity side, enriched with the
// member's display fields (GroupMember, EventMember and CourseMember).
type EntityMember struct {
	MemberID    string    `json:"memberId"`
	Nombre      string    `json:"Nombre"`
	Apellido    string    `json:"Apellido,omitempty"`
	TipoMiembro string    `json:"TipoMiembro,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// MemberEntity is a relation seen from the member side, enriched with the
// entity's display name (MemberGroup, MemberEvent and MemberCourse views).
type MemberEntity struct {
	EntityID string    `json:"entityId"`
	Nombre   string    `json:"Nombre"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// RelationRecord holds the fields shared by every stored relation
type RelationRecord struct {
	ID         string
	From       string
	To         string
	Role       string
	MemberName string
	CreatedAt  time.Time
}
