// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories write through the repository
// layer and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(store)
//	member := f.CreateMember(t)
//	group := f.CreateGroup(t)
//	f.Link(t, model.MemberGroups, member.ID, group.ID, "Lider")
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of users created without one
const DefaultPassword = "testpass123"

// Factory creates test entities in a document store
type Factory struct {
	store database.DocumentStore
}

// New creates a new fixture factory
func New(store database.DocumentStore) *Factory {
	return &Factory{store: store}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func insert[T model.Entity](t *testing.T, store database.DocumentStore, collection string, newT func() T, entity T) T {
	t.Helper()

	repo, err := repository.NewCollection(store, collection, newT)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	entity.ApplyDefaults(time.Now().UTC())
	if err := repo.Insert(ctx(t), entity); err != nil {
		t.Fatalf("fixtures: failed to create %s: %v", collection, err)
	}
	return entity
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	Password    string
	DisplayName string
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:       fmt.Sprintf("user_%s@test.local", randomID()),
		Password:    DefaultPassword,
		DisplayName: "Usuario de prueba",
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Email:        o.Email,
		DisplayName:  o.DisplayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repository.NewUserRepository(f.store).Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	user.PasswordHash = "" // Don't expose hash in fixture
	return user
}

// ============================================================================
// Entity Fixtures
// ============================================================================

// CreateMember creates a member named "Miembro <random>" unless opts say otherwise
func (f *Factory) CreateMember(t *testing.T, opts ...func(*model.Member)) *model.Member {
	t.Helper()

	m := &model.Member{
		Nombre:      "Miembro " + randomID(),
		TipoMiembro: model.TipoMiembro,
	}
	for _, fn := range opts {
		fn(m)
	}
	return insert(t, f.store, model.MembersCollection, func() *model.Member { return &model.Member{} }, m)
}

// CreateMembers creates one member per name
func (f *Factory) CreateMembers(t *testing.T, names ...string) []*model.Member {
	t.Helper()

	out := make([]*model.Member, 0, len(names))
	for _, name := range names {
		out = append(out, f.CreateMember(t, WithNombre(name)))
	}
	return out
}

// WithNombre sets the member name
func WithNombre(nombre string) func(*model.Member) {
	return func(m *model.Member) { m.Nombre = nombre }
}

// CreateGroup creates a group
func (f *Factory) CreateGroup(t *testing.T, opts ...func(*model.Group)) *model.Group {
	t.Helper()

	g := &model.Group{Nombre: "Grupo " + randomID()}
	for _, fn := range opts {
		fn(g)
	}
	return insert(t, f.store, model.GroupsCollection, func() *model.Group { return &model.Group{} }, g)
}

// CreateEvent creates an event
func (f *Factory) CreateEvent(t *testing.T, opts ...func(*model.Event)) *model.Event {
	t.Helper()

	e := &model.Event{Nombre: "Evento " + randomID()}
	for _, fn := range opts {
		fn(e)
	}
	return insert(t, f.store, model.EventsCollection, func() *model.Event { return &model.Event{} }, e)
}

// CreateCourse creates a course
func (f *Factory) CreateCourse(t *testing.T, opts ...func(*model.Course)) *model.Course {
	t.Helper()

	c := &model.Course{Nombre: "Curso " + randomID()}
	for _, fn := range opts {
		fn(c)
	}
	return insert(t, f.store, model.CoursesCollection, func() *model.Course { return &model.Course{} }, c)
}

// ============================================================================
// Relation Fixtures
// ============================================================================

// Link stores a relation of kind between a member and an entity
func (f *Factory) Link(t *testing.T, kind model.RelationKind, memberID, entityID, role string) {
	t.Helper()

	repo, err := repository.NewRelationRepository(f.store, kind.Collection, kind.FromField, kind.ToField)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	key, err := model.NewRelationKey(memberID, entityID)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	if _, err := repo.Put(ctx(t), key, kind.Build(key, role, "", time.Now().UTC())); err != nil {
		t.Fatalf("fixtures: failed to link %s: %v", kind.Collection, err)
	}
}
