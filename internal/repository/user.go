package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
)

const usersCollection = "users"

// UserRepository handles user data access
type UserRepository struct {
	store database.DocumentStore
}

// NewUserRepository creates a new user repository
func NewUserRepository(store database.DocumentStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create stores a new user and back-fills its id. Users with an email are
// stored at a key derived from it, so a second sign up for the same address
// fails with database.ErrAlreadyExists however the requests interleave.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	email := strings.ToLower(user.Email)
	doc := database.Document{
		"email":        email,
		"displayName":  user.DisplayName,
		"anonymous":    user.Anonymous,
		"passwordHash": user.PasswordHash,
		"createdAt":    formatTime(user.CreatedAt),
	}

	if email == "" {
		id, err := r.store.Insert(ctx, usersCollection, doc)
		if err != nil {
			return err
		}
		user.ID = id
		return nil
	}

	id := emailKey(email)
	if err := r.store.Create(ctx, usersCollection, id, doc); err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.store.Get(ctx, usersCollection, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(doc), nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(email)
	if email == "" {
		return nil, nil
	}
	return r.GetByID(ctx, emailKey(email))
}

// emailKey is the record key of the user registered with email
func emailKey(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func parseUser(doc database.Document) *model.User {
	return &model.User{
		ID:           doc.ID(),
		Email:        getString(doc, "email"),
		DisplayName:  getString(doc, "displayName"),
		Anonymous:    getBool(doc, "anonymous"),
		PasswordHash: getString(doc, "passwordHash"),
		CreatedAt:    getTime(doc, "createdAt"),
	}
}
