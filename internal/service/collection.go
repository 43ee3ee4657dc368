package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/repository"
)

const (
	// DefaultPageSize applies when a caller does not ask for a page size
	DefaultPageSize = 10
	// MaxPageSize is the largest page a caller may request
	MaxPageSize = 100
	// DefaultOrderField orders listings and is the default search field
	DefaultOrderField = "Nombre"

	// searchSentinel is appended to a prefix to close the search range.
	// Both drivers compare strings by UTF-8 bytes, so the largest code point
	// sorts after any other rune that can follow the prefix.
	searchSentinel = "\U0010FFFF"
)

// DeleteHook queues additional deletes that must commit with an entity delete.
type DeleteHook func(b *database.Batch, id string)

// EntityCollection is the untyped view of a CollectionService used by
// relation services.
type EntityCollection interface {
	EntityName() string
	Lookup(ctx context.Context, id string) (model.Entity, error)
	OnDelete(hook DeleteHook)
}

// CollectionConfig configures a CollectionService
type CollectionConfig struct {
	// EntityName is used in error messages, e.g. "Member"
	EntityName string
	// OrderField orders GetAll; defaults to Nombre
	OrderField string
	// SearchField is matched by Search; defaults to Nombre
	SearchField string
	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// CollectionService provides paginated listing, prefix search and CRUD for
// one entity collection.
type CollectionService[T model.Entity] struct {
	repo        *repository.Collection[T]
	entityName  string
	orderField  string
	searchField string
	now         func() time.Time
	hooks       []DeleteHook
}

// NewCollectionService creates a collection service
func NewCollectionService[T model.Entity](repo *repository.Collection[T], cfg CollectionConfig) (*CollectionService[T], error) {
	if repo == nil {
		return nil, errors.New("collection repository is required")
	}
	if cfg.EntityName == "" {
		cfg.EntityName = repo.Name()
	}
	if cfg.OrderField == "" {
		cfg.OrderField = DefaultOrderField
	}
	if cfg.SearchField == "" {
		cfg.SearchField = DefaultOrderField
	}
	for _, field := range []string{cfg.OrderField, cfg.SearchField} {
		if err := database.ValidateIdentifier(field); err != nil {
			return nil, err
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CollectionService[T]{
		repo:        repo,
		entityName:  cfg.EntityName,
		orderField:  cfg.OrderField,
		searchField: cfg.SearchField,
		now:         cfg.Now,
	}, nil
}

// EntityName returns the display name of the entity type
func (s *CollectionService[T]) EntityName() string {
	return s.entityName
}

// OnDelete registers a hook run by every Delete. Hooks must be registered
// before the service starts serving requests.
func (s *CollectionService[T]) OnDelete(hook DeleteHook) {
	s.hooks = append(s.hooks, hook)
}

// GetAll returns one page ordered by the order field. An unknown cursor
// restarts from the first page.
func (s *CollectionService[T]) GetAll(ctx context.Context, startAfter string, pageSize int) (*model.Page[T], error) {
	q := database.Query{OrderBy: s.orderField}
	return s.page(ctx, q, startAfter, pageSize, "error fetching "+s.entityName)
}

// Search returns one page of entities whose search field starts with
// searchString. Only a single field is searched.
func (s *CollectionService[T]) Search(ctx context.Context, searchString, startAfter string, pageSize int) (*model.Page[T], error) {
	if searchString == "" {
		return nil, model.NewBadRequestError("searchString is required")
	}
	q := database.Query{OrderBy: s.searchField}.
		Where(s.searchField, database.OpGte, searchString).
		Where(s.searchField, database.OpLt, searchString+searchSentinel)
	return s.page(ctx, q, startAfter, pageSize, "error searching "+s.entityName)
}

func (s *CollectionService[T]) page(ctx context.Context, q database.Query, startAfter string, pageSize int, failure string) (*model.Page[T], error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	cursor, err := s.resolveCursor(ctx, startAfter)
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, failure)
	}
	q.StartAfter = cursor
	// One extra row tells us whether another page exists
	q.Limit = pageSize + 1

	items, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, failure)
	}

	page := &model.Page[T]{Items: items}
	if len(items) > pageSize {
		page.Items = items[:pageSize]
		page.HasMore = true
	}
	if n := len(page.Items); n > 0 {
		last := page.Items[n-1].GetID()
		page.NextStartAfter = &last
	}
	return page, nil
}

func (s *CollectionService[T]) resolveCursor(ctx context.Context, startAfter string) (database.Document, error) {
	if startAfter == "" {
		return nil, nil
	}
	doc, err := s.repo.Cursor(ctx, startAfter)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

// GetByID retrieves an entity or fails with a 404
func (s *CollectionService[T]) GetByID(ctx context.Context, id string) (T, error) {
	entity, err := s.repo.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		var zero T
		return zero, model.NewNotFoundError(s.entityName)
	}
	if err != nil {
		var zero T
		return zero, model.WrapError(err, http.StatusInternalServerError, "error fetching "+s.entityName)
	}
	return entity, nil
}

// Lookup is GetByID returning the untyped entity
func (s *CollectionService[T]) Lookup(ctx context.Context, id string) (model.Entity, error) {
	return s.GetByID(ctx, id)
}

// Exists reports whether an entity is stored at id
func (s *CollectionService[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.Cursor(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, model.WrapError(err, http.StatusInternalServerError, "error fetching "+s.entityName)
	}
	return true, nil
}

// Create applies defaults, inserts the entity and returns it with its new id
func (s *CollectionService[T]) Create(ctx context.Context, entity T) (T, error) {
	entity.SetID("")
	entity.ApplyDefaults(s.now().UTC())
	if err := s.repo.Insert(ctx, entity); err != nil {
		var zero T
		return zero, model.WrapError(err, http.StatusInternalServerError, "error creating "+s.entityName)
	}
	return entity, nil
}

// Update merges the supplied fields into an existing entity and returns the
// full stored record. Fields not present in patch are left untouched.
func (s *CollectionService[T]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, error) {
	var zero T

	fields := make(database.Document, len(patch)+1)
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		}
		fields[k] = v
	}
	if field, err := s.repo.CheckFields(fields); err != nil {
		return zero, model.NewValidationError([]model.FieldError{{Field: field, Message: err.Error()}})
	}
	fields["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)

	err := s.repo.Merge(ctx, id, fields)
	if errors.Is(err, database.ErrNotFound) {
		return zero, model.NewNotFoundError(s.entityName)
	}
	if err != nil {
		return zero, model.WrapError(err, http.StatusInternalServerError, "error updating "+s.entityName)
	}
	return s.GetByID(ctx, id)
}

// Delete removes an entity and everything registered to cascade with it, in
// one atomic batch. Deleting an absent id succeeds.
func (s *CollectionService[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.NewBadRequestError(fmt.Sprintf("%s id is required", s.entityName))
	}

	batch := database.NewBatch()
	s.repo.Delete(batch, id)
	for _, hook := range s.hooks {
		hook(batch, id)
	}

	if err := s.repo.Commit(ctx, batch); err != nil {
		return model.WrapError(err, http.StatusInternalServerError, "error deleting "+s.entityName)
	}
	return nil
}
