package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
)

// Collection maps one entity type onto one document collection.
type Collection[T model.Entity] struct {
	store database.DocumentStore
	name  string
	newT  func() T
}

// NewCollection creates a typed collection. It fails when the name is empty
// or not a plain identifier.
func NewCollection[T model.Entity](store database.DocumentStore, name string, newT func() T) (*Collection[T], error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	if err := database.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	if store == nil || newT == nil {
		return nil, fmt.Errorf("collection %s: store and constructor are required", name)
	}
	return &Collection[T]{store: store, name: name, newT: newT}, nil
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

// Get retrieves an entity by id. Missing ids return database.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

// Cursor returns the raw document used as a pagination cursor.
func (c *Collection[T]) Cursor(ctx context.Context, id string) (database.Document, error) {
	return c.store.Get(ctx, c.name, id)
}

// Insert stores a new entity and back-fills its id
func (c *Collection[T]) Insert(ctx context.Context, entity T) error {
	doc, err := encodeDocument(entity)
	if err != nil {
		return err
	}
	id, err := c.store.Insert(ctx, c.name, doc)
	if err != nil {
		return err
	}
	entity.SetID(id)
	return nil
}

// Merge writes only the supplied fields
func (c *Collection[T]) Merge(ctx context.Context, id string, patch database.Document) error {
	return c.store.Merge(ctx, c.name, id, patch)
}

// Find runs q and decodes every matching document
func (c *Collection[T]) Find(ctx context.Context, q database.Query) ([]T, error) {
	docs, err := c.store.Find(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	return items, nil
}

// Delete queues removal of the entity in b
func (c *Collection[T]) Delete(b *database.Batch, id string) {
	b.Delete(c.name, id)
}

// CheckFields decodes each patch field into a fresh entity and returns the
// first field the entity type cannot hold. Merging such a field would leave
// a document that no longer decodes.
func (c *Collection[T]) CheckFields(patch database.Document) (string, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		data, err := json.Marshal(map[string]interface{}{k: patch[k]})
		if err != nil {
			return k, err
		}
		if err := json.Unmarshal(data, c.newT()); err != nil {
			return k, err
		}
	}
	return "", nil
}

// Commit applies b atomically
func (c *Collection[T]) Commit(ctx context.Context, b *database.Batch) error {
	return c.store.Commit(ctx, b)
}

func (c *Collection[T]) decode(doc database.Document) (T, error) {
	entity := c.newT()
	if err := decodeDocument(doc, entity); err != nil {
		var zero T
		return zero, err
	}
	entity.SetID(doc.ID())
	return entity, nil
}
