package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
)

// RelationRepository stores relation records at their RelationKey.
type RelationRepository struct {
	store     database.DocumentStore
	name      string
	fromField string
	toField   string
}

// NewRelationRepository creates a repository for one relation collection
func NewRelationRepository(store database.DocumentStore, name, fromField, toField string) (*RelationRepository, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	for _, ident := range []string{name, fromField, toField} {
		if err := database.ValidateIdentifier(ident); err != nil {
			return nil, err
		}
	}
	if store == nil {
		return nil, fmt.Errorf("relation %s: store is required", name)
	}
	return &RelationRepository{store: store, name: name, fromField: fromField, toField: toField}, nil
}

// Name returns the collection name
func (r *RelationRepository) Name() string {
	return r.name
}

// Put creates or overwrites the record for key. data is a Document or any
// value with a JSON object form. The two foreign keys are always written from
// key, whatever data carries.
func (r *RelationRepository) Put(ctx context.Context, key model.RelationKey, data interface{}) (database.Document, error) {
	var payload database.Document
	switch v := data.(type) {
	case nil:
	case database.Document:
		payload = v
	case map[string]interface{}:
		payload = v
	default:
		encoded, err := encodeDocument(v)
		if err != nil {
			return nil, err
		}
		payload = encoded
	}

	doc := make(database.Document, len(payload)+2)
	for k, v := range payload {
		doc[k] = v
	}
	delete(doc, "id")
	doc[r.fromField] = key.From
	doc[r.toField] = key.To

	if err := r.store.Set(ctx, r.name, key.String(), doc); err != nil {
		return nil, err
	}
	doc["id"] = key.String()
	return doc, nil
}

// Record reads the fields every relation kind shares from doc. A foreign key
// missing from the payload is recovered from the record key.
func (r *RelationRepository) Record(doc database.Document) model.RelationRecord {
	rec := model.RelationRecord{
		ID:         doc.ID(),
		From:       getString(doc, r.fromField),
		To:         getString(doc, r.toField),
		Role:       getString(doc, "role"),
		MemberName: getString(doc, "memberName"),
		CreatedAt:  getTime(doc, "createdAt"),
	}
	if rec.From == "" || rec.To == "" {
		if key, err := model.ParseRelationKey(rec.ID); err == nil {
			rec.From, rec.To = key.From, key.To
		}
	}
	return rec
}

// Get retrieves the record for key, or database.ErrNotFound
func (r *RelationRepository) Get(ctx context.Context, key model.RelationKey) (database.Document, error) {
	return r.store.Get(ctx, r.name, key.String())
}

// Delete removes the record for key
func (r *RelationRepository) Delete(ctx context.Context, key model.RelationKey) error {
	return r.store.Delete(ctx, r.name, key.String())
}

// ListFrom returns every record whose from id matches
func (r *RelationRepository) ListFrom(ctx context.Context, fromID string) ([]database.Document, error) {
	return r.store.Find(ctx, r.name, database.Query{}.Where(r.fromField, database.OpEq, fromID))
}

// ListTo returns every record whose to id matches
func (r *RelationRepository) ListTo(ctx context.Context, toID string) ([]database.Document, error) {
	return r.store.Find(ctx, r.name, database.Query{}.Where(r.toField, database.OpEq, toID))
}

// DeleteAllFrom queues removal of every record whose from id matches
func (r *RelationRepository) DeleteAllFrom(b *database.Batch, fromID string) {
	b.DeleteWhere(r.name, r.fromField, fromID)
}

// DeleteAllTo queues removal of every record whose to id matches
func (r *RelationRepository) DeleteAllTo(b *database.Batch, toID string) {
	b.DeleteWhere(r.name, r.toField, toID)
}

// Exists reports whether any document is stored at id in collection
func (r *RelationRepository) Exists(ctx context.Context, collection, id string) (bool, error) {
	_, err := r.store.Get(ctx, collection, id)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
