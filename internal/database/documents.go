package database

import (
	"context"
	"fmt"
	"regexp"
)

// Document is a stored record. Reads always carry the record key under "id".
type Document map[string]interface{}

// ID returns the record key of a document read from a store.
func (d Document) ID() string {
	if id, ok := d["id"].(string); ok {
		return id
	}
	return ""
}

// Filter operators
const (
	OpEq  = "=="
	OpGt  = ">"
	OpGte = ">="
	OpLt  = "<"
	OpLte = "<="
)

// Filter restricts a Find to documents whose Field compares to Value.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Query describes an ordered range query over one collection.
//
// StartAfter is a document previously returned by the same query. When set,
// only documents strictly after it in (OrderBy, id) order are returned.
// Documents that do not carry the OrderBy field are never returned.
type Query struct {
	Filters    []Filter
	OrderBy    string
	StartAfter Document
	Limit      int
}

// Where appends a filter and returns the query for chaining.
func (q Query) Where(field, op string, value interface{}) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// DocumentStore is the collection-oriented storage contract used by services.
type DocumentStore interface {
	// Get returns the document stored at id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Insert stores a new document under a store-assigned id and returns it.
	Insert(ctx context.Context, collection string, data Document) (string, error)

	// Create stores a new document at a caller-chosen id. It returns
	// ErrAlreadyExists when the id is taken, atomically with the write.
	Create(ctx context.Context, collection, id string, data Document) error

	// Set creates or fully overwrites the document at id.
	Set(ctx context.Context, collection, id string, data Document) error

	// Merge writes only the supplied fields into an existing document.
	// It returns ErrNotFound when nothing is stored at id.
	Merge(ctx context.Context, collection, id string, data Document) error

	// Delete removes the document at id. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Find runs an ordered range query.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)

	// Commit applies every operation in the batch atomically.
	Commit(ctx context.Context, b *Batch) error
}

// Batch accumulates deletes that must be applied together.
type Batch struct {
	ops []batchOp
}

type batchOp struct {
	collection string
	id         string
	field      string
	value      interface{}
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{}
}

// Delete queues removal of a single document.
func (b *Batch) Delete(collection, id string) *Batch {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
	return b
}

// DeleteWhere queues removal of every document whose field equals value.
func (b *Batch) DeleteWhere(collection, field string, value interface{}) *Batch {
	b.ops = append(b.ops, batchOp{collection: collection, field: field, value: value})
	return b
}

// Len returns the number of queued operations
func (b *Batch) Len() int {
	return len(b.ops)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that a collection or field name is a plain identifier.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

func validateQuery(collection string, q Query) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}
	if q.OrderBy != "" {
		if err := ValidateIdentifier(q.OrderBy); err != nil {
			return err
		}
	}
	for _, f := range q.Filters {
		if err := ValidateIdentifier(f.Field); err != nil {
			return err
		}
		switch f.Op {
		case OpEq, OpGt, OpGte, OpLt, OpLte:
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrQuery, f.Op)
		}
	}
	return nil
}

func validateBatch(b *Batch) error {
	for _, op := range b.ops {
		if err := ValidateIdentifier(op.collection); err != nil {
			return err
		}
		if op.id == "" {
			if err := ValidateIdentifier(op.field); err != nil {
				return err
			}
		}
	}
	return nil
}
