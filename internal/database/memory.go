package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore. It backs the test suites and
// DB_DRIVER=memory, and follows the same ordering and cursor rules as the
// SurrealDB store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

// Get retrieves a copy of the document at id
func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ValidateIdentifier(collection); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return withID(doc, id), nil
}

// Insert stores data under a new uuid key
func (m *MemoryStore) Insert(ctx context.Context, collection string, data Document) (string, error) {
	if err := ValidateIdentifier(collection); err != nil {
		return "", err
	}

	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.table(collection)[id] = copyContent(data)
	return id, nil
}

// Create stores data at id unless something is already there
func (m *MemoryStore) Create(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	table := m.table(collection)
	if _, ok := table[id]; ok {
		return ErrAlreadyExists
	}
	table[id] = copyContent(data)
	return nil
}

// Set creates or replaces the document at id
func (m *MemoryStore) Set(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.table(collection)[id] = copyContent(data)
	return nil
}

// Merge writes the supplied fields into an existing document
func (m *MemoryStore) Merge(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyContent(data) {
		doc[k] = v
	}
	return nil
}

// Delete removes the document at id if present
func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

// Find filters, orders and pages a collection
func (m *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(collection, q); err != nil {
		return nil, err
	}

	m.mu.RLock()
	matches := make([]Document, 0)
	for id, doc := range m.collections[collection] {
		if !matchesAll(doc, q) {
			continue
		}
		matches = append(matches, withID(doc, id))
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return compareDocs(matches[i], matches[j], q.OrderBy) < 0
	})

	if q.StartAfter != nil && q.StartAfter.ID() != "" {
		cursorUsable := true
		if q.OrderBy != "" {
			v, ok := q.StartAfter[q.OrderBy]
			cursorUsable = ok && v != nil
		}
		if cursorUsable {
			idx := sort.Search(len(matches), func(i int) bool {
				return compareDocs(matches[i], q.StartAfter, q.OrderBy) > 0
			})
			matches = matches[idx:]
		}
	}

	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Commit applies every queued delete under one write lock
func (m *MemoryStore) Commit(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if err := validateBatch(b); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range b.ops {
		table := m.collections[op.collection]
		if op.id != "" {
			delete(table, op.id)
			continue
		}
		for id, doc := range table {
			if v, ok := doc[op.field]; ok && compareValues(v, op.value) == 0 {
				delete(table, id)
			}
		}
	}
	return nil
}

// Len returns the number of documents in a collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *MemoryStore) table(collection string) map[string]Document {
	t, ok := m.collections[collection]
	if !ok {
		t = make(map[string]Document)
		m.collections[collection] = t
	}
	return t
}

func matchesAll(doc Document, q Query) bool {
	if q.OrderBy != "" {
		if v, ok := doc[q.OrderBy]; !ok || v == nil {
			return false
		}
	}
	for _, f := range q.Filters {
		v, ok := doc[f.Field]
		if !ok || v == nil {
			return false
		}
		c := compareValues(v, f.Value)
		var pass bool
		switch f.Op {
		case OpEq:
			pass = c == 0
		case OpGt:
			pass = c > 0
		case OpGte:
			pass = c >= 0
		case OpLt:
			pass = c < 0
		case OpLte:
			pass = c <= 0
		}
		if !pass {
			return false
		}
	}
	return true
}

// compareDocs orders by field, then by id.
func compareDocs(a, b Document, field string) int {
	if field != "" {
		if c := compareValues(a[field], b[field]); c != 0 {
			return c
		}
	}
	return strings.Compare(a.ID(), b.ID())
}

// compareValues orders values of the same kind. Mixed kinds order by kind name.
// Strings compare by UTF-8 bytes, which is code point order.
func compareValues(a, b interface{}) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			}
			return 1
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func copyContent(data Document) Document {
	out := make(Document, len(data))
	for k, v := range data {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

func withID(doc Document, id string) Document {
	out := make(Document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["id"] = id
	return out
}
