package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealDocuments implements DocumentStore on top of a SurrealDB connection.
// Each collection is a table and each document key is the record key.
type SurrealDocuments struct {
	db Database
}

// NewSurrealDocuments creates a document store backed by db
func NewSurrealDocuments(db Database) *SurrealDocuments {
	return &SurrealDocuments{db: db}
}

// Get retrieves a document by key
func (s *SurrealDocuments) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ValidateIdentifier(collection); err != nil {
		return nil, err
	}

	result, err := s.db.QueryOne(ctx, `SELECT * FROM type::record($tb, $key)`, map[string]interface{}{
		"tb":  collection,
		"key": id,
	})
	if err != nil {
		return nil, err
	}
	return toDocument(result)
}

// Insert creates a document under a freshly generated key
func (s *SurrealDocuments) Insert(ctx context.Context, collection string, data Document) (string, error) {
	if err := ValidateIdentifier(collection); err != nil {
		return "", err
	}

	id := uuid.NewString()
	err := s.db.Execute(ctx, `CREATE type::record($tb, $key) CONTENT $data`, map[string]interface{}{
		"tb":   collection,
		"key":  id,
		"data": contentOf(data),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Create stores a document at a caller-chosen key. CREATE fails when the
// record exists, which is reported as ErrAlreadyExists.
func (s *SurrealDocuments) Create(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	err := s.db.Execute(ctx, `CREATE type::record($tb, $key) CONTENT $data`, map[string]interface{}{
		"tb":   collection,
		"key":  id,
		"data": contentOf(data),
	})
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("%w: %s:%s", ErrAlreadyExists, collection, id)
	}
	return err
}

// Set creates or replaces the document at key
func (s *SurrealDocuments) Set(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	return s.db.Execute(ctx, `UPSERT type::record($tb, $key) CONTENT $data`, map[string]interface{}{
		"tb":   collection,
		"key":  id,
		"data": contentOf(data),
	})
}

// Merge writes the supplied fields into an existing document
func (s *SurrealDocuments) Merge(ctx context.Context, collection, id string, data Document) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	// UPDATE on a missing record affects nothing and returns an empty set
	_, err := s.db.QueryOne(ctx, `UPDATE type::record($tb, $key) MERGE $data RETURN AFTER`, map[string]interface{}{
		"tb":   collection,
		"key":  id,
		"data": contentOf(data),
	})
	return err
}

// Delete removes the document at key
func (s *SurrealDocuments) Delete(ctx context.Context, collection, id string) error {
	if err := ValidateIdentifier(collection); err != nil {
		return err
	}

	return s.db.Execute(ctx, `DELETE type::record($tb, $key)`, map[string]interface{}{
		"tb":  collection,
		"key": id,
	})
}

// Find runs an ordered range query against a table
func (s *SurrealDocuments) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(collection, q); err != nil {
		return nil, err
	}

	query, vars := buildFindQuery(collection, q)
	results, err := s.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := statementRows(results, 0)
	if !ok && !emptyStatement(results, 0) {
		return nil, fmt.Errorf("%w: unexpected result shape for %s", ErrQuery, collection)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := toDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// emptyStatement reports whether statement i returned NONE
func emptyStatement(results []interface{}, i int) bool {
	if i >= len(results) {
		return false
	}
	resp, ok := results[i].(map[string]interface{})
	return ok && resp["result"] == nil
}

// Commit applies the batch inside a single transaction
func (s *SurrealDocuments) Commit(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if err := validateBatch(b); err != nil {
		return err
	}

	atomic := NewAtomicBatch()
	for _, op := range b.ops {
		if op.id != "" {
			atomic.Add(`DELETE type::record($tb, $key)`, map[string]interface{}{
				"tb":  op.collection,
				"key": op.id,
			})
			continue
		}
		atomic.Add(fmt.Sprintf(`DELETE %s WHERE %s = $value`, op.collection, op.field), map[string]interface{}{
			"value": op.value,
		})
	}
	return atomic.Execute(ctx, s.db)
}

var surrealOps = map[string]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// buildFindQuery renders q as SurrealQL. Identifiers must already be validated.
func buildFindQuery(collection string, q Query) (string, map[string]interface{}) {
	vars := map[string]interface{}{"tb": collection}
	var conds []string

	for i, f := range q.Filters {
		name := fmt.Sprintf("f%d", i)
		conds = append(conds, fmt.Sprintf("%s %s $%s", f.Field, surrealOps[f.Op], name))
		vars[name] = f.Value
	}

	orderBy := "id"
	if q.OrderBy != "" {
		orderBy = q.OrderBy + ", id"
		conds = append(conds, q.OrderBy+" != NONE")
	}

	if q.StartAfter != nil && q.StartAfter.ID() != "" {
		vars["after_key"] = q.StartAfter.ID()
		afterID := "type::record($tb, $after_key)"
		if q.OrderBy == "" {
			conds = append(conds, "id > "+afterID)
		} else if v, ok := q.StartAfter[q.OrderBy]; ok && v != nil {
			vars["after_value"] = v
			conds = append(conds, fmt.Sprintf("(%[1]s > $after_value OR (%[1]s = $after_value AND id > %[2]s))", q.OrderBy, afterID))
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(collection)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), vars
}

// contentOf strips the record key so it never lands inside the content.
func contentOf(data Document) map[string]interface{} {
	content := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k == "id" {
			continue
		}
		content[k] = v
	}
	return content
}

// toDocument converts a SurrealDB row into a Document with a plain string id.
func toDocument(row interface{}) (Document, error) {
	if row == nil {
		return nil, ErrNotFound
	}
	data, ok := row.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	doc := make(Document, len(data))
	for k, v := range data {
		doc[k] = v
	}
	if id, ok := data["id"]; ok {
		doc["id"] = recordKey(id)
	}
	return doc, nil
}

// recordKey extracts the key part of a SurrealDB record id.
func recordKey(id interface{}) string {
	switch v := id.(type) {
	case string:
		return stripTable(v)
	case models.RecordID:
		return keyString(v.ID)
	case *models.RecordID:
		if v != nil {
			return keyString(v.ID)
		}
	case map[string]interface{}:
		if key, ok := v["id"]; ok {
			return keyString(key)
		}
	}

	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil {
			return keyString(rid.ID)
		}
	}
	return ""
}

func keyString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

// stripTable turns "table:key" or "table:⟨key⟩" into "key".
func stripTable(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "⟨")
	s = strings.TrimSuffix(s, "⟩")
	return s
}
