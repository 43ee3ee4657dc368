package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// timeLayout is a fixed-width RFC 3339 layout. UTC values in it sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// encodeDocument converts a model into a storable document via its JSON form.
func encodeDocument(v interface{}) (database.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var doc database.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	delete(doc, "id")
	return doc, nil
}

// decodeDocument fills v from a stored document via its JSON form.
func decodeDocument(doc database.Document, v interface{}) error {
	normalized := make(map[string]interface{}, len(doc))
	for k, val := range doc {
		normalized[k] = normalizeValue(val)
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// normalizeValue maps SurrealDB wire types onto JSON-friendly values.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case models.CustomDateTime:
		return t.Time.Format(timeLayout)
	case *models.CustomDateTime:
		if t != nil {
			return t.Time.Format(timeLayout)
		}
		return nil
	case time.Time:
		return t.Format(timeLayout)
	}
	return v
}

// getString extracts a string value from a document
func getString(m database.Document, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getBool extracts a bool value from a document
func getBool(m database.Document, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts a time value from a document
func getTime(m database.Document, key string) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case time.Time:
		return v
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}
