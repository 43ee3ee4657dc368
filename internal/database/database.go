// Package database provides the storage layer for the records API.
//
// Two levels are exposed. Database is the raw SurrealDB driver surface
// (Query, QueryOne, Execute). DocumentStore sits on top of it and offers the
// collection primitives the services are written against: point lookups,
// inserts with store-assigned ids, upserts at a deterministic key, partial
// merges, ordered range queries with cursor pagination, and atomic batches of
// deletes.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//   - ErrInvalidField: A collection or field name is not a plain identifier
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrInvalidField indicates a collection or field name that cannot be used in a query.
	ErrInvalidField = errors.New("invalid field name")

	// ErrAlreadyExists indicates a create at a key that is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Database defines the interface for raw database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
