package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
)

// TestDB is an isolated SurrealDB namespace
type TestDB struct {
	DB        *database.SurrealDB
	Store     *database.SurrealDocuments
	Namespace string
	Database  string
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns database config from environment or defaults
func getTestConfig() (database.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return database.Config{}, false
	}

	return database.Config{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// Memory returns an empty in-memory store
func Memory(t *testing.T) *database.MemoryStore {
	t.Helper()
	return database.NewMemoryStore()
}

// New connects to SurrealDB in a fresh namespace. The test is skipped when
// TEST_DB_HOST is not set. The namespace is removed on cleanup.
func New(t *testing.T) *TestDB {
	t.Helper()

	cfg, ok := getTestConfig()
	if !ok {
		t.Skip("testdb: TEST_DB_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{
		DB:        db,
		Store:     database.NewSurrealDocuments(db),
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
	}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close removes the test namespace and closes the connection
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	_ = tdb.DB.Close()
	tdb.DB = nil
}

// Stores returns every store the contract tests should run against: always
// the memory store, plus SurrealDB when TEST_DB_HOST is set.
func Stores(t *testing.T) map[string]database.DocumentStore {
	t.Helper()

	stores := map[string]database.DocumentStore{"memory": Memory(t)}
	if _, ok := getTestConfig(); ok {
		stores["surrealdb"] = New(t).Store
	}
	return stores
}

// Ctx returns a context bounded for a single test operation
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
