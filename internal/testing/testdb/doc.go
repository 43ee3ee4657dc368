// Package testdb provides test document stores for the Iglesia API.
//
// # Memory Store
//
// Unit and handler tests use a fresh in-memory store:
//
//	store := testdb.Memory(t)
//
// # SurrealDB
//
// Tests that must run against a real database connect with New, which skips
// unless TEST_DB_HOST is set:
//
//	tdb := testdb.New(t) // namespace removed on cleanup
//	tdb.Store.Insert(ctx, "members", doc)
//
// # Contract Tests
//
// Stores returns every available store keyed by driver name, so one test
// body can cover both implementations:
//
//	for name, store := range testdb.Stores(t) {
//	    t.Run(name, func(t *testing.T) { ... })
//	}
package testdb
