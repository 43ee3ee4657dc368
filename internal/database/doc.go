// Storage drivers
//
// Two DocumentStore implementations are provided:
//
//   - SurrealDocuments: production store. Collections map to tables, keys to
//     record keys, and Find renders an ORDER BY ... LIMIT query whose cursor is
//     a (field, id) comparison against the previous page's last document.
//   - MemoryStore: in-process store with identical ordering rules, used by the
//     test suites and when DB_DRIVER=memory.
//
// Usage:
//
//	db := database.NewSurrealDB(cfg)
//	if err := db.Connect(ctx); err != nil { ... }
//	store := database.NewSurrealDocuments(db)
//
//	id, err := store.Insert(ctx, "members", database.Document{"Nombre": "Ana"})
//	page, err := store.Find(ctx, "members", database.Query{OrderBy: "Nombre", Limit: 10})
package database
