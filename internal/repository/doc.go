// Package repository implements the data access layer.
//
// Repositories translate between model types and database.Document values
// and never interpret errors beyond database.ErrNotFound. Entity collections
// share the generic Collection type; relation collections share
// RelationRepository, which stores each record at its RelationKey so that
// existence checks, upserts and removals are point lookups.
//
// # Timestamps
//
// Timestamps are stored as UTC RFC 3339 strings so that range filters (such
// as purging expired revocations) compare correctly on every driver.
package repository
