// Package service implements the business logic layer for the Iglesia API.
//
// Services sit between HTTP handlers and repositories. They are constructed
// once at startup with explicit dependencies and hold no per-request state.
//
// # Collection Services
//
// CollectionService is the generic CRUD service shared by members, groups,
// events and courses:
//
//   - GetAll and Search return cursor pages ordered by Nombre
//   - Search matches a single field by prefix
//   - Update is a partial merge followed by a re-read
//   - Delete is idempotent and runs registered cascades in the same batch
//
// # Relations
//
// RelationService stores one record per (from, to) pair at a key derived
// from both ids, so add, remove and existence checks are point operations.
// MembershipService builds on it for member links to groups, events and
// courses, enriching each side with the other's display fields.
//
// # Error Handling
//
// Collection and relation services fail with *model.APIError carrying the
// HTTP status. Store failures are wrapped as 500s with model.WrapError.
// Authentication reports sentinel errors from errors.go, which the handler
// layer maps to responses.
package service
