// Package model defines the records exchanged between the storage, service
// and HTTP layers: the four entity types (Member, Group, Event, Course), the
// authenticated User, relation records keyed by RelationKey, paging results,
// and APIError, the only error type whose status and message reach clients.
package model
