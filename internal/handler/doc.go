// Package handler provides HTTP request handlers for the Iglesia API.
//
// Handlers are organized by resource. Members, Groups, Events and Courses
// share one generic CollectionHandler; the three member relations share
// MembershipHandler. Authentication and health have their own handlers.
//
// # Handler Pattern
//
// Handlers are HandlerFunc values: they write the success response
// themselves and return any failure. ErrorRenderer is the only place where
// errors become responses:
//
//   - *model.APIError keeps its status, message and field list
//   - known service errors are mapped by MapServiceError
//   - anything else is a generic 500 with no internal detail
//
// Outside production the body also carries "stack", the error's unwrap chain.
//
// # Routes
//
// Every handler exposes Register(rt *Routes). Routes attaches the route
// pattern recorder, bearer-token authentication (Protected) and JSON schema
// validation (Body) before the handler runs:
//
//	rt.Protected("POST /api/groups", h.Create, rt.Body(validation.GroupCreate))
//
// # Response Format
//
// Lists are wrapped in an envelope keyed by the plural resource name:
//
//	{"members": [...], "nextStartAfter": "abc", "hasMore": true}
//
// Errors always have the shape {"error": "...", "fields": [...]}.
package handler
