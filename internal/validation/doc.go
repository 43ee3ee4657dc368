// Package validation holds the request validators that run before handlers.
//
// Request bodies are checked against JSON schemas embedded from schemas/ and
// compiled once with gojsonschema. Query strings are checked by small rules.
// Both are exposed as middleware so routes compose them explicitly:
//
//	mux.Handle("POST /api/members", auth(v.Body(validation.MemberCreate)(h.Create)))
//
// Failures are written as 400 responses whose fields list names every
// offending field.
package validation
