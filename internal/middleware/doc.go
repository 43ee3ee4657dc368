// Package middleware provides HTTP middleware for the Iglesia API.
//
// # Available Middleware
//
//   - Auth: bearer token validation, identity placed on the context
//   - RequestID, Logger, Recovery: request tracing and panic safety
//   - CORS, Compress: transport concerns
//   - Metrics, Route: Prometheus request metrics labelled by route pattern
//
// Middlewares compose with Chain, outermost first:
//
//	handler = middleware.Chain(mux, middleware.RequestID, middleware.Logger, middleware.Recovery(errors.Render))
//
// Recovery hands a *PanicError to the same renderer handlers use, so panics
// and returned errors share one response shape.
//
// Route must wrap individual route handlers so the matched ServeMux pattern
// is visible to Logger and Metrics, which run outside the mux.
//
// # Context Values
//
//   - GetUserID(ctx): authenticated user ID
//   - GetUserEmail(ctx): authenticated user email
//   - GetClaims(ctx): full token claims
//   - GetRequestID(ctx): unique request identifier
package middleware
