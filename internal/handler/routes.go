package handler

import (
	"net/http"

	"github.com/forgo/iglesia/api/internal/middleware"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/validation"
)

// Routes registers handlers on a mux with the per-route middleware every
// endpoint shares.
type Routes struct {
	Mux       *http.ServeMux
	Auth      middleware.Middleware
	Validator *validation.Validator
	Errors    *ErrorRenderer

	// Credentials throttles the sign up and sign in endpoints; nil disables it
	Credentials middleware.Middleware
}

// Handle registers fn for pattern. mws run outermost first, after the route
// pattern is recorded.
func (rt *Routes) Handle(pattern string, fn HandlerFunc, mws ...middleware.Middleware) {
	chain := append([]middleware.Middleware{middleware.Route}, mws...)
	rt.Mux.Handle(pattern, middleware.Chain(rt.Errors.Handle(fn), chain...))
}

// Protected registers fn behind bearer-token authentication
func (rt *Routes) Protected(pattern string, fn HandlerFunc, mws ...middleware.Middleware) {
	rt.Handle(pattern, fn, append([]middleware.Middleware{rt.Auth}, mws...)...)
}

// Throttled registers fn behind the credentials rate limit, when one is set
func (rt *Routes) Throttled(pattern string, fn HandlerFunc, mws ...middleware.Middleware) {
	if rt.Credentials != nil {
		mws = append([]middleware.Middleware{rt.Credentials}, mws...)
	}
	rt.Handle(pattern, fn, mws...)
}

// Body is shorthand for request body validation against schemaID
func (rt *Routes) Body(schemaID string) middleware.Middleware {
	return rt.Validator.Body(schemaID)
}

// Handlers holds every handler the API serves
type Handlers struct {
	Auth    *AuthHandler
	Health  *HealthHandler
	Members *CollectionHandler[*model.Member]
	Groups  *CollectionHandler[*model.Group]
	Events  *CollectionHandler[*model.Event]
	Courses *CollectionHandler[*model.Course]

	GroupMembers  *MembershipHandler
	EventMembers  *MembershipHandler
	CourseMembers *MembershipHandler
}

// RegisterRoutes registers the full API surface
func RegisterRoutes(rt *Routes, h Handlers) {
	rt.Handle("GET /health", h.Health.Check)

	h.Auth.Register(rt)

	h.Members.Register(rt)
	h.Groups.Register(rt)
	h.Events.Register(rt)
	h.Courses.Register(rt)

	h.GroupMembers.Register(rt)
	h.EventMembers.Register(rt)
	h.CourseMembers.Register(rt)
}
