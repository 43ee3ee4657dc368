// Package app assembles the Iglesia API: repositories, services, handlers,
// routes and the outer middleware chain.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/handler"
	"github.com/forgo/iglesia/api/internal/middleware"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/repository"
	"github.com/forgo/iglesia/api/internal/service"
	"github.com/forgo/iglesia/api/internal/validation"
	"github.com/forgo/iglesia/api/pkg/jwt"
)

// Config holds everything the API needs from the process
type Config struct {
	Store database.DocumentStore
	JWT   *jwt.Service
	// DB is pinged by /health; nil for the in-memory store
	DB             handler.Pinger
	Production     bool
	AllowedOrigins []string
	// Metrics, when set, instruments every request and serves /metrics
	Metrics *middleware.Metrics
	// CredentialsLimiter, when set, throttles sign up and sign in per client
	CredentialsLimiter *middleware.RateLimiter
	BcryptCost         int
	Now                func() time.Time
}

// App is the assembled API
type App struct {
	Handler http.Handler

	Auth    *service.AuthService
	Tokens  *service.TokenService
	Members *service.CollectionService[*model.Member]
	Groups  *service.CollectionService[*model.Group]
	Events  *service.CollectionService[*model.Event]
	Courses *service.CollectionService[*model.Course]

	GroupMembers  *service.MembershipService
	EventMembers  *service.MembershipService
	CourseMembers *service.MembershipService
}

// entitySpec describes one entity collection and its HTTP surface
type entitySpec[T model.Entity] struct {
	collection   string
	entityName   string
	newT         func() T
	createSchema string
	updateSchema string
}

func buildCollection[T model.Entity](store database.DocumentStore, spec entitySpec[T], now func() time.Time) (*service.CollectionService[T], *handler.CollectionHandler[T], error) {
	repo, err := repository.NewCollection(store, spec.collection, spec.newT)
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.NewCollectionService(repo, service.CollectionConfig{
		EntityName: spec.entityName,
		Now:        now,
	})
	if err != nil {
		return nil, nil, err
	}
	h, err := handler.NewCollectionHandler(handler.CollectionHandlerConfig[T]{
		Service:      svc,
		Plural:       spec.collection,
		NewEntity:    spec.newT,
		CreateSchema: spec.createSchema,
		UpdateSchema: spec.updateSchema,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, h, nil
}

func buildMembership(store database.DocumentStore, kind model.RelationKind, members *service.CollectionService[*model.Member], entities service.EntityCollection, plural string, now func() time.Time) (*service.MembershipService, *handler.MembershipHandler, error) {
	relRepo, err := repository.NewRelationRepository(store, kind.Collection, kind.FromField, kind.ToField)
	if err != nil {
		return nil, nil, err
	}
	relations, err := service.NewRelationService(relRepo)
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.NewMembershipService(service.MembershipServiceConfig{
		Kind:      kind,
		Relations: relations,
		Members:   members,
		Entities:  entities,
		Now:       now,
	})
	if err != nil {
		return nil, nil, err
	}
	h, err := handler.NewMembershipHandler(svc, plural)
	if err != nil {
		return nil, nil, err
	}
	return svc, h, nil
}

// New wires the API over cfg.Store
func New(cfg Config) (*App, error) {
	if cfg.Store == nil || cfg.JWT == nil {
		return nil, errors.New("app requires a document store and a JWT service")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	a := &App{}
	var h handler.Handlers
	var err error

	// ===== Entities =====
	a.Members, h.Members, err = buildCollection(cfg.Store, entitySpec[*model.Member]{
		collection: model.MembersCollection, entityName: "Member",
		newT:         func() *model.Member { return &model.Member{} },
		createSchema: validation.MemberCreate, updateSchema: validation.MemberUpdate,
	}, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("members: %w", err)
	}
	a.Groups, h.Groups, err = buildCollection(cfg.Store, entitySpec[*model.Group]{
		collection: model.GroupsCollection, entityName: "Group",
		newT:         func() *model.Group { return &model.Group{} },
		createSchema: validation.GroupCreate, updateSchema: validation.GroupUpdate,
	}, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("groups: %w", err)
	}
	a.Events, h.Events, err = buildCollection(cfg.Store, entitySpec[*model.Event]{
		collection: model.EventsCollection, entityName: "Event",
		newT:         func() *model.Event { return &model.Event{} },
		createSchema: validation.EventCreate, updateSchema: validation.EventUpdate,
	}, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	a.Courses, h.Courses, err = buildCollection(cfg.Store, entitySpec[*model.Course]{
		collection: model.CoursesCollection, entityName: "Course",
		newT:         func() *model.Course { return &model.Course{} },
		createSchema: validation.CourseCreate, updateSchema: validation.CourseUpdate,
	}, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}

	// ===== Relations =====
	a.GroupMembers, h.GroupMembers, err = buildMembership(cfg.Store, model.MemberGroups, a.Members, a.Groups, model.GroupsCollection, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}
	a.EventMembers, h.EventMembers, err = buildMembership(cfg.Store, model.MemberEvents, a.Members, a.Events, model.EventsCollection, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("event members: %w", err)
	}
	a.CourseMembers, h.CourseMembers, err = buildMembership(cfg.Store, model.MemberCourses, a.Members, a.Courses, model.CoursesCollection, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("course members: %w", err)
	}

	// ===== Auth =====
	a.Tokens, err = service.NewTokenService(service.TokenServiceConfig{
		JWTService: cfg.JWT,
		Revoked:    repository.NewTokenRepository(cfg.Store),
		Now:        cfg.Now,
	})
	if err != nil {
		return nil, err
	}
	a.Auth, err = service.NewAuthService(service.AuthServiceConfig{
		Users:        repository.NewUserRepository(cfg.Store),
		TokenService: a.Tokens,
		BcryptCost:   cfg.BcryptCost,
		Now:          cfg.Now,
	})
	if err != nil {
		return nil, err
	}
	h.Auth = handler.NewAuthHandler(a.Auth)
	h.Health = handler.NewHealthHandler(cfg.DB)

	// ===== Routes =====
	validator, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("validation schemas: %w", err)
	}

	mux := http.NewServeMux()
	routes := &handler.Routes{
		Mux:       mux,
		Auth:      middleware.Auth(a.Auth),
		Validator: validator,
		Errors:    handler.NewErrorRenderer(cfg.Production),
	}
	if cfg.CredentialsLimiter != nil {
		routes.Credentials = middleware.RateLimit(cfg.CredentialsLimiter)
	}
	handler.RegisterRoutes(routes, h)

	outer := []middleware.Middleware{middleware.RequestID}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
		outer = append(outer, cfg.Metrics.Middleware)
	}
	outer = append(outer,
		middleware.Logger,
		middleware.Recovery(routes.Errors.Render),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Compress,
	)
	a.Handler = middleware.Chain(mux, outer...)

	return a, nil
}
