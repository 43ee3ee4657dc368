package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/service"
	"github.com/forgo/iglesia/api/internal/validation"
)

// CollectionHandler serves list, search and CRUD endpoints for one entity
// collection. Request validation happens in the route's middleware chain, so
// the handler methods only shape requests and responses.
type CollectionHandler[T model.Entity] struct {
	service      *service.CollectionService[T]
	plural       string
	newEntity    func() T
	createSchema string
	updateSchema string
}

// CollectionHandlerConfig holds the dependencies for a CollectionHandler
type CollectionHandlerConfig[T model.Entity] struct {
	Service *service.CollectionService[T]
	// Plural names the URL segment and the list envelope key, e.g. "members"
	Plural       string
	NewEntity    func() T
	CreateSchema string
	UpdateSchema string
}

// NewCollectionHandler creates a collection handler
func NewCollectionHandler[T model.Entity](cfg CollectionHandlerConfig[T]) (*CollectionHandler[T], error) {
	if cfg.Service == nil {
		return nil, errors.New("collection service is required")
	}
	if cfg.Plural == "" || cfg.NewEntity == nil {
		return nil, errors.New("plural name and entity constructor are required")
	}
	return &CollectionHandler[T]{
		service:      cfg.Service,
		plural:       cfg.Plural,
		newEntity:    cfg.NewEntity,
		createSchema: cfg.CreateSchema,
		updateSchema: cfg.UpdateSchema,
	}, nil
}

// Register adds the collection routes under /api/{plural}
func (h *CollectionHandler[T]) Register(rt *Routes) {
	base := "/api/" + h.plural

	rt.Protected("GET "+base, h.GetAll, validation.Query(validation.PageSize()))
	rt.Protected("GET "+base+"/search", h.Search,
		validation.Query(validation.RequiredString("searchString"), validation.PageSize()))
	rt.Protected("GET "+base+"/{id}", h.GetByID)
	rt.Protected("POST "+base, h.Create, rt.Body(h.createSchema))
	rt.Protected("PUT "+base+"/{id}", h.Update, rt.Body(h.updateSchema))
	rt.Protected("DELETE "+base+"/{id}", h.Delete)
}

// GetAll handles GET /api/{plural}
func (h *CollectionHandler[T]) GetAll(w http.ResponseWriter, r *http.Request) error {
	pageSize, err := pageSizeParam(r)
	if err != nil {
		return err
	}

	page, err := h.service.GetAll(r.Context(), r.URL.Query().Get("startAfter"), pageSize)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, h.envelope(page))
	return nil
}

// Search handles GET /api/{plural}/search
func (h *CollectionHandler[T]) Search(w http.ResponseWriter, r *http.Request) error {
	pageSize, err := pageSizeParam(r)
	if err != nil {
		return err
	}

	q := r.URL.Query()
	page, err := h.service.Search(r.Context(), q.Get("searchString"), q.Get("startAfter"), pageSize)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, h.envelope(page))
	return nil
}

// GetByID handles GET /api/{plural}/{id}
func (h *CollectionHandler[T]) GetByID(w http.ResponseWriter, r *http.Request) error {
	entity, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, entity)
	return nil
}

// Create handles POST /api/{plural}
func (h *CollectionHandler[T]) Create(w http.ResponseWriter, r *http.Request) error {
	entity := h.newEntity()
	if err := DecodeJSON(r, entity); err != nil {
		return err
	}

	created, err := h.service.Create(r.Context(), entity)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusCreated, created)
	return nil
}

// Update handles PUT /api/{plural}/{id}. Only the supplied fields change.
func (h *CollectionHandler[T]) Update(w http.ResponseWriter, r *http.Request) error {
	var patch map[string]interface{}
	if err := DecodeJSON(r, &patch); err != nil {
		return err
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, updated)
	return nil
}

// Delete handles DELETE /api/{plural}/{id}
func (h *CollectionHandler[T]) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}

	WriteNoContent(w)
	return nil
}

func (h *CollectionHandler[T]) envelope(page *model.Page[T]) map[string]interface{} {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return map[string]interface{}{
		h.plural:         items,
		"nextStartAfter": page.NextStartAfter,
		"hasMore":        page.HasMore,
	}
}

func pageSizeParam(r *http.Request) (int, error) {
	n, err := validation.ParsePageSize(r.URL.Query())
	if err != nil {
		return 0, model.NewValidationError([]model.FieldError{{Field: "pageSize", Message: err.Error()}})
	}
	return n, nil
}
