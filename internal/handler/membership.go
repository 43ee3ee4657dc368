package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/service"
	"github.com/forgo/iglesia/api/internal/validation"
)

// MembershipHandler serves the member relation endpoints of one entity
// collection (groups, events or courses).
type MembershipHandler struct {
	service *service.MembershipService
	plural  string
}

// NewMembershipHandler creates a membership handler mounted under
// /api/{plural}
func NewMembershipHandler(svc *service.MembershipService, plural string) (*MembershipHandler, error) {
	if svc == nil {
		return nil, errors.New("membership service is required")
	}
	if plural == "" {
		return nil, errors.New("plural name is required")
	}
	return &MembershipHandler{service: svc, plural: plural}, nil
}

// AddMemberRequest is the body of POST /api/{plural}/{entityId}/members
type AddMemberRequest struct {
	MemberID string `json:"memberId"`
	Role     string `json:"role,omitempty"`
}

// Register adds the relation routes
func (h *MembershipHandler) Register(rt *Routes) {
	base := "/api/" + h.plural

	rt.Protected("POST "+base+"/{entityId}/members", h.AddMember, rt.Body(validation.MembershipAdd))
	rt.Protected("DELETE "+base+"/{entityId}/members/{memberId}", h.RemoveMember)
	rt.Protected("GET "+base+"/{entityId}/members", h.EntityMembers)
	rt.Protected("GET "+base+"/members/{memberId}/"+h.plural, h.MemberEntities)
}

// AddMember handles POST /api/{plural}/{entityId}/members
func (h *MembershipHandler) AddMember(w http.ResponseWriter, r *http.Request) error {
	var req AddMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}

	result, err := h.service.AddMember(r.Context(), r.PathValue("entityId"), req.MemberID, req.Role)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Member added to %s successfully", strings.ToLower(h.service.EntityName())),
		"result":  result,
	})
	return nil
}

// RemoveMember handles DELETE /api/{plural}/{entityId}/members/{memberId}
func (h *MembershipHandler) RemoveMember(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.RemoveMember(r.Context(), r.PathValue("entityId"), r.PathValue("memberId")); err != nil {
		return err
	}

	WriteNoContent(w)
	return nil
}

// EntityMembers handles GET /api/{plural}/{entityId}/members
func (h *MembershipHandler) EntityMembers(w http.ResponseWriter, r *http.Request) error {
	members, err := h.service.EntityMembers(r.Context(), r.PathValue("entityId"))
	if err != nil {
		return err
	}
	if members == nil {
		members = []model.EntityMember{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
	return nil
}

// MemberEntities handles GET /api/{plural}/members/{memberId}/{plural}
func (h *MembershipHandler) MemberEntities(w http.ResponseWriter, r *http.Request) error {
	entities, err := h.service.MemberEntities(r.Context(), r.PathValue("memberId"))
	if err != nil {
		return err
	}
	if entities == nil {
		entities = []model.MemberEntity{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{h.plural: entities})
	return nil
}
