package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/iglesia/api/internal/model"
)

// MembershipService links members to one kind of entity (groups, events or
// courses) and reads the link from either side.
type MembershipService struct {
	kind      model.RelationKind
	relations *RelationService
	members   *CollectionService[*model.Member]
	entities  EntityCollection
	now       func() time.Time
}

// MembershipServiceConfig holds the dependencies of a MembershipService
type MembershipServiceConfig struct {
	Kind      model.RelationKind
	Relations *RelationService
	Members   *CollectionService[*model.Member]
	Entities  EntityCollection
	Now       func() time.Time
}

// NewMembershipService creates a membership service and registers the
// cascades that remove relations when either side is deleted.
func NewMembershipService(cfg MembershipServiceConfig) (*MembershipService, error) {
	if cfg.Relations == nil || cfg.Members == nil || cfg.Entities == nil {
		return nil, errors.New("membership service requires relations, members and entities")
	}
	if cfg.Kind.Build == nil {
		return nil, errors.New("relation kind has no record builder")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	cfg.Members.OnDelete(cfg.Relations.CascadeFrom())
	cfg.Entities.OnDelete(cfg.Relations.CascadeTo())

	return &MembershipService{
		kind:      cfg.Kind,
		relations: cfg.Relations,
		members:   cfg.Members,
		entities:  cfg.Entities,
		now:       cfg.Now,
	}, nil
}

// EntityName returns the display name of the linked entity type
func (s *MembershipService) EntityName() string {
	return s.entities.EntityName()
}

// AddMember links a member to an entity. Both must exist. Adding an existing
// link overwrites it.
func (s *MembershipService) AddMember(ctx context.Context, entityID, memberID, role string) (interface{}, error) {
	key, err := model.NewRelationKey(memberID, entityID)
	if err != nil {
		return nil, err
	}
	if _, err := s.entities.Lookup(ctx, entityID); err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	record := s.kind.Build(key, role, member.Label(), s.now().UTC())
	if _, err := s.relations.AddRelation(ctx, key.From, key.To, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RemoveMember deletes the link between a member and an entity
func (s *MembershipService) RemoveMember(ctx context.Context, entityID, memberID string) error {
	return s.relations.RemoveRelation(ctx, memberID, entityID)
}

// EntityMembers lists the members linked to an entity with their display
// fields. Links whose member no longer exists are skipped.
func (s *MembershipService) EntityMembers(ctx context.Context, entityID string) ([]model.EntityMember, error) {
	if _, err := s.entities.Lookup(ctx, entityID); err != nil {
		return nil, err
	}
	records, err := s.relations.ListTo(ctx, entityID)
	if err != nil {
		return nil, err
	}

	out := make([]model.EntityMember, 0, len(records))
	for _, rec := range records {
		member, err := s.members.GetByID(ctx, rec.From)
		if isNotFound(err) {
			slog.Warn("skipping relation to missing member",
				"collection", s.kind.Collection,
				"relation_id", rec.ID,
				"member_id", rec.From,
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, model.EntityMember{
			MemberID:    member.ID,
			Nombre:      member.Nombre,
			Apellido:    member.Apellido,
			TipoMiembro: member.TipoMiembro,
			Role:        rec.Role,
			JoinedAt:    rec.CreatedAt,
		})
	}
	return out, nil
}

// MemberEntities lists the entities a member is linked to
func (s *MembershipService) MemberEntities(ctx context.Context, memberID string) ([]model.MemberEntity, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	records, err := s.relations.ListFrom(ctx, memberID)
	if err != nil {
		return nil, err
	}

	out := make([]model.MemberEntity, 0, len(records))
	for _, rec := range records {
		entity, err := s.entities.Lookup(ctx, rec.To)
		if isNotFound(err) {
			slog.Warn("skipping relation to missing entity",
				"collection", s.kind.Collection,
				"relation_id", rec.ID,
				"entity_id", rec.To,
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, model.MemberEntity{
			EntityID: entity.GetID(),
			Nombre:   entity.Label(),
			Role:     rec.Role,
			JoinedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

func isNotFound(err error) bool {
	apiErr, ok := model.AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
