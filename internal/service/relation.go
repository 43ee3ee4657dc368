package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/repository"
)

// RelationService manages one relation collection whose records live at the
// key derived from both ids.
type RelationService struct {
	repo *repository.RelationRepository
}

// NewRelationService creates a relation service
func NewRelationService(repo *repository.RelationRepository) (*RelationService, error) {
	if repo == nil {
		return nil, errors.New("relation repository is required")
	}
	return &RelationService{repo: repo}, nil
}

// AddRelation writes the relation for (fromID, toID), overwriting any
// existing one, and returns the stored record including its id.
func (s *RelationService) AddRelation(ctx context.Context, fromID, toID string, data interface{}) (database.Document, error) {
	key, err := model.NewRelationKey(fromID, toID)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Put(ctx, key, data)
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, "error adding relation")
	}
	return doc, nil
}

// GetRelation returns the relation for (fromID, toID) or a 404
func (s *RelationService) GetRelation(ctx context.Context, fromID, toID string) (database.Document, error) {
	key, err := model.NewRelationKey(fromID, toID)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Get(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, model.NewNotFoundError("Relation")
	}
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, "error fetching relation")
	}
	return doc, nil
}

// RemoveRelation deletes the relation for (fromID, toID). It fails with a
// 404 when no such relation exists.
func (s *RelationService) RemoveRelation(ctx context.Context, fromID, toID string) error {
	if _, err := s.GetRelation(ctx, fromID, toID); err != nil {
		return err
	}
	key, _ := model.NewRelationKey(fromID, toID)
	if err := s.repo.Delete(ctx, key); err != nil {
		return model.WrapError(err, http.StatusInternalServerError, "error removing relation")
	}
	return nil
}

// ValidateExists reports whether a record exists at id in collection
func (s *RelationService) ValidateExists(ctx context.Context, collection, id string) (bool, error) {
	ok, err := s.repo.Exists(ctx, collection, id)
	if err != nil {
		return false, model.WrapError(err, http.StatusInternalServerError, "error checking "+collection)
	}
	return ok, nil
}

// ListFrom returns every relation whose from id matches
func (s *RelationService) ListFrom(ctx context.Context, fromID string) ([]model.RelationRecord, error) {
	docs, err := s.repo.ListFrom(ctx, fromID)
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, "error listing relations")
	}
	return s.records(docs), nil
}

// ListTo returns every relation whose to id matches
func (s *RelationService) ListTo(ctx context.Context, toID string) ([]model.RelationRecord, error) {
	docs, err := s.repo.ListTo(ctx, toID)
	if err != nil {
		return nil, model.WrapError(err, http.StatusInternalServerError, "error listing relations")
	}
	return s.records(docs), nil
}

// CascadeFrom returns a DeleteHook removing every relation from the deleted id
func (s *RelationService) CascadeFrom() DeleteHook {
	return s.repo.DeleteAllFrom
}

// CascadeTo returns a DeleteHook removing every relation to the deleted id
func (s *RelationService) CascadeTo() DeleteHook {
	return s.repo.DeleteAllTo
}

func (s *RelationService) records(docs []database.Document) []model.RelationRecord {
	out := make([]model.RelationRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, s.repo.Record(doc))
	}
	return out
}
