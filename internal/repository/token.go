package repository

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
)

const revokedTokensCollection = "revoked_tokens"

// TokenRepository tracks access tokens revoked before their expiry
type TokenRepository struct {
	store database.DocumentStore
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(store database.DocumentStore) *TokenRepository {
	return &TokenRepository{store: store}
}

// Revoke records a token id, revoked at revokedAt, until expiresAt
func (r *TokenRepository) Revoke(ctx context.Context, tokenID, userID string, revokedAt, expiresAt time.Time) error {
	return r.store.Set(ctx, revokedTokensCollection, tokenID, database.Document{
		"userId":    userID,
		"expiresAt": formatTime(expiresAt),
		"revokedAt": formatTime(revokedAt),
	})
}

// IsRevoked reports whether a token id has been revoked
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.store.Get(ctx, revokedTokensCollection, tokenID)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired removes revocations whose token has already expired and
// returns how many were removed
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	q := database.Query{}.Where("expiresAt", database.OpLt, formatTime(now))
	docs, err := r.store.Find(ctx, revokedTokensCollection, q)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	batch := database.NewBatch()
	for _, doc := range docs {
		batch.Delete(revokedTokensCollection, doc.ID())
	}
	if err := r.store.Commit(ctx, batch); err != nil {
		return 0, err
	}
	return len(docs), nil
}
