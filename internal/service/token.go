package service

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/pkg/jwt"
)

// RevocationStore records access tokens revoked before they expire
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID, userID string, revokedAt, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// TokenService issues, validates and revokes access tokens
type TokenService struct {
	jwtService *jwt.Service
	revoked    RevocationStore
	now        func() time.Time
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	JWTService *jwt.Service
	Revoked    RevocationStore
	Now        func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) (*TokenService, error) {
	if cfg.JWTService == nil || cfg.Revoked == nil {
		return nil, errors.New("token service requires a JWT service and a revocation store")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		jwtService: cfg.JWTService,
		revoked:    cfg.Revoked,
		now:        cfg.Now,
	}, nil
}

// TokenPair is the credential handed to a client after sign in
type TokenPair struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"` // seconds
	ExpiresAt   time.Time `json:"expires_at"`
}

// Issue creates an access token for user
func (s *TokenService) Issue(user *model.User) (*TokenPair, error) {
	claims := jwt.Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Anonymous: user.Anonymous,
	}
	claims.Subject = user.ID

	accessToken, err := s.jwtService.Sign(claims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.GetExpiration().Seconds()),
		ExpiresAt:   s.now().Add(s.jwtService.GetExpiration()).UTC(),
	}, nil
}

// Validate checks the token signature, lifetime and revocation. A failing
// revocation lookup rejects the token.
func (s *TokenService) Validate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, jwt.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blocks the token described by claims until it expires
func (s *TokenService) Revoke(ctx context.Context, claims *jwt.Claims) error {
	now := s.now()
	expiresAt := now.Add(s.jwtService.GetExpiration())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.UserID, now, expiresAt)
}

// PurgeExpired drops revocations for tokens that can no longer validate
func (s *TokenService) PurgeExpired(ctx context.Context) (int, error) {
	return s.revoked.DeleteExpired(ctx, s.now())
}
