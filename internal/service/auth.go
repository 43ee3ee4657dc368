package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Password constraints
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

// UserStore defines the interface for user storage
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles sign up, sign in and sign out
type AuthService struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
	now        func() time.Time
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	Users        UserStore
	TokenService *TokenService
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	Now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) (*AuthService, error) {
	if cfg.Users == nil || cfg.TokenService == nil {
		return nil, errors.New("auth service requires a user store and a token service")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AuthService{
		users:      cfg.Users,
		tokens:     cfg.TokenService,
		bcryptCost: cfg.BcryptCost,
		now:        cfg.Now,
	}, nil
}

// SignUpRequest represents a registration request
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// AuthResult is returned by every successful sign in
type AuthResult struct {
	User      *model.User `json:"user"`
	TokenPair *TokenPair  `json:"token"`
}

// SignUp creates a new user account with email and password
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(user)
}

// SignIn authenticates a user with email and password
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// SignInAnonymous creates a credential-less user and signs it in
func (s *AuthService) SignInAnonymous(ctx context.Context) (*AuthResult, error) {
	user := model.NewAnonymousUser(s.now().UTC())
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// SignOut revokes the presented access token
func (s *AuthService) SignOut(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return jwt.ErrInvalidToken
	}
	return s.tokens.Revoke(ctx, claims)
}

// CurrentUser retrieves the signed-in user
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ValidateAccessToken validates an access token and returns the claims
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*jwt.Claims, error) {
	return s.tokens.Validate(ctx, token)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Helper functions

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	return dotIndex < len(email)-1
}
