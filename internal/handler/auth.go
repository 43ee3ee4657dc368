package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/forgo/iglesia/api/internal/middleware"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/service"
	"github.com/forgo/iglesia/api/internal/validation"
	"github.com/forgo/iglesia/api/pkg/jwt"
)

// AuthService is the identity provider used by AuthHandler
type AuthService interface {
	SignUp(ctx context.Context, req service.SignUpRequest) (*service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	SignInAnonymous(ctx context.Context) (*service.AuthResult, error)
	SignOut(ctx context.Context, claims *jwt.Claims) error
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUpRequest represents the signup endpoint request body
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// SignInRequest represents the signin endpoint request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by every endpoint that issues a token
type AuthResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Register adds the auth routes
func (h *AuthHandler) Register(rt *Routes) {
	rt.Throttled("POST /api/auth/signup", h.SignUp, rt.Body(validation.AuthSignUp))
	rt.Throttled("POST /api/auth/signin", h.SignIn, rt.Body(validation.AuthSignIn))
	rt.Throttled("POST /api/auth/signin/anonymous", h.SignInAnonymous)

	rt.Protected("POST /api/auth/signout", h.SignOut)
	rt.Protected("GET /api/auth/me", h.Me)
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) error {
	var req SignUpRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}

	result, err := h.authService.SignUp(r.Context(), service.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusCreated, toAuthResponse(result))
	return nil
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) error {
	var req SignInRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}

	result, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, toAuthResponse(result))
	return nil
}

// SignInAnonymous handles POST /api/auth/signin/anonymous
func (h *AuthHandler) SignInAnonymous(w http.ResponseWriter, r *http.Request) error {
	result, err := h.authService.SignInAnonymous(r.Context())
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusCreated, toAuthResponse(result))
	return nil
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) error {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return model.NewUnauthorizedError("authentication required")
	}

	if err := h.authService.SignOut(r.Context(), claims); err != nil {
		return err
	}

	WriteNoContent(w)
	return nil
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) error {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		return model.NewUnauthorizedError("authentication required")
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, user)
	return nil
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	resp := AuthResponse{User: result.User}
	if result.TokenPair != nil {
		resp.Token = result.TokenPair.AccessToken
		resp.TokenType = result.TokenPair.TokenType
		resp.ExpiresAt = result.TokenPair.ExpiresAt
	}
	return resp
}
