package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"os"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWithExpiration(t, 15*time.Minute)
}

func newTestServiceWithExpiration(t *testing.T, expiration time.Duration) *Service {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return NewTestService(privateKey, "test-issuer", expiration)
}

// ============================================================================
// Service.Sign() Tests
// ============================================================================

func TestSign_ValidClaims_ReturnsToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(Claims{UserID: "u-123", Email: "test@example.com"})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("expected 3 parts in JWT, got %d", len(parts))
	}
}

func TestSign_NilPrivateKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test", expiration: 15 * time.Minute, now: time.Now}

	_, err := svc.Sign(Claims{UserID: "u-123"})

	if err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSign_SetsRegisteredClaims(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 30*time.Minute)
	before := time.Now().Add(-time.Second)

	token, err := svc.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer 'test-issuer', got %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
	if claims.IssuedAt == nil || claims.IssuedAt.Time.Before(before) {
		t.Errorf("unexpected IssuedAt %v", claims.IssuedAt)
	}
	wantExpiry := claims.IssuedAt.Time.Add(30 * time.Minute)
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(wantExpiry) {
		t.Errorf("expected ExpiresAt %v, got %v", wantExpiry, claims.ExpiresAt)
	}
}

func TestSign_UniqueTokenIDs(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	first, _ := svc.Sign(Claims{UserID: "u-123"})
	second, _ := svc.Sign(Claims{UserID: "u-123"})
	a, err := svc.Validate(first)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	b, err := svc.Validate(second)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("expected distinct token ids, both were %q", a.ID)
	}
}

func TestSign_PreservesCustomExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 30*time.Minute)
	customExpiry := time.Now().Add(time.Hour).Truncate(time.Second)

	claims := Claims{UserID: "u-123"}
	claims.ExpiresAt = gojwt.NewNumericDate(customExpiry)
	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validated, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !validated.ExpiresAt.Time.Equal(customExpiry) {
		t.Errorf("expected custom expiry %v, got %v", customExpiry, validated.ExpiresAt.Time)
	}
}

func TestSign_PreservesCustomClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "u-456", Email: "user@example.com", Anonymous: true}
	claims.Subject = "u-456"
	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validated, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if validated.UserID != "u-456" || validated.Subject != "u-456" {
		t.Errorf("user id mismatch: %+v", validated)
	}
	if validated.Email != "user@example.com" {
		t.Errorf("expected email, got %q", validated.Email)
	}
	if !validated.Anonymous {
		t.Error("expected anonymous claim to survive")
	}
}

// ============================================================================
// Service.Validate() Tests
// ============================================================================

func TestValidate_NilPublicKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test", now: time.Now}

	_, err := svc.Validate("a.b.c")

	if err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestValidate_Malformed_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "not.a.jwt"} {
		if _, err := svc.Validate(token); err != ErrInvalidToken {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_TamperedSignature_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	token, err := svc.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Validate(tampered); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_DifferentKey_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	signer := newTestService(t)
	verifier := newTestService(t)

	token, err := signer.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := verifier.Validate(token); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_ExpiredToken_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	past := svc.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })

	token, err := past.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_TokenNotYetValid_ReturnsErrTokenNotYetValid(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	future := svc.WithClock(func() time.Time { return time.Now().Add(5 * time.Minute) })

	token, err := future.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrTokenNotYetValid {
		t.Errorf("expected ErrTokenNotYetValid, got %v", err)
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	other := NewTestService(privateKey, "other-issuer", time.Hour)
	svc := NewTestService(privateKey, "test-issuer", time.Hour)

	token, err := other.Sign(Claims{UserID: "u-123"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "u-123"}
	claims.Issuer = "test-issuer"
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign HS256 token: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected HS256 token to be rejected")
	}
}

func TestValidate_MissingExpiry_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	svc := NewTestService(privateKey, "test-issuer", time.Hour)

	claims := Claims{UserID: "u-123"}
	claims.Issuer = "test-issuer"
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims).SignedString(privateKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetExpiration_ReturnsConfiguredDuration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 42*time.Minute)

	if got := svc.GetExpiration(); got != 42*time.Minute {
		t.Errorf("expected 42m, got %v", got)
	}
}

// ============================================================================
// NewService Tests
// ============================================================================

func TestNewService_NoKeys_ReturnsService(t *testing.T) {
	t.Parallel()

	svc, err := NewService(Config{Issuer: "test", ExpirationMins: 15})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.GetExpiration() != 15*time.Minute {
		t.Errorf("expected 15m expiration, got %v", svc.GetExpiration())
	}
}

func TestNewService_WithPrivateKey_LoadsKey(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	privateKeyPath := tempDir + "/private.pem"
	publicKeyPath := tempDir + "/public.pem"
	if err := GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}

	svc, err := NewService(Config{PrivateKeyPath: privateKeyPath, Issuer: "test", ExpirationMins: 15})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.privateKey == nil {
		t.Error("expected private key to be loaded")
	}
	if svc.publicKey == nil {
		t.Error("expected public key to be derived from private key")
	}
}

func TestNewService_WithPublicKeyOnly_ValidatesButCannotSign(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	privateKeyPath := tempDir + "/private.pem"
	publicKeyPath := tempDir + "/public.pem"
	if err := GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}

	signer, err := NewService(Config{PrivateKeyPath: privateKeyPath, Issuer: "test", ExpirationMins: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	verifier, err := NewService(Config{PublicKeyPath: publicKeyPath, Issuer: "test", ExpirationMins: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := signer.Sign(Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := verifier.Validate(token); err != nil {
		t.Errorf("expected public key to validate, got %v", err)
	}
	if _, err := verifier.Sign(Claims{UserID: "u-1"}); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewService_KeyNotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	if _, err := NewService(Config{PrivateKeyPath: "/nonexistent/key.pem"}); err == nil {
		t.Error("expected error for missing private key")
	}
	if _, err := NewService(Config{PublicKeyPath: "/nonexistent/key.pem"}); err == nil {
		t.Error("expected error for missing public key")
	}
}

func TestNewService_InvalidPEM_ReturnsError(t *testing.T) {
	t.Parallel()
	invalidKeyPath := t.TempDir() + "/invalid.pem"
	if err := writeFile(invalidKeyPath, []byte("not a valid PEM file")); err != nil {
		t.Fatalf("failed to write invalid key: %v", err)
	}

	if _, err := NewService(Config{PrivateKeyPath: invalidKeyPath}); err == nil {
		t.Error("expected error for invalid private key PEM")
	}
	if _, err := NewService(Config{PublicKeyPath: invalidKeyPath}); err == nil {
		t.Error("expected error for invalid public key PEM")
	}
}

// ============================================================================
// GenerateKeyPair Tests
// ============================================================================

func TestGenerateKeyPair_InvalidPath_ReturnsError(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	if err := GenerateKeyPair("/nonexistent/dir/private.pem", tempDir+"/public.pem"); err == nil {
		t.Error("expected error for invalid private key path")
	}
	if err := GenerateKeyPair(tempDir+"/private.pem", "/nonexistent/dir/public.pem"); err == nil {
		t.Error("expected error for invalid public key path")
	}
}

// ============================================================================
// Test Utilities
// ============================================================================

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
