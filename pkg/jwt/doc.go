// Package jwt provides JSON Web Token utilities for the Iglesia API.
//
// Tokens are RS256 signed with github.com/golang-jwt/jwt/v5. Every token
// carries a unique id (jti) so a single token can be revoked on sign out.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "iglesia-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: user.ID, Email: user.Email})
//
// # Token Validation
//
//	claims, err := service.Validate(tokenString)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to sign in again
//	}
//
// Key pairs for local development are produced by cmd/keygen.
package jwt
