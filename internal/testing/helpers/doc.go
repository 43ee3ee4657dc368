// Package helpers provides test utility functions for the Iglesia API.
//
// # JWT Helpers
//
// Mint tokens accepted by a test JWT service:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(t, user)
//	expired := jwtHelper.GenerateExpiredToken(t, user)
//
// # Request Helpers
//
// Build and serve requests against a handler:
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/api/members").
//	    WithToken(token).
//	    WithBody(map[string]string{"Nombre": "Ana"}).
//	    Do(router)
//
// # Assertion Helpers
//
//	helpers.AssertStatus(t, rr, http.StatusCreated)
//	helpers.AssertValidationError(t, rr, "TipoMiembro")
//	helpers.AssertDocumentNotExists(t, store, "members", id)
package helpers
