package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrapError_PlainError_WrapsWithStatusAndText(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")

	err := WrapError(cause, http.StatusInternalServerError, "error fetching member")

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, "connection reset") {
		t.Errorf("expected message to carry original text, got %q", apiErr.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
}

func TestWrapError_APIError_ReturnedUnchanged(t *testing.T) {
	t.Parallel()
	notFound := NewNotFoundError("Member")

	err := WrapError(notFound, http.StatusInternalServerError, "error fetching member")

	if err != error(notFound) {
		t.Errorf("expected the original APIError back, got %v", err)
	}
}

func TestWrapError_WrappedAPIError_NotDoubleWrapped(t *testing.T) {
	t.Parallel()
	inner := NewBadRequestError("bad id")
	outer := fmt.Errorf("context: %w", inner)

	err := WrapError(outer, http.StatusInternalServerError, "ignored")

	apiErr, _ := AsAPIError(err)
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 to survive, got %d", apiErr.StatusCode)
	}
}

func TestWrapError_Nil(t *testing.T) {
	t.Parallel()
	if err := WrapError(nil, http.StatusInternalServerError, "x"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestNewValidationError_MessageNamesFirstField(t *testing.T) {
	t.Parallel()

	err := NewValidationError([]FieldError{
		{Field: "TipoMiembro", Message: "is required"},
		{Field: "Email", Message: "invalid format"},
	})

	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.StatusCode)
	}
	if err.Message != "TipoMiembro: is required (and 1 more errors)" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestNewInternalError_DefaultMessage(t *testing.T) {
	t.Parallel()
	if got := NewInternalError("").Message; got != "An unexpected server error occurred" {
		t.Errorf("unexpected default message %q", got)
	}
}

func TestAPIError_WriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	NewNotFoundError("Group").WriteJSON(rr)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "Group not found" {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["fields"]; ok {
		t.Error("fields should be omitted when empty")
	}
}
