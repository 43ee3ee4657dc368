package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/iglesia/api/internal/middleware"
	"github.com/forgo/iglesia/api/internal/model"
)

// HandlerFunc is an HTTP handler that reports failures by returning them.
// ErrorRenderer turns it into an http.Handler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
	Stack  string             `json:"stack,omitempty"`
}

// ErrorRenderer is the single place where handler errors become responses
type ErrorRenderer struct {
	production bool
}

// NewErrorRenderer creates a renderer. Outside production the error chain is
// included in the body as "stack".
func NewErrorRenderer(production bool) *ErrorRenderer {
	return &ErrorRenderer{production: production}
}

// Handle adapts fn to an http.Handler
func (e *ErrorRenderer) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			e.Render(w, r, err)
		}
	})
}

// Render writes err as a JSON error response
func (e *ErrorRenderer) Render(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapServiceError(err)

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", apiErr.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Debug("request rejected", attrs...)
	}

	body := ErrorBody{Error: apiErr.Message, Fields: apiErr.Fields}
	if !e.production {
		body.Stack = errorChain(err)
	}
	WriteJSON(w, apiErr.StatusCode, body)
}

// errorChain lists every error in err's Unwrap chain, outermost first,
// followed by the goroutine stack when err came from a recovered panic.
func errorChain(err error) string {
	var lines []string
	var panicked *middleware.PanicError
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		lines = append(lines, fmt.Sprintf("%T: %s", cur, cur.Error()))
	}
	if errors.As(err, &panicked) && len(panicked.Stack) > 0 {
		lines = append(lines, string(panicked.Stack))
	}
	return strings.Join(lines, "\n")
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// DecodeJSON decodes a JSON request body into the given value
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return model.NewBadRequestError("invalid request body")
	}
	return nil
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
