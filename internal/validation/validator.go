package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/forgo/iglesia/api/internal/model"
)

// Schema ids
const (
	MemberCreate  = "member.create"
	MemberUpdate  = "member.update"
	GroupCreate   = "group.create"
	GroupUpdate   = "group.update"
	EventCreate   = "event.create"
	EventUpdate   = "event.update"
	CourseCreate  = "course.create"
	CourseUpdate  = "course.update"
	MembershipAdd = "membership.add"
	AuthSignUp    = "auth.signup"
	AuthSignIn    = "auth.signin"
)

// maxBodyBytes bounds every validated request body
const maxBodyBytes = 1 << 20

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks request bodies against compiled JSON schemas
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the embedded request schemas
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("cannot read schemas: %w", err)
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read schema %s: %w", e.Name(), err)
		}
		docs = append(docs, string(data))
	}
	return NewFromStrings(docs)
}

// NewFromStrings compiles schemas; each must carry an $id
func NewFromStrings(schemas []string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(schemas))}
	for _, str := range schemas {
		var head struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal([]byte(str), &head); err != nil {
			return nil, fmt.Errorf("parse error in schema: %w", err)
		}
		if head.ID == "" {
			return nil, fmt.Errorf("schema does not contain $id: %q", str)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(str))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", head.ID, err)
		}
		v.schemas[head.ID] = schema
	}
	return v, nil
}

// Has reports whether schemaID is known
func (v *Validator) Has(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// Validate checks a JSON document against schemaID. An invalid document
// yields a 400 *model.APIError listing every offending field.
func (v *Validator) Validate(schemaID string, body []byte) error {
	schema, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}
	if !json.Valid(body) {
		return model.NewBadRequestError("request body must be valid JSON")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return model.NewBadRequestError(fmt.Sprintf("request body could not be validated: %v", err))
	}
	if result.Valid() {
		return nil
	}
	return model.NewValidationError(fieldErrors(result.Errors()))
}

func fieldErrors(errs []gojsonschema.ResultError) []model.FieldError {
	out := make([]model.FieldError, 0, len(errs))
	for _, e := range errs {
		field := e.Field()
		if prop, ok := e.Details()["property"].(string); ok && prop != "" {
			field = prop
		}
		out = append(out, model.FieldError{Field: field, Message: e.Description()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Body returns middleware that rejects requests whose body does not satisfy
// schemaID. The body is restored for the next handler.
func (v *Validator) Body(schemaID string) func(http.Handler) http.Handler {
	if !v.Has(schemaID) {
		panic(fmt.Sprintf("validation: unknown schema %q", schemaID))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					model.NewAPIError(http.StatusRequestEntityTooLarge, "request body too large").WriteJSON(w)
					return
				}
				model.NewBadRequestError("could not read request body").WriteJSON(w)
				return
			}

			if err := v.Validate(schemaID, body); err != nil {
				writeError(w, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := model.AsAPIError(err); ok {
		apiErr.WriteJSON(w)
		return
	}
	model.NewInternalError("").WriteJSON(w)
}
