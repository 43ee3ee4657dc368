package validation

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/iglesia/api/internal/model"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func requireValidationError(t *testing.T, err error) *model.APIError {
	t.Helper()
	apiErr, ok := model.AsAPIError(err)
	require.True(t, ok, "expected APIError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	return apiErr
}

func TestNew_CompilesEmbeddedSchemas(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	for _, id := range []string{
		MemberCreate, MemberUpdate, GroupCreate, GroupUpdate, EventCreate, EventUpdate,
		CourseCreate, CourseUpdate, MembershipAdd, AuthSignUp, AuthSignIn,
	} {
		assert.True(t, v.Has(id), "missing schema %s", id)
	}
}

func TestNewFromStrings_RequiresID(t *testing.T) {
	t.Parallel()
	_, err := NewFromStrings([]string{`{"type": "object"}`})
	assert.Error(t, err)

	_, err = NewFromStrings([]string{`not json`})
	assert.Error(t, err)
}

func TestValidate_MemberCreate(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	assert.NoError(t, v.Validate(MemberCreate, []byte(`{"Nombre":"Ana","TipoMiembro":"Miembro"}`)))
	assert.NoError(t, v.Validate(MemberCreate, []byte(`{"Nombre":"Ana","TipoMiembro":"Lider","FechaNacimiento":"1990-04-01","Email":"ana@example.com"}`)))
}

func TestValidate_MemberCreate_MissingTipoMiembro_NamesField(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	err := v.Validate(MemberCreate, []byte(`{"Nombre":"Ana"}`))

	apiErr := requireValidationError(t, err)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "TipoMiembro", apiErr.Fields[0].Field)
	assert.Contains(t, apiErr.Message, "TipoMiembro")
}

func TestValidate_MemberCreate_Rejections(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown tipo", `{"Nombre":"Ana","TipoMiembro":"Rey"}`, "TipoMiembro"},
		{"empty nombre", `{"Nombre":"","TipoMiembro":"Miembro"}`, "Nombre"},
		{"wrong type", `{"Nombre":42,"TipoMiembro":"Miembro"}`, "Nombre"},
		{"bad date", `{"Nombre":"Ana","TipoMiembro":"Miembro","FechaNacimiento":"01/04/1990"}`, "FechaNacimiento"},
		{"unknown field", `{"Nombre":"Ana","TipoMiembro":"Miembro","Edad":30}`, "Edad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := requireValidationError(t, v.Validate(MemberCreate, []byte(tt.body)))
			require.NotEmpty(t, apiErr.Fields)
			assert.Equal(t, tt.field, apiErr.Fields[0].Field)
		})
	}
}

func TestValidate_UpdateSchemasArePartial(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	assert.NoError(t, v.Validate(MemberUpdate, []byte(`{"Telefono":"555-0100"}`)))
	assert.NoError(t, v.Validate(GroupUpdate, []byte(`{"Lugar":"Salon 2"}`)))
	assert.NoError(t, v.Validate(EventUpdate, []byte(`{"Fecha":"2026-12-24T19:30:00Z"}`)))
	assert.NoError(t, v.Validate(CourseUpdate, []byte(`{"Estado":"EnCurso"}`)))

	requireValidationError(t, v.Validate(MemberUpdate, []byte(`{}`)))
	requireValidationError(t, v.Validate(CourseUpdate, []byte(`{"Estado":"Cerrado"}`)))
}

func TestValidate_EventFecha_RequiresRFC3339(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	for _, id := range []string{EventCreate, EventUpdate} {
		for _, fecha := range []string{"2024-05-01", "19:30:00", "2024-05-01 19:30:00"} {
			body := `{"Nombre":"Vigilia","Fecha":"` + fecha + `"}`
			apiErr := requireValidationError(t, v.Validate(id, []byte(body)))
			require.NotEmpty(t, apiErr.Fields, "%s accepted %q", id, fecha)
			assert.Equal(t, "Fecha", apiErr.Fields[0].Field)
		}
		assert.NoError(t, v.Validate(id, []byte(`{"Nombre":"Vigilia","Fecha":"2024-05-01T19:30:00-05:00"}`)))
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	apiErr := requireValidationError(t, v.Validate(GroupCreate, []byte(`{"Nombre":`)))
	assert.Equal(t, "request body must be valid JSON", apiErr.Message)
}

func TestValidate_UnknownSchema(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	err := v.Validate("nope", []byte(`{}`))

	require.Error(t, err)
	_, isAPI := model.AsAPIError(err)
	assert.False(t, isAPI)
}

func TestBody_Middleware(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got = string(data)
		w.WriteHeader(http.StatusCreated)
	})
	h := v.Body(MembershipAdd)(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":"m1"}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, `{"memberId":"m1"}`, got)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"role":"Lider"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"memberId`)
}

func TestBody_UnknownSchemaPanics(t *testing.T) {
	t.Parallel()
	v := newValidator(t)

	assert.Panics(t, func() { v.Body("nope") })
}
