package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/forgo/iglesia/api/internal/model"
)

// Page size bounds for list and search endpoints
const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// QueryRule checks one aspect of a query string
type QueryRule func(q url.Values) *model.FieldError

// PageSize accepts an absent pageSize or an integer in [MinPageSize, MaxPageSize]
func PageSize() QueryRule {
	return func(q url.Values) *model.FieldError {
		if _, err := ParsePageSize(q); err != nil {
			return &model.FieldError{Field: "pageSize", Message: err.Error()}
		}
		return nil
	}
}

// RequiredString rejects a missing or empty parameter
func RequiredString(name string) QueryRule {
	return func(q url.Values) *model.FieldError {
		if q.Get(name) == "" {
			return &model.FieldError{Field: name, Message: fmt.Sprintf("%s is required", name)}
		}
		return nil
	}
}

// ParsePageSize reads pageSize, defaulting to DefaultPageSize
func ParsePageSize(q url.Values) (int, error) {
	raw := q.Get("pageSize")
	if raw == "" {
		return DefaultPageSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("pageSize must be an integer")
	}
	if n < MinPageSize || n > MaxPageSize {
		return 0, fmt.Errorf("pageSize must be between %d and %d", MinPageSize, MaxPageSize)
	}
	return n, nil
}

// Query returns middleware that rejects requests failing any rule with a 400
func Query(rules ...QueryRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var fields []model.FieldError
			for _, rule := range rules {
				if fe := rule(q); fe != nil {
					fields = append(fields, *fe)
				}
			}
			if len(fields) > 0 {
				model.NewValidationError(fields).WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
