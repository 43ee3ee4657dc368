package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", DefaultPageSize, false},
		{"1", 1, false},
		{"100", 100, false},
		{"0", 0, true},
		{"101", 0, true},
		{"-5", 0, true},
		{"ten", 0, true},
		{"2.5", 0, true},
	}

	for _, tt := range tests {
		q := url.Values{}
		if tt.raw != "" {
			q.Set("pageSize", tt.raw)
		}
		got, err := ParsePageSize(q)
		if tt.wantErr {
			assert.Error(t, err, "pageSize=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "pageSize=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestQuery_Middleware(t *testing.T) {
	t.Parallel()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Query(RequiredString("searchString"), PageSize())(next)

	tests := []struct {
		target string
		status int
	}{
		{"/search?searchString=Jo", http.StatusOK},
		{"/search?searchString=Jo&pageSize=5", http.StatusOK},
		{"/search", http.StatusBadRequest},
		{"/search?searchString=Jo&pageSize=0", http.StatusBadRequest},
		{"/search?searchString=Jo&pageSize=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, tt.status, rr.Code, tt.target)
	}
}
