package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRoutedMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /api/members/{id}", Route(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})))
	return mux
}

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	t.Parallel()
	m := NewMetrics("iglesia")
	handler := m.Middleware(newRoutedMux())

	for _, path := range []string{"/api/members/a", "/api/members/b", "/api/members/missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	ok := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "GET /api/members/{id}", "200"))
	if ok != 2 {
		t.Errorf("expected 2 successful requests, got %v", ok)
	}
	notFound := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "GET /api/members/{id}", "404"))
	if notFound != 1 {
		t.Errorf("expected 1 not found request, got %v", notFound)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	t.Parallel()
	m := NewMetrics("iglesia")
	handler := m.Middleware(newRoutedMux())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unmatched", "404"))
	if got != 1 {
		t.Errorf("expected 1 unmatched request, got %v", got)
	}
	if testutil.ToFloat64(m.inFlight) != 0 {
		t.Error("in-flight gauge should return to zero")
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	t.Parallel()
	m := NewMetrics("iglesia")
	m.Middleware(newRoutedMux()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/members/a", nil))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"iglesia_http_requests_total", "iglesia_http_request_duration_seconds", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}
