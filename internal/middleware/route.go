package middleware

import (
	"context"
	"net/http"
)

const routeKey contextKey = "route"

// routeInfo carries the matched ServeMux pattern back out to the middleware
// that wraps the mux.
type routeInfo struct {
	pattern string
}

func (ri *routeInfo) label() string {
	if ri.pattern == "" {
		return "unmatched"
	}
	return ri.pattern
}

// trackRoute ensures r carries a routeInfo, reusing one set further out
func trackRoute(r *http.Request) (*http.Request, *routeInfo) {
	if ri, ok := r.Context().Value(routeKey).(*routeInfo); ok {
		return r, ri
	}
	ri := &routeInfo{}
	return r.WithContext(context.WithValue(r.Context(), routeKey, ri)), ri
}

// Route records the pattern the mux matched. It must run inside the mux,
// i.e. wrap individual route handlers.
func Route(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ri, ok := r.Context().Value(routeKey).(*routeInfo); ok {
			ri.pattern = r.Pattern
		}
		next.ServeHTTP(w, r)
	})
}

// recorder captures what a handler wrote so outer middleware can report it
type recorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (rec *recorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.wroteHeader = true
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rec *recorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// observe prepares r for route tracking and wraps w in a recorder
func observe(w http.ResponseWriter, r *http.Request) (*http.Request, *routeInfo, *recorder) {
	r, ri := trackRoute(r)
	return r, ri, &recorder{ResponseWriter: w, status: http.StatusOK}
}
