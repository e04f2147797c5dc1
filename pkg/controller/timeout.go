package controller

import (
	"net/http"
	"time"
)

// WithTimeout returns a middleware that bounds next with http.TimeoutHandler.
// The timeout body is built per request by body and announced with
// contentType, so it can carry request scoped values such as the request ID.
func WithTimeout(next http.Handler, dt time.Duration, contentType string, body func(r *http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		th := http.TimeoutHandler(next, dt, body(r))
		th.ServeHTTP(&timeoutWriter{ResponseWriter: w, contentType: contentType}, r)
	})
}

// timeoutWriter types the body http.TimeoutHandler writes on expiry, which
// otherwise goes out without a Content-Type.
type timeoutWriter struct {
	http.ResponseWriter

	contentType string
}

// WriteHeader sets the content type of bare 503 responses and forwards the call.
func (w *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", w.contentType)
	}
	w.ResponseWriter.WriteHeader(code)
}
