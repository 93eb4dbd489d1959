package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging records slow requests and every error response.
func Logging(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			elapsed := time.Since(start)
			if elapsed <= 500*time.Millisecond && wrapper.status < 400 {
				return
			}
			entry := log.WithFields(logrus.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"remote":  r.RemoteAddr,
				"status":  wrapper.status,
				"elapsed": elapsed.String(),
			})
			if wrapper.status >= 500 {
				entry.Error("request failed")
			} else {
				entry.Warn("request")
			}
		})
	}
}

// SecurityHeaders sets the console's response hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		if WantsJSON(r) {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		next.ServeHTTP(w, r)
	})
}
