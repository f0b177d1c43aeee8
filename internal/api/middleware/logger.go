package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/logging"
)

// Logger is a middleware that logs HTTP requests
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the next handler
		next.ServeHTTP(wrapped, r)

		// Sanitize user-supplied values to prevent log injection: strip CR/LF before logging.
		sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

		fields := []zap.Field{
			zap.String("method", sanitize(r.Method)),
			zap.String("path", sanitize(r.URL.Path)),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", time.Since(start)),
		}

		log := logging.FromContext(r.Context())
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case wrapped.statusCode >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
