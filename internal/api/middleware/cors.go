package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the dashboard frontend.
// Admin writes send X-API-Key or X-Time-Token; nothing is ever deleted over HTTP.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"X-API-Key",
			"X-Time-Token",
		},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
