package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"loan-backend/internal/config"
)

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		ExposedHeaders: []string{RequestIDHeader},
		// Credentials cannot be combined with a wildcard origin
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
