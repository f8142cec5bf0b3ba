package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173", // vite dev server
	"http://localhost:3000", // local dev
	"https://slicehaven.pizza",
	"https://www.slicehaven.pizza",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Storefront-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Storefront-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
