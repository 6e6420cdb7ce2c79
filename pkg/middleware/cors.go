package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsAllowHeaders are the headers the browser client sends on every call.
var corsAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// CORS answers preflight requests and adds allow headers to responses for
// allowed origins. An empty list or "*" allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: corsAllowHeaders,
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	})
}
