package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware applies the catalog's CORS policy. The default is fully
// open: any origin, method and header, with credentials allowed. Listing
// explicit origins narrows it to those origins.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}

	if len(allowedOrigins) == 0 || containsWildcard(allowedOrigins) {
		// A literal "*" is not allowed together with credentials, so echo
		// the caller's origin back instead.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	} else {
		options.AllowedOrigins = allowedOrigins
	}

	return cors.Handler(options)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
