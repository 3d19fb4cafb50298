package handler

import (
	"net/http"

	"github.com/kvbuilders/site/internal/repository"
)

// Handler serves cross-cutting endpoints and middleware.
type Handler struct {
	db      repository.DB
	origins []string
}

// New creates a Handler. origins lists the allowed CORS origins; "*" allows any.
func New(db repository.DB, origins []string) *Handler {
	return &Handler{db: db, origins: origins}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin, ok := h.allowOrigin(r.Header.Get("Origin")); ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin.
func (h *Handler) allowOrigin(origin string) (string, bool) {
	for _, o := range h.origins {
		if o == "*" {
			return "*", true
		}
		if origin != "" && o == origin {
			return origin, true
		}
	}
	return "", false
}
