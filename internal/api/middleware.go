package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripsift/tripsift/internal/session"
)

type sessionCtxKey struct{}

// SessionCtx returns middleware that resolves the {sessionID} URL parameter
// against the store and puts the session on the request context. Unknown,
// malformed, or expired session IDs get a 404.
func SessionCtx(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
				return
			}

			s, ok := store.Get(id)
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFrom returns the session placed on the context by SessionCtx.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*session.Session)
	return s
}
