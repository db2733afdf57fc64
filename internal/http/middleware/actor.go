package middleware

import (
	"net/http"
	"strings"

	"github.com/caretap/staffing-platform/internal/identity"
)

// RequireActor extracts the authenticated principal from the X-Actor-Id
// and X-Actor-Kind headers set by the API gateway and attaches it to the
// request context. Requests without an actor id are rejected.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
		if actorID == "" {
			http.Error(w, `{"error":"missing X-Actor-Id header"}`, http.StatusUnauthorized)
			return
		}
		actor := identity.Actor{
			ID:   actorID,
			Kind: strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Kind"))),
		}
		next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
	})
}
