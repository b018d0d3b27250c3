package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wolfman30/autocare-booking/internal/session"
)

// TokenParser resolves a session token to a session id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionToken requires a valid session token, taken from a Bearer
// Authorization header or the token query parameter (websocket clients
// cannot set headers), and stores the session id in the request context.
func SessionToken(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("token")
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				unauthorized(w, "missing session token")
				return
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				unauthorized(w, "invalid session token")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), id)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(session.ErrorResponse{Error: "unauthorized", Message: msg})
}
