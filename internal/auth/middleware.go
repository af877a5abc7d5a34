package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// SessionCookie is the cookie the admin portal forwards on car endpoints.
const SessionCookie = "carrental_session"

// SessionMiddleware rejects requests whose session cookie does not carry
// token. An empty token disables the check.
func SessionMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
