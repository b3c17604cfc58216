package httpadapter

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAPIKey enforces bearer authentication when an API key is
// configured. With no key configured the endpoint is open, matching
// local development setups.
func (rt *Router) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(r.Header.Get("Authorization"))
		expected := "Bearer " + rt.apiKey
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
