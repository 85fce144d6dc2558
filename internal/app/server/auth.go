package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// BasicAuth guards routes with HTTP Basic credentials given as "user:pass".
// With no credentials configured every request passes.
type BasicAuth struct {
	users map[string]string
	realm string
}

func NewBasicAuth(credentials []string, realm string) *BasicAuth {
	a := &BasicAuth{
		users: make(map[string]string),
		realm: "featgen",
	}
	for _, cred := range credentials {
		parts := strings.SplitN(cred, ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			a.users[parts[0]] = parts[1]
		}
	}
	if realm != "" {
		a.realm = realm
	}
	return a
}

func (a *BasicAuth) Enabled() bool {
	return len(a.users) > 0
}

func (a *BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok {
			a.unauthorized(w)
			return
		}

		expected, exists := a.users[user]
		if !exists || subtle.ConstantTimeCompare([]byte(pass), []byte(expected)) != 1 {
			a.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *BasicAuth) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, a.realm))
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
