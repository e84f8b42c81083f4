package httpapi

import (
	"net/http"
	"strings"

	"github.com/devang127/lead-management/internal/auth"
)

const authHeader = "Authorization"
const bearerPrefix = "Bearer "

// withAuth verifies the bearer token and attaches the caller identity.
// Missing, malformed and expired tokens all answer 401.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r.Header.Get(authHeader))
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "access denied")
			return
		}
		identity, err := a.auth.Authenticate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	})
}

// extractToken returns the raw token; the "Bearer " prefix is optional.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		header = strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}

// callerIdentity pulls the verified identity out of the request context;
// a miss means withAuth did not run and is answered as unauthenticated.
func callerIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "access denied")
	}
	return identity, ok
}
