// Package authz is the gateway's per-request authorization filter: it
// verifies the bearer token, consults the revocation store, enforces the
// route's required-role policy, and stamps the trusted identity headers
// that downstream services read instead of the raw token.
package authz

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/voyago/travelbook/pkg/logger"
	"github.com/voyago/travelbook/pkg/revoke"
	"github.com/voyago/travelbook/pkg/token"
)

const bearerPrefix = "Bearer "

// Headers asserted by the gateway. Past this point they are the trust
// boundary: downstream services must only be reachable through the
// gateway, or anyone can forge them.
const (
	HeaderUser          = "X-User"
	HeaderRole          = "X-Role"
	HeaderUserID        = "X-User-Id"
	HeaderContactNumber = "X-Contact-Number"
)

type Filter struct {
	codec       *token.Codec
	revocations revoke.Store
}

// New wires the filter to its collaborators; both are constructed once at
// startup and shared by reference.
func New(codec *token.Codec, revocations revoke.Store) *Filter {
	return &Filter{codec: codec, revocations: revocations}
}

// Require returns middleware enforcing the route policy: the caller must
// present a verifiable, unrevoked token whose roles intersect required.
// An empty required set means any authenticated caller.
func (f *Filter) Require(required ...token.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				logger.WarnContext(r.Context(), "Missing or malformed authorization header", "path", r.URL.Path)
				http.Error(w, "Missing or invalid authorization header", http.StatusUnauthorized)
				return
			}

			raw := strings.TrimPrefix(authHeader, bearerPrefix)

			claims, err := f.codec.Verify(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "Token verification failed", "error", err, "path", r.URL.Path)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			// A store error counts as revoked: ambiguity rejects.
			revoked, err := f.revocations.IsRevoked(r.Context(), raw)
			if err != nil {
				logger.ErrorContext(r.Context(), "Revocation check failed", "error", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			if revoked {
				logger.WarnContext(r.Context(), "Rejected revoked token", "user", claims.Subject)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if len(required) > 0 && !token.AnyMatch(claims.RoleList(), required) {
				logger.WarnContext(r.Context(), "Insufficient role",
					"user", claims.Subject, "roles", claims.Roles, "path", r.URL.Path)
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			// Assert identity for downstream services. The Authorization
			// header stays on the request for traceability.
			r.Header.Set(HeaderUser, claims.Username)
			r.Header.Set(HeaderRole, claims.Roles)
			r.Header.Set(HeaderUserID, strconv.FormatInt(claims.UserID, 10))
			r.Header.Set(HeaderContactNumber, claims.ContactNumber)

			ctx := context.WithValue(r.Context(), logger.UserKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
