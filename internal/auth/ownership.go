package auth

import (
	"net/http"

	"github.com/mehmetcc/edutoy/internal/httpx"
	"go.uber.org/zap"
)

// OwnerCheck compares the query parameter param with the verified claim of
// the same meaning and rejects the request with 403 on any difference.
//
// The compared value comes from the caller, not from the token alone. This
// only catches a client that sends someone else's email; it does not check
// who owns the records the route later touches.
func OwnerCheck(param, claim string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logger.Error("owner check mounted without guard", zap.String("path", r.URL.Path))
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
					Code:    httpx.ErrUnauthorized,
					Message: "authorization failed authorization",
				})
				return
			}

			values, present := r.URL.Query()[param]
			claimValue, hasClaim := claims[claim]
			if !ownerMatches(claimValue, hasClaim, values, present) {
				logger.Warn("rejected request", zap.Error(ErrOwnerMismatch), zap.String("path", r.URL.Path))
				httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[any]{
					Code:    httpx.ErrForbidden,
					Message: "authorization failed email not match",
				})
				return
			}

			owner := Owner{Present: present}
			if present {
				owner.Email = values[0]
			}
			next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), owner)))
		})
	}
}

// ownerMatches is strict equality between the claim and the parameter where
// "absent" is a value of its own: absent equals absent and nothing else.
// A repeated parameter is a list and never equals a string claim.
func ownerMatches(claimValue any, hasClaim bool, values []string, present bool) bool {
	if !present {
		return !hasClaim
	}
	if !hasClaim || len(values) != 1 {
		return false
	}
	s, ok := claimValue.(string)
	return ok && s == values[0]
}
