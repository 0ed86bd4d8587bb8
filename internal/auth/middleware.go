package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mehmetcc/edutoy/internal/httpx"
	"github.com/mehmetcc/edutoy/internal/token"
	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateAccess(ctx context.Context, tokenString string) (token.Claims, error)
}

// Guard verifies the bearer credential and binds its claims to the request
// context. A missing header is 401, anything that fails verification is 402.
func Guard(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Warn("rejected request", append(httpx.ClientFromRequest(r).Fields(),
					zap.Error(ErrMissingCredential), zap.String("path", r.URL.Path))...)
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
					Code:    httpx.ErrUnauthorized,
					Message: "authorization failed authorization",
				})
				return
			}

			claims, err := tokens.ValidateAccess(r.Context(), bearerToken(header))
			if err != nil {
				logger.Warn("rejected request", append(httpx.ClientFromRequest(r).Fields(),
					zap.Error(ErrInvalidCredential), zap.NamedError("cause", err), zap.String("path", r.URL.Path))...)
				httpx.WriteError(w, httpx.StatusInvalidToken, httpx.ErrorResponse[any]{
					Code:    httpx.ErrInvalidToken,
					Message: "authorization failed verify token",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// bearerToken returns the second space-separated field of the header. The
// scheme is not checked; a header without one yields "" and fails verification.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
