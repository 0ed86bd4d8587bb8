package auth

import (
	"context"

	"github.com/mehmetcc/edutoy/internal/token"
)

type ctxKey int

const (
	claimsKey ctxKey = iota + 1
	ownerKey
)

// Owner is the seller identity a request was scoped to by OwnerCheck.
// Present is false when the request carried no owner parameter at all.
type Owner struct {
	Email   string
	Present bool
}

// WithClaims is only called by Guard after a successful verification.
func WithClaims(ctx context.Context, c token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(token.Claims)
	return c, ok
}

func withOwner(ctx context.Context, o Owner) context.Context {
	return context.WithValue(ctx, ownerKey, o)
}

func OwnerFromContext(ctx context.Context) (Owner, bool) {
	o, ok := ctx.Value(ownerKey).(Owner)
	return o, ok
}
