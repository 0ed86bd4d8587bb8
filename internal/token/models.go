package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the caller-defined token payload. The issuer stamps iat, exp and
// jti; every other key is signed as given.
type Claims map[string]any

// MapClaims exposes the claims in the form the jwt library signs.
func (c Claims) MapClaims() jwt.MapClaims {
	out := make(jwt.MapClaims, len(c)+3)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String returns the claim under key when it is present and a string.
func (c Claims) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

type IssueResult struct {
	AccessToken     string
	IssuedAt        time.Time
	AccessExpiresAt time.Time
}

type issueResponse struct {
	Token string `json:"token"`
}
