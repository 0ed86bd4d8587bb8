package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mehmetcc/edutoy/internal/config"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenService interface {
	Issue(ctx context.Context, claims Claims) (*IssueResult, error)
	ValidateAccess(ctx context.Context, tokenString string) (Claims, error)
}

type tokenService struct {
	logger     *zap.Logger
	cfg        *config.JWTConfig
	signingAlg jwt.SigningMethod
	now        func() time.Time
}

func NewTokenService(logger *zap.Logger, cfg *config.JWTConfig) TokenService {
	return &tokenService{
		logger:     logger,
		cfg:        cfg,
		signingAlg: jwt.SigningMethodHS256,
		now:        time.Now,
	}
}

// Issue signs whatever claims it is given. It does not authenticate the
// caller: anyone can mint a token for any identity.
func (s *tokenService) Issue(_ context.Context, claims Claims) (*IssueResult, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	accessExp := issuedAt.Add(s.cfg.AccessTTL)

	mc := claims.MapClaims()
	mc["iat"] = jwt.NewNumericDate(issuedAt)
	mc["exp"] = jwt.NewNumericDate(accessExp)
	mc["jti"] = uuid.NewString()

	accessToken, err := jwt.NewWithClaims(s.signingAlg, mc).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, err
	}

	return &IssueResult{
		AccessToken:     accessToken,
		IssuedAt:        issuedAt,
		AccessExpiresAt: accessExp,
	}, nil
}

func (s *tokenService) ValidateAccess(_ context.Context, tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	claims := jwt.MapClaims{}
	tkn, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return Claims(claims), nil
}
