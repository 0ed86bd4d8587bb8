package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mehmetcc/edutoy/internal/auth"
	"github.com/mehmetcc/edutoy/internal/config"
	"github.com/mehmetcc/edutoy/internal/health"
	"github.com/mehmetcc/edutoy/internal/token"
	"github.com/mehmetcc/edutoy/internal/toy"
	"go.uber.org/zap"
	"moul.io/chizap"
)

const livenessText = "edu-toy server is running..."

// Owner routes compare this query parameter with the token claim of the
// same name.
const ownerField = "email"

type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	Tokens token.TokenService
	Store  toy.Store
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chizap.New(d.Logger, &chizap.Opts{
		WithReferer:   true,
		WithUserAgent: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsConfig.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimitConfig.Requests, cfg.RateLimitConfig.Window))

	r.Get("/", health.LivenessHandler(livenessText))
	r.Get("/readyz", health.ReadinessHandler(d.Store, cfg.AppConfig.RequestTimeout, d.Logger))

	tokenHandler := token.NewTokenHandler(d.Tokens, d.Logger)
	r.Mount("/jwt", tokenHandler.Routes())

	toyService := toy.NewToyService(d.Store, d.Logger, cfg.OwnershipConfig.EnforceRecordOwner)
	toyHandler := toy.NewToyHandler(toyService, d.Logger, cfg.AppConfig.RequestTimeout,
		auth.Guard(d.Tokens, d.Logger),
		auth.OwnerCheck(ownerField, ownerField, d.Logger),
	)
	toyHandler.Register(r)

	return r
}
