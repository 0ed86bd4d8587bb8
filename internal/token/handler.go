package token

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mehmetcc/edutoy/internal/httpx"
	"go.uber.org/zap"
)

type TokenHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type tokenHandler struct {
	logger       *zap.Logger
	tokenService TokenService
}

func NewTokenHandler(tokenService TokenService, l *zap.Logger) TokenHandler {
	return &tokenHandler{
		logger:       l,
		tokenService: tokenService,
	}
}

func (h *tokenHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Issue)
	return r
}

func (h *tokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	// any JSON object is accepted as the claim set
	var claims Claims
	if err := httpx.DecodeJSON(w, r, &claims); err != nil {
		h.logger.Warn("failed to decode token request body", zap.Error(err))
		httpx.WriteDecodeError(w, err)
		return
	}
	if claims == nil { // body was JSON null
		h.logger.Warn("token request body is not an object")
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "request body must be a JSON object",
		})
		return
	}

	res, err := h.tokenService.Issue(r.Context(), claims)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}

	h.logger.Info("token issued", append(httpx.ClientFromRequest(r).Fields(),
		zap.Time("expires_at", res.AccessExpiresAt))...)
	httpx.WriteJSON(w, http.StatusOK, issueResponse{Token: res.AccessToken})
}
