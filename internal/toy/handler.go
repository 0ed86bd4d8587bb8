package toy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mehmetcc/edutoy/internal/auth"
	"github.com/mehmetcc/edutoy/internal/httpx"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type ToyHandler interface {
	Register(r chi.Router)
}

type toyHandler struct {
	logger     *zap.Logger
	toyService ToyService
	timeout    time.Duration
	protect    []func(http.Handler) http.Handler
}

// NewToyHandler builds the toy routes. protect is applied, in order, to the
// /my-toys and /sort-my-toys routes only.
func NewToyHandler(toyService ToyService, l *zap.Logger, timeout time.Duration, protect ...func(http.Handler) http.Handler) ToyHandler {
	return &toyHandler{
		logger:     l,
		toyService: toyService,
		timeout:    timeout,
		protect:    protect,
	}
}

func (h *toyHandler) Register(r chi.Router) {
	r.Get("/images", h.Images)
	r.Get("/categories", h.Categories)
	r.Get("/categories/{category}", h.ByCategory)
	r.Get("/search", h.Search)
	r.Get("/toys", h.List)
	r.Get("/toys/{id}", h.Get)
	r.Post("/toys", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(h.protect...)
		r.Get("/my-toys", h.Owned)
		r.Get("/sort-my-toys", h.OwnedSorted)
		r.Get("/my-toys/{id}", h.GetOwned)
		r.Delete("/my-toys/{id}", h.DeleteOwned)
		r.Patch("/my-toys/{id}", h.UpdateOwned)
	})
}

func (h *toyHandler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *toyHandler) Images(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.Images(ctx)
	h.respond(w, "images", docs, err)
}

func (h *toyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.Categories(ctx)
	h.respond(w, "categories", docs, err)
}

func (h *toyHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.ByCategory(ctx, chi.URLParam(r, "category"))
	h.respond(w, "by_category", docs, err)
}

func (h *toyHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.Search(ctx, r.URL.Query().Get("name"))
	h.respond(w, "search", docs, err)
}

func (h *toyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.List(ctx)
	h.respond(w, "list", docs, err)
}

func (h *toyHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	doc, err := h.toyService.Get(ctx, chi.URLParam(r, "id"))
	h.respondOne(w, "get", doc, err)
}

func (h *toyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	doc, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}
	res, err := h.toyService.Create(ctx, doc)
	h.respond(w, "create", res, err)
}

func (h *toyHandler) Owned(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.Owned(ctx, owner)
	h.respond(w, "owned", docs, err)
}

func (h *toyHandler) OwnedSorted(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	docs, err := h.toyService.OwnedSorted(ctx, owner, r.URL.Query().Get("sort"))
	h.respond(w, "owned_sorted", docs, err)
}

func (h *toyHandler) GetOwned(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	doc, err := h.toyService.GetOwned(ctx, owner, chi.URLParam(r, "id"))
	h.respondOne(w, "get_owned", doc, err)
}

func (h *toyHandler) DeleteOwned(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	res, err := h.toyService.DeleteOwned(ctx, owner, chi.URLParam(r, "id"))
	h.respond(w, "delete_owned", res, err)
}

func (h *toyHandler) UpdateOwned(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	doc, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}
	res, err := h.toyService.UpdateOwned(ctx, owner, chi.URLParam(r, "id"), updateFieldsFrom(doc))
	h.respond(w, "update_owned", res, err)
}

func (h *toyHandler) owner(w http.ResponseWriter, r *http.Request) (Owner, bool) {
	o, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		h.logger.Error("owner route served without owner check", zap.String("path", r.URL.Path))
		httpx.WriteInternal(w)
		return Owner{}, false
	}
	return Owner{Email: o.Email, Present: o.Present}, true
}

// decodeDocument parses the body as relaxed Extended JSON, so integer values
// are stored as integers and doubles as doubles.
func (h *toyHandler) decodeDocument(w http.ResponseWriter, r *http.Request) (Document, bool) {
	raw, err := httpx.ReadJSONBody(w, r)
	if err != nil {
		h.logger.Warn("failed to read toy request body", zap.Error(err))
		httpx.WriteDecodeError(w, err)
		return nil, false
	}
	var doc Document
	err = bson.UnmarshalExtJSON(raw, false, &doc)
	if err == nil && doc == nil {
		err = errors.New("body is not a JSON object")
	}
	if err != nil {
		h.logger.Warn("failed to decode toy request body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "request body must be a JSON object",
		})
		return nil, false
	}
	return doc, true
}

func (h *toyHandler) respond(w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		h.writeError(w, op, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// respondOne writes null for a missing record, like the list routes write [].
func (h *toyHandler) respondOne(w http.ResponseWriter, op string, doc Document, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	h.respond(w, op, doc, err)
}

func (h *toyHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		h.logger.Warn("malformed toy id", zap.String("op", op), zap.Error(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.Warn("toy request canceled/timed out", zap.String("op", op), zap.Error(err))
	default:
		h.logger.Error("toy store failure", zap.String("op", op), zap.Error(err))
	}
	httpx.WriteInternal(w)
}
