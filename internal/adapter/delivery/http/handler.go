package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/shortify/shortify/internal/entity"
	"github.com/shortify/shortify/internal/usecase"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type urlUseCase interface {
	Shorten(ctx context.Context, params usecase.ShortenParams) (*entity.ShortURL, error)
	Resolve(ctx context.Context, ident string) (*entity.ShortURL, error)
	GetByIdent(ctx context.Context, ident string) (*entity.ShortURL, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.ShortURL, error)
	UpdateByIdent(ctx context.Context, ident string, upd entity.ShortURLUpdate) (*entity.ShortURL, error)
	UpdateByExternalID(ctx context.Context, externalID string, upd entity.ShortURLUpdate) (*entity.ShortURL, error)
	DeleteByIdent(ctx context.Context, ident string) error
	DeleteByExternalID(ctx context.Context, externalID string) error
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, params entity.ListParams) (*entity.URLPage, error)
}

type authUseCase interface {
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	IssueToken(user *entity.User) (string, time.Time, error)
	ResolvePrincipal(ctx context.Context, apiKey, bearer string) (*entity.User, error)
	ResolveAdminSession(ctx context.Context, cookieToken string) (*entity.User, error)
	AdminLogin(ctx context.Context, username, password, totpCode string) (*entity.User, error)
	BeginTOTPEnrollment(user *entity.User) (secret, provisioningURI string, err error)
	CompleteTOTPEnrollment(ctx context.Context, user *entity.User, secret, code string) error
}

type userUseCase interface {
	List(ctx context.Context, params entity.ListParams) (*entity.UserPage, error)
	Delete(ctx context.Context, id int64) error
	RotateAPIKey(ctx context.Context, id int64) (string, error)
}

type urlHandler struct {
	urls     urlUseCase
	validate *validator.Validate
}

func newURLHandler(urls urlUseCase, validate *validator.Validate) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		urls:     urls,
		validate: validate,
	}
}

// redirect serves GET /{ident}: 302 to the live origin or 404 when the
// identifier never existed, was deleted or has expired. The view increment
// happens out-of-band inside the use case.
func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	ident := chi.URLParam(r, "ident")

	url, err := h.urls.Resolve(r.Context(), ident)
	if err != nil {
		renderError(w, r, err)
		return
	}

	http.Redirect(w, r, url.Origin, http.StatusFound)
}

func (h *urlHandler) shorten(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	params := usecase.ShortenParams{
		Origin:     req.URL,
		ExternalID: req.ExternalID,
		ExpiresAt:  req.ExpiresAt,
	}
	if user := principalFromContext(r.Context()); user != nil {
		params.UserID = &user.ID
	}

	url, err := h.urls.Shorten(r.Context(), params)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.urls.List(r.Context(), listParamsFromQuery(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLPageResponse(page))
}

func (h *urlHandler) getByIdent(w http.ResponseWriter, r *http.Request) {
	ident := chi.URLParam(r, "ident")

	url, err := h.urls.GetByIdent(r.Context(), ident)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) getByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	url, err := h.urls.GetByExternalID(r.Context(), externalID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) decodeUpdate(w http.ResponseWriter, r *http.Request) (entity.ShortURLUpdate, bool) {
	var req updateRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return entity.ShortURLUpdate{}, false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return entity.ShortURLUpdate{}, false
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return entity.ShortURLUpdate{}, false
	}

	return req.toUpdate(), true
}

func (h *urlHandler) updateByIdent(w http.ResponseWriter, r *http.Request) {
	upd, ok := h.decodeUpdate(w, r)
	if !ok {
		return
	}

	ident := chi.URLParam(r, "ident")

	url, err := h.urls.UpdateByIdent(r.Context(), ident, upd)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) updateByExternalID(w http.ResponseWriter, r *http.Request) {
	upd, ok := h.decodeUpdate(w, r)
	if !ok {
		return
	}

	externalID := chi.URLParam(r, "externalID")

	url, err := h.urls.UpdateByExternalID(r.Context(), externalID, upd)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) deleteByIdent(w http.ResponseWriter, r *http.Request) {
	ident := chi.URLParam(r, "ident")

	if err := h.urls.DeleteByIdent(r.Context(), ident); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *urlHandler) deleteByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	if err := h.urls.DeleteByExternalID(r.Context(), externalID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func listParamsFromQuery(r *http.Request) entity.ListParams {
	q := r.URL.Query()

	return entity.ListParams{
		Search:  q.Get("q"),
		Page:    atoiDefault(q.Get("page"), 1),
		PerPage: atoiDefault(q.Get("per_page"), 20),
		SortBy:  q.Get("sort_by"),
		Order:   q.Get("order"),
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}

	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return def
	}

	return n
}
