package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/shortify/shortify/internal/entity"
	"github.com/shortify/shortify/internal/usecase"
)

const statusError = "error"

// shortenRequest is the payload for creating a short URL.
type shortenRequest struct {
	URL        string     `json:"url" validate:"required,url"`
	ExternalID *string    `json:"external_id,omitempty" validate:"omitempty,min=1,max=255"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// updateRequest is the payload for a partial short URL update. Absent fields
// are left unchanged; an empty external_id clears the alias and clear_expiry
// removes the expiry timestamp.
type updateRequest struct {
	URL         *string    `json:"url,omitempty" validate:"omitempty,url"`
	ExternalID  *string    `json:"external_id,omitempty" validate:"omitempty,max=255"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
}

func (r updateRequest) toUpdate() entity.ShortURLUpdate {
	return entity.ShortURLUpdate{
		Origin:      r.URL,
		ExternalID:  r.ExternalID,
		ExpiresAt:   r.ExpiresAt,
		ClearExpiry: r.ClearExpiry,
	}
}

// urlResponse is the representation of a short URL returned by the API.
type urlResponse struct {
	Ident       string     `json:"ident"`
	Origin      string     `json:"origin"`
	ExternalID  *string    `json:"external_id,omitempty"`
	Views       int64      `json:"views"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastVisitAt *time.Time `json:"last_visit_at,omitempty"`
}

func toURLResponse(url *entity.ShortURL) urlResponse {
	return urlResponse{
		Ident:       url.Ident,
		Origin:      url.Origin,
		ExternalID:  url.ExternalID,
		Views:       url.Views,
		CreatedAt:   url.CreatedAt,
		UpdatedAt:   url.UpdatedAt,
		ExpiresAt:   url.ExpiresAt,
		LastVisitAt: url.LastVisitAt,
	}
}

// urlPageResponse is a paginated listing of short URLs.
type urlPageResponse struct {
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int64         `json:"total"`
	Results []urlResponse `json:"results"`
}

func toURLPageResponse(page *entity.URLPage) urlPageResponse {
	results := make([]urlResponse, len(page.Items))
	for i, url := range page.Items {
		results[i] = toURLResponse(url)
	}

	return urlPageResponse{
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   page.Total,
		Results: results,
	}
}

// authTokenResponse carries an issued bearer token.
type authTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// validationError reports a single invalid field of a structured payload.
// Per-field detail is appropriate only here: it concerns payload shape,
// never credentials.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"error_type"`
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

func validationErrorResponse(err error) errorResponse {
	resp := errorResponse{
		Status:  statusError,
		Message: "validation error",
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			resp.Errors = append(resp.Errors, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
				Type:    e.Tag(),
			})
		}
	}

	return resp
}

// renderError translates domain failures into denial responses. This is the
// single boundary where the error taxonomy meets HTTP.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		msg    string
	)

	switch {
	case errors.Is(err, entity.ErrNotAuthenticated):
		status, msg = http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, entity.ErrInvalidAPIKey):
		status, msg = http.StatusForbidden, "invalid api key"
	case errors.Is(err, entity.ErrInvalidCredential), errors.Is(err, entity.ErrTOTPRequired):
		status, msg = http.StatusForbidden, "could not validate credentials"
	case errors.Is(err, entity.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, entity.ErrInactiveUser):
		status, msg = http.StatusForbidden, "inactive user"
	case errors.Is(err, entity.ErrForbidden):
		status, msg = http.StatusForbidden, "the user doesn't have enough privileges"
	case errors.Is(err, entity.ErrURLNotFound):
		status, msg = http.StatusNotFound, "short url not found"
	case errors.Is(err, entity.ErrExternalIDExists):
		status, msg = http.StatusConflict, "external id already in use"
	case errors.Is(err, entity.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "too many login attempts"
	case errors.Is(err, usecase.ErrMaxRetriesExceeded):
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		status, msg = http.StatusInternalServerError, "identifier namespace exhausted"
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: statusError, Message: msg})
}
