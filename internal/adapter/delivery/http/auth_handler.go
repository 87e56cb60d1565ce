package http

import (
	"net"
	"net/http"

	"github.com/go-chi/render"

	"github.com/shortify/shortify/internal/entity"
)

type authHandler struct {
	auth    authUseCase
	limiter LoginLimiter
}

func newAuthHandler(auth authUseCase, limiter LoginLimiter) *authHandler {
	return &authHandler{
		auth:    auth,
		limiter: limiter,
	}
}

// accessToken serves POST /api/v1/auth/access-token: a form-encoded
// username/password login returning a bearer token. Attempts are counted
// against the client's budget regardless of outcome.
func (h *authHandler) accessToken(w http.ResponseWriter, r *http.Request) {
	if !h.allowAttempt(r) {
		renderError(w, r, entity.ErrRateLimited)
		return
	}

	if err := r.ParseForm(); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		renderError(w, r, entity.ErrNotAuthenticated)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if !user.IsActive {
		renderError(w, r, entity.ErrInactiveUser)
		return
	}

	token, _, err := h.auth.IssueToken(user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, authTokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// allowAttempt consumes one login attempt for the client. Limiter errors
// fail open.
func (h *authHandler) allowAttempt(r *http.Request) bool {
	ok, _ := h.limiter.Allow(r.Context(), clientIP(r))
	return ok
}

// clientIP returns the client identity used as the rate limit key.
// middleware.RealIP has already rewritten RemoteAddr when the proxy headers
// are trustworthy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
