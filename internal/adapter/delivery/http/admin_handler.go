package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/internal/entity"
)

const (
	sessionCookieName = "access_token"
	adminBasePath     = "/admin"

	// adminFormTimeLayout matches <input type="datetime-local">.
	adminFormTimeLayout = "2006-01-02T15:04"
)

// adminHandler implements the administrative HTML surface and its session
// state machine. Every failure of session resolution lands on the login
// page; every protected view of a session without a confirmed second factor
// lands on the enrollment page.
type adminHandler struct {
	auth         authUseCase
	urls         urlUseCase
	users        userUseCase
	limiter      LoginLimiter
	cookieTTL    time.Duration
	secureCookie bool
}

func newAdminHandler(auth authUseCase, urls urlUseCase, users userUseCase, limiter LoginLimiter, cookieTTL time.Duration, secureCookie bool) *adminHandler {
	return &adminHandler{
		auth:         auth,
		urls:         urls,
		users:        users,
		limiter:      limiter,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

func (h *adminHandler) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.loginPage)
	r.Post("/login", h.loginAction)
	r.Get("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Get("/setup-totp", h.setupTOTPPage)
		r.Post("/setup-totp", h.setupTOTPAction)

		r.Group(func(r chi.Router) {
			r.Use(h.requireEnrolled)

			r.Get("/", h.dashboard)
			r.Get("/urls", h.listURLs)
			r.Post("/urls/batch-delete", h.batchDeleteURLs)
			r.Post("/urls/delete/{id}", h.deleteURL)
			r.Get("/urls/{ident}", h.urlDetail)
			r.Post("/urls/{ident}", h.updateURL)
			r.Get("/users", h.listUsers)
			r.Post("/users/delete/{id}", h.deleteUser)
			r.Post("/users/rotate-key/{id}", h.rotateAPIKey)
		})
	})

	return r
}

// requireAdmin resolves the session cookie into an active superuser. Any
// failure redirects to the login page; no detail is leaked.
func (h *adminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.sessionUser(r)
		if err != nil {
			http.Redirect(w, r, adminBasePath+"/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

// requireEnrolled routes sessions without a confirmed second factor to the
// enrollment flow. Authenticated-but-unenrolled is a restricted state: no
// protected view is reachable from it.
func (h *adminHandler) requireEnrolled(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := principalFromContext(r.Context())
		if user == nil || !user.TOTPEnrolled() {
			http.Redirect(w, r, adminBasePath+"/setup-totp", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *adminHandler) sessionUser(r *http.Request) (*entity.User, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, entity.ErrNotAuthenticated
	}

	return h.auth.ResolveAdminSession(r.Context(), cookie.Value)
}

type loginPageData struct {
	Error    string
	Username string
	NeedTOTP bool
}

func (h *adminHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err == nil {
		http.Redirect(w, r, adminBasePath+"/", http.StatusFound)
		return
	}

	renderHTML(w, "login", http.StatusOK, loginPageData{})
}

func (h *adminHandler) loginAction(w http.ResponseWriter, r *http.Request) {
	if ok, _ := h.limiter.Allow(r.Context(), clientIP(r)); !ok {
		renderHTML(w, "login", http.StatusTooManyRequests, loginPageData{
			Error: "Too many login attempts, try again later",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		renderHTML(w, "login", http.StatusBadRequest, loginPageData{Error: "Invalid form data"})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	totpCode := r.PostFormValue("totp_code")

	user, err := h.auth.AdminLogin(r.Context(), username, password, totpCode)
	if err != nil {
		data := loginPageData{Username: username}
		if errors.Is(err, entity.ErrTOTPRequired) {
			data.Error = "TOTP code required"
			data.NeedTOTP = true
		} else {
			data.Error = "Invalid credentials or insufficient permissions"
		}

		renderHTML(w, "login", http.StatusUnauthorized, data)
		return
	}

	token, _, err := h.auth.IssueToken(user)
	if err != nil {
		renderHTML(w, "login", http.StatusInternalServerError, loginPageData{Error: "Server error occurred"})
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, adminBasePath+"/", http.StatusFound)
}

// logout unconditionally returns the session to the unauthenticated state.
func (h *adminHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	http.Redirect(w, r, adminBasePath+"/login", http.StatusFound)
}

func (h *adminHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
}

func (h *adminHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
}

type totpSetupData struct {
	Error           string
	Secret          string
	ProvisioningURI string
}

func (h *adminHandler) setupTOTPPage(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())
	if user.TOTPEnrolled() {
		http.Redirect(w, r, adminBasePath+"/", http.StatusFound)
		return
	}

	secret, uri, err := h.auth.BeginTOTPEnrollment(user)
	if err != nil {
		http.Error(w, "server error occurred", http.StatusInternalServerError)
		return
	}

	renderHTML(w, "totp_setup", http.StatusOK, totpSetupData{
		Secret:          secret,
		ProvisioningURI: uri,
	})
}

func (h *adminHandler) setupTOTPAction(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, adminBasePath+"/setup-totp", http.StatusFound)
		return
	}

	secret := r.PostFormValue("secret")
	code := r.PostFormValue("code")

	if err := h.auth.CompleteTOTPEnrollment(r.Context(), user, secret, code); err != nil {
		renderHTML(w, "totp_setup", http.StatusBadRequest, totpSetupData{
			Error:  "Invalid code",
			Secret: secret,
		})
		return
	}

	http.Redirect(w, r, adminBasePath+"/", http.StatusFound)
}

type dashboardData struct {
	User *entity.User
}

func (h *adminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, "dashboard", http.StatusOK, dashboardData{
		User: principalFromContext(r.Context()),
	})
}

type urlsPageData struct {
	URLs       []*entity.ShortURL
	Query      string
	Page       int
	TotalPages int64
}

func (h *adminHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	page, err := h.urls.List(r.Context(), params)
	if err != nil {
		http.Error(w, "server error occurred", http.StatusInternalServerError)
		return
	}

	renderHTML(w, "urls", http.StatusOK, urlsPageData{
		URLs:       page.Items,
		Query:      params.Search,
		Page:       page.Page,
		TotalPages: totalPages(page.Total, page.PerPage),
	})
}

func (h *adminHandler) batchDeleteURLs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
		return
	}

	var ids []int64
	for _, raw := range r.PostForm["url_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		_, _ = h.urls.DeleteBatch(r.Context(), ids)
	}

	http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
}

func (h *adminHandler) deleteURL(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		_, _ = h.urls.DeleteBatch(r.Context(), []int64{id})
	}

	http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
}

type urlDetailData struct {
	URL *entity.ShortURL
}

func (h *adminHandler) urlDetail(w http.ResponseWriter, r *http.Request) {
	url, err := h.urls.GetByIdent(r.Context(), chi.URLParam(r, "ident"))
	if err != nil {
		http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
		return
	}

	renderHTML(w, "url_detail", http.StatusOK, urlDetailData{URL: url})
}

func (h *adminHandler) updateURL(w http.ResponseWriter, r *http.Request) {
	ident := chi.URLParam(r, "ident")

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
		return
	}

	upd := entity.ShortURLUpdate{}

	if origin := r.PostFormValue("origin"); origin != "" {
		upd.Origin = &origin
	}

	// An empty external id clears the alias.
	externalID := r.PostFormValue("external_id")
	upd.ExternalID = &externalID

	if raw := r.PostFormValue("expires_at"); raw != "" {
		if t, err := time.ParseInLocation(adminFormTimeLayout, raw, time.UTC); err == nil {
			upd.ExpiresAt = &t
		}
	} else {
		upd.ClearExpiry = true
	}

	if _, err := h.urls.UpdateByIdent(r.Context(), ident, upd); err != nil {
		http.Redirect(w, r, adminBasePath+"/urls", http.StatusFound)
		return
	}

	http.Redirect(w, r, adminBasePath+"/urls/"+ident, http.StatusFound)
}

type usersPageData struct {
	Users      []*entity.User
	Query      string
	Page       int
	TotalPages int64
}

func (h *adminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	page, err := h.users.List(r.Context(), params)
	if err != nil {
		http.Error(w, "server error occurred", http.StatusInternalServerError)
		return
	}

	renderHTML(w, "users", http.StatusOK, usersPageData{
		Users:      page.Items,
		Query:      params.Search,
		Page:       page.Page,
		TotalPages: totalPages(page.Total, page.PerPage),
	})
}

func (h *adminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		_ = h.users.Delete(r.Context(), id)
	}

	http.Redirect(w, r, adminBasePath+"/users", http.StatusFound)
}

func (h *adminHandler) rotateAPIKey(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		_, _ = h.users.RotateAPIKey(r.Context(), id)
	}

	http.Redirect(w, r, adminBasePath+"/users", http.StatusFound)
}

func totalPages(total int64, perPage int) int64 {
	if perPage < 1 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}
