package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/shortify/shortify/internal/entity"
)

// APIKeyHeader is the fixed request header carrying the API key credential.
const APIKeyHeader = "api-key"

type principalCtxKey struct{}

func withPrincipal(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, user)
}

func principalFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(principalCtxKey{}).(*entity.User)
	return user
}

type authMiddleware struct {
	auth authUseCase
}

func newAuthMiddleware(auth authUseCase) *authMiddleware {
	return &authMiddleware{auth: auth}
}

// authenticate resolves the request credentials into a principal. The API
// key header always takes precedence over a bearer token; the "active" flag
// is enforced later by the capability checks, not here.
func (m *authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(APIKeyHeader)

		var bearer string
		if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
			bearer = strings.TrimPrefix(v, "Bearer ")
		}

		user, err := m.auth.ResolvePrincipal(r.Context(), apiKey, bearer)
		if err != nil {
			renderError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

// requireUser is the base capability check: the principal must be active.
func (m *authMiddleware) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := principalFromContext(r.Context())
		if user == nil {
			renderError(w, r, entity.ErrNotAuthenticated)
			return
		}
		if !user.IsActive {
			renderError(w, r, entity.ErrInactiveUser)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireSuperuser layers the superuser capability on top of requireUser.
func (m *authMiddleware) requireSuperuser(next http.Handler) http.Handler {
	return m.requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := principalFromContext(r.Context())
		if !user.IsSuperuser {
			renderError(w, r, entity.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}))
}
