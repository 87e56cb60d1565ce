// Package http provides the HTTP delivery layer: the redirect endpoint, the
// JSON API, the administrative HTML surface and the middleware gating them.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires the chi router with middleware and routes.
func NewRouter(
	logger *httplog.Logger,
	urls urlUseCase,
	auth authUseCase,
	users userUseCase,
	limiter LoginLimiter,
	cookieTTL time.Duration,
	secureCookie bool,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization", APIKeyHeader},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := validator.New()
	urlHandler := newURLHandler(urls, validate)
	authHandler := newAuthHandler(auth, limiter)
	adminHandler := newAdminHandler(auth, urls, users, limiter, cookieTTL, secureCookie)
	authMw := newAuthMiddleware(auth)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Post("/auth/access-token", authHandler.accessToken)

		r.Route("/urls", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMw.authenticate, authMw.requireUser)

				r.Post("/shorten", urlHandler.shorten)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.authenticate, authMw.requireSuperuser)

				r.Get("/", urlHandler.list)

				r.Route("/ident/{ident}", func(r chi.Router) {
					r.Get("/", urlHandler.getByIdent)
					r.Patch("/", urlHandler.updateByIdent)
					r.Delete("/", urlHandler.deleteByIdent)
				})

				r.Route("/external/{externalID}", func(r chi.Router) {
					r.Get("/", urlHandler.getByExternalID)
					r.Patch("/", urlHandler.updateByExternalID)
					r.Delete("/", urlHandler.deleteByExternalID)
				})
			})
		})
	})

	r.Mount(adminBasePath, adminHandler.routes())

	// Bare identifiers resolve at the root; static prefixes above win.
	r.Get("/{ident}", urlHandler.redirect)

	return r
}
