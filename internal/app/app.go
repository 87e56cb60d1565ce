// Package app assembles the application from its parts and runs it until the
// context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	delivery "github.com/shortify/shortify/internal/adapter/delivery/http"
	repo "github.com/shortify/shortify/internal/adapter/repository/postgres"
	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/config"
	"github.com/shortify/shortify/internal/usecase"
	"github.com/shortify/shortify/pkg/postgres"
)

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("%s: failed to init token manager: %w", op, err)
	}

	urlRepo := repo.NewURLRepository(db)
	userRepo := repo.NewUserRepository(db)

	urlUseCase := usecase.NewURLUseCase(cfg.IdentLength, urlRepo, logger.Logger)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokens)
	userUseCase := usecase.NewUserUseCase(userRepo)

	if cfg.Admin.Username != "" {
		if err := authUseCase.EnsureSuperuser(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("%s: failed to bootstrap superuser: %w", op, err)
		}
	}

	var limiter delivery.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		limiter = delivery.NewRedisLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	} else {
		logger.Warn("redis is not configured, using in-process login rate limiter")
		limiter = delivery.NewMemoryLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	}

	router := delivery.NewRouter(
		logger,
		urlUseCase,
		authUseCase,
		userUseCase,
		limiter,
		cfg.Auth.TokenTTL,
		cfg.Env == config.EnvProd,
	)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr))

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		return urlUseCase.RunReaper(ctx, cfg.Reaper.Interval)
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
