// Package usecase contains the business logic: the short URL lifecycle and
// the principal resolution / authorization rules sitting on top of it.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shortify/shortify/internal/entity"
	"github.com/shortify/shortify/internal/ident"
)

// ErrMaxRetriesExceeded is returned when the identifier namespace yields
// repeated collisions and the bounded regeneration budget runs out.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating identifier")

type urlRepository interface {
	Save(ctx context.Context, url *entity.ShortURL) (*entity.ShortURL, error)
	RetrieveByIdent(ctx context.Context, ident string) (*entity.ShortURL, error)
	RetrieveByExternalID(ctx context.Context, externalID string) (*entity.ShortURL, error)
	ResolveLive(ctx context.Context, ident string) (*entity.ShortURL, error)
	RecordVisit(ctx context.Context, id int64) error
	UpdateByIdent(ctx context.Context, ident string, upd entity.ShortURLUpdate) (*entity.ShortURL, error)
	UpdateByExternalID(ctx context.Context, externalID string, upd entity.ShortURLUpdate) (*entity.ShortURL, error)
	DeleteByIdent(ctx context.Context, ident string) error
	DeleteByExternalID(ctx context.Context, externalID string) error
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, params entity.ListParams) (*entity.URLPage, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// ShortenParams carries the caller-supplied fields of a new short URL.
type ShortenParams struct {
	Origin     string
	ExternalID *string
	ExpiresAt  *time.Time
	UserID     *int64
}

// URLUseCase implements the identifier lifecycle and redirect resolution.
type URLUseCase struct {
	identWords int
	urlRepo    urlRepository
	logger     *slog.Logger
}

func NewURLUseCase(identWords int, urlRepo urlRepository, logger *slog.Logger) *URLUseCase {
	if identWords < 1 {
		identWords = ident.DefaultWords
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &URLUseCase{
		identWords: identWords,
		urlRepo:    urlRepo,
		logger:     logger,
	}
}

// Shorten creates a short URL under a freshly generated identifier. An
// identifier collision is retryable: generation is repeated up to maxRetries
// before the namespace is declared exhausted. An external id collision is
// not retryable and surfaces as entity.ErrExternalIDExists.
func (uc *URLUseCase) Shorten(ctx context.Context, params ShortenParams) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.Shorten"
	const maxRetries = 5

	for i := 0; i < maxRetries; i++ {
		id, err := ident.New(uc.identWords)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate identifier: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, &entity.ShortURL{
			Ident:      id,
			ExternalID: params.ExternalID,
			Origin:     params.Origin,
			ExpiresAt:  params.ExpiresAt,
			UserID:     params.UserID,
		})
		if err != nil {
			if errors.Is(err, entity.ErrIdentExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Resolve returns the live origin for an identifier. Expired records are
// indistinguishable from absent ones. The view counter and last-visit
// timestamp are updated out-of-band: bookkeeping failures are logged and
// swallowed, never surfaced, so the redirect is not held hostage to them.
func (uc *URLUseCase) Resolve(ctx context.Context, id string) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.Resolve"

	url, err := uc.urlRepo.ResolveLive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve identifier: %w", op, err)
	}

	go uc.recordVisit(context.WithoutCancel(ctx), url.ID)

	return url, nil
}

func (uc *URLUseCase) recordVisit(ctx context.Context, id int64) {
	if err := uc.urlRepo.RecordVisit(ctx, id); err != nil {
		uc.logger.Error("failed to record visit", slog.Int64("url_id", id), slog.Any("err", err))
	}
}

// GetByIdent returns a short URL by identifier regardless of expiry.
func (uc *URLUseCase) GetByIdent(ctx context.Context, id string) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.GetByIdent"

	url, err := uc.urlRepo.RetrieveByIdent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

// GetByExternalID returns a short URL by its caller-supplied alias.
func (uc *URLUseCase) GetByExternalID(ctx context.Context, externalID string) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.GetByExternalID"

	url, err := uc.urlRepo.RetrieveByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

// UpdateByIdent applies a partial, field-by-field update. Concurrent updates
// to disjoint fields both succeed; the result is last-writer-wins per field.
func (uc *URLUseCase) UpdateByIdent(ctx context.Context, id string, upd entity.ShortURLUpdate) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.UpdateByIdent"

	url, err := uc.urlRepo.UpdateByIdent(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update url: %w", op, err)
	}

	return url, nil
}

// UpdateByExternalID is UpdateByIdent addressed through the external id.
func (uc *URLUseCase) UpdateByExternalID(ctx context.Context, externalID string, upd entity.ShortURLUpdate) (*entity.ShortURL, error) {
	const op = "usecase.URLUseCase.UpdateByExternalID"

	url, err := uc.urlRepo.UpdateByExternalID(ctx, externalID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update url: %w", op, err)
	}

	return url, nil
}

// DeleteByIdent removes a short URL by identifier.
func (uc *URLUseCase) DeleteByIdent(ctx context.Context, id string) error {
	const op = "usecase.URLUseCase.DeleteByIdent"

	if err := uc.urlRepo.DeleteByIdent(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, err)
	}

	return nil
}

// DeleteByExternalID removes a short URL by its external id.
func (uc *URLUseCase) DeleteByExternalID(ctx context.Context, externalID string) error {
	const op = "usecase.URLUseCase.DeleteByExternalID"

	if err := uc.urlRepo.DeleteByExternalID(ctx, externalID); err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, err)
	}

	return nil
}

// DeleteBatch removes the short URLs with the given record ids and returns
// how many were actually deleted.
func (uc *URLUseCase) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	const op = "usecase.URLUseCase.DeleteBatch"

	if len(ids) == 0 {
		return 0, nil
	}

	n, err := uc.urlRepo.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete urls: %w", op, err)
	}

	return n, nil
}

// List returns a filtered, sorted page of short URLs. Sort fields outside
// the allow-list fall back to creation time.
func (uc *URLUseCase) List(ctx context.Context, params entity.ListParams) (*entity.URLPage, error) {
	const op = "usecase.URLUseCase.List"

	page, err := uc.urlRepo.List(ctx, params.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return page, nil
}

// RunReaper periodically removes records past their expiry timestamp until
// the context is done. The resolver treats expired records as absent on its
// own, so the reaper only reclaims storage; it is not a correctness gate.
func (uc *URLUseCase) RunReaper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := uc.urlRepo.DeleteExpired(ctx)
			if err != nil {
				uc.logger.Error("failed to reap expired urls", slog.Any("err", err))
				continue
			}
			if n > 0 {
				uc.logger.Info("reaped expired urls", slog.Int64("count", n))
			}
		}
	}
}
