package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shortify/shortify/internal/entity"
	ucMock "github.com/shortify/shortify/mocks/usecase"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	urlRepoMock *ucMock.MockUrlRepository
	uc          *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = ucMock.NewMockUrlRepository(suite.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.uc = NewURLUseCase(3, suite.urlRepoMock, logger)
}

func (suite *URLUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
}

func (suite *URLUseCaseTestSuite) TestShorten() {
	params := ShortenParams{Origin: "https://example.com"}

	suite.Run("maximum retries error", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything).
			Times(5).
			Return(nil, entity.ErrIdentExists)

		url, err := suite.uc.Shorten(context.Background(), params)

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(url)
	})

	suite.Run("external id conflict is not retried", func() {
		externalID := "my-alias"

		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything).
			Once().
			Return(nil, entity.ErrExternalIDExists)

		url, err := suite.uc.Shorten(context.Background(), ShortenParams{
			Origin:     "https://example.com",
			ExternalID: &externalID,
		})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrExternalIDExists)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything).
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.Shorten(context.Background(), params)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("retries until a free identifier is found", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything).
			Twice().
			Return(nil, entity.ErrIdentExists)
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything).
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		url, err := suite.uc.Shorten(context.Background(), params)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc-def-ghi", url.Ident)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.MatchedBy(func(url *entity.ShortURL) bool {
				return url.Origin == "https://example.com" && url.Ident != ""
			})).
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		url, err := suite.uc.Shorten(context.Background(), params)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("https://example.com", url.Origin)
		suite.Zero(url.Views)
	})
}

func (suite *URLUseCaseTestSuite) TestResolve() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("ResolveLive", context.Background(), "abc-def-ghi").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.Resolve(context.Background(), "abc-def-ghi")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success records visit out-of-band", func() {
		visited := make(chan struct{})

		suite.urlRepoMock.
			On("ResolveLive", context.Background(), "abc-def-ghi").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)
		suite.urlRepoMock.
			On("RecordVisit", mock.Anything, int64(1)).
			Once().
			Run(func(mock.Arguments) { close(visited) }).
			Return(nil)

		url, err := suite.uc.Resolve(context.Background(), "abc-def-ghi")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("https://example.com", url.Origin)

		select {
		case <-visited:
		case <-time.After(time.Second):
			suite.Fail("visit was never recorded")
		}
	})

	suite.Run("visit bookkeeping failure does not surface", func() {
		visited := make(chan struct{})

		suite.urlRepoMock.
			On("ResolveLive", context.Background(), "abc-def-ghi").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)
		suite.urlRepoMock.
			On("RecordVisit", mock.Anything, int64(1)).
			Once().
			Run(func(mock.Arguments) { close(visited) }).
			Return(suite.errUnknown)

		url, err := suite.uc.Resolve(context.Background(), "abc-def-ghi")

		suite.NoError(err)
		suite.NotNil(url)

		select {
		case <-visited:
		case <-time.After(time.Second):
			suite.Fail("visit was never recorded")
		}
	})
}

func (suite *URLUseCaseTestSuite) TestGetByIdent() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByIdent", context.Background(), "abc-def-ghi").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.GetByIdent(context.Background(), "abc-def-ghi")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByIdent", context.Background(), "abc-def-ghi").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		url, err := suite.uc.GetByIdent(context.Background(), "abc-def-ghi")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc-def-ghi", url.Ident)
	})
}

func (suite *URLUseCaseTestSuite) TestGetByExternalID() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByExternalID", context.Background(), "my-alias").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.GetByExternalID(context.Background(), "my-alias")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		externalID := "my-alias"

		suite.urlRepoMock.
			On("RetrieveByExternalID", context.Background(), "my-alias").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", ExternalID: &externalID}, nil)

		url, err := suite.uc.GetByExternalID(context.Background(), "my-alias")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("my-alias", *url.ExternalID)
	})
}

func (suite *URLUseCaseTestSuite) TestUpdateByIdent() {
	origin := "https://new-example.com"
	upd := entity.ShortURLUpdate{Origin: &origin}

	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("UpdateByIdent", context.Background(), "abc-def-ghi", upd).
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.UpdateByIdent(context.Background(), "abc-def-ghi", upd)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("UpdateByIdent", context.Background(), "abc-def-ghi", upd).
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: origin}, nil)

		url, err := suite.uc.UpdateByIdent(context.Background(), "abc-def-ghi", upd)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(origin, url.Origin)
	})
}

func (suite *URLUseCaseTestSuite) TestDeleteByIdent() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("DeleteByIdent", context.Background(), "abc-def-ghi").
			Once().
			Return(entity.ErrURLNotFound)

		err := suite.uc.DeleteByIdent(context.Background(), "abc-def-ghi")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("DeleteByIdent", context.Background(), "abc-def-ghi").
			Once().
			Return(nil)

		err := suite.uc.DeleteByIdent(context.Background(), "abc-def-ghi")

		suite.NoError(err)
	})
}

func (suite *URLUseCaseTestSuite) TestDeleteBatch() {
	suite.Run("empty batch is a no-op", func() {
		n, err := suite.uc.DeleteBatch(context.Background(), nil)

		suite.NoError(err)
		suite.Zero(n)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("DeleteBatch", context.Background(), []int64{1, 2, 3}).
			Once().
			Return(int64(0), suite.errUnknown)

		n, err := suite.uc.DeleteBatch(context.Background(), []int64{1, 2, 3})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Zero(n)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("DeleteBatch", context.Background(), []int64{1, 2, 3}).
			Once().
			Return(int64(2), nil)

		n, err := suite.uc.DeleteBatch(context.Background(), []int64{1, 2, 3})

		suite.NoError(err)
		suite.Equal(int64(2), n)
	})
}

func (suite *URLUseCaseTestSuite) TestList() {
	suite.Run("params are normalized before hitting the store", func() {
		want := entity.ListParams{Page: 1, PerPage: 20, SortBy: entity.SortByCreatedAt, Order: entity.OrderDesc}

		suite.urlRepoMock.
			On("List", context.Background(), want).
			Once().
			Return(&entity.URLPage{Page: 1, PerPage: 20}, nil)

		page, err := suite.uc.List(context.Background(), entity.ListParams{Page: -1, PerPage: 1000, SortBy: "bogus"})

		suite.NoError(err)
		suite.NotNil(page)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("List", context.Background(), mock.Anything).
			Once().
			Return(nil, suite.errUnknown)

		page, err := suite.uc.List(context.Background(), entity.ListParams{})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(page)
	})
}

func (suite *URLUseCaseTestSuite) TestRunReaper() {
	suite.Run("stops when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())

		reaped := make(chan struct{}, 1)
		suite.urlRepoMock.
			On("DeleteExpired", mock.Anything).
			Run(func(mock.Arguments) {
				select {
				case reaped <- struct{}{}:
				default:
				}
			}).
			Return(int64(1), nil)

		done := make(chan error, 1)
		go func() {
			done <- suite.uc.RunReaper(ctx, 10*time.Millisecond)
		}()

		select {
		case <-reaped:
		case <-time.After(time.Second):
			suite.Fail("reaper never swept")
		}

		cancel()

		select {
		case err := <-done:
			suite.NoError(err)
		case <-time.After(time.Second):
			suite.Fail("reaper did not stop")
		}
	})
}

func TestURLUseCase(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}
