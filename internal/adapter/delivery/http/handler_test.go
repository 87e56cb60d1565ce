package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shortify/shortify/internal/entity"
	"github.com/shortify/shortify/internal/usecase"

	httpMock "github.com/shortify/shortify/mocks/http"
)

type HandlersTestSuite struct {
	suite.Suite
	logger          *httplog.Logger
	urlUseCaseMock  *httpMock.MockUrlUseCase
	authUseCaseMock *httpMock.MockAuthUseCase
	userUseCaseMock *httpMock.MockUserUseCase
	server          *httptest.Server
	e               *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.urlUseCaseMock = httpMock.NewMockUrlUseCase(suite.T())
	suite.authUseCaseMock = httpMock.NewMockAuthUseCase(suite.T())
	suite.userUseCaseMock = httpMock.NewMockUserUseCase(suite.T())

	router := NewRouter(
		suite.logger,
		suite.urlUseCaseMock,
		suite.authUseCaseMock,
		suite.userUseCaseMock,
		NewMemoryLimiter(5, time.Minute),
		time.Hour,
		false,
	)
	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	// Redirects are assertions of their own here, never followed.
	suite.e = httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  suite.server.URL,
		Reporter: httpexpect.NewAssertReporter(suite.T()),
		Client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.urlUseCaseMock.AssertExpectations(suite.T())
	suite.authUseCaseMock.AssertExpectations(suite.T())
	suite.userUseCaseMock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) activeUser() *entity.User {
	return &entity.User{
		ID:       7,
		Username: "alice",
		Email:    "alice@example.com",
		IsActive: true,
	}
}

func (suite *HandlersTestSuite) superuser() *entity.User {
	user := suite.activeUser()
	user.IsSuperuser = true
	return user
}

func (suite *HandlersTestSuite) TestPing() {
	const path = "/api/v1/ping"

	suite.Run("success", func() {
		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			Text().IsEqual("pong")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("Resolve", mock.Anything, "abc-def-ghi").
			Once().
			Return(nil, entity.ErrURLNotFound)

		resp := suite.e.GET("/abc-def-ghi").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("Resolve", mock.Anything, "abc-def-ghi").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET("/abc-def-ghi").
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("Resolve", mock.Anything, "abc-def-ghi").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		suite.e.GET("/abc-def-ghi").
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com")
	})
}

func (suite *HandlersTestSuite) TestShorten() {
	const path = "/api/v1/urls/shorten"

	suite.Run("no credentials", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "", "").
			Once().
			Return(nil, entity.ErrNotAuthenticated)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("invalid api key", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "bad-key", "").
			Once().
			Return(nil, entity.ErrInvalidAPIKey)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "bad-key").
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "invalid api key")
	})

	suite.Run("both credentials reach the resolver", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "some-key", "some-token").
			Once().
			Return(nil, entity.ErrInvalidAPIKey)

		suite.e.POST(path).
			WithHeader(APIKeyHeader, "some-key").
			WithHeader("Authorization", "Bearer some-token").
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusForbidden)
	})

	suite.Run("inactive user", func() {
		user := suite.activeUser()
		user.IsActive = false

		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(user, nil)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object()

		resp.HasValue("message", "inactive user")
	})

	suite.Run("empty request body", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("validation error", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": "invalid url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "url").
			ContainsKey("message")
	})

	suite.Run("external id conflict", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)
		suite.urlUseCaseMock.
			On("Shorten", mock.Anything, mock.Anything).
			Once().
			Return(nil, entity.ErrExternalIDExists)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": "https://example.com", "external_id": "taken"}).
			Expect().
			Status(http.StatusConflict).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("identifier namespace exhausted", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)
		suite.urlUseCaseMock.
			On("Shorten", mock.Anything, mock.Anything).
			Once().
			Return(nil, usecase.ErrMaxRetriesExceeded)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
	})

	suite.Run("success attributes the url to the principal", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)
		suite.urlUseCaseMock.
			On("Shorten", mock.Anything, mock.MatchedBy(func(params usecase.ShortenParams) bool {
				return params.Origin == "https://example.com" &&
					params.UserID != nil && *params.UserID == 7
			})).
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		resp := suite.e.POST(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("ident", "abc-def-ghi")
		resp.HasValue("origin", "https://example.com")
		resp.HasValue("views", 0)
		resp.ContainsKey("created_at")
	})
}

func (suite *HandlersTestSuite) TestAccessToken() {
	const path = "/api/v1/auth/access-token"

	suite.Run("missing credentials", func() {
		resp := suite.e.POST(path).
			WithForm(map[string]string{"username": "alice"}).
			Expect().
			Status(http.StatusUnauthorized).
			JSON().Object()

		resp.HasValue("status", "error")
	})

	suite.Run("invalid credentials", func() {
		suite.authUseCaseMock.
			On("Authenticate", mock.Anything, "alice", "wrong").
			Once().
			Return(nil, entity.ErrInvalidCredential)

		resp := suite.e.POST(path).
			WithForm(map[string]string{"username": "alice", "password": "wrong"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object()

		resp.HasValue("message", "could not validate credentials")
	})

	suite.Run("inactive user", func() {
		user := suite.activeUser()
		user.IsActive = false

		suite.authUseCaseMock.
			On("Authenticate", mock.Anything, "alice", "s3cret").
			Once().
			Return(user, nil)

		resp := suite.e.POST(path).
			WithForm(map[string]string{"username": "alice", "password": "s3cret"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object()

		resp.HasValue("message", "inactive user")
	})

	suite.Run("attempts beyond the budget are rejected", func() {
		suite.authUseCaseMock.
			On("Authenticate", mock.Anything, "alice", "wrong").
			Times(5).
			Return(nil, entity.ErrInvalidCredential)

		for i := 0; i < 5; i++ {
			suite.e.POST(path).
				WithForm(map[string]string{"username": "alice", "password": "wrong"}).
				Expect().
				Status(http.StatusForbidden)
		}

		resp := suite.e.POST(path).
			WithForm(map[string]string{"username": "alice", "password": "wrong"}).
			Expect().
			Status(http.StatusTooManyRequests).
			JSON().Object()

		resp.HasValue("message", "too many login attempts")
	})

	suite.Run("success", func() {
		user := suite.activeUser()

		suite.authUseCaseMock.
			On("Authenticate", mock.Anything, "alice", "s3cret").
			Once().
			Return(user, nil)
		suite.authUseCaseMock.
			On("IssueToken", user).
			Once().
			Return("signed-token", time.Now().Add(time.Hour), nil)

		resp := suite.e.POST(path).
			WithForm(map[string]string{"username": "alice", "password": "s3cret"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("access_token", "signed-token")
		resp.HasValue("token_type", "bearer")
	})
}

func (suite *HandlersTestSuite) TestListURLs() {
	const path = "/api/v1/urls/"

	suite.Run("plain user lacks privileges", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.activeUser(), nil)

		resp := suite.e.GET(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusForbidden).
			JSON().Object()

		resp.HasValue("message", "the user doesn't have enough privileges")
	})

	suite.Run("success", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("List", mock.Anything, entity.ListParams{
				Search:  "example",
				Page:    2,
				PerPage: 10,
				SortBy:  "views",
				Order:   "asc",
			}).
			Once().
			Return(&entity.URLPage{
				Items:   []*entity.ShortURL{{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}},
				Total:   11,
				Page:    2,
				PerPage: 10,
			}, nil)

		resp := suite.e.GET(path).
			WithHeader(APIKeyHeader, "good-key").
			WithQuery("q", "example").
			WithQuery("page", 2).
			WithQuery("per_page", 10).
			WithQuery("sort_by", "views").
			WithQuery("order", "asc").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("page", 2)
		resp.HasValue("per_page", 10)
		resp.HasValue("total", 11)
		resp.Value("results").Array().Length().IsEqual(1)
	})
}

func (suite *HandlersTestSuite) TestGetByIdent() {
	const path = "/api/v1/urls/ident/abc-def-ghi/"

	suite.Run("url not found", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("GetByIdent", mock.Anything, "abc-def-ghi").
			Once().
			Return(nil, entity.ErrURLNotFound)

		suite.e.GET(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusNotFound)
	})

	suite.Run("success", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("GetByIdent", mock.Anything, "abc-def-ghi").
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: "https://example.com"}, nil)

		resp := suite.e.GET(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("ident", "abc-def-ghi")
	})
}

func (suite *HandlersTestSuite) TestUpdateByExternalID() {
	const path = "/api/v1/urls/external/my-alias/"

	suite.Run("success", func() {
		origin := "https://new-example.com"

		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("UpdateByExternalID", mock.Anything, "my-alias", entity.ShortURLUpdate{Origin: &origin}).
			Once().
			Return(&entity.ShortURL{ID: 1, Ident: "abc-def-ghi", Origin: origin}, nil)

		resp := suite.e.PATCH(path).
			WithHeader(APIKeyHeader, "good-key").
			WithJSON(map[string]string{"url": origin}).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("origin", origin)
	})
}

func (suite *HandlersTestSuite) TestDeleteByIdent() {
	const path = "/api/v1/urls/ident/abc-def-ghi/"

	suite.Run("url not found", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("DeleteByIdent", mock.Anything, "abc-def-ghi").
			Once().
			Return(entity.ErrURLNotFound)

		suite.e.DELETE(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusNotFound)
	})

	suite.Run("success", func() {
		suite.authUseCaseMock.
			On("ResolvePrincipal", mock.Anything, "good-key", "").
			Once().
			Return(suite.superuser(), nil)
		suite.urlUseCaseMock.
			On("DeleteByIdent", mock.Anything, "abc-def-ghi").
			Once().
			Return(nil)

		suite.e.DELETE(path).
			WithHeader(APIKeyHeader, "good-key").
			Expect().
			Status(http.StatusNoContent)
	})
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
