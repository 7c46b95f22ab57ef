package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"conduit/internal/handlers"
	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/repository"
	"conduit/internal/services"
)

const testSecret = "conduit-handler-test-secret"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "conduit_handlers.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Article{}, &models.Favorite{}))

	repo := repository.NewUserRepository(db)
	svc := services.NewUserService(repo, nil, testSecret, 1440*time.Hour)
	handler := handlers.NewUserHandler(svc)

	require.NoError(t, middleware.InitMetrics())

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(middleware.Metrics())

	api := e.Group("/api")
	api.POST("/users", handler.Register)
	api.POST("/users/login", handler.Login)
	api.GET("/users/roster", handler.Roster, middleware.OptionalJWTAuth(testSecret))

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(testSecret))
	auth.GET("/user", handler.GetCurrentUser)
	auth.PUT("/user", handler.Update)
	auth.DELETE("/users/:email", handler.Delete)

	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Token    string `json:"token"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "alice", envelope.User.Username)
	require.NotEmpty(t, envelope.User.Token)

	rec = doJSON(t, e, http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"wrong-password"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterDuplicateEnvelope(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"bob","email":"bob@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"bob","email":"fresh@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "input data validation failed", body.Message)
	require.Contains(t, body.Errors, "username")
}

func TestCurrentUserRequiresToken(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/api/user", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"carol","email":"carol@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		User struct {
			Token string `json:"token"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	rec = doJSON(t, e, http.MethodGet, "/api/user", "", envelope.User.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"carol@example.com"`)
}

func TestRosterEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"dora","email":"dora@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/users/roster", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	require.Equal(t, "dora", stats[0]["username"])
	require.EqualValues(t, 0, stats[0]["totalArticles"])
	require.Nil(t, stats[0]["firstArticleDate"])
}

func TestRosterTokenIsOptional(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"fern","email":"fern@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		User struct {
			Token string `json:"token"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	// A valid token is accepted, and a garbage one never gates the route.
	rec = doJSON(t, e, http.MethodGet, "/api/users/roster", "", envelope.User.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/users/roster", "", "not-a-token")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/users",
		`{"username":"ed","email":"ed@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		User struct {
			Token string `json:"token"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	token := envelope.User.Token

	rec = doJSON(t, e, http.MethodPut, "/api/user", `{"bio":"hello"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"hello"`)

	rec = doJSON(t, e, http.MethodDelete, "/api/users/ed@example.com", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Idempotent: second delete of the same email still succeeds.
	rec = doJSON(t, e, http.MethodDelete, "/api/users/ed@example.com", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
