package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack/user-auth-service/internal/adapter/memory"
	"github.com/fintrack/user-auth-service/internal/adapter/token"
	"github.com/fintrack/user-auth-service/internal/config"
	"github.com/fintrack/user-auth-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{})  {}

type nopMetrics struct{}

func (nopMetrics) IncrementCounter(string, map[string]string)                {}
func (nopMetrics) RecordDuration(string, time.Duration, map[string]string)  {}
func (nopMetrics) RecordMetrics(*gin.Context, time.Time)                    {}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	validate := validator.New()
	tokens := token.NewJWTTokenService("test-secret", "1h", nopLogger{})
	authService := services.NewAuthService(store, tokens, nopLogger{}, validate)
	profileService := services.NewProfileService(store, nopLogger{}, validate)

	router, err := NewRouter(
		&config.HTTP{Env: "local", AllowedOrigins: "http://localhost:3000"},
		authService,
		NewAuthHandler(authService, nopLogger{}, nopMetrics{}),
		NewProfileHandler(profileService, nopLogger{}, nopMetrics{}),
	)
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router *Router, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/register", "", RegisterRequest{
		Name: "Alice Smith", Email: "alice@example.com", Password: "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/login", "", LoginRequest{
		Email: "alice@example.com", Password: "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "alice@example.com", login.User.Email)

	rec = doJSON(t, router, http.MethodGet, "/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	router := newTestRouter(t)

	req := RegisterRequest{Name: "Bob", Email: "bob@ex.com", Password: "s3cret99"}
	rec := doJSON(t, router, http.MethodPost, "/register", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/register", "", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/register", "", RegisterRequest{
		Name: "Bob", Email: "bob@ex.com", Password: "s3cret99",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(t, router, http.MethodPost, "/login", "", LoginRequest{
		Email: "bob@ex.com", Password: "wrong-password",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/login", "", LoginRequest{
		Email: "nobody@ex.com", Password: "whatever1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"responses must not reveal whether the account exists")
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users/me", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPreferencesAndTransactions_OverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/register", "", RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/login", "", LoginRequest{
		Email: "carol@example.com", Password: "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	// preferences are absent until the first upsert
	rec = doJSON(t, router, http.MethodGet, "/users/me/preferences", login.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/users/me/preferences", login.Token, PreferencesRequest{
		Theme: "dark", Currency: "EUR", Language: "de", Notifications: true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/users/me/preferences", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/users/me/transactions", login.Token, TransactionRequest{
		Name: "Groceries", Amount: 42.5, Category: "food",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/users/me/transactions", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
