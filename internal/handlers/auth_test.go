package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/handlers"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/session"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func newAuthHandler(t *testing.T) (*handlers.AuthHandler, session.Manager) {
	t.Helper()

	cfg := &config.SessionConfig{
		Duration:            time.Hour,
		ExpiryCheckInterval: time.Minute,
	}
	mgr := session.NewManager(cfg, storage.NewMemoryStore(testLogger()), testLogger(), nil)
	return handlers.NewAuthHandler(mgr, testLogger()), mgr
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	handler, _ := newAuthHandler(t)

	rec := postJSON(t, handler.Login, "/auth/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "alice", resp.User.Name)
	assert.Greater(t, resp.ExpiresAt, time.Now().UnixMilli())
}

func TestLoginHandlerValidation(t *testing.T) {
	handler, _ := newAuthHandler(t)

	rec := postJSON(t, handler.Login, "/auth/login", models.LoginRequest{Email: "", Password: ""})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestLoginHandlerMalformedJSON(t *testing.T) {
	handler, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{oops"))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSessionHandler(t *testing.T) {
	handler, mgr := newAuthHandler(t)

	t.Run("without_session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		rec := httptest.NewRecorder()
		handler.Session(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with_session", func(t *testing.T) {
		_, err := mgr.Login(context.Background(), &models.LoginRequest{
			Email:    "bob@example.com",
			Password: "pw",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		rec := httptest.NewRecorder()
		handler.Session(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "bob@example.com", resp.User.Email)
		assert.Positive(t, resp.TimeRemainingMS)
	})
}

func TestLogoutHandler(t *testing.T) {
	handler, mgr := newAuthHandler(t)

	_, err := mgr.Login(context.Background(), &models.LoginRequest{
		Email:    "carol@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LogoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.SessionInvalidated)

	user, err := mgr.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestExtendHandler(t *testing.T) {
	handler, mgr := newAuthHandler(t)

	t.Run("without_session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/session/extend", nil)
		rec := httptest.NewRecorder()
		handler.Extend(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ExtendSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Extended)
	})

	t.Run("with_session", func(t *testing.T) {
		_, err := mgr.Login(context.Background(), &models.LoginRequest{
			Email:    "dave@example.com",
			Password: "pw",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/session/extend", nil)
		rec := httptest.NewRecorder()
		handler.Extend(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ExtendSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Extended)
		assert.Positive(t, resp.ExpiresAt)
	})
}
