package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/session"
)

// AuthHandler exposes the sandbox session lifecycle over HTTP.
type AuthHandler struct {
	sessions session.Manager
	logger   *logrus.Logger
}

// NewAuthHandler creates a new session handler.
func NewAuthHandler(sessions session.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /auth/login. Any non-blank credential pair is accepted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.Info("Processing sandbox login request")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(h.logger, w, models.NewValidationError("Invalid JSON format"))
		return
	}

	resp, err := h.sessions.Login(ctx, &req)
	if err != nil {
		h.logger.WithError(err).Warn("Sandbox login failed")

		errorMsg := err.Error()
		switch {
		case strings.Contains(errorMsg, "validation failed"):
			writeAPIError(h.logger, w, models.NewValidationError(errorMsg))
		case strings.Contains(errorMsg, "failed to store"):
			writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		default:
			writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		}
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, resp)
	h.logger.WithField("email", resp.User.Email).Info("Sandbox login succeeded")
}

// Logout handles POST /auth/logout. Logging out without a session is not an
// error; the response reports whether a session was actually invalidated.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.Info("Processing sandbox logout request")

	resp, err := h.sessions.Logout(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Sandbox logout failed")
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, resp)
	h.logger.WithField("session_invalidated", resp.SessionInvalidated).Info("Sandbox logout completed")
}

// Session handles GET /auth/session. It returns the current user when a
// valid session exists and 401 otherwise.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.sessions.Check(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Session check failed")
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	if user == nil {
		writeAPIError(h.logger, w, models.NewAuthenticationError("No active session"))
		return
	}

	resp := models.SessionResponse{User: *user}
	if expiresAt := h.sessions.ExpirationTime(); expiresAt != nil {
		resp.ExpiresAt = expiresAt.UnixMilli()
	}
	if remaining := h.sessions.TimeUntilExpiration(); remaining != nil {
		resp.TimeRemainingMS = remaining.Milliseconds()
	}

	writeJSONResponse(h.logger, w, http.StatusOK, &resp)
}

// Extend handles POST /auth/session/extend. It renews the current session's
// expiry for a full duration; without an active session it reports
// extended=false rather than failing.
func (h *AuthHandler) Extend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.sessions.Extend(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Session extension failed")
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, resp)
}
