package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal of a console session. The credential
// check is a simulation, so the record is synthesized from the login
// identifier rather than looked up in a user directory.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session pairs a user with an absolute expiry timestamp. A session is valid
// iff now is strictly before ExpiresAt; an expired session must be treated as
// absent by every caller.
//
// The persisted mirror round-trips through this exact JSON shape:
// {"user":{"id","email","name"},"expiresAt":<epoch ms>}.
type Session struct {
	User      User  `json:"user"`
	ExpiresAt int64 `json:"expiresAt"`
}

// LoginRequest carries the mock credentials. Any non-blank pair is accepted.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User      User  `json:"user"`
	ExpiresAt int64 `json:"expiresAt"`
}

// SessionResponse describes the current session for the dashboard, including
// the countdown the session banner renders.
type SessionResponse struct {
	User            User  `json:"user"`
	ExpiresAt       int64 `json:"expiresAt"`
	TimeRemainingMS int64 `json:"timeRemainingMs"`
}

// LogoutResponse confirms that the session was cleared.
type LogoutResponse struct {
	Message            string `json:"message"`
	SessionInvalidated bool   `json:"session_invalidated"`
}

// ExtendSessionResponse reports the outcome of a session renewal.
type ExtendSessionResponse struct {
	Extended  bool  `json:"extended"`
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// Validate checks the mock credentials. Both fields must be non-blank; there
// is no further verification since the backend is simulated.
func (req *LoginRequest) Validate() error {
	if strings.TrimSpace(req.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return errors.New("password is required")
	}
	req.Email = strings.TrimSpace(req.Email)
	return nil
}

// NewSessionUser synthesizes a user record from a login identifier. For an
// email-shaped identifier the display name is the local part; otherwise the
// identifier itself is used.
func NewSessionUser(email string) User {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return User{
		ID:    uuid.New().String(),
		Email: email,
		Name:  name,
	}
}

// NewSession creates a session for the user expiring after the given duration.
func NewSession(user User, duration time.Duration) *Session {
	return &Session{
		User:      user,
		ExpiresAt: time.Now().Add(duration).UnixMilli(),
	}
}

// IsExpired reports whether the session's expiry timestamp has passed.
func (s *Session) IsExpired() bool {
	return time.Now().UnixMilli() > s.ExpiresAt
}

// ExpiresAtTime returns the expiry as a time.Time.
func (s *Session) ExpiresAtTime() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// TimeUntilExpiration returns the remaining lifetime, clamped to zero so a
// stale session never yields a negative countdown.
func (s *Session) TimeUntilExpiration() time.Duration {
	remaining := time.Until(s.ExpiresAtTime())
	if remaining < 0 {
		return 0
	}
	return remaining
}
