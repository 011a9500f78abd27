package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request models.LoginRequest
		wantErr string
	}{
		{
			name:    "valid_credentials",
			request: models.LoginRequest{Email: "alice@example.com", Password: "secret"},
		},
		{
			name:    "trims_email",
			request: models.LoginRequest{Email: "  alice@example.com  ", Password: "secret"},
		},
		{
			name:    "missing_email",
			request: models.LoginRequest{Password: "secret"},
			wantErr: "email is required",
		},
		{
			name:    "whitespace_email",
			request: models.LoginRequest{Email: "   ", Password: "secret"},
			wantErr: "email is required",
		},
		{
			name:    "missing_password",
			request: models.LoginRequest{Email: "alice@example.com"},
			wantErr: "password is required",
		},
		{
			name:    "whitespace_password",
			request: models.LoginRequest{Email: "alice@example.com", Password: "  "},
			wantErr: "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", tt.request.Email)
		})
	}
}

func TestNewSessionUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		wantName string
	}{
		{name: "email_local_part", email: "alice@example.com", wantName: "alice"},
		{name: "dotted_local_part", email: "jane.doe@corp.io", wantName: "jane.doe"},
		{name: "bare_identifier", email: "operator", wantName: "operator"},
		{name: "leading_at", email: "@weird", wantName: "@weird"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := models.NewSessionUser(tt.email)
			assert.Equal(t, tt.email, user.Email)
			assert.Equal(t, tt.wantName, user.Name)
			assert.NotEmpty(t, user.ID)
		})
	}
}

func TestNewSessionUserUniqueIDs(t *testing.T) {
	a := models.NewSessionUser("same@example.com")
	b := models.NewSessionUser("same@example.com")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionExpiry(t *testing.T) {
	user := models.NewSessionUser("alice@example.com")

	live := models.NewSession(user, time.Hour)
	assert.False(t, live.IsExpired())
	assert.Greater(t, live.TimeUntilExpiration(), 59*time.Minute)

	expired := models.NewSession(user, -time.Minute)
	assert.True(t, expired.IsExpired())
	assert.Equal(t, time.Duration(0), expired.TimeUntilExpiration())
}

func TestSessionJSONShape(t *testing.T) {
	session := &models.Session{
		User:      models.User{ID: "u1", Email: "a@b.c", Name: "a"},
		ExpiresAt: 1761400800000,
	}

	encoded, err := json.Marshal(session)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"user":{"id":"u1","email":"a@b.c","name":"a"},"expiresAt":1761400800000}`,
		string(encoded))

	var decoded models.Session
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, *session, decoded)
}
