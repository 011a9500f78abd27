package models

import (
	"errors"
	"strings"
	"time"
)

const maxKeyNameLength = 100

// APIKeyStatus is the lifecycle state of a sandbox API key.
type APIKeyStatus string

const (
	// APIKeyStatusActive marks a key that can be used against the sandbox.
	APIKeyStatusActive APIKeyStatus = "active"
	// APIKeyStatusRevoked marks a key that has been disabled but kept for
	// display in the dashboard.
	APIKeyStatusRevoked APIKeyStatus = "revoked"
)

// APIKey is a simulated API key. The key material is pseudo-random and only
// ever lives in the console's own storage; it grants no real access.
type APIKey struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Key       string       `json:"key"`
	CreatedAt time.Time    `json:"createdAt"`
	LastUsed  *time.Time   `json:"lastUsed,omitempty"`
	Status    APIKeyStatus `json:"status"`
}

// CreateAPIKeyRequest names a new sandbox key.
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// APIKeyListResponse wraps the key collection for the dashboard table.
type APIKeyListResponse struct {
	Keys []APIKey `json:"keys"`
}

// DeleteAPIKeyResponse confirms a key deletion.
type DeleteAPIKeyResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

// Validate checks the key creation request.
func (req *CreateAPIKeyRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name is required")
	}
	if len(req.Name) > maxKeyNameLength {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}

// IsActive reports whether the key can still be used.
func (k *APIKey) IsActive() bool {
	return k.Status == APIKeyStatusActive
}

// MaskKey shortens key material for logs and list views, keeping the first
// eight and last four characters. Keys at or below twelve characters are
// returned unchanged.
func MaskKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "..." + key[len(key)-4:]
}
