// Package storage provides persistence adapters for the sandbox console.
// The console keeps exactly two durable records: the mirrored session under a
// fixed session key and the API-key list under a fixed key-list key, matching
// the key-value discipline of the original browser-hosted dashboard. Three
// adapters implement the same Store interface: an in-memory store used as the
// test fake and fallback, a single-file JSON store for local single-user
// runs, and a Redis store for shared deployments.
//
// Corruption handling is uniform across adapters: a record that fails to
// parse is deleted and reported as absent, never surfaced as an error.
package storage

import (
	"context"
	"errors"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// Fixed storage keys shared by all adapters.
const (
	// SessionKey is the storage key of the mirrored session record.
	SessionKey = "sandbox_session"
	// APIKeysKey is the storage key of the API-key list.
	APIKeysKey = "api_keys"
)

// ErrNotFound is returned when a record does not exist in the store. A record
// that failed to parse is also reported this way after being cleared.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the console needs. Only the
// session manager reads or writes the session record; only the API-key
// service reads or writes the key list. Last write wins; no transactional
// guarantees are provided or required.
//
// Thread Safety: implementations must be safe for concurrent use.
type Store interface {
	// Close releases any resources held by the store.
	Close() error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// StoreSession persists the session mirror, replacing any previous one.
	StoreSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves the mirrored session. Returns ErrNotFound when no
	// session is stored or the stored record was unparsable (in which case it
	// has been cleared).
	GetSession(ctx context.Context) (*models.Session, error)

	// DeleteSession removes the session mirror. Deleting an absent session is
	// not an error.
	DeleteSession(ctx context.Context) error

	// StoreAPIKeys persists the full key list, replacing any previous one.
	StoreAPIKeys(ctx context.Context, keys []models.APIKey) error

	// GetAPIKeys retrieves the key list. An absent or unparsable record
	// yields an empty list.
	GetAPIKeys(ctx context.Context) ([]models.APIKey, error)
}
