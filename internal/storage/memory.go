package storage

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It provides the same behavior as the durable stores but without
// persistence, which makes it the default for tests and the fallback when no
// other backend is reachable.
type MemoryStore struct {
	session *models.Session
	keys    []models.APIKey
	logger  *logrus.Logger
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	logger.Info("In-memory store initialized")
	return &MemoryStore{logger: logger}
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	m.logger.Info("Memory store closed")
	return nil
}

// Ping always returns nil for memory store (always available).
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// StoreSession replaces the mirrored session.
func (m *MemoryStore) StoreSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = session
	m.logger.WithField("user", session.User.Email).Debug("Session stored in memory")
	return nil
}

// GetSession retrieves the mirrored session.
func (m *MemoryStore) GetSession(_ context.Context) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, ErrNotFound
	}

	return m.session, nil
}

// DeleteSession removes the mirrored session.
func (m *MemoryStore) DeleteSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.logger.Debug("Session deleted from memory")
	return nil
}

// StoreAPIKeys replaces the key list.
func (m *MemoryStore) StoreAPIKeys(_ context.Context, keys []models.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keys = make([]models.APIKey, len(keys))
	copy(m.keys, keys)
	m.logger.WithField("count", len(keys)).Debug("API keys stored in memory")
	return nil
}

// GetAPIKeys retrieves the key list.
func (m *MemoryStore) GetAPIKeys(_ context.Context) ([]models.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]models.APIKey, len(m.keys))
	copy(keys, m.keys)
	return keys, nil
}
