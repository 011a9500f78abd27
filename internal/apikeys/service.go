// Package apikeys implements the simulated API-key management of the sandbox
// console. Keys are pseudo-random "sk_live_" strings persisted as a single
// list in the shared store; generation is deliberately non-cryptographic
// because the keys grant no real access.
package apikeys

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

const (
	keyPrefix        = "sk_live_"
	keyRandomLength  = 32
	keyCharset       = "abcdefghijklmnopqrstuvwxyz0123456789"
	simulatedLatency = 300 * time.Millisecond
)

// ErrKeyNotFound is returned when an operation targets a key id that does
// not exist in the store.
var ErrKeyNotFound = errors.New("api key not found")

// Service is the public contract of the key-management operations backing
// the dashboard's API Keys page.
type Service interface {
	// List returns all keys, newest first.
	List(ctx context.Context) ([]models.APIKey, error)

	// Create generates a new active key with the requested name.
	Create(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.APIKey, error)

	// Revoke marks the key as revoked but keeps it listed.
	Revoke(ctx context.Context, id string) error

	// Regenerate replaces the key material of an existing key and resets its
	// creation time.
	Regenerate(ctx context.Context, id string) (*models.APIKey, error)

	// Delete removes the key from the list entirely.
	Delete(ctx context.Context, id string) error

	// ActiveCount returns the number of keys whose status is active.
	ActiveCount(ctx context.Context) (int, error)
}

type service struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewService creates an API-key service backed by the given store.
func NewService(store storage.Store, logger *logrus.Logger) Service {
	return &service{
		store:  store,
		logger: logger,
	}
}

func (s *service) List(ctx context.Context) ([]models.APIKey, error) {
	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load api keys: %w", err)
	}

	// Newest first for the dashboard table. Regenerate resets CreatedAt in
	// place, so the stored order is not chronological.
	sorted := make([]models.APIKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return sorted, nil
}

func (s *service) Create(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.APIKey, error) {
	simulateLatency(ctx)

	if err := req.Validate(); err != nil {
		s.logger.WithError(err).Warn("Invalid key creation request")
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	key := models.APIKey{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Key:       s.generateKey(),
		CreatedAt: time.Now(),
		Status:    models.APIKeyStatusActive,
	}

	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load api keys: %w", err)
	}

	keys = append(keys, key)
	if err := s.store.StoreAPIKeys(ctx, keys); err != nil {
		return nil, fmt.Errorf("failed to store api keys: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"key_id": key.ID,
		"name":   key.Name,
		"key":    models.MaskKey(key.Key),
	}).Info("API key created")

	return &key, nil
}

func (s *service) Revoke(ctx context.Context, id string) error {
	simulateLatency(ctx)

	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to load api keys: %w", err)
	}

	idx := indexOf(keys, id)
	if idx < 0 {
		return ErrKeyNotFound
	}

	keys[idx].Status = models.APIKeyStatusRevoked
	if err := s.store.StoreAPIKeys(ctx, keys); err != nil {
		return fmt.Errorf("failed to store api keys: %w", err)
	}

	s.logger.WithField("key_id", id).Info("API key revoked")
	return nil
}

func (s *service) Regenerate(ctx context.Context, id string) (*models.APIKey, error) {
	simulateLatency(ctx)

	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load api keys: %w", err)
	}

	idx := indexOf(keys, id)
	if idx < 0 {
		return nil, ErrKeyNotFound
	}

	keys[idx].Key = s.generateKey()
	keys[idx].CreatedAt = time.Now()
	if err := s.store.StoreAPIKeys(ctx, keys); err != nil {
		return nil, fmt.Errorf("failed to store api keys: %w", err)
	}

	regenerated := keys[idx]
	s.logger.WithFields(logrus.Fields{
		"key_id": id,
		"key":    models.MaskKey(regenerated.Key),
	}).Info("API key regenerated")

	return &regenerated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	simulateLatency(ctx)

	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to load api keys: %w", err)
	}

	filtered := keys[:0:0]
	for _, key := range keys {
		if key.ID != id {
			filtered = append(filtered, key)
		}
	}

	if err := s.store.StoreAPIKeys(ctx, filtered); err != nil {
		return fmt.Errorf("failed to store api keys: %w", err)
	}

	s.logger.WithField("key_id", id).Info("API key deleted")
	return nil
}

func (s *service) ActiveCount(ctx context.Context) (int, error) {
	keys, err := s.store.GetAPIKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load api keys: %w", err)
	}

	count := 0
	for _, key := range keys {
		if key.IsActive() {
			count++
		}
	}

	return count, nil
}

// generateKey produces "sk_live_" plus 32 pseudo-random characters. The
// package-level rand functions are safe for concurrent use.
func (s *service) generateKey() string {
	buf := make([]byte, keyRandomLength)
	for i := range buf {
		buf[i] = keyCharset[rand.Intn(len(keyCharset))]
	}
	return keyPrefix + string(buf)
}

func indexOf(keys []models.APIKey, id string) int {
	for i, key := range keys {
		if key.ID == id {
			return i
		}
	}
	return -1
}

func simulateLatency(ctx context.Context) {
	timer := time.NewTimer(simulatedLatency)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
