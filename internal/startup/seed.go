// Package startup provides utilities for service initialization including
// demo API key seeding from configuration files.
package startup

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/apikeys"
	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// SeedService creates demo API keys during service startup so a fresh
// console is not empty on first login.
type SeedService struct {
	config *config.Config
	keys   apikeys.Service
	logger *logrus.Logger
}

// NewSeedService creates a new seed service.
func NewSeedService(cfg *config.Config, keys apikeys.Service, logger *logrus.Logger) *SeedService {
	return &SeedService{
		config: cfg,
		keys:   keys,
		logger: logger,
	}
}

// SeedAPIKeys creates the keys named in the seed fixture. It only runs when
// seeding is enabled and the store holds no keys yet, so restarts never
// duplicate demo data.
func (s *SeedService) SeedAPIKeys(ctx context.Context) error {
	if !s.config.Seed.Enabled {
		s.logger.Debug("Demo key seeding disabled")
		return nil
	}

	existing, err := s.keys.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect existing api keys: %w", err)
	}
	if len(existing) > 0 {
		s.logger.WithField("count", len(existing)).Debug("API keys already present, skipping seed")
		return nil
	}

	fixture, err := config.LoadSeedFixture(s.config.Seed.ConfigPath)
	if err != nil {
		return err
	}
	if len(fixture.Keys) == 0 {
		s.logger.WithField("path", s.config.Seed.ConfigPath).Info("Seed fixture empty, nothing to create")
		return nil
	}

	for _, seed := range fixture.Keys {
		key, err := s.keys.Create(ctx, &models.CreateAPIKeyRequest{Name: seed.Name})
		if err != nil {
			s.logger.WithError(err).WithField("name", seed.Name).Warn("Failed to seed api key")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"key_id": key.ID,
			"name":   key.Name,
			"key":    models.MaskKey(key.Key),
		}).Info("Demo api key created")
	}

	return nil
}
