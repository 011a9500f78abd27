// Package config provides configuration management for the sandbox console service.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// SeedKey describes one demo API key to create when the store is empty.
type SeedKey struct {
	Name string `mapstructure:"name"`
}

// SeedFixture is the parsed seed configuration file.
type SeedFixture struct {
	Keys []SeedKey `mapstructure:"keys"`
}

// LoadSeedFixture reads the demo-data fixture from the given YAML file.
// A missing file is not an error; it yields an empty fixture so startup can
// proceed without demo keys.
func LoadSeedFixture(path string) (*SeedFixture, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &SeedFixture{}, nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed fixture: %w", err)
	}

	var fixture SeedFixture
	if err := v.Unmarshal(&fixture); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}

	for i, key := range fixture.Keys {
		if key.Name == "" {
			return nil, fmt.Errorf("seed fixture key %d has no name", i)
		}
	}

	return &fixture, nil
}
