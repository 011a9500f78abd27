package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		wantErr  bool
		validate func(*testing.T, *config.Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 24*time.Hour, cfg.Session.Duration)
				assert.Equal(t, 500*time.Millisecond, cfg.Session.LoginLatency)
				assert.Equal(t, "memory", cfg.Storage.Backend)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.False(t, cfg.Seed.Enabled)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"SERVER_PORT":      "9090",
				"SESSION_DURATION": "2h",
				"STORAGE_BACKEND":  "file",
				"REDIS_URL":        "redis://localhost:6380",
			},
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 2*time.Hour, cfg.Session.Duration)
				assert.Equal(t, "file", cfg.Storage.Backend)
				assert.Equal(t, "redis://localhost:6380", cfg.Redis.URL)
			},
		},
		{
			name: "invalid_port",
			envVars: map[string]string{
				"SERVER_PORT": "99999",
			},
			wantErr: true,
		},
		{
			name: "session_too_short",
			envVars: map[string]string{
				"SESSION_DURATION": "5s",
			},
			wantErr: true,
		},
		{
			name: "unknown_storage_backend",
			envVars: map[string]string{
				"STORAGE_BACKEND": "cloud",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr())
}

func TestLoadSeedFixture(t *testing.T) {
	t.Run("missing_file_is_empty", func(t *testing.T) {
		fixture, err := config.LoadSeedFixture(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Empty(t, fixture.Keys)
	})

	t.Run("named_keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		content := "keys:\n  - name: Production Key\n  - name: Staging Key\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		fixture, err := config.LoadSeedFixture(path)
		require.NoError(t, err)
		require.Len(t, fixture.Keys, 2)
		assert.Equal(t, "Production Key", fixture.Keys[0].Name)
		assert.Equal(t, "Staging Key", fixture.Keys[1].Name)
	})

	t.Run("unnamed_key_rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte("keys:\n  - name: \"\"\n"), 0600))

		_, err := config.LoadSeedFixture(path)
		require.Error(t, err)
	})
}
