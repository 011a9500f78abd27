package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// Redis keys are prefixed to avoid collisions with other tenants of the same
// instance:
//   - console:sandbox_session - the mirrored session record
//   - console:api_keys        - the API-key list
const (
	redisSessionKey = "console:" + SessionKey
	redisAPIKeysKey = "console:" + APIKeysKey
)

// RedisStore is a Redis-backed implementation of the Store interface with
// connection pooling and structured logging. Records are stored as JSON
// strings under the prefixed keys above. The session record carries its own
// expiry timestamp, so no Redis TTL is applied; expiry is the session
// manager's concern.
type RedisStore struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewRedisStore creates a Redis store from the given configuration and
// verifies connectivity with a ping.
func NewRedisStore(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	opts.MaxRetries = cfg.MaxRetries
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConn
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.PoolTimeout = cfg.PoolTimeout

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("db", cfg.DB).Info("Redis store initialized")
	return &RedisStore{rdb: rdb, logger: logger}, nil
}

// Close gracefully closes the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// Ping verifies connectivity to the Redis server.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Client exposes the underlying Redis client for components that need it
// directly, such as the rate limiter.
func (r *RedisStore) Client() *redis.Client {
	return r.rdb
}

// StoreSession persists the session mirror.
func (r *RedisStore) StoreSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.rdb.Set(ctx, redisSessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.WithField("user", session.User.Email).Debug("Session stored in redis")
	return nil
}

// GetSession retrieves the mirrored session. An unparsable record is deleted
// and reported as absent.
func (r *RedisStore) GetSession(ctx context.Context) (*models.Session, error) {
	data, err := r.rdb.Get(ctx, redisSessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.WithError(err).Warn("Corrupt session record in redis, clearing it")
		if delErr := r.rdb.Del(ctx, redisSessionKey).Err(); delErr != nil {
			r.logger.WithError(delErr).Warn("Failed to clear corrupt session record")
		}
		return nil, ErrNotFound
	}

	return &session, nil
}

// DeleteSession removes the session mirror.
func (r *RedisStore) DeleteSession(ctx context.Context) error {
	if err := r.rdb.Del(ctx, redisSessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.logger.Debug("Session deleted from redis")
	return nil
}

// StoreAPIKeys persists the key list.
func (r *RedisStore) StoreAPIKeys(ctx context.Context, keys []models.APIKey) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal api keys: %w", err)
	}

	if err := r.rdb.Set(ctx, redisAPIKeysKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store api keys: %w", err)
	}

	r.logger.WithField("count", len(keys)).Debug("API keys stored in redis")
	return nil
}

// GetAPIKeys retrieves the key list. An absent or unparsable record yields an
// empty list.
func (r *RedisStore) GetAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	data, err := r.rdb.Get(ctx, redisAPIKeysKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get api keys: %w", err)
	}

	var keys []models.APIKey
	if err := json.Unmarshal(data, &keys); err != nil {
		r.logger.WithError(err).Warn("Corrupt api key list in redis, clearing it")
		if delErr := r.rdb.Del(ctx, redisAPIKeysKey).Err(); delErr != nil {
			r.logger.WithError(delErr).Warn("Failed to clear corrupt api key list")
		}
		return nil, nil
	}

	return keys, nil
}
