// Package session implements the mock authenticated-user session of the
// sandbox console: login, logout, expiry tracking, and renewal. Credentials
// are accepted unconditionally (both fields non-blank), the user record is
// synthesized from the identifier, and a configurable artificial latency
// keeps the operations asynchronous the way the simulated network round
// trips of the original dashboard were.
//
// The manager owns a single mutex-guarded session slot; the store holds a
// durable mirror reconciled on every check with "in-memory wins while valid"
// semantics. An expired session is never returned to a caller: any operation
// that observes expiry clears both the slot and the mirror.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

// Manager is the public contract of the session lifecycle.
type Manager interface {
	// Login validates the mock credentials, creates a fresh session expiring
	// after the configured duration, and persists its mirror.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// Logout clears the in-memory session and its mirror unconditionally.
	Logout(ctx context.Context) (*models.LogoutResponse, error)

	// Check resolves the current user. A valid in-memory session wins; an
	// expired one triggers an auto-logout; with no in-memory session the
	// mirror is restored if still valid. Returns (nil, nil) when anonymous.
	Check(ctx context.Context) (*models.User, error)

	// Extend refreshes the expiry of a valid session. Extended is false when
	// there is no session or it has already expired; storage is then left
	// untouched.
	Extend(ctx context.Context) (*models.ExtendSessionResponse, error)

	// ExpirationTime returns the absolute expiry of the in-memory session,
	// or nil when there is none.
	ExpirationTime() *time.Time

	// TimeUntilExpiration returns the remaining session lifetime clamped to
	// zero, or nil when there is no in-memory session.
	TimeUntilExpiration() *time.Duration

	// StartExpiryWatcher launches a goroutine that re-checks the session on
	// the configured interval so expiry is detected without caller traffic.
	// The watcher stops when the context is canceled.
	StartExpiryWatcher(ctx context.Context)
}

// Hooks are optional callbacks fired on session lifecycle transitions so the
// metrics layer can count logins and expirations without the manager
// depending on it. The whole struct or either field may be nil.
type Hooks struct {
	SessionStarted func()
	SessionExpired func()
}

type manager struct {
	cfg     *config.SessionConfig
	store   storage.Store
	logger  *logrus.Logger
	hooks   *Hooks
	current *models.Session
	mu      sync.RWMutex
}

// NewManager creates a session manager backed by the given store.
func NewManager(cfg *config.SessionConfig, store storage.Store, logger *logrus.Logger, hooks *Hooks) Manager {
	return &manager{
		cfg:    cfg,
		store:  store,
		logger: logger,
		hooks:  hooks,
	}
}

func (m *manager) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	simulateLatency(ctx, m.cfg.LoginLatency)

	if err := req.Validate(); err != nil {
		m.logger.WithError(err).Warn("Invalid login request")
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user := models.NewSessionUser(req.Email)
	session := models.NewSession(user, m.cfg.Duration)

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	if err := m.store.StoreSession(ctx, session); err != nil {
		m.logger.WithError(err).Error("Failed to persist session")
		return nil, errors.New("failed to store session")
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"email":      user.Email,
		"expires_at": session.ExpiresAt,
	}).Info("User logged in")
	m.notifyStarted()

	return &models.LoginResponse{
		User:      user,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (m *manager) Logout(ctx context.Context) (*models.LogoutResponse, error) {
	simulateLatency(ctx, m.cfg.LogoutLatency)

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.DeleteSession(ctx); err != nil {
		m.logger.WithError(err).Warn("Failed to clear session mirror")
	}

	m.logger.Info("User logged out")

	return &models.LogoutResponse{
		Message:            "User logged out successfully",
		SessionInvalidated: true,
	}, nil
}

func (m *manager) Check(ctx context.Context) (*models.User, error) {
	simulateLatency(ctx, m.cfg.CheckLatency)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		if m.current.IsExpired() {
			m.logger.Info("Session expired, logging out")
			m.clearLocked(ctx)
			return nil, nil
		}
		user := m.current.User
		return &user, nil
	}

	stored, err := m.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if stored.IsExpired() {
		m.logger.Info("Stored session expired, clearing it")
		if delErr := m.store.DeleteSession(ctx); delErr != nil {
			m.logger.WithError(delErr).Warn("Failed to clear expired session mirror")
		}
		m.notifyExpired()
		return nil, nil
	}

	m.current = stored
	m.logger.WithField("email", stored.User.Email).Debug("Session restored from storage")

	user := stored.User
	return &user, nil
}

func (m *manager) Extend(ctx context.Context) (*models.ExtendSessionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.IsExpired() {
		return &models.ExtendSessionResponse{Extended: false}, nil
	}

	m.current.ExpiresAt = time.Now().Add(m.cfg.Duration).UnixMilli()

	if err := m.store.StoreSession(ctx, m.current); err != nil {
		m.logger.WithError(err).Error("Failed to persist extended session")
		return nil, errors.New("failed to store session")
	}

	m.logger.WithField("expires_at", m.current.ExpiresAt).Info("Session extended")

	return &models.ExtendSessionResponse{
		Extended:  true,
		ExpiresAt: m.current.ExpiresAt,
	}, nil
}

func (m *manager) ExpirationTime() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	t := m.current.ExpiresAtTime()
	return &t
}

func (m *manager) TimeUntilExpiration() *time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	d := m.current.TimeUntilExpiration()
	return &d
}

func (m *manager) StartExpiryWatcher(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.cfg.ExpiryCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.Check(ctx); err != nil {
					m.logger.WithError(err).Warn("Session expiry check failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// clearLocked drops an expired session slot and its mirror. Callers must hold
// the write lock.
func (m *manager) clearLocked(ctx context.Context) {
	m.current = nil
	if err := m.store.DeleteSession(ctx); err != nil {
		m.logger.WithError(err).Warn("Failed to clear session mirror")
	}
	m.notifyExpired()
}

func (m *manager) notifyStarted() {
	if m.hooks != nil && m.hooks.SessionStarted != nil {
		m.hooks.SessionStarted()
	}
}

func (m *manager) notifyExpired() {
	if m.hooks != nil && m.hooks.SessionExpired != nil {
		m.hooks.SessionExpired()
	}
}

// simulateLatency blocks for the configured artificial delay, returning early
// only when the context is canceled. It stands in for a real network call so
// call sites already treat these operations as asynchronous.
func simulateLatency(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
