package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/session"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

func testConfig(duration time.Duration) *config.SessionConfig {
	return &config.SessionConfig{
		Duration:            duration,
		ExpiryCheckInterval: time.Minute,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func newTestManager(t *testing.T, duration time.Duration) (session.Manager, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(testLogger())
	return session.NewManager(testConfig(duration), store, testLogger(), nil), store
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t, time.Hour)

	before := time.Now()
	resp, err := mgr.Login(ctx, &models.LoginRequest{
		Email:    "alice@example.com",
		Password: "anything",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "alice", resp.User.Name)
	assert.NotEmpty(t, resp.User.ID)

	// Expiry lands one duration from now, within scheduling tolerance
	expected := before.Add(time.Hour).UnixMilli()
	assert.InDelta(t, expected, resp.ExpiresAt, float64(5*time.Second.Milliseconds()))

	stored, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, stored.User.ID)
	assert.Equal(t, resp.ExpiresAt, stored.ExpiresAt)
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "blank_email", email: "   ", password: "secret"},
		{name: "blank_password", email: "alice@example.com", password: ""},
		{name: "both_blank", email: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, store := newTestManager(t, time.Hour)

			resp, err := mgr.Login(context.Background(), &models.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), "validation failed")

			_, err = store.GetSession(context.Background())
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestCheckReturnsCurrentUser(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, time.Hour)

	resp, err := mgr.Login(ctx, &models.LoginRequest{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	user, err := mgr.Check(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, "bob@example.com", user.Email)
}

func TestCheckIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, time.Hour)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	expiryBefore := mgr.ExpirationTime()
	require.NotNil(t, expiryBefore)

	for i := 0; i < 3; i++ {
		user, err := mgr.Check(ctx)
		require.NoError(t, err)
		require.NotNil(t, user)
	}

	// Checking never renews the session
	expiryAfter := mgr.ExpirationTime()
	require.NotNil(t, expiryAfter)
	assert.Equal(t, *expiryBefore, *expiryAfter)
}

func TestCheckWithoutSession(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour)

	user, err := mgr.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCheckClearsExpiredSession(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t, 10*time.Millisecond)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "carol@example.com", Password: "pw"})
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	user, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, mgr.ExpirationTime())
}

func TestCheckRestoresStoredSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(testLogger())

	user := models.NewSessionUser("dave@example.com")
	stored := models.NewSession(user, time.Hour)
	require.NoError(t, store.StoreSession(ctx, stored))

	// Fresh manager simulating a restart
	mgr := session.NewManager(testConfig(time.Hour), store, testLogger(), nil)

	restored, err := mgr.Check(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "dave@example.com", restored.Email)
	assert.Equal(t, "dave", restored.Name)
}

func TestCheckIgnoresExpiredStoredSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(testLogger())

	user := models.NewSessionUser("eve@example.com")
	expired := models.NewSession(user, -time.Minute)
	require.NoError(t, store.StoreSession(ctx, expired))

	mgr := session.NewManager(testConfig(time.Hour), store, testLogger(), nil)

	restored, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)

	// The stale mirror is cleared, not just skipped
	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t, time.Hour)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "frank@example.com", Password: "pw"})
	require.NoError(t, err)

	resp, err := mgr.Logout(ctx)
	require.NoError(t, err)
	assert.True(t, resp.SessionInvalidated)

	user, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogoutWithoutSession(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour)

	resp, err := mgr.Logout(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.SessionInvalidated)
}

func TestExtend(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t, time.Hour)

	login, err := mgr.Login(ctx, &models.LoginRequest{Email: "grace@example.com", Password: "pw"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	resp, err := mgr.Extend(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Extended)
	assert.GreaterOrEqual(t, resp.ExpiresAt, login.ExpiresAt)

	stored, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.ExpiresAt, stored.ExpiresAt)
}

func TestExtendWithoutSession(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour)

	resp, err := mgr.Extend(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Extended)
	assert.Zero(t, resp.ExpiresAt)
}

func TestExtendExpiredSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, 10*time.Millisecond)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "heidi@example.com", Password: "pw"})
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	resp, err := mgr.Extend(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Extended)
}

func TestTimeUntilExpiration(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, time.Hour)

	assert.Nil(t, mgr.TimeUntilExpiration())

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "ivan@example.com", Password: "pw"})
	require.NoError(t, err)

	remaining := mgr.TimeUntilExpiration()
	require.NotNil(t, remaining)
	assert.Greater(t, *remaining, 59*time.Minute)
	assert.LessOrEqual(t, *remaining, time.Hour)
}

func TestHooksCountLoginsAndExpirations(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(testLogger())

	var started, expired int
	hooks := &session.Hooks{
		SessionStarted: func() { started++ },
		SessionExpired: func() { expired++ },
	}
	mgr := session.NewManager(testConfig(10*time.Millisecond), store, testLogger(), hooks)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "judy@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 1, started)
	assert.Zero(t, expired)

	time.Sleep(25 * time.Millisecond)

	user, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, 1, expired)

	// Repeated checks with no session must not count again
	_, err = mgr.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}

func TestHooksCountExpiredStoredSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(testLogger())

	user := models.NewSessionUser("mallory@example.com")
	require.NoError(t, store.StoreSession(ctx, models.NewSession(user, -time.Minute)))

	var expired int
	hooks := &session.Hooks{SessionExpired: func() { expired++ }}
	mgr := session.NewManager(testConfig(time.Hour), store, testLogger(), hooks)

	restored, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Equal(t, 1, expired)
}

func TestLogoutDoesNotCountAsExpiry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(testLogger())

	var expired int
	hooks := &session.Hooks{SessionExpired: func() { expired++ }}
	mgr := session.NewManager(testConfig(time.Hour), store, testLogger(), hooks)

	_, err := mgr.Login(ctx, &models.LoginRequest{Email: "nick@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = mgr.Logout(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestSimulatedLatencyHonorsCancellation(t *testing.T) {
	store := storage.NewMemoryStore(testLogger())
	cfg := testConfig(time.Hour)
	cfg.CheckLatency = 5 * time.Second
	mgr := session.NewManager(cfg, store, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := mgr.Check(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
