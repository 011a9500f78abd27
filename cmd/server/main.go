// Package main provides the entry point for the sandbox console service.
// It initializes all dependencies, sets up HTTP routes with middleware,
// and starts the server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/apikeys"
	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/handlers"
	"github.com/JavierSanzSaez/zama-technical-test/internal/middleware"
	"github.com/JavierSanzSaez/zama-technical-test/internal/session"
	"github.com/JavierSanzSaez/zama-technical-test/internal/startup"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
	"github.com/JavierSanzSaez/zama-technical-test/internal/usage"
	"github.com/JavierSanzSaez/zama-technical-test/pkg/logger"
)

func main() {
	// Load .env.local only in development (GO_ENV unset or "development")
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(".env.local"); err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: Error loading .env.local file: %v\n", err)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info("Starting Sandbox Console Service")
	log.WithFields(logrus.Fields{
		"port":            cfg.Server.Port,
		"host":            cfg.Server.Host,
		"storage_backend": cfg.Storage.Backend,
		"session_ttl":     cfg.Session.Duration.String(),
	}).Info("Service configuration loaded")

	store, redisClient := initializeStore(cfg, log)
	defer closeStore(store, log)

	healthHandler := handlers.NewHealthHandler(cfg, store, log)
	metrics := healthHandler.Metrics()

	sessionMgr := session.NewManager(&cfg.Session, store, log, &session.Hooks{
		SessionStarted: metrics.SessionLogins.Inc,
		SessionExpired: metrics.SessionExpired.Inc,
	})
	keySvc := apikeys.NewService(store, log)

	usageSvc, err := usage.NewService(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load usage dataset")
	}

	seedSvc := startup.NewSeedService(cfg, keySvc, log)
	if seedErr := seedSvc.SeedAPIKeys(context.Background()); seedErr != nil {
		log.WithError(seedErr).Error("Failed to seed demo api keys during startup")
		// Don't exit, continue with service startup
	}

	server, watcherCancel := setupServer(cfg, redisClient, sessionMgr, keySvc, usageSvc, healthHandler, log)
	defer watcherCancel()

	runServer(server, cfg, log)
}

// initializeStore builds the storage backend named in the configuration.
// A Redis backend that cannot be reached falls back to the file store, and a
// file store that cannot load its document falls back to memory, so the
// console always comes up.
func initializeStore(cfg *config.Config, log *logrus.Logger) (storage.Store, *redis.Client) {
	switch cfg.Storage.Backend {
	case "redis":
		redisStore, err := storage.NewRedisStore(&cfg.Redis, log)
		if err == nil {
			log.Info("Successfully connected to Redis store")
			return redisStore, redisStore.Client()
		}
		log.WithError(err).Warn("Failed to connect to Redis, falling back to file store")
		return storage.NewFileStore(cfg.Storage.FilePath, log), nil
	case "file":
		return storage.NewFileStore(cfg.Storage.FilePath, log), nil
	default:
		log.Warn("Note: In-memory store will not persist data between restarts")
		return storage.NewMemoryStore(log), nil
	}
}

func closeStore(store storage.Store, log *logrus.Logger) {
	if storeErr := store.Close(); storeErr != nil {
		log.WithError(storeErr).Error("Failed to close store connection")
	}
}

func setupServer(
	cfg *config.Config,
	redisClient *redis.Client,
	sessionMgr session.Manager,
	keySvc apikeys.Service,
	usageSvc *usage.Service,
	healthHandler *handlers.HealthHandler,
	log *logrus.Logger,
) (*http.Server, context.CancelFunc) {
	authHandler := handlers.NewAuthHandler(sessionMgr, log)
	keyHandler := handlers.NewAPIKeyHandler(keySvc, log)
	usageHandler := handlers.NewUsageHandler(usageSvc, keySvc, log)

	middlewareStack := middleware.NewStack(cfg, redisClient, healthHandler.Metrics(), log)

	router := mux.NewRouter()

	// API v1 router with /api/v1/console prefix
	apiV1Router := router.PathPrefix("/api/v1/console").Subrouter()

	healthHandler.RegisterRoutes(apiV1Router)

	// Session lifecycle routes
	apiV1Router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	apiV1Router.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	apiV1Router.HandleFunc("/auth/session", authHandler.Session).Methods("GET")
	apiV1Router.HandleFunc("/auth/session/extend", authHandler.Extend).Methods("POST")

	// Protected dashboard routes
	protected := apiV1Router.NewRoute().Subrouter()
	protected.Use(middlewareStack.SessionAuth(sessionMgr))

	protected.HandleFunc("/keys", keyHandler.List).Methods("GET")
	protected.HandleFunc("/keys", keyHandler.Create).Methods("POST")
	protected.HandleFunc("/keys/{id}/revoke", keyHandler.Revoke).Methods("POST")
	protected.HandleFunc("/keys/{id}/regenerate", keyHandler.Regenerate).Methods("POST")
	protected.HandleFunc("/keys/{id}", keyHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/usage/requests", usageHandler.Requests).Methods("GET")
	protected.HandleFunc("/usage/response-times", usageHandler.ResponseTimes).Methods("GET")
	protected.HandleFunc("/usage/stats", usageHandler.Stats).Methods("GET")
	protected.HandleFunc("/usage/summary", usageHandler.Summary).Methods("GET")
	protected.HandleFunc("/usage/endpoints", usageHandler.Endpoints).Methods("GET")
	protected.HandleFunc("/usage/periods", usageHandler.Periods).Methods("GET")

	finalHandler := middlewareStack.Chain(
		router,
		middlewareStack.Recovery,
		middlewareStack.RequestLogger,
		middlewareStack.Metrics,
		middlewareStack.SecurityHeaders,
		middlewareStack.CORS,
		middlewareStack.RateLimit,
		middlewareStack.ContentType,
	)

	// Background sweep that clears the session slot once it expires
	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	sessionMgr.StartExpiryWatcher(watcherCtx)

	return &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, watcherCancel
}

func runServer(server *http.Server, cfg *config.Config, log *logrus.Logger) {
	go startServer(server, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Error("Server forced to shutdown")
	} else {
		log.Info("Server exited gracefully")
	}
}

func startServer(server *http.Server, log *logrus.Logger) {
	log.WithField("addr", server.Addr).Info("Starting HTTP server")

	if startErr := server.ListenAndServe(); startErr != nil && startErr != http.ErrServerClosed {
		log.WithError(startErr).Fatal("Failed to start server")
	}
}
