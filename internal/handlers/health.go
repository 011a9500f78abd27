package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/config"
	"github.com/JavierSanzSaez/zama-technical-test/internal/constants"
	"github.com/JavierSanzSaez/zama-technical-test/internal/storage"
)

// HealthCheckTimeout bounds each component probe.
const HealthCheckTimeout = 5 * time.Second

// HealthHandler provides health check and monitoring endpoints.
type HealthHandler struct {
	config    *config.Config
	store     storage.Store
	logger    *logrus.Logger
	metrics   *Metrics
	startTime time.Time
}

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	// StatusHealthy indicates the component is healthy.
	StatusHealthy HealthStatus = "healthy"
	// StatusUnhealthy indicates the component is unhealthy.
	StatusUnhealthy HealthStatus = "unhealthy"
	// StatusDegraded indicates the component has degraded performance.
	StatusDegraded HealthStatus = "degraded"
)

// HealthResponse represents the overall health check response.
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Details    map[string]interface{}     `json:"details,omitempty"`
}

// ComponentHealth represents the health of an individual component.
type ComponentHealth struct {
	Status       HealthStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
	LastChecked  time.Time    `json:"last_checked"`
	ResponseTime string       `json:"response_time,omitempty"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Ready      bool                       `json:"ready"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Metrics holds the Prometheus collectors of the console.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SessionLogins  prometheus.Counter
	SessionExpired prometheus.Counter

	StorageOperations *prometheus.CounterVec

	HealthChecksTotal     *prometheus.CounterVec
	ComponentHealthStatus *prometheus.GaugeVec
}

// NewMetrics creates and returns the Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SessionLogins: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_sessions_started_total",
				Help: "Total number of sandbox sessions started",
			},
		),
		SessionExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_sessions_expired_total",
				Help: "Total number of sandbox sessions that expired",
			},
		),
		StorageOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_storage_operations_total",
				Help: "Total number of storage backend operations",
			},
			[]string{"operation", "status"},
		),
		HealthChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"endpoint", "status"},
		),
		ComponentHealthStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "console_component_health_status",
				Help: "Health status of service components (1=healthy, 0=unhealthy)",
			},
			[]string{"component"},
		),
	}
}

// NewHealthHandler creates a new health check handler and registers the
// service metrics.
func NewHealthHandler(cfg *config.Config, store storage.Store, logger *logrus.Logger) *HealthHandler {
	metrics := NewMetrics()
	prometheus.MustRegister(
		metrics.HTTPRequestsTotal,
		metrics.HTTPRequestDuration,
		metrics.SessionLogins,
		metrics.SessionExpired,
		metrics.StorageOperations,
		metrics.HealthChecksTotal,
		metrics.ComponentHealthStatus,
	)

	return &HealthHandler{
		config:    cfg,
		store:     store,
		logger:    logger,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// Metrics returns the registered collectors so the middleware can observe
// requests.
func (h *HealthHandler) Metrics() *Metrics {
	return h.metrics
}

// RegisterRoutes registers health check and monitoring endpoints.
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/live", h.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Readiness).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Health provides a health check covering the storage backend and the
// configuration.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	h.logger.Debug("Processing health check request")

	components := make(map[string]ComponentHealth)
	overallStatus := StatusHealthy

	storageHealth := h.checkStorage(ctx)
	components["storage"] = storageHealth
	if storageHealth.Status != StatusHealthy {
		overallStatus = StatusUnhealthy
	}

	configHealth := h.checkConfiguration()
	components["configuration"] = configHealth
	if configHealth.Status != StatusHealthy && overallStatus == StatusHealthy {
		overallStatus = StatusDegraded
	}

	h.metrics.HealthChecksTotal.WithLabelValues("health", string(overallStatus)).Inc()
	for component, health := range components {
		healthValue := float64(0)
		if health.Status == StatusHealthy {
			healthValue = 1
		}
		h.metrics.ComponentHealthStatus.WithLabelValues(component).Set(healthValue)
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     time.Since(h.startTime).String(),
		Components: components,
		Details: map[string]interface{}{
			"check_duration":  time.Since(start).String(),
			"storage_backend": h.config.Storage.Backend,
		},
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode health response")
	}

	h.logger.WithFields(logrus.Fields{
		"status":   overallStatus,
		"duration": time.Since(start).String(),
	}).Debug("Health check completed")
}

// Liveness returns 200 whenever the process is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	h.metrics.HealthChecksTotal.WithLabelValues("liveness", "healthy").Inc()

	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode liveness response")
	}
}

// Readiness checks if the service is ready to receive traffic, which here
// means the storage backend answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	components := make(map[string]ComponentHealth)

	storageHealth := h.checkStorage(ctx)
	components["storage"] = storageHealth
	ready := storageHealth.Status == StatusHealthy

	statusLabel := "ready"
	statusCode := http.StatusOK
	if !ready {
		statusLabel = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}
	h.metrics.HealthChecksTotal.WithLabelValues("readiness", statusLabel).Inc()

	response := ReadinessResponse{
		Ready:      ready,
		Timestamp:  time.Now(),
		Components: components,
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode readiness response")
	}
}

func (h *HealthHandler) checkStorage(ctx context.Context) ComponentHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	health := ComponentHealth{LastChecked: time.Now()}

	if err := h.store.Ping(checkCtx); err != nil {
		health.Status = StatusUnhealthy
		health.Message = fmt.Sprintf("storage ping failed: %v", err)
		h.metrics.StorageOperations.WithLabelValues("ping", "error").Inc()
	} else {
		health.Status = StatusHealthy
		health.Message = fmt.Sprintf("%s backend responding", h.config.Storage.Backend)
		h.metrics.StorageOperations.WithLabelValues("ping", "success").Inc()
	}

	health.ResponseTime = time.Since(start).String()
	return health
}

func (h *HealthHandler) checkConfiguration() ComponentHealth {
	health := ComponentHealth{
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}

	if err := h.config.Validate(); err != nil {
		health.Status = StatusDegraded
		health.Message = fmt.Sprintf("configuration issue: %v", err)
	}

	return health
}
