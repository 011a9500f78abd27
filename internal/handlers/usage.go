package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/apikeys"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/usage"
)

// UsageHandler exposes the usage dashboard queries. All responses derive
// from the bundled simulated dataset; the period query parameter selects the
// window ("oneDay", "oneWeek" or "thirtyDays", defaulting to "thirtyDays").
type UsageHandler struct {
	usage  *usage.Service
	keys   apikeys.Service
	logger *logrus.Logger
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(usageSvc *usage.Service, keys apikeys.Service, logger *logrus.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usageSvc,
		keys:   keys,
		logger: logger,
	}
}

// Requests handles GET /usage/requests?period=...
func (h *UsageHandler) Requests(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, h.usage.Requests(period))
}

// ResponseTimes handles GET /usage/response-times?period=...
func (h *UsageHandler) ResponseTimes(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, h.usage.ResponseTimes(period))
}

// Stats handles GET /usage/stats?period=... and returns the aggregates of
// the window matching the period.
func (h *UsageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	stats := h.usage.Stats(period)
	writeJSONResponse(h.logger, w, http.StatusOK, &stats)
}

// Summary handles GET /usage/summary. The active key count reflects the
// stored keys; the rest of the summary comes from the simulated dataset.
func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activeKeys, err := h.keys.ActiveCount(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count active api keys")
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	summary := h.usage.Summary(activeKeys)
	writeJSONResponse(h.logger, w, http.StatusOK, &summary)
}

// Endpoints handles GET /usage/endpoints.
func (h *UsageHandler) Endpoints(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{
		"endpoints": h.usage.Endpoints(),
	})
}

// Periods handles GET /usage/periods and lists the selectable windows so the
// dashboard can render its period toggle without hardcoding them.
func (h *UsageHandler) Periods(w http.ResponseWriter, _ *http.Request) {
	type periodInfo struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
		Days        int    `json:"days"`
	}

	periods := make([]periodInfo, 0, len(usage.Periods()))
	for _, p := range usage.Periods() {
		periods = append(periods, periodInfo{
			ID:          string(p),
			Label:       p.Label(),
			Description: p.Description(),
			Days:        p.Days(),
		})
	}

	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{
		"periods": periods,
		"default": string(usage.DefaultPeriod),
	})
}

func (h *UsageHandler) parsePeriod(w http.ResponseWriter, r *http.Request) (usage.Period, bool) {
	period, err := usage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.logger.WithError(err).Warn("Invalid usage period requested")
		writeAPIError(h.logger, w, models.NewValidationError(err.Error()))
		return "", false
	}
	return period, true
}
