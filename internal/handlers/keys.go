package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/apikeys"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// APIKeyHandler exposes the simulated API key management endpoints.
type APIKeyHandler struct {
	keys   apikeys.Service
	logger *logrus.Logger
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(keys apikeys.Service, logger *logrus.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		keys:   keys,
		logger: logger,
	}
}

// List handles GET /keys. Keys are returned newest first.
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keys, err := h.keys.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list api keys")
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, &models.APIKeyListResponse{Keys: keys})
}

// Create handles POST /keys.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.Info("Processing api key creation request")

	var req models.CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(h.logger, w, models.NewValidationError("Invalid JSON format"))
		return
	}

	key, err := h.keys.Create(ctx, &req)
	if err != nil {
		h.logger.WithError(err).Warn("API key creation failed")

		if strings.Contains(err.Error(), "validation failed") {
			writeAPIError(h.logger, w, models.NewValidationError(err.Error()))
			return
		}
		writeAPIError(h.logger, w, models.NewServerError(internalServerError))
		return
	}

	writeJSONResponse(h.logger, w, http.StatusCreated, key)
	h.logger.WithFields(logrus.Fields{
		"key_id": key.ID,
		"name":   key.Name,
	}).Info("API key created")
}

// Revoke handles POST /keys/{id}/revoke.
func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	if err := h.keys.Revoke(ctx, id); err != nil {
		h.handleKeyError(w, err, "API key revocation failed")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": models.APIKeyStatusRevoked,
	})
}

// Regenerate handles POST /keys/{id}/regenerate. The key id survives but the
// secret material is replaced and the creation timestamp reset.
func (h *APIKeyHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	key, err := h.keys.Regenerate(ctx, id)
	if err != nil {
		h.handleKeyError(w, err, "API key regeneration failed")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, key)
	h.logger.WithField("key_id", key.ID).Info("API key regenerated")
}

// Delete handles DELETE /keys/{id}. Deleting an unknown id is a no-op.
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	if err := h.keys.Delete(ctx, id); err != nil {
		h.handleKeyError(w, err, "API key deletion failed")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, &models.DeleteAPIKeyResponse{
		Message: "API key deleted",
		Deleted: true,
	})
}

func (h *APIKeyHandler) handleKeyError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.WithError(err).Warn(logMsg)

	if errors.Is(err, apikeys.ErrKeyNotFound) {
		writeAPIError(h.logger, w, models.NewNotFoundError("API key not found"))
		return
	}
	writeAPIError(h.logger, w, models.NewServerError(internalServerError))
}
