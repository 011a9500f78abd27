package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/constants"
	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

const internalServerError = "Internal server error"

func writeJSONResponse(logger *logrus.Logger, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func writeAPIError(logger *logrus.Logger, w http.ResponseWriter, apiErr *models.APIError) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(apiErr.StatusCode)

	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
	}

	logger.WithFields(logrus.Fields{
		"status_code": apiErr.StatusCode,
		"error":       apiErr.Code,
		"description": apiErr.Description,
	}).Warn("Error response sent")
}
