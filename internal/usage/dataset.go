package usage

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// The bundled dataset is a generated snapshot of simulated traffic; it is
// the Go rendition of the mock JSON the dashboard shipped with. Regenerate
// it with "consolectl generate".
//
//go:embed data/usage.json
var rawDataset []byte

// LoadDataset parses the bundled mock dataset.
func LoadDataset() (*models.UsageDataset, error) {
	var data models.UsageDataset
	if err := json.Unmarshal(rawDataset, &data); err != nil {
		return nil, fmt.Errorf("failed to parse bundled usage dataset: %w", err)
	}

	if len(data.DailyRequests) == 0 || len(data.HourlyRequests) == 0 {
		return nil, fmt.Errorf("bundled usage dataset is incomplete")
	}

	return &data, nil
}

// Service answers the usage queries of the dashboard from an in-memory
// dataset. Every query re-derives its view from the raw series; nothing is
// cached between period changes.
type Service struct {
	data   *models.UsageDataset
	logger *logrus.Logger
}

// NewService creates a usage service over the bundled dataset.
func NewService(logger *logrus.Logger) (*Service, error) {
	data, err := LoadDataset()
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"daily_samples":  len(data.DailyRequests),
		"hourly_samples": len(data.HourlyRequests),
		"generated_at":   data.GeneratedAt,
	}).Info("Usage dataset loaded")

	return NewServiceWithDataset(data, logger), nil
}

// NewServiceWithDataset creates a usage service over the given dataset.
func NewServiceWithDataset(data *models.UsageDataset, logger *logrus.Logger) *Service {
	return &Service{data: data, logger: logger}
}

// Requests returns the chart-ready request series for the period.
func (s *Service) Requests(period Period) *models.ChartSeriesResponse {
	return &models.ChartSeriesResponse{
		Title:  ChartTitle(ChartKindRequests, period),
		Period: string(period),
		Points: RequestSeries(s.data.DailyRequests, s.data.HourlyRequests, period),
	}
}

// ResponseTimes returns the chart-ready latency series for the period.
func (s *Service) ResponseTimes(period Period) *models.ChartSeriesResponse {
	return &models.ChartSeriesResponse{
		Title:  ChartTitle(ChartKindResponseTime, period),
		Period: string(period),
		Points: ResponseTimeSeries(s.data.HourlyRequests, s.data.ResponseTimes, period),
	}
}

// Stats aggregates the series matching the period's granularity: the hourly
// series for the one-day window, the filtered daily series otherwise.
func (s *Service) Stats(period Period) models.UsageStats {
	if period == PeriodOneDay {
		return Aggregate(s.data.HourlyRequests)
	}
	return Aggregate(FilterByPeriod(s.data.DailyRequests, period))
}

// Endpoints returns the per-endpoint breakdown.
func (s *Service) Endpoints() []models.EndpointUsage {
	return s.data.EndpointUsage
}

// Summary returns the headline stats with the live active-key count filled
// in; the rest of the summary is part of the simulated dataset.
func (s *Service) Summary(activeKeys int) models.SummaryStats {
	summary := s.data.Summary
	summary.ActiveAPIKeys = activeKeys
	return summary
}

// Dataset exposes the raw dataset, used by the CLI.
func (s *Service) Dataset() *models.UsageDataset {
	return s.data
}
